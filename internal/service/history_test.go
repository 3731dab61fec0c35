package service

import (
	"context"
	"fmt"
	"testing"

	"lms-tracker/internal/domain"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeHistoryFetcher struct {
	matches []domain.Match
	fail    bool
}

func (f *fakeHistoryFetcher) FetchHistory(context.Context, string) ([]domain.Match, error) {
	if f.fail {
		return nil, fmt.Errorf("backend API error: 500")
	}
	return f.matches, nil
}

func TestGetHistoryResolvesPerspective(t *testing.T) {
	carol := domain.Player{ID: 3, Username: "carol", Score: 50}
	fetcher := &fakeHistoryFetcher{matches: []domain.Match{
		{ID: 1, Player1: alice, Player2: bob, Finished: true, Winner: &alice, Player1Wins: 3, Player2Wins: 1},
		{ID: 2, Player1: bob, Player2: alice, Finished: false, Player1Wins: 1, Player2Wins: 1},
		// alice plays neither side; the record must be excluded, not
		// attributed to a default player.
		{ID: 3, Player1: bob, Player2: carol, Finished: true, Winner: &carol},
	}}

	svc := NewHistoryService(fetcher, newMerger(&fakeReplayFetcher{}), zerolog.Nop())
	view, err := svc.GetHistory(context.Background(), "alice")
	require.NoError(t, err)

	require.Len(t, view.Matches, 2)
	assert.Equal(t, 1, view.Excluded)

	assert.Equal(t, "win", view.Matches[0].Result)
	assert.Equal(t, "bob", view.Matches[0].Opponent)
	assert.Equal(t, 3, view.Matches[0].SelfWins)

	assert.Equal(t, "ongoing", view.Matches[1].Result)
	assert.Equal(t, "bob", view.Matches[1].Opponent)
}

func TestGetHistoryEmptyIsValid(t *testing.T) {
	svc := NewHistoryService(&fakeHistoryFetcher{}, newMerger(&fakeReplayFetcher{}), zerolog.Nop())
	view, err := svc.GetHistory(context.Background(), "alice")
	require.NoError(t, err)

	assert.Empty(t, view.Matches)
	assert.Zero(t, view.Excluded)
}

func TestGetHistoryFetchFailure(t *testing.T) {
	svc := NewHistoryService(&fakeHistoryFetcher{fail: true}, newMerger(&fakeReplayFetcher{}), zerolog.Nop())
	_, err := svc.GetHistory(context.Background(), "alice")
	require.Error(t, err)
}

func TestGetRecentMatchesMergesAndFormats(t *testing.T) {
	history := &fakeHistoryFetcher{matches: []domain.Match{
		{ID: 1, Player1: alice, Player2: bob, Finished: true, Winner: &bob, Player1Wins: 1, Player2Wins: 3},
		{ID: 2, Player1: alice, Player2: bob, Finished: true, Winner: &alice, Player1Wins: 3, Player2Wins: 0},
	}}
	replays := &fakeReplayFetcher{
		replays: map[int64][]domain.Round{
			1: {{
				RoundNo: 1, P1Faction: "MAGOS", P2Faction: "VERTA",
				P1Character: "KIM", P2Character: "HYTTY",
				P1Cards: cards("Fireball"),
			}},
		},
		fail: map[int64]bool{2: true},
	}

	svc := NewHistoryService(history, newMerger(replays), zerolog.Nop())
	recent, excluded, err := svc.GetRecentMatches(context.Background(), "alice")
	require.NoError(t, err)
	assert.Zero(t, excluded)
	require.Len(t, recent, 2)

	// Display names, not internal codes.
	assert.Equal(t, "Magos", recent[0].Self.Faction)
	assert.Equal(t, "Kim", recent[0].Self.Character)
	assert.Equal(t, "Verta", recent[0].Opponent.Faction)
	assert.Equal(t, []string{"Fireball"}, recent[0].Self.Cards)
	assert.Equal(t, "loss", recent[0].Result)
	assert.Equal(t, 1, recent[0].SelfWins)
	assert.Equal(t, 3, recent[0].OpponentWins)

	// The failed replay degrades to the fallback summary without
	// touching its siblings.
	assert.Equal(t, "Unknown", recent[1].Self.Faction)
	assert.Equal(t, []string{"No data"}, recent[1].Self.Cards)
	assert.Equal(t, "win", recent[1].Result)
}
