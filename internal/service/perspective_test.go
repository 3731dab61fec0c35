package service

import (
	"testing"

	"lms-tracker/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	alice = domain.Player{ID: 1, Username: "alice", Score: 80}
	bob   = domain.Player{ID: 2, Username: "bob", Score: 100}
)

func finishedMatch(winner *domain.Player) domain.Match {
	return domain.Match{
		ID:          42,
		Player1:     alice,
		Player2:     bob,
		Finished:    true,
		Winner:      winner,
		Player1Wins: 3,
		Player2Wins: 1,
	}
}

func TestResolvePerspectiveWin(t *testing.T) {
	p, err := ResolvePerspective(finishedMatch(&alice), "alice")
	require.NoError(t, err)

	assert.Equal(t, domain.OutcomeWin, p.Outcome)
	assert.Equal(t, "alice", p.Self.Username)
	assert.Equal(t, "bob", p.Opponent.Username)
	assert.True(t, p.IsSelfPlayer1)
	assert.Equal(t, 3, p.SelfWins)
	assert.Equal(t, 1, p.OpponentWins)
}

func TestResolvePerspectiveLoss(t *testing.T) {
	p, err := ResolvePerspective(finishedMatch(&alice), "bob")
	require.NoError(t, err)

	assert.Equal(t, domain.OutcomeLoss, p.Outcome)
	assert.Equal(t, "bob", p.Self.Username)
	assert.Equal(t, "alice", p.Opponent.Username)
	assert.False(t, p.IsSelfPlayer1)
}

func TestResolvePerspectiveScoreIsSelfFirst(t *testing.T) {
	// bob is player2; his round wins must come first in his own view.
	p, err := ResolvePerspective(finishedMatch(&alice), "bob")
	require.NoError(t, err)

	assert.Equal(t, 1, p.SelfWins)
	assert.Equal(t, 3, p.OpponentWins)
}

func TestResolvePerspectiveUnfinishedIsOngoing(t *testing.T) {
	match := finishedMatch(&alice)
	match.Finished = false
	// A stale winner field must not leak through while the match is
	// unfinished.
	p, err := ResolvePerspective(match, "alice")
	require.NoError(t, err)

	assert.Equal(t, domain.OutcomeOngoing, p.Outcome)
}

func TestResolvePerspectiveNilWinnerIsLoss(t *testing.T) {
	p, err := ResolvePerspective(finishedMatch(nil), "alice")
	require.NoError(t, err)

	assert.Equal(t, domain.OutcomeLoss, p.Outcome)
}

func TestResolvePerspectiveSubjectNotInMatch(t *testing.T) {
	_, err := ResolvePerspective(finishedMatch(&alice), "mallory")
	require.ErrorIs(t, err, ErrSubjectNotInMatch)
}

func TestResolvePerspectiveCaseSensitive(t *testing.T) {
	_, err := ResolvePerspective(finishedMatch(&alice), "Alice")
	require.ErrorIs(t, err, ErrSubjectNotInMatch)
}

func TestResolvePerspectiveSidesArePartition(t *testing.T) {
	match := finishedMatch(&bob)
	for _, subject := range []string{"alice", "bob"} {
		p, err := ResolvePerspective(match, subject)
		require.NoError(t, err)

		assert.NotEqual(t, p.Self.Username, p.Opponent.Username)
		got := map[string]bool{p.Self.Username: true, p.Opponent.Username: true}
		assert.True(t, got["alice"])
		assert.True(t, got["bob"])
	}
}
