package service

import (
	"context"
	"fmt"

	"lms-tracker/internal/domain"
	"lms-tracker/internal/format"

	"github.com/rs/zerolog"
)

type SideView struct {
	Player    string   `json:"player"`
	Faction   string   `json:"faction"`
	Character string   `json:"character"`
	Cards     []string `json:"cards"`
}

type RoundView struct {
	RoundNo int      `json:"roundNo"`
	Winner  string   `json:"winner"`
	Player1 SideView `json:"player1"`
	Player2 SideView `json:"player2"`
}

// MatchDetailView is the round-by-round replay of one match. An empty
// Rounds list means the match has no recorded rounds yet.
type MatchDetailView struct {
	MatchID int64       `json:"matchId"`
	Player1 string      `json:"player1,omitempty"`
	Player2 string      `json:"player2,omitempty"`
	Rounds  []RoundView `json:"rounds"`
}

type MatchDetailService struct {
	fetcher ReplayFetcher
	logger  zerolog.Logger
}

func NewMatchDetailService(fetcher ReplayFetcher, logger zerolog.Logger) *MatchDetailService {
	return &MatchDetailService{fetcher: fetcher, logger: logger}
}

func (s *MatchDetailService) GetMatch(ctx context.Context, matchID int64) (*MatchDetailView, error) {
	rounds, err := s.fetcher.FetchReplay(ctx, matchID)
	if err != nil {
		s.logger.Error().Err(err).Int64("match_id", matchID).Msg("failed to fetch replay")
		return nil, fmt.Errorf("failed to load replay for match %d: %w", matchID, err)
	}

	view := &MatchDetailView{MatchID: matchID, Rounds: make([]RoundView, 0, len(rounds))}
	for _, round := range rounds {
		rv := RoundView{
			RoundNo: round.RoundNo,
			Winner:  round.RoundWinner.Username,
			Player1: SideView{
				Faction:   format.FactionName(round.P1Faction),
				Character: format.CharacterName(round.P1Character),
				Cards:     cardNames(round.P1Cards),
			},
			Player2: SideView{
				Faction:   format.FactionName(round.P2Faction),
				Character: format.CharacterName(round.P2Character),
				Cards:     cardNames(round.P2Cards),
			},
		}
		if round.Game != nil {
			rv.Player1.Player = round.Game.Player1.Username
			rv.Player2.Player = round.Game.Player2.Username
			if view.Player1 == "" {
				view.Player1 = round.Game.Player1.Username
				view.Player2 = round.Game.Player2.Username
			}
		}
		view.Rounds = append(view.Rounds, rv)
	}

	s.logger.Debug().Int64("match_id", matchID).Int("rounds", len(view.Rounds)).Msg("replay loaded")
	return view, nil
}

func cardNames(cards []domain.Card) []string {
	names := make([]string, 0, len(cards))
	for _, card := range cards {
		names = append(names, card.Name)
	}
	return names
}
