package service

import (
	"context"
	"errors"
	"fmt"

	"lms-tracker/internal/constants"
	"lms-tracker/internal/domain"
	"lms-tracker/internal/format"

	"github.com/rs/zerolog"
)

type HistoryFetcher interface {
	FetchHistory(ctx context.Context, username string) ([]domain.Match, error)
}

// MatchRow is one entry in a player's match history, already resolved to
// the subject's perspective. The round-win pair is self-first.
type MatchRow struct {
	MatchID      int64  `json:"matchId"`
	Opponent     string `json:"opponent"`
	Result       string `json:"result"`
	Finished     bool   `json:"finished"`
	SelfWins     int    `json:"selfWins"`
	OpponentWins int    `json:"opponentWins"`
}

type HistoryView struct {
	Username string     `json:"username"`
	Matches  []MatchRow `json:"matches"`

	// Excluded counts records the subject could not be resolved against
	// (data-integrity errors). They are dropped, never mis-attributed.
	Excluded int `json:"excluded,omitempty"`
}

// RecentMatch is a history row enriched with merged replay summaries for
// both sides, formatted for display.
type RecentMatch struct {
	MatchRow
	Self     SummaryView `json:"self"`
	Opponent SummaryView `json:"opponentSummary"`
}

type SummaryView struct {
	Faction   string   `json:"faction"`
	Character string   `json:"character"`
	Cards     []string `json:"cards"`
}

type HistoryService struct {
	fetcher HistoryFetcher
	merger  *ReplayMerger
	logger  zerolog.Logger
}

func NewHistoryService(fetcher HistoryFetcher, merger *ReplayMerger, logger zerolog.Logger) *HistoryService {
	return &HistoryService{fetcher: fetcher, merger: merger, logger: logger}
}

// GetHistory returns the full match list from the subject's perspective.
// No replay data is attached; an empty history is a valid empty state.
func (s *HistoryService) GetHistory(ctx context.Context, username string) (*HistoryView, error) {
	matches, err := s.fetcher.FetchHistory(ctx, username)
	if err != nil {
		s.logger.Error().Err(err).Str("username", username).Msg("failed to fetch match history")
		return nil, fmt.Errorf("failed to load match history for %s: %w", username, err)
	}

	view := &HistoryView{Username: username, Matches: make([]MatchRow, 0, len(matches))}
	for _, match := range matches {
		perspective, err := ResolvePerspective(match, username)
		if err != nil {
			if errors.Is(err, ErrSubjectNotInMatch) {
				s.logger.Warn().Int64("match_id", match.ID).Str("username", username).Msg("excluding match with unresolvable perspective")
				view.Excluded++
				continue
			}
			return nil, err
		}
		view.Matches = append(view.Matches, matchRow(match, perspective))
	}

	s.logger.Info().Str("username", username).Int("matches", len(view.Matches)).Int("excluded", view.Excluded).Msg("match history loaded")
	return view, nil
}

// GetRecentMatches returns up to RecentMatchLimit matches with merged
// replay summaries for both sides. Replay failures degrade per match; see
// ReplayMerger.
func (s *HistoryService) GetRecentMatches(ctx context.Context, username string) ([]RecentMatch, int, error) {
	matches, err := s.fetcher.FetchHistory(ctx, username)
	if err != nil {
		s.logger.Error().Err(err).Str("username", username).Msg("failed to fetch match history")
		return nil, 0, fmt.Errorf("failed to load match history for %s: %w", username, err)
	}

	if len(matches) > constants.RecentMatchLimit {
		matches = matches[:constants.RecentMatchLimit]
	}

	merged := s.merger.MergeReplays(ctx, matches, username)

	recent := make([]RecentMatch, 0, len(matches))
	excluded := 0
	for _, match := range matches {
		perspective, err := ResolvePerspective(match, username)
		if err != nil {
			excluded++
			continue
		}
		sides, ok := merged[match.ID]
		if !ok {
			sides = MatchSides{Self: noReplaySummary(), Opponent: noReplaySummary()}
		}
		recent = append(recent, RecentMatch{
			MatchRow: matchRow(match, perspective),
			Self:     summaryView(sides.Self),
			Opponent: summaryView(sides.Opponent),
		})
	}

	return recent, excluded, nil
}

func matchRow(match domain.Match, p domain.Perspective) MatchRow {
	return MatchRow{
		MatchID:      match.ID,
		Opponent:     p.Opponent.Username,
		Result:       p.Outcome.String(),
		Finished:     match.Finished,
		SelfWins:     p.SelfWins,
		OpponentWins: p.OpponentWins,
	}
}

func summaryView(s domain.MatchSummary) SummaryView {
	return SummaryView{
		Faction:   format.FactionName(s.Faction),
		Character: format.CharacterName(s.Character),
		Cards:     s.Cards,
	}
}
