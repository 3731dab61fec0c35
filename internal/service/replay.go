package service

import (
	"context"

	"lms-tracker/internal/constants"
	"lms-tracker/internal/domain"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// ReplayFetcher is the slice of the backend client the merger needs.
type ReplayFetcher interface {
	FetchReplay(ctx context.Context, matchID int64) ([]domain.Round, error)
}

// MatchSides is the merged replay digest for both sides of one match.
type MatchSides struct {
	Self     domain.MatchSummary `json:"self"`
	Opponent domain.MatchSummary `json:"opponent"`
}

// noReplaySummary is the defined fallback for a match whose replay could
// not be fetched or has no rounds yet.
func noReplaySummary() domain.MatchSummary {
	return domain.MatchSummary{
		Faction:   "Unknown",
		Character: "Unknown",
		Cards:     []string{"No data"},
	}
}

type ReplayMerger struct {
	fetcher ReplayFetcher
	logger  zerolog.Logger
}

func NewReplayMerger(fetcher ReplayFetcher, logger zerolog.Logger) *ReplayMerger {
	return &ReplayMerger{fetcher: fetcher, logger: logger}
}

// MergeReplays fetches replays for at most the first RecentMatchLimit
// matches concurrently and folds each one into per-side summaries. A
// failed fetch is isolated to its match: that entry gets the fallback
// summary and the rest of the batch is unaffected. Matches where the
// subject cannot be resolved to a side are omitted from the result.
func (m *ReplayMerger) MergeReplays(ctx context.Context, matches []domain.Match, subject string) map[int64]MatchSides {
	if len(matches) > constants.RecentMatchLimit {
		matches = matches[:constants.RecentMatchLimit]
	}

	type entry struct {
		matchID int64
		sides   MatchSides
		ok      bool
	}

	results := make([]entry, len(matches))

	// Settle-all fan-out: every task catches its own failure, so the
	// group never cancels siblings.
	var g errgroup.Group
	for i, match := range matches {
		g.Go(func() error {
			perspective, err := ResolvePerspective(match, subject)
			if err != nil {
				m.logger.Warn().Err(err).Int64("match_id", match.ID).Str("subject", subject).Msg("cannot resolve match side, skipping replay merge")
				return nil
			}

			rounds, err := m.fetcher.FetchReplay(ctx, match.ID)
			if err != nil {
				m.logger.Warn().Err(err).Int64("match_id", match.ID).Msg("replay fetch failed, using fallback summary")
				results[i] = entry{matchID: match.ID, sides: MatchSides{Self: noReplaySummary(), Opponent: noReplaySummary()}, ok: true}
				return nil
			}

			results[i] = entry{
				matchID: match.ID,
				sides: MatchSides{
					Self:     summarizeSide(rounds, perspective.IsSelfPlayer1),
					Opponent: summarizeSide(rounds, !perspective.IsSelfPlayer1),
				},
				ok: true,
			}
			return nil
		})
	}
	// Tasks never return errors; Wait is only the settle barrier.
	_ = g.Wait()

	merged := make(map[int64]MatchSides, len(results))
	for _, r := range results {
		if r.ok {
			merged[r.matchID] = r.sides
		}
	}
	return merged
}

// summarizeSide folds a match's rounds into one side's summary. Faction
// and character come from the first round only; selections are stable for
// the duration of a match. Cards are the union across all rounds,
// deduplicated by name in first-seen order and capped for display.
func summarizeSide(rounds []domain.Round, player1 bool) domain.MatchSummary {
	if len(rounds) == 0 {
		return noReplaySummary()
	}

	first := rounds[0]
	faction := first.P1Faction
	character := first.P1Character
	if !player1 {
		faction = first.P2Faction
		character = first.P2Character
	}
	if faction == "" {
		faction = "Unknown"
	}
	if character == "" {
		character = "Unknown"
	}

	seen := make(map[string]struct{})
	cards := make([]string, 0, constants.CardDisplayLimit)
	for _, round := range rounds {
		played := round.P1Cards
		if !player1 {
			played = round.P2Cards
		}
		for _, card := range played {
			if _, dup := seen[card.Name]; dup {
				continue
			}
			seen[card.Name] = struct{}{}
			if len(cards) < constants.CardDisplayLimit {
				cards = append(cards, card.Name)
			}
		}
	}

	return domain.MatchSummary{Faction: faction, Character: character, Cards: cards}
}
