package service

import (
	"context"
	"fmt"

	"lms-tracker/internal/constants"
	"lms-tracker/internal/domain"
	"lms-tracker/internal/format"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// StatsFetcher is the slice of the backend client the aggregator needs.
type StatsFetcher interface {
	FetchOverallStats(ctx context.Context, username string) (*domain.OverallStats, error)
	FetchCardStats(ctx context.Context, username string) ([]domain.CategoryStat, error)
	FetchCharacterStats(ctx context.Context, username string) ([]domain.CategoryStat, error)
	FetchFactionStats(ctx context.Context, username string) ([]domain.CategoryStat, error)
}

type RankingsFetcher interface {
	FetchRankings(ctx context.Context) ([]domain.Player, error)
}

// PlayerProfile is the unified statistics view for one player.
type PlayerProfile struct {
	Username       string                `json:"username"`
	Overall        domain.OverallStats   `json:"overall"`
	WinRatePercent int                   `json:"winRatePercent"`
	Tier           domain.Tier           `json:"tier"`
	Rank           int                   `json:"rank"` // 0 when not ranked
	TotalPlayers   int                   `json:"totalPlayers"`
	BestFaction    *domain.CategoryStat  `json:"bestFaction,omitempty"`
	BestCharacter  *domain.CategoryStat  `json:"bestCharacter,omitempty"`
	TopCards       []domain.CategoryStat `json:"topCards"`
	FactionStats   []domain.CategoryStat `json:"factionStats"`
	CharacterStats []domain.CategoryStat `json:"characterStats"`
}

type StatsAggregator struct {
	stats    StatsFetcher
	rankings RankingsFetcher
	logger   zerolog.Logger
}

func NewStatsAggregator(stats StatsFetcher, rankings RankingsFetcher, logger zerolog.Logger) *StatsAggregator {
	return &StatsAggregator{stats: stats, rankings: rankings, logger: logger}
}

// BuildProfile issues the four statistic fetches and the rankings fetch
// concurrently and joins them once all complete. Unlike the replay batch
// these are single aggregate calls, so any one failure fails the whole
// profile load.
func (a *StatsAggregator) BuildProfile(ctx context.Context, username string) (*PlayerProfile, error) {
	g, gCtx := errgroup.WithContext(ctx)

	var overall *domain.OverallStats
	var cardStats, characterStats, factionStats []domain.CategoryStat
	var rankings []domain.Player

	g.Go(func() error {
		var err error
		overall, err = a.stats.FetchOverallStats(gCtx, username)
		return err
	})
	g.Go(func() error {
		var err error
		cardStats, err = a.stats.FetchCardStats(gCtx, username)
		return err
	})
	g.Go(func() error {
		var err error
		characterStats, err = a.stats.FetchCharacterStats(gCtx, username)
		return err
	})
	g.Go(func() error {
		var err error
		factionStats, err = a.stats.FetchFactionStats(gCtx, username)
		return err
	})
	g.Go(func() error {
		var err error
		rankings, err = a.rankings.FetchRankings(gCtx)
		return err
	})

	if err := g.Wait(); err != nil {
		a.logger.Error().Err(err).Str("username", username).Msg("failed to build player profile")
		return nil, fmt.Errorf("failed to load statistics for %s: %w", username, err)
	}

	profile := &PlayerProfile{
		Username:       username,
		Overall:        *overall,
		WinRatePercent: format.WinRatePercent(overall.WinRate),
		Tier:           TierFor(overall.WinRate),
		Rank:           rankOf(rankings, username),
		TotalPlayers:   len(rankings),
		TopCards:       prefix(cardStats, constants.TopCardLimit),
		FactionStats:   factionStats,
		CharacterStats: characterStats,
	}

	// The feeds arrive pre-sorted by the provider; best = first entry.
	if len(factionStats) > 0 {
		profile.BestFaction = &factionStats[0]
	}
	if len(characterStats) > 0 {
		profile.BestCharacter = &characterStats[0]
	}

	return profile, nil
}

type RankingRow struct {
	Rank     int    `json:"rank"`
	Username string `json:"username"`
	Score    int    `json:"score"`
}

type RankingsView struct {
	Players []RankingRow `json:"players"`
}

// GetRankings returns the leaderboard in provider order with 1-based
// positions attached. Ties keep provider order.
func (a *StatsAggregator) GetRankings(ctx context.Context) (*RankingsView, error) {
	rankings, err := a.rankings.FetchRankings(ctx)
	if err != nil {
		a.logger.Error().Err(err).Msg("failed to fetch rankings")
		return nil, fmt.Errorf("failed to load rankings: %w", err)
	}

	view := &RankingsView{Players: make([]RankingRow, 0, len(rankings))}
	for i, player := range rankings {
		view.Players = append(view.Players, RankingRow{
			Rank:     i + 1,
			Username: player.Username,
			Score:    player.Score,
		})
	}
	return view, nil
}

// TierFor maps an aggregate win rate to its tier. Lower bounds are
// inclusive.
func TierFor(winRate float64) domain.Tier {
	switch {
	case winRate >= 70:
		return domain.Tier{Name: "Archmage", Level: 4}
	case winRate >= 60:
		return domain.Tier{Name: "Wizard", Level: 3}
	case winRate >= 50:
		return domain.Tier{Name: "Mage", Level: 2}
	default:
		return domain.Tier{Name: "Apprentice", Level: 1}
	}
}

// rankOf returns the 1-based position of username in the provider-ordered
// rankings, or 0 when absent. Equal scores keep provider order.
func rankOf(rankings []domain.Player, username string) int {
	for i, player := range rankings {
		if player.Username == username {
			return i + 1
		}
	}
	return 0
}

func prefix(stats []domain.CategoryStat, n int) []domain.CategoryStat {
	if len(stats) > n {
		return stats[:n]
	}
	return stats
}
