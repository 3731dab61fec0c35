package fx

import (
	"lms-tracker/internal/api"
	"lms-tracker/internal/cache"
	"lms-tracker/internal/config"
	"lms-tracker/internal/database"
	"lms-tracker/internal/logger"
	"lms-tracker/internal/repository"
	"lms-tracker/internal/server"
	"lms-tracker/internal/service"

	"go.uber.org/fx"
)

func ProvideCardCatalog(fetcher cache.CardsFetcher, cfg *config.Config) *cache.CardCatalog {
	return cache.NewCardCatalog(fetcher, cfg.CardCatalogTTL)
}

var Module = fx.Options(
	fx.Provide(logger.New),
	fx.Provide(config.Load),
	fx.Provide(database.New),
	// repos
	fx.Provide(repository.NewSearchRepository),
	fx.Provide(repository.NewSessionRepository),
	// api client
	fx.Provide(func(s *repository.SessionRepository) api.TokenSource { return s }),
	fx.Provide(api.NewClient),
	fx.Provide(func(c *api.Client) service.ReplayFetcher { return c }),
	fx.Provide(func(c *api.Client) service.HistoryFetcher { return c }),
	fx.Provide(func(c *api.Client) service.StatsFetcher { return c }),
	fx.Provide(func(c *api.Client) service.RankingsFetcher { return c }),
	fx.Provide(func(c *api.Client) cache.CardsFetcher { return c }),
	// svc
	fx.Provide(service.NewReplayMerger),
	fx.Provide(service.NewHistoryService),
	fx.Provide(service.NewStatsAggregator),
	fx.Provide(service.NewMatchDetailService),
	fx.Provide(ProvideCardCatalog),
	// server
	fx.Provide(server.NewTrackerServer),
)
