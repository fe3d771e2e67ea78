//go:build wireinject
// +build wireinject

package di

import (
	"PriceBoard/internal/domain/repository"
	"PriceBoard/internal/handler/api"
	"PriceBoard/internal/service/fetcher"
	"PriceBoard/pkg/config"
	"PriceBoard/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		// Infrastructure
		ProvideRedisBus,
		ProvideLogger,
		ProvideMetrics,

		// Data pathways and cache
		ProvideSources,
		ProvideFetcher,
		wire.Bind(new(repository.SeriesFetcher), new(*fetcher.DataFetcher)),

		// Use cases
		ProvideDashboard,
		ProvidePrefetcher,

		// HTTP
		ProvideBoardConfig,
		ProvideRateLimiter,
		api.NewDashboardHandler,
		ProvideHTTPServer,

		// Application
		ProvideApp,
	)
	return &server.App{}, nil
}
