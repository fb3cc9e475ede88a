//go:build wireinject
// +build wireinject

package di

import (
	"AlphaLabs/pkg/config"
	"AlphaLabs/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		// Ambient
		ProvideLogger,
		ProvideMetrics,
		ProvideLimiter,

		// Infrastructure
		ProvideKVStore,
		ProvideEventArchive,
		ProvidePublisher,

		// Feed adapters
		ProvideCalendarFeed,
		ProvideRateFeed,
		ProvideNewsFeed,
		ProvideScheduleFeed,

		// Retention
		ProvideSpeechesStore,
		ProvideScheduleStore,

		// Use cases
		ProvideNewsSource,
		ProvideScheduleSource,
		ProvideEventAggregator,
		ProvideStrengthService,

		// HTTP
		ProvideHandler,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
