//go:build wireinject
// +build wireinject

package di

import (
	"NavPull/pkg/config"
	"NavPull/pkg/server"

	"github.com/google/wire"
)

func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		ProvideLogger,
		ProvideMetrics,
		ProvideCache,
		ProvideHoldingsStore,
		ProvideSnapshotStore,
		ProvideReferenceStore,
		ProvideNotifier,
		ProvideLimiter,
		ProvideQuoteClient,
		ProvideProducer,
		ProvideAlertPublisher,
		ProvideRegistry,
		ProvidePriceBook,
		ProvideEvaluator,
		ProvideTracker,
		ProvideStreamUpdater,
		ProvideHandler,
		ProvideServer,
		server.NewApp,
	)
	return nil, nil
}
