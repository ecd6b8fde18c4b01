//go:build wireinject
// +build wireinject

package di

import (
	"btcmag7/pkg/config"
	"btcmag7/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, func(), error) {
	wire.Build(
		ProvideLogger,
		ProvideMetrics,
		ProvideParams,

		// Repositories
		ProvideRecordSource,
		ProvideSnapshotStore,

		// Use cases
		ProvideResolver,
		ProvideChartUseCase,

		// Transport
		ProvideChartHandler,
		ProvideHTTPServer,

		ProvideApp,
	)
	return nil, nil, nil
}
