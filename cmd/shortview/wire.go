//go:build wireinject
// +build wireinject

// The build tag makes sure the stub is not built in the final build.

package main

import (
	"go-shortview/internal/config"
	"go-shortview/internal/infra/eventbus"
	"go-shortview/internal/notify"
	"go-shortview/internal/tracking/usecase"

	"github.com/google/wire"
	"go.uber.org/zap"
)

// initApp assembles the server process.
func initApp(*config.Config, *zap.Logger) (*app, func(), error) {
	panic(wire.Build(
		storageSet,
		trackingSet,
		httpSet,
		eventbus.ProviderSet,
		notify.ProviderSet,
		provideSMTPConfig,
		provideSweeper,
		newApp,
	))
}

// initTrackingService assembles the tracking core without the bus.
func initTrackingService(*config.Config, *zap.Logger) (*usecase.TrackingService, func(), error) {
	panic(wire.Build(
		storageSet,
		trackingSet,
		provideNoDispatcher,
	))
}
