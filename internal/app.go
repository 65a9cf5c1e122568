package internal

import (
	"context"

	"github.com/capcom6/go-infra-fx/validator"
	"github.com/go-core-fx/fiberfx"
	"github.com/go-core-fx/healthfx"
	"github.com/go-core-fx/logger"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/blueprintstudio/blueprintstudio/internal/assist"
	"github.com/blueprintstudio/blueprintstudio/internal/config"
	"github.com/blueprintstudio/blueprintstudio/internal/files"
	"github.com/blueprintstudio/blueprintstudio/internal/github"
	"github.com/blueprintstudio/blueprintstudio/internal/gitops"
	"github.com/blueprintstudio/blueprintstudio/internal/server"
	"github.com/blueprintstudio/blueprintstudio/internal/settings"
	"github.com/blueprintstudio/blueprintstudio/internal/workspace"
	"github.com/blueprintstudio/blueprintstudio/pkg/badgerfx"
)

func Run() {
	fx.New(
		// CORE MODULES
		logger.Module(),
		logger.WithFxDefaultLogger(),
		badgerfx.Module(),
		healthfx.Module(),
		fiberfx.Module(),
		validator.Module,
		//
		// APP MODULES
		config.Module(),
		server.Module(),
		workspace.Module(),
		settings.Module(),
		//
		// BUSINESS MODULES
		fx.Provide(func() healthfx.Version { return healthfx.Version{Version: "0.0.1", ReleaseID: 1} }),
		gitops.Module(),
		github.Module(),
		files.Module(),
		assist.Module(),
		//
		// LIFECYCLE MANAGEMENT
		fx.Invoke(func(lc fx.Lifecycle, logger *zap.Logger) {
			lc.Append(fx.Hook{
				OnStart: func(_ context.Context) error {
					logger.Info("🚀 Blueprint Studio starting up")
					return nil
				},
				OnStop: func(_ context.Context) error {
					logger.Info("🛑 Blueprint Studio shutting down gracefully")
					return nil
				},
			})
		}),
	).Run()
}
