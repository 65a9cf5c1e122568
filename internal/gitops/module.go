package gitops

import (
	"github.com/go-core-fx/logger"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/blueprintstudio/blueprintstudio/internal/settings"
	"github.com/blueprintstudio/blueprintstudio/internal/workspace"
)

func Module() fx.Option {
	return fx.Module(
		"gitops",
		logger.WithNamedLogger("gitops"),
		fx.Provide(func(store *settings.Store, ws *workspace.Workspace, log *zap.Logger) *Vault {
			return NewVault(store, ws.Root(), log)
		}),
		fx.Provide(func(config Config, ws *workspace.Workspace, vault *Vault, log *zap.Logger) Runner {
			return NewExecRunner(config, ws.Root(), vault, log)
		}),
		fx.Provide(NewService),
	)
}
