package files

import (
	"github.com/go-core-fx/logger"
	"go.uber.org/fx"
)

func Module() fx.Option {
	return fx.Module(
		"files",
		logger.WithNamedLogger("files"),
		fx.Provide(NewService),
	)
}
