package assist

import (
	"github.com/go-core-fx/logger"
	"go.uber.org/fx"
)

func Module() fx.Option {
	return fx.Module(
		"assist",
		logger.WithNamedLogger("assist"),
		fx.Provide(NewService),
	)
}
