package config

import (
	"github.com/go-core-fx/fiberfx"
	"go.uber.org/fx"

	"github.com/blueprintstudio/blueprintstudio/internal/github"
	"github.com/blueprintstudio/blueprintstudio/internal/gitops"
	"github.com/blueprintstudio/blueprintstudio/internal/workspace"
	"github.com/blueprintstudio/blueprintstudio/pkg/badgerfx"
)

func Module() fx.Option {
	return fx.Module(
		"config",
		fx.Provide(New),
		fx.Provide(func(cfg Config) fiberfx.Config {
			return fiberfx.Config{
				Address:     cfg.HTTP.Address,
				ProxyHeader: cfg.HTTP.ProxyHeader,
				Proxies:     cfg.HTTP.Proxies,
			}
		}),
		fx.Provide(func(cfg Config) badgerfx.Config {
			return badgerfx.Config{
				Dir: cfg.Storage.DataDir,
			}
		}),
		fx.Provide(func(cfg Config) workspace.Config {
			return workspace.Config{
				Root: cfg.Workspace.Root,
			}
		}),
		fx.Provide(func(cfg Config) gitops.Config {
			return gitops.Config{
				Binary:       cfg.Git.Binary,
				ShortTimeout: cfg.Git.ShortTimeout,
				LongTimeout:  cfg.Git.LongTimeout,
			}
		}),
		fx.Provide(func(cfg Config) github.Config {
			return github.Config{
				APIBaseURL:     cfg.GitHub.APIBaseURL,
				DeviceCodeURL:  cfg.GitHub.DeviceCodeURL,
				AccessTokenURL: cfg.GitHub.AccessTokenURL,
				HTTPTimeout:    cfg.GitHub.HTTPTimeout,
			}
		}),
	)
}
