package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-core-fx/config"
)

type http struct {
	Address     string   `koanf:"address"`
	ProxyHeader string   `koanf:"proxy_header"`
	Proxies     []string `koanf:"proxies"`
}

type storageConfig struct {
	DataDir string `koanf:"data_dir"`
}

type workspaceConfig struct {
	Root string `koanf:"root"`
}

type gitConfig struct {
	Binary       string        `koanf:"binary"`
	ShortTimeout time.Duration `koanf:"short_timeout"`
	LongTimeout  time.Duration `koanf:"long_timeout"`
}

type githubConfig struct {
	APIBaseURL     string        `koanf:"api_base_url"`
	DeviceCodeURL  string        `koanf:"device_code_url"`
	AccessTokenURL string        `koanf:"access_token_url"`
	HTTPTimeout    time.Duration `koanf:"http_timeout"`
}

type Config struct {
	HTTP http `koanf:"http"`

	Storage   storageConfig   `koanf:"storage"`
	Workspace workspaceConfig `koanf:"workspace"`
	Git       gitConfig       `koanf:"git"`
	GitHub    githubConfig    `koanf:"github"`
}

func Default() Config {
	//nolint:exhaustruct,mnd //default values
	return Config{
		HTTP: http{
			Address:     "127.0.0.1:3000",
			ProxyHeader: "X-Forwarded-For",
			Proxies:     []string{},
		},

		Storage: storageConfig{
			DataDir: "./data",
		},

		Workspace: workspaceConfig{
			Root: "./config",
		},

		Git: gitConfig{
			Binary:       "git",
			ShortTimeout: 30 * time.Second,
			LongTimeout:  300 * time.Second,
		},

		GitHub: githubConfig{
			HTTPTimeout: 15 * time.Second,
		},
	}
}

func New() (Config, error) {
	cfg := Default()

	options := []config.Option{}
	if yamlPath := os.Getenv("CONFIG_PATH"); yamlPath != "" {
		options = append(options, config.WithLocalYAML(yamlPath))
	}

	if err := config.Load(&cfg, options...); err != nil {
		return Config{}, fmt.Errorf("failed to load config: %w", err)
	}

	return cfg, nil
}
