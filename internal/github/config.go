package github

import "time"

type Config struct {
	// APIBaseURL overrides the REST API endpoint, used by tests.
	APIBaseURL string
	// DeviceCodeURL is the device authorization endpoint.
	DeviceCodeURL string
	// AccessTokenURL is the token endpoint polled during the device flow.
	AccessTokenURL string
	// HTTPTimeout bounds device flow requests.
	HTTPTimeout time.Duration
}

func (c Config) withDefaults() Config {
	if c.DeviceCodeURL == "" {
		c.DeviceCodeURL = "https://github.com/login/device/code"
	}
	if c.AccessTokenURL == "" {
		c.AccessTokenURL = "https://github.com/login/oauth/access_token"
	}
	if c.HTTPTimeout <= 0 {
		c.HTTPTimeout = 15 * time.Second
	}

	return c
}
