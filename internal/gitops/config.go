package gitops

import "time"

type Config struct {
	// Binary is the version-control executable, normally "git".
	Binary string
	// ShortTimeout bounds read-only and light commands.
	ShortTimeout time.Duration
	// LongTimeout bounds commands that touch large file sets or the
	// network (stage-all, commit, push, pull, clone, fetch).
	LongTimeout time.Duration
}

func (c Config) withDefaults() Config {
	if c.Binary == "" {
		c.Binary = "git"
	}
	if c.ShortTimeout <= 0 {
		c.ShortTimeout = 30 * time.Second
	}
	if c.LongTimeout <= 0 {
		c.LongTimeout = 300 * time.Second
	}

	return c
}
