package github

import (
	"errors"
	"fmt"
)

var (
	ErrAuthRequired = errors.New("not authenticated with GitHub")
	ErrRepoExists   = errors.New("repository name already exists")
	ErrRepoIdentity = errors.New("could not determine repository identity from remote URL")
	ErrNoOrigin     = errors.New("origin remote not configured")
	ErrDeviceFlow   = errors.New("device flow request failed")
)

// APIError carries a non-2xx provider response; its status is surfaced to
// the caller unchanged.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("GitHub API error (%d): %s", e.StatusCode, e.Message)
}
