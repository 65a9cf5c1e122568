package gitops

import "errors"

var (
	// Preconditions, rejected before any subprocess call.
	ErrNotInitialized   = errors.New("git repository not initialized")
	ErrNoCommits        = errors.New("no commits to push")
	ErrDirtyWorktree    = errors.New("uncommitted changes present, commit them first")
	ErrCurrentBranch    = errors.New("cannot delete the currently checked-out branch")
	ErrNotAuthenticated = errors.New("no git credentials configured")

	// Subprocess failures.
	ErrGitNotFound = errors.New("git binary not found")
	ErrTimeout     = errors.New("git command timed out")
	ErrCommand     = errors.New("git command failed")

	// Remote reachability.
	ErrConnectionFailed = errors.New("connection to remote failed")

	// Recovery.
	ErrAbortFailed = errors.New("failed to abort git operation")
)
