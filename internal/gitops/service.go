// Package gitops orchestrates the git binary over the workspace: it runs
// commands through a single subprocess seam, parses porcelain output into
// structured state and layers credential injection, precondition checks and
// recovery flows on top.
package gitops

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/blueprintstudio/blueprintstudio/internal/workspace"
)

// Service is the repository lifecycle controller. A single mutex serializes
// operations so concurrent requests cannot interleave subprocess calls
// against the same index.
type Service struct {
	workspace *workspace.Workspace
	runner    Runner
	vault     *Vault

	mu sync.Mutex

	logger *zap.Logger
}

func NewService(ws *workspace.Workspace, runner Runner, vault *Vault, logger *zap.Logger) *Service {
	return &Service{
		workspace: ws,
		runner:    runner,
		vault:     vault,
		logger:    logger,
	}
}

// commandError carries the binary's diagnostic text verbatim while staying
// matchable as ErrCommand.
type commandError struct {
	text string
}

func (e *commandError) Error() string { return e.text }

func (e *commandError) Is(target error) bool { return target == ErrCommand }

func newCommandError(result CommandResult) error {
	return &commandError{text: result.Error}
}

// Status derives the repository state fresh from the control directory and
// subprocess calls. With fetch set, remote refs are refreshed first.
func (s *Service) Status(ctx context.Context, fetch bool) (*RepositoryState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state := &RepositoryState{Files: ParseStatus("")}

	state.IsInitialized = s.workspace.IsInitialized()
	if !state.IsInitialized {
		return state, nil
	}

	remoteResult := s.runner.Run(ctx, "remote")
	state.HasRemote = remoteResult.Success && strings.TrimSpace(remoteResult.Output) != ""

	if state.HasRemote && fetch {
		if result := s.runner.Run(ctx, "fetch", "--prune"); !result.Success {
			s.logger.Warn("fetch before status failed", zap.String("error", result.Error))
		}
	}

	porcelain := s.runner.Run(ctx, "status", "--porcelain")
	if !porcelain.Success {
		return nil, newCommandError(porcelain)
	}
	state.Files = ParseStatus(porcelain.Output)
	state.HasChanges = state.Files.HasChanges()

	if full := s.runner.Run(ctx, "status"); full.Success {
		state.RawStatus = full.Output
	}

	if state.HasRemote {
		state.Ahead, state.Behind = s.aheadBehind(ctx)
	}

	branchResult := s.runner.Run(ctx, "symbolic-ref", "--short", "HEAD")
	switch {
	case branchResult.Success:
		state.CurrentBranch = strings.TrimSpace(branchResult.Output)
	case strings.Contains(branchResult.Error, "fatal"):
		state.CurrentBranch = "detached"
	default:
		state.CurrentBranch = "unknown"
	}

	state.LocalBranches = s.localBranches(ctx)
	if state.HasRemote {
		state.RemoteBranches = s.remoteBranches(ctx)
	}

	return state, nil
}

// aheadBehind compares HEAD against the upstream, falling back to an
// explicit comparison with origin/<current-branch> when no upstream is
// configured. Divergence info is best-effort; both failures yield (0, 0).
func (s *Service) aheadBehind(ctx context.Context) (int, int) {
	result := s.runner.Run(ctx, "rev-list", "--left-right", "--count", "HEAD...@{u}")
	if !result.Success {
		branch := s.currentBranch(ctx)
		if branch == "" {
			branch = defaultBranch
		}
		result = s.runner.Run(ctx, "rev-list", "--left-right", "--count", "HEAD...origin/"+branch)
	}

	if !result.Success {
		return 0, 0
	}

	return ParseAheadBehind(result.Output)
}

// Show returns a file's content as committed at HEAD.
func (s *Service) Show(ctx context.Context, path string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.workspace.SafePath(path); err != nil {
		return "", err
	}

	result := s.runner.Run(ctx, "show", "HEAD:"+path)
	if !result.Success {
		return "", newCommandError(result)
	}

	return result.Output, nil
}

// Pull rebases onto the resolved target branch. Rebase keeps history
// linear; merge pulls are never issued.
func (s *Service) Pull(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	target := s.resolveTargetBranch(ctx)

	result := s.runner.Run(ctx, "pull", "--rebase", "origin", target)
	if !result.Success {
		return "", newCommandError(result)
	}

	return result.Output, nil
}

// Commit stages everything and commits with the supplied message.
func (s *Service) Commit(ctx context.Context, message string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.commit(ctx, message)
}

func (s *Service) commit(ctx context.Context, message string) (string, error) {
	if result := s.runner.Run(ctx, "add", "-A"); !result.Success {
		return "", newCommandError(result)
	}

	result := s.runner.Run(ctx, "commit", "-m", message)
	if !result.Success {
		return "", newCommandError(result)
	}

	return result.Output, nil
}

// Push commits pending work if needed, then pushes with the upstream set
// explicitly. The commit-if-dirty and explicit-branch steps are the defense
// against fresh repositories with no upstream configured.
func (s *Service) Push(ctx context.Context, message string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.workspace.IsInitialized() {
		return "", ErrNotInitialized
	}

	hasCommits := s.runner.Run(ctx, "rev-parse", "HEAD").Success
	if !hasCommits {
		if _, err := s.commit(ctx, message); err != nil {
			return "", err
		}
	} else {
		status := s.runner.Run(ctx, "status", "--porcelain")
		if status.Success && strings.TrimSpace(status.Output) != "" {
			if _, err := s.commit(ctx, message); err != nil {
				return "", err
			}
		}
	}

	branch := s.currentBranch(ctx)
	if branch == "" {
		branch = defaultBranch
	}

	result := s.runner.Run(ctx, "push", "-u", "origin", "HEAD:refs/heads/"+branch)
	if !result.Success {
		return "", newCommandError(result)
	}

	return result.Output, nil
}

// PushOnly pushes existing commits without committing first. More
// conservative than Push: a dirty worktree or an empty history refuses
// before any push subprocess runs.
func (s *Service) PushOnly(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.workspace.IsInitialized() {
		return "", ErrNotInitialized
	}

	if !s.runner.Run(ctx, "rev-parse", "HEAD").Success {
		return "", ErrNoCommits
	}

	status := s.runner.Run(ctx, "status", "--porcelain")
	if status.Success && strings.TrimSpace(status.Output) != "" {
		return "", ErrDirtyWorktree
	}

	branch := s.currentBranch(ctx)
	if branch == "" {
		branch = defaultBranch
	}

	result := s.runner.Run(ctx, "push", "-u", "origin", "HEAD:refs/heads/"+branch)
	if !result.Success {
		return "", newCommandError(result)
	}

	return result.Output, nil
}

// Init initializes the repository, idempotently. Modern git gets the
// primary branch name directly; older binaries fall back to plain init plus
// a rename when the legacy default was used.
func (s *Service) Init(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existed := s.workspace.IsInitialized()

	result := s.runner.Run(ctx, "init", "-b", defaultBranch)
	if !result.Success {
		result = s.runner.Run(ctx, "init")
		if result.Success && !existed {
			if s.currentBranch(ctx) == "master" {
				s.runner.Run(ctx, "branch", "-m", defaultBranch)
			}
		}
	}

	if !result.Success {
		return "", newCommandError(result)
	}

	if err := s.workspace.EnsureGitignore(); err != nil {
		s.logger.Warn("failed to seed .gitignore", zap.Error(err))
	}

	return result.Output, nil
}

// AddRemote adds the remote, or updates its URL when it already exists.
// The returned message distinguishes the two.
func (s *Service) AddRemote(ctx context.Context, name, url string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var result CommandResult
	var message string

	if s.runner.Run(ctx, "remote", "get-url", name).Success {
		result = s.runner.Run(ctx, "remote", "set-url", name, url)
		message = fmt.Sprintf("Remote %q updated", name)
	} else {
		result = s.runner.Run(ctx, "remote", "add", name, url)
		message = fmt.Sprintf("Remote %q added", name)
	}

	if !result.Success {
		return "", newCommandError(result)
	}

	return message, nil
}

func (s *Service) RemoveRemote(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if result := s.runner.Run(ctx, "remote", "remove", name); !result.Success {
		return newCommandError(result)
	}

	return nil
}

// DeleteRepo destroys the control directory. History is gone afterwards;
// the worktree is untouched.
func (s *Service) DeleteRepo() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	gitDir := s.workspace.GitDir()
	if info, err := os.Stat(gitDir); err == nil && info.IsDir() {
		if err := os.RemoveAll(gitDir); err != nil {
			return "", fmt.Errorf("failed to delete repository: %w", err)
		}
		s.logger.Info("deleted git repository", zap.String("path", gitDir))
		return "Git repository deleted", nil
	}

	return "No Git repository found", nil
}

// Remotes lists configured remotes, one URL per name.
func (s *Service) Remotes(ctx context.Context) (map[string]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := s.runner.Run(ctx, "remote", "-v")
	if !result.Success {
		return nil, newCommandError(result)
	}

	remotes := map[string]string{}
	for _, line := range strings.Split(result.Output, "\n") {
		parts := strings.Fields(line)
		if len(parts) >= 2 {
			if _, seen := remotes[parts[0]]; !seen {
				remotes[parts[0]] = parts[1]
			}
		}
	}

	return remotes, nil
}

// TestConnection verifies the origin remote is reachable.
func (s *Service) TestConnection(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := s.runner.Run(ctx, "ls-remote", "--exit-code", "origin")
	if !result.Success {
		return fmt.Errorf("%w: %s", ErrConnectionFailed, result.Error)
	}

	return nil
}

// Stage adds the given files to the index. Every path is validated before
// any subprocess call; one bad path aborts the whole batch.
func (s *Service) Stage(ctx context.Context, files []string) error {
	return s.fileBatch(ctx, files, []string{"add"})
}

// Unstage removes the given files from the index.
func (s *Service) Unstage(ctx context.Context, files []string) error {
	return s.fileBatch(ctx, files, []string{"reset"})
}

// ResetFiles discards worktree changes to the given files.
func (s *Service) ResetFiles(ctx context.Context, files []string) error {
	return s.fileBatch(ctx, files, []string{"checkout", "HEAD", "--"})
}

func (s *Service) fileBatch(ctx context.Context, files []string, command []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.workspace.ValidatePaths(files); err != nil {
		return err
	}

	if result := s.runner.Run(ctx, append(command, files...)...); !result.Success {
		return newCommandError(result)
	}

	return nil
}

// StopTracking removes files from the index while keeping them on disk.
func (s *Service) StopTracking(ctx context.Context, files []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.workspace.ValidatePaths(files); err != nil {
		return err
	}

	for _, file := range files {
		if result := s.runner.Run(ctx, "rm", "-r", "--cached", file); !result.Success {
			s.logger.Warn("failed to stop tracking file",
				zap.String("file", file),
				zap.String("error", result.Error))
		}
	}

	return nil
}

// Abort recovers from a stuck in-progress operation: rebase-abort first,
// then merge-abort, then reset --merge. Failure is reported only when all
// three fail.
func (s *Service) Abort(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.runner.Run(ctx, "rebase", "--abort").Success {
		return "Git operation aborted", nil
	}
	if s.runner.Run(ctx, "merge", "--abort").Success {
		return "Git operation aborted", nil
	}
	if s.runner.Run(ctx, "reset", "--merge").Success {
		return "Sync state reset", nil
	}

	return "", ErrAbortFailed
}

// RenameBranch renames a branch, using the single-argument form when the
// branch being renamed is checked out.
func (s *Service) RenameBranch(ctx context.Context, oldName, newName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var result CommandResult
	if s.currentBranch(ctx) == oldName {
		result = s.runner.Run(ctx, "branch", "-m", newName)
	} else {
		result = s.runner.Run(ctx, "branch", "-m", oldName, newName)
	}

	if !result.Success {
		return newCommandError(result)
	}

	return nil
}

// MergeUnrelated merges a remote branch whose history shares no ancestor
// with the local one.
func (s *Service) MergeUnrelated(ctx context.Context, remote, branch string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := s.runner.Run(ctx, "merge", remote+"/"+branch,
		"--allow-unrelated-histories", "-m", "Merge unrelated histories")
	if !result.Success {
		return newCommandError(result)
	}

	return nil
}

// ForcePush overwrites the remote branch with local state and returns the
// branch that was pushed.
func (s *Service) ForcePush(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	branch := s.currentBranch(ctx)
	if branch == "" {
		branch = defaultBranch
	}

	if result := s.runner.Run(ctx, "push", "-f", "origin", branch); !result.Success {
		return "", newCommandError(result)
	}

	return branch, nil
}

// HardReset fetches and resets the worktree to exactly match the named
// remote branch. Destructive; confirmation is the caller's concern.
func (s *Service) HardReset(ctx context.Context, remote, branch string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if result := s.runner.Run(ctx, "fetch", remote); !result.Success {
		s.logger.Warn("fetch before hard reset failed", zap.String("error", result.Error))
	}

	if result := s.runner.Run(ctx, "reset", "--hard", remote+"/"+branch); !result.Success {
		return newCommandError(result)
	}

	return nil
}

// DeleteRemoteBranch deletes a branch on origin, refusing to delete the
// branch that is currently checked out.
func (s *Service) DeleteRemoteBranch(ctx context.Context, branch string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.currentBranch(ctx) == branch {
		return fmt.Errorf("%w: %s", ErrCurrentBranch, branch)
	}

	if result := s.runner.Run(ctx, "push", "origin", "--delete", branch); !result.Success {
		return newCommandError(result)
	}

	return nil
}

// Log returns up to count recent commits, oldest last. An empty history is
// a benign empty result, not a failure.
func (s *Service) Log(ctx context.Context, count int) ([]CommitInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if count <= 0 {
		count = 20
	}

	result := s.runner.Run(ctx, "log", "--pretty=format:%H|%at|%an|%s", "-n", strconv.Itoa(count))
	if !result.Success {
		if strings.Contains(result.Error, "does not have any commits") ||
			strings.Contains(result.Error, "fatal: your current branch") {
			return []CommitInfo{}, nil
		}
		return nil, newCommandError(result)
	}

	commits := []CommitInfo{}
	for _, line := range strings.Split(result.Output, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		parts := strings.SplitN(line, "|", 4)
		if len(parts) != 4 {
			continue
		}
		timestamp, err := strconv.ParseInt(parts[1], 10, 64)
		if err != nil {
			continue
		}
		commits = append(commits, CommitInfo{
			Hash:      parts[0],
			Timestamp: timestamp,
			Author:    parts[2],
			Message:   parts[3],
		})
	}

	return commits, nil
}

// DiffCommit returns the diff introduced by a single commit.
func (s *Service) DiffCommit(ctx context.Context, hash string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := s.runner.Run(ctx, "show", "--pretty=format:", hash)
	if !result.Success {
		return "", newCommandError(result)
	}

	return result.Output, nil
}

// SetCredentials saves the pair in the vault and configures the repository
// identity so commits attribute to the authenticated user.
func (s *Service) SetCredentials(ctx context.Context, username, token string, remember bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if result := s.runner.Run(ctx, "config", "credential.helper", "store"); !result.Success {
		s.logger.Warn("failed to configure credential helper", zap.String("error", result.Error))
	}

	if err := s.vault.Save(username, token, remember); err != nil {
		return err
	}

	s.runner.Run(ctx, "config", "user.name", username)
	s.runner.Run(ctx, "config", "user.email", username+"@users.noreply.github.com")

	return nil
}

// ClearCredentials drops both credential tiers and reverts the configured
// credential helper so no stale reference lingers.
func (s *Service) ClearCredentials(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.vault.Clear(); err != nil {
		return err
	}

	if result := s.runner.Run(ctx, "config", "--unset", "credential.helper"); !result.Success {
		s.logger.Debug("credential.helper was not set", zap.String("error", result.Error))
	}

	return nil
}

// CredentialInfo reports whether credentials exist and for which user. The
// token itself is never exposed.
func (s *Service) CredentialInfo() (username string, has bool) {
	creds, ok := s.vault.Get()
	if !ok {
		return "", false
	}

	return creds.Username, true
}

// Vault exposes the credential vault to collaborators that complete
// authentication flows.
func (s *Service) Vault() *Vault {
	return s.vault
}
