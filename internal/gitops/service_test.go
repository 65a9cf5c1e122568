package gitops

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap/zaptest"

	"github.com/blueprintstudio/blueprintstudio/internal/workspace"
)

// fakeRunner scripts subprocess results per command line and records every
// invocation in order.
type fakeRunner struct {
	responses map[string]CommandResult
	calls     []string
}

func (r *fakeRunner) Run(_ context.Context, args ...string) CommandResult {
	command := strings.Join(args, " ")
	r.calls = append(r.calls, command)

	if result, ok := r.responses[command]; ok {
		return result
	}

	return CommandResult{Success: true}
}

func (r *fakeRunner) called(command string) bool {
	for _, call := range r.calls {
		if call == command {
			return true
		}
	}
	return false
}

type memoryStore struct {
	username string
	token    string
	saved    bool
}

func (s *memoryStore) Credentials() (string, string, bool) {
	return s.username, s.token, s.saved
}

func (s *memoryStore) SaveCredentials(username, token string) error {
	s.username, s.token, s.saved = username, token, true
	return nil
}

func (s *memoryStore) ClearCredentials() error {
	s.username, s.token, s.saved = "", "", false
	return nil
}

func newTestService(t *testing.T, runner Runner, initialized bool) *Service {
	t.Helper()

	root := t.TempDir()
	if initialized {
		if err := os.MkdirAll(filepath.Join(root, ".git"), 0o755); err != nil {
			t.Fatal(err)
		}
	}

	logger := zaptest.NewLogger(t)
	ws, err := workspace.New(workspace.Config{Root: root}, logger)
	if err != nil {
		t.Fatal(err)
	}

	vault := NewVault(&memoryStore{}, root, logger)

	return NewService(ws, runner, vault, logger)
}

func TestService_Push_NotInitialized(t *testing.T) {
	runner := &fakeRunner{}
	service := newTestService(t, runner, false)

	_, err := service.Push(context.Background(), "update")
	if !errors.Is(err, ErrNotInitialized) {
		t.Fatalf("expected ErrNotInitialized, got %v", err)
	}
	if len(runner.calls) != 0 {
		t.Errorf("no subprocess should run before the precondition, got %v", runner.calls)
	}
}

func TestService_Push_CommitsWhenDirty(t *testing.T) {
	runner := &fakeRunner{responses: map[string]CommandResult{
		"status --porcelain":       {Success: true, Output: " M automations.yaml\n"},
		"symbolic-ref --short HEAD": {Success: true, Output: "main\n"},
	}}
	service := newTestService(t, runner, true)

	if _, err := service.Push(context.Background(), "update"); err != nil {
		t.Fatalf("Push failed: %v", err)
	}

	if !runner.called("add -A") || !runner.called("commit -m update") {
		t.Errorf("expected an auto-commit before push, calls: %v", runner.calls)
	}
	if !runner.called("push -u origin HEAD:refs/heads/main") {
		t.Errorf("expected push with explicit branch, calls: %v", runner.calls)
	}
}

func TestService_Push_CleanSkipsCommit(t *testing.T) {
	runner := &fakeRunner{responses: map[string]CommandResult{
		"status --porcelain":       {Success: true, Output: ""},
		"symbolic-ref --short HEAD": {Success: true, Output: "main\n"},
	}}
	service := newTestService(t, runner, true)

	if _, err := service.Push(context.Background(), "update"); err != nil {
		t.Fatalf("Push failed: %v", err)
	}

	if runner.called("add -A") {
		t.Errorf("clean worktree must not trigger a commit, calls: %v", runner.calls)
	}
}

func TestService_PushOnly_NoCommits(t *testing.T) {
	runner := &fakeRunner{responses: map[string]CommandResult{
		"rev-parse HEAD": {Success: false, Error: "fatal: ambiguous argument 'HEAD'"},
	}}
	service := newTestService(t, runner, true)

	_, err := service.PushOnly(context.Background())
	if !errors.Is(err, ErrNoCommits) {
		t.Fatalf("expected ErrNoCommits, got %v", err)
	}
}

func TestService_PushOnly_DirtyWorktree(t *testing.T) {
	runner := &fakeRunner{responses: map[string]CommandResult{
		"status --porcelain": {Success: true, Output: "?? new.yaml\n"},
	}}
	service := newTestService(t, runner, true)

	_, err := service.PushOnly(context.Background())
	if !errors.Is(err, ErrDirtyWorktree) {
		t.Fatalf("expected ErrDirtyWorktree, got %v", err)
	}

	for _, call := range runner.calls {
		if strings.HasPrefix(call, "push") {
			t.Errorf("push must not run with a dirty worktree, calls: %v", runner.calls)
		}
	}
}

func TestService_Abort_FallsBackToMergeAbort(t *testing.T) {
	runner := &fakeRunner{responses: map[string]CommandResult{
		"rebase --abort": {Success: false, Error: "fatal: no rebase in progress"},
	}}
	service := newTestService(t, runner, true)

	message, err := service.Abort(context.Background())
	if err != nil {
		t.Fatalf("Abort failed: %v", err)
	}
	if message != "Git operation aborted" {
		t.Errorf("unexpected message %q", message)
	}
	if !runner.called("merge --abort") {
		t.Errorf("expected the merge-abort fallback, calls: %v", runner.calls)
	}
}

func TestService_Abort_AllStrategiesFail(t *testing.T) {
	runner := &fakeRunner{responses: map[string]CommandResult{
		"rebase --abort": {Success: false, Error: "fatal: no rebase in progress"},
		"merge --abort":  {Success: false, Error: "fatal: there is no merge to abort"},
		"reset --merge":  {Success: false, Error: "fatal: nope"},
	}}
	service := newTestService(t, runner, true)

	_, err := service.Abort(context.Background())
	if !errors.Is(err, ErrAbortFailed) {
		t.Fatalf("expected ErrAbortFailed, got %v", err)
	}
}

func TestService_Stage_RejectsTraversal(t *testing.T) {
	runner := &fakeRunner{}
	service := newTestService(t, runner, true)

	err := service.Stage(context.Background(), []string{"automations.yaml", "../../etc/passwd"})
	if !errors.Is(err, workspace.ErrUnsafePath) {
		t.Fatalf("expected ErrUnsafePath, got %v", err)
	}
	if len(runner.calls) != 0 {
		t.Errorf("no subprocess may run for a rejected batch, calls: %v", runner.calls)
	}
}

func TestService_AddRemote_UpdatesExisting(t *testing.T) {
	runner := &fakeRunner{responses: map[string]CommandResult{
		"remote get-url origin": {Success: true, Output: "https://github.com/old/old.git\n"},
	}}
	service := newTestService(t, runner, true)

	message, err := service.AddRemote(context.Background(), "origin", "https://github.com/a/b.git")
	if err != nil {
		t.Fatalf("AddRemote failed: %v", err)
	}
	if message != `Remote "origin" updated` {
		t.Errorf("unexpected message %q", message)
	}
	if !runner.called("remote set-url origin https://github.com/a/b.git") {
		t.Errorf("expected set-url, calls: %v", runner.calls)
	}
}

func TestService_AddRemote_AddsNew(t *testing.T) {
	runner := &fakeRunner{responses: map[string]CommandResult{
		"remote get-url origin": {Success: false, Error: "error: No such remote 'origin'"},
	}}
	service := newTestService(t, runner, true)

	message, err := service.AddRemote(context.Background(), "origin", "https://github.com/a/b.git")
	if err != nil {
		t.Fatalf("AddRemote failed: %v", err)
	}
	if message != `Remote "origin" added` {
		t.Errorf("unexpected message %q", message)
	}
}

func TestService_Pull_ResolvesBranchFromRemoteHead(t *testing.T) {
	runner := &fakeRunner{responses: map[string]CommandResult{
		"symbolic-ref --short HEAD": {Success: false, Error: "fatal: ref HEAD is not a symbolic ref"},
		"remote show origin": {Success: true, Output: "* remote origin\n  HEAD branch: trunk\n"},
	}}
	service := newTestService(t, runner, true)

	if _, err := service.Pull(context.Background()); err != nil {
		t.Fatalf("Pull failed: %v", err)
	}
	if !runner.called("pull --rebase origin trunk") {
		t.Errorf("expected pull against the advertised HEAD branch, calls: %v", runner.calls)
	}
}

func TestService_Pull_DefaultsToMain(t *testing.T) {
	runner := &fakeRunner{responses: map[string]CommandResult{
		"symbolic-ref --short HEAD": {Success: false, Error: "fatal"},
		"remote show origin":        {Success: false, Error: "fatal: unable to connect"},
	}}
	service := newTestService(t, runner, true)

	if _, err := service.Pull(context.Background()); err != nil {
		t.Fatalf("Pull failed: %v", err)
	}
	if !runner.called("pull --rebase origin main") {
		t.Errorf("expected the conventional fallback branch, calls: %v", runner.calls)
	}
}

func TestService_DeleteRemoteBranch_RefusesCurrent(t *testing.T) {
	runner := &fakeRunner{responses: map[string]CommandResult{
		"symbolic-ref --short HEAD": {Success: true, Output: "main\n"},
	}}
	service := newTestService(t, runner, true)

	err := service.DeleteRemoteBranch(context.Background(), "main")
	if !errors.Is(err, ErrCurrentBranch) {
		t.Fatalf("expected ErrCurrentBranch, got %v", err)
	}
}

func TestService_Log_EmptyHistoryIsBenign(t *testing.T) {
	runner := &fakeRunner{responses: map[string]CommandResult{
		"log --pretty=format:%H|%at|%an|%s -n 20": {
			Success: false,
			Error:   "fatal: your current branch 'main' does not have any commits yet",
		},
	}}
	service := newTestService(t, runner, true)

	commits, err := service.Log(context.Background(), 20)
	if err != nil {
		t.Fatalf("Log failed: %v", err)
	}
	if len(commits) != 0 {
		t.Errorf("expected empty log, got %v", commits)
	}
}

func TestService_Log_ParsesEntries(t *testing.T) {
	runner := &fakeRunner{responses: map[string]CommandResult{
		"log --pretty=format:%H|%at|%an|%s -n 2": {
			Success: true,
			Output: "abc123|1714000000|Alice|Add automation\n" +
				"def456|1713000000|Bob|Fix scene | with pipe\n",
		},
	}}
	service := newTestService(t, runner, true)

	commits, err := service.Log(context.Background(), 2)
	if err != nil {
		t.Fatalf("Log failed: %v", err)
	}
	if len(commits) != 2 {
		t.Fatalf("expected 2 commits, got %d", len(commits))
	}
	if commits[0].Hash != "abc123" || commits[0].Author != "Alice" || commits[0].Timestamp != 1714000000 {
		t.Errorf("unexpected first commit: %+v", commits[0])
	}
	if commits[1].Message != "Fix scene | with pipe" {
		t.Errorf("message must keep embedded separators, got %q", commits[1].Message)
	}
}

func TestService_Status_NotInitialized(t *testing.T) {
	runner := &fakeRunner{}
	service := newTestService(t, runner, false)

	state, err := service.Status(context.Background(), false)
	if err != nil {
		t.Fatalf("Status failed: %v", err)
	}
	if state.IsInitialized {
		t.Error("expected uninitialized state")
	}
	if len(runner.calls) != 0 {
		t.Errorf("no subprocess should run without a repository, calls: %v", runner.calls)
	}
}

func TestService_Status_AheadBehindFallback(t *testing.T) {
	runner := &fakeRunner{responses: map[string]CommandResult{
		"remote":                    {Success: true, Output: "origin\n"},
		"status --porcelain":        {Success: true, Output: ""},
		"symbolic-ref --short HEAD": {Success: true, Output: "main\n"},
		"rev-list --left-right --count HEAD...@{u}": {
			Success: false,
			Error:   "fatal: no upstream configured for branch 'main'",
		},
		"rev-list --left-right --count HEAD...origin/main": {Success: true, Output: "1\t2\n"},
	}}
	service := newTestService(t, runner, true)

	state, err := service.Status(context.Background(), false)
	if err != nil {
		t.Fatalf("Status failed: %v", err)
	}
	if state.Ahead != 1 || state.Behind != 2 {
		t.Errorf("expected divergence (1, 2), got (%d, %d)", state.Ahead, state.Behind)
	}
}

func TestService_Status_FetchesWhenRequested(t *testing.T) {
	runner := &fakeRunner{responses: map[string]CommandResult{
		"remote":                    {Success: true, Output: "origin\n"},
		"symbolic-ref --short HEAD": {Success: true, Output: "main\n"},
	}}
	service := newTestService(t, runner, true)

	if _, err := service.Status(context.Background(), true); err != nil {
		t.Fatalf("Status failed: %v", err)
	}
	if !runner.called("fetch --prune") {
		t.Errorf("expected a pruning fetch, calls: %v", runner.calls)
	}
}

func TestService_Remotes_CollapsesFetchAndPush(t *testing.T) {
	runner := &fakeRunner{responses: map[string]CommandResult{
		"remote -v": {Success: true, Output: "origin\thttps://github.com/a/b.git (fetch)\n" +
			"origin\thttps://github.com/a/b.git (push)\n" +
			"backup\thttps://github.com/a/c.git (fetch)\n"},
	}}
	service := newTestService(t, runner, true)

	remotes, err := service.Remotes(context.Background())
	if err != nil {
		t.Fatalf("Remotes failed: %v", err)
	}
	if len(remotes) != 2 {
		t.Fatalf("expected 2 remotes, got %v", remotes)
	}
	if remotes["origin"] != "https://github.com/a/b.git" {
		t.Errorf("unexpected origin URL %q", remotes["origin"])
	}
}

func TestService_CommandError_KeepsDiagnostic(t *testing.T) {
	runner := &fakeRunner{responses: map[string]CommandResult{
		"pull --rebase origin main": {
			Success: false,
			Error:   "fatal: unable to access 'https://github.com/a/b.git/': Could not resolve host",
		},
		"symbolic-ref --short HEAD": {Success: true, Output: "main\n"},
	}}
	service := newTestService(t, runner, true)

	_, err := service.Pull(context.Background())
	if !errors.Is(err, ErrCommand) {
		t.Fatalf("expected ErrCommand, got %v", err)
	}
	if !strings.Contains(err.Error(), "Could not resolve host") {
		t.Errorf("diagnostic text must survive verbatim, got %q", err.Error())
	}
}

func TestService_CredentialInfo_NeverExposesToken(t *testing.T) {
	runner := &fakeRunner{}
	service := newTestService(t, runner, true)

	if err := service.SetCredentials(context.Background(), "alice", "ghp_secret", true); err != nil {
		t.Fatalf("SetCredentials failed: %v", err)
	}

	username, has := service.CredentialInfo()
	if !has || username != "alice" {
		t.Fatalf("expected stored credentials for alice, got %q %v", username, has)
	}
}
