package github

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap/zaptest"

	"github.com/blueprintstudio/blueprintstudio/internal/gitops"
	"github.com/blueprintstudio/blueprintstudio/internal/workspace"
)

// stubRunner answers every git invocation successfully and records it.
type stubRunner struct {
	responses map[string]gitops.CommandResult
	calls     []string
}

func (r *stubRunner) Run(_ context.Context, args ...string) gitops.CommandResult {
	command := strings.Join(args, " ")
	r.calls = append(r.calls, command)

	if result, ok := r.responses[command]; ok {
		return result
	}

	return gitops.CommandResult{Success: true}
}

func (r *stubRunner) called(command string) bool {
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

func newTestService(t *testing.T, config Config, runner gitops.Runner) (*Service, *gitops.Service) {
	t.Helper()

	root := t.TempDir()
	logger := zaptest.NewLogger(t)

	ws, err := workspace.New(workspace.Config{Root: root}, logger)
	if err != nil {
		t.Fatal(err)
	}

	vault := gitops.NewVault(&memoryStore{}, root, logger)
	git := gitops.NewService(ws, runner, vault, logger)

	return NewService(config, git, logger), git
}

func TestParseOwnerRepo(t *testing.T) {
	tests := []struct {
		url   string
		owner string
		repo  string
		fails bool
	}{
		{"https://github.com/alice/config.git", "alice", "config", false},
		{"https://github.com/alice/config", "alice", "config", false},
		{"git@github.com:alice/config.git", "alice", "config", false},
		{"https://github.com/org-name/repo.name.git", "org-name", "repo.name", false},
		{"https://gitlab.com/alice/config.git", "", "", true},
		{"not a url", "", "", true},
	}

	for _, tt := range tests {
		owner, repo, err := parseOwnerRepo(tt.url)
		if tt.fails {
			if !errors.Is(err, ErrRepoIdentity) {
				t.Errorf("parseOwnerRepo(%q) expected ErrRepoIdentity, got %v", tt.url, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("parseOwnerRepo(%q) failed: %v", tt.url, err)
			continue
		}
		if owner != tt.owner || repo != tt.repo {
			t.Errorf("parseOwnerRepo(%q) = %q/%q, want %q/%q", tt.url, owner, repo, tt.owner, tt.repo)
		}
	}
}

func TestCreateRepo_RequiresAuth(t *testing.T) {
	service, _ := newTestService(t, Config{}, &stubRunner{})

	_, err := service.CreateRepo(context.Background(), "config", "", true)
	if !errors.Is(err, ErrAuthRequired) {
		t.Fatalf("expected ErrAuthRequired, got %v", err)
	}
}

func TestCreateRepo_Conflict(t *testing.T) {
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"message":"name already exists on this account"}`))
	}))
	defer api.Close()

	service, git := newTestService(t, Config{APIBaseURL: api.URL}, &stubRunner{})
	if err := git.Vault().Save("alice", "token", false); err != nil {
		t.Fatal(err)
	}

	_, err := service.CreateRepo(context.Background(), "config", "", true)
	if !errors.Is(err, ErrRepoExists) {
		t.Fatalf("expected ErrRepoExists, got %v", err)
	}
}

func TestCreateRepo_WiresOrigin(t *testing.T) {
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/user/repos" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{
			"name": "config",
			"html_url": "https://github.com/alice/config",
			"clone_url": "https://github.com/alice/config.git"
		}`))
	}))
	defer api.Close()

	runner := &stubRunner{responses: map[string]gitops.CommandResult{
		"remote get-url origin": {Success: false, Error: "error: No such remote 'origin'"},
	}}

	service, git := newTestService(t, Config{APIBaseURL: api.URL}, runner)
	if err := git.Vault().Save("alice", "token", false); err != nil {
		t.Fatal(err)
	}

	info, err := service.CreateRepo(context.Background(), "config", "my config", true)
	if err != nil {
		t.Fatalf("CreateRepo failed: %v", err)
	}

	if info.CloneURL != "https://github.com/alice/config.git" || info.Username != "alice" {
		t.Errorf("unexpected repo info %+v", info)
	}
	if !runner.called("init -b main") {
		t.Errorf("expected a local init, calls: %v", runner.calls)
	}
	if !runner.called("remote add origin https://github.com/alice/config.git") {
		t.Errorf("expected origin to be wired, calls: %v", runner.calls)
	}
}

func TestSetDefaultBranch_NoOrigin(t *testing.T) {
	runner := &stubRunner{responses: map[string]gitops.CommandResult{
		"remote -v": {Success: true, Output: ""},
	}}
	service, _ := newTestService(t, Config{}, runner)

	err := service.SetDefaultBranch(context.Background(), "main")
	if !errors.Is(err, ErrNoOrigin) {
		t.Fatalf("expected ErrNoOrigin, got %v", err)
	}
}

func TestSetDefaultBranch(t *testing.T) {
	var edited bool
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPatch && r.URL.Path == "/repos/alice/config" {
			edited = true
		}
		_, _ = w.Write([]byte(`{"name":"config","default_branch":"main"}`))
	}))
	defer api.Close()

	runner := &stubRunner{responses: map[string]gitops.CommandResult{
		"remote -v": {Success: true, Output: "origin\thttps://github.com/alice/config.git (fetch)\n"},
	}}

	service, git := newTestService(t, Config{APIBaseURL: api.URL}, runner)
	if err := git.Vault().Save("alice", "token", false); err != nil {
		t.Fatal(err)
	}

	if err := service.SetDefaultBranch(context.Background(), "main"); err != nil {
		t.Fatalf("SetDefaultBranch failed: %v", err)
	}
	if !edited {
		t.Error("expected a repository edit request")
	}
}
