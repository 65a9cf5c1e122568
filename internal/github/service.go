// Package github integrates the remote hosting provider: repository
// creation, default-branch management and the OAuth device authorization
// flow that feeds the git credential vault.
package github

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	gogithub "github.com/google/go-github/v62/github"
	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"github.com/blueprintstudio/blueprintstudio/internal/gitops"
)

// ownerRepoPattern matches both URL schemes GitHub uses for remotes,
// https and ssh.
var ownerRepoPattern = regexp.MustCompile(`github\.com[:/](.+?)/(.+?)(\.git)?$`)

type Service struct {
	config Config
	git    *gitops.Service
	http   *http.Client

	logger *zap.Logger
}

func NewService(config Config, git *gitops.Service, logger *zap.Logger) *Service {
	config = config.withDefaults()

	return &Service{
		config: config,
		git:    git,
		http:   &http.Client{Timeout: config.HTTPTimeout},
		logger: logger,
	}
}

// apiClient builds an authenticated REST client for the given token.
func (s *Service) apiClient(ctx context.Context, token string) (*gogithub.Client, error) {
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	client := gogithub.NewClient(oauth2.NewClient(ctx, ts))

	if s.config.APIBaseURL != "" {
		base, err := url.Parse(strings.TrimSuffix(s.config.APIBaseURL, "/") + "/")
		if err != nil {
			return nil, fmt.Errorf("invalid API base URL: %w", err)
		}
		client.BaseURL = base
	}

	return client, nil
}

func (s *Service) token() (gitops.Credentials, error) {
	creds, ok := s.git.Vault().Get()
	if !ok {
		return gitops.Credentials{}, ErrAuthRequired
	}

	return creds, nil
}

// CreateRepo creates the remote repository and immediately wires it as the
// local origin (init + add-remote), so the workspace is push-ready in one
// step.
func (s *Service) CreateRepo(ctx context.Context, name, description string, private bool) (*RepoInfo, error) {
	creds, err := s.token()
	if err != nil {
		return nil, err
	}

	client, err := s.apiClient(ctx, creds.Token)
	if err != nil {
		return nil, err
	}

	repo, resp, err := client.Repositories.Create(ctx, "", &gogithub.Repository{
		Name:        gogithub.String(name),
		Description: gogithub.String(description),
		Private:     gogithub.Bool(private),
		AutoInit:    gogithub.Bool(false),
	})
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusUnprocessableEntity {
			return nil, fmt.Errorf("%w: %s", ErrRepoExists, name)
		}
		return nil, s.apiError(resp, err)
	}

	s.logger.Info("created GitHub repository",
		zap.String("name", name),
		zap.Bool("private", private))

	if _, err := s.git.Init(ctx); err != nil {
		return nil, fmt.Errorf("repository created but local init failed: %w", err)
	}
	if _, err := s.git.AddRemote(ctx, "origin", repo.GetCloneURL()); err != nil {
		return nil, fmt.Errorf("repository created but adding remote failed: %w", err)
	}

	return &RepoInfo{
		Name:     name,
		HTMLURL:  repo.GetHTMLURL(),
		CloneURL: repo.GetCloneURL(),
		Username: creds.Username,
	}, nil
}

// SetDefaultBranch updates the remote repository's default branch. The
// owner/repo pair is parsed out of the configured origin URL.
func (s *Service) SetDefaultBranch(ctx context.Context, branch string) error {
	remotes, err := s.git.Remotes(ctx)
	if err != nil {
		return err
	}

	origin, ok := remotes["origin"]
	if !ok {
		return ErrNoOrigin
	}

	owner, repo, err := parseOwnerRepo(origin)
	if err != nil {
		return err
	}

	creds, err := s.token()
	if err != nil {
		return err
	}

	client, err := s.apiClient(ctx, creds.Token)
	if err != nil {
		return err
	}

	_, resp, err := client.Repositories.Edit(ctx, owner, repo, &gogithub.Repository{
		DefaultBranch: gogithub.String(branch),
	})
	if err != nil {
		return s.apiError(resp, err)
	}

	return nil
}

func parseOwnerRepo(remoteURL string) (owner, repo string, err error) {
	match := ownerRepoPattern.FindStringSubmatch(strings.TrimSpace(remoteURL))
	if match == nil {
		return "", "", fmt.Errorf("%w: %s", ErrRepoIdentity, remoteURL)
	}

	return match[1], match[2], nil
}

func (s *Service) apiError(resp *gogithub.Response, err error) error {
	status := http.StatusBadGateway
	if resp != nil {
		status = resp.StatusCode
	}

	return &APIError{StatusCode: status, Message: err.Error()}
}
