package gitops

import (
	"context"
	"regexp"
	"strings"
)

// defaultBranch is the conventional primary branch name, used when every
// resolver strategy fails.
const defaultBranch = "main"

var remoteHeadPattern = regexp.MustCompile(`HEAD branch: (.+)`)

// currentBranch returns the checked-out branch, or "" when HEAD is
// detached or the repository has no commits.
func (s *Service) currentBranch(ctx context.Context) string {
	result := s.runner.Run(ctx, "symbolic-ref", "--short", "HEAD")
	if !result.Success {
		return ""
	}

	return strings.TrimSpace(result.Output)
}

// branchResolver is one strategy of the default-branch fallback chain.
type branchResolver func(ctx context.Context) (string, bool)

// resolveTargetBranch walks the resolver chain in order: the symbolic ref,
// then the remote's advertised HEAD, then the conventional name.
func (s *Service) resolveTargetBranch(ctx context.Context) string {
	resolvers := []branchResolver{
		s.branchFromSymbolicRef,
		s.branchFromRemoteHead,
	}

	for _, resolve := range resolvers {
		if branch, ok := resolve(ctx); ok {
			return branch
		}
	}

	return defaultBranch
}

func (s *Service) branchFromSymbolicRef(ctx context.Context) (string, bool) {
	branch := s.currentBranch(ctx)
	return branch, branch != ""
}

func (s *Service) branchFromRemoteHead(ctx context.Context) (string, bool) {
	result := s.runner.Run(ctx, "remote", "show", "origin")
	if !result.Success {
		return "", false
	}

	match := remoteHeadPattern.FindStringSubmatch(result.Output)
	if match == nil {
		return "", false
	}

	return strings.TrimSpace(match[1]), true
}

// localBranches lists branch names in ref order.
func (s *Service) localBranches(ctx context.Context) []string {
	result := s.runner.Run(ctx, "branch", "--format=%(refname:short)")
	if !result.Success {
		return nil
	}

	var branches []string
	for _, line := range strings.Split(result.Output, "\n") {
		if name := strings.TrimSpace(line); name != "" {
			branches = append(branches, name)
		}
	}

	return branches
}

// remoteBranches asks origin for its heads.
func (s *Service) remoteBranches(ctx context.Context) []string {
	result := s.runner.Run(ctx, "ls-remote", "--heads", "origin")
	if !result.Success {
		return nil
	}

	var branches []string
	for _, line := range strings.Split(result.Output, "\n") {
		if _, ref, found := strings.Cut(line, "\trefs/heads/"); found {
			branches = append(branches, strings.TrimSpace(ref))
		}
	}

	return branches
}
