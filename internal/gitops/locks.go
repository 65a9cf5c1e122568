package gitops

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

// lockFiles are the known lock paths left behind by interrupted commands.
var lockFiles = []string{
	"index.lock",
	"HEAD.lock",
	filepath.Join("refs", "heads", "master.lock"),
	filepath.Join("refs", "heads", "main.lock"),
}

// stateMarkers are directories and files marking an in-progress operation.
var stateMarkers = []string{
	"rebase-merge",
	"rebase-apply",
	"MERGE_HEAD",
	"CHERRY_PICK_HEAD",
	"REVERT_HEAD",
}

// CleanLocks removes the fixed set of lock files and in-progress markers.
// Purely mechanical: no attempt is made to interpret why they exist.
func (s *Service) CleanLocks() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	gitDir := s.workspace.GitDir()
	removed := []string{}

	for _, name := range lockFiles {
		path := filepath.Join(gitDir, name)
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := os.Remove(path); err != nil {
			return removed, fmt.Errorf("failed to remove lock file %s: %w", name, err)
		}
		removed = append(removed, filepath.Join(".git", name))
	}

	for _, name := range stateMarkers {
		path := filepath.Join(gitDir, name)
		info, err := os.Stat(path)
		if err != nil {
			continue
		}
		if info.IsDir() {
			err = os.RemoveAll(path)
		} else {
			err = os.Remove(path)
		}
		if err != nil {
			return removed, fmt.Errorf("failed to remove state marker %s: %w", name, err)
		}
		removed = append(removed, filepath.Join(".git", name))
	}

	s.logger.Info("cleaned git locks", zap.Strings("removed", removed))

	return removed, nil
}

// RepairIndex deletes the index file outright and resets. Blunt-force
// recovery for index corruption: staged-but-uncommitted selections are
// lost, which is accepted as the cost of recovery.
func (s *Service) RepairIndex(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	indexPath := filepath.Join(s.workspace.GitDir(), "index")
	if _, err := os.Stat(indexPath); err == nil {
		if err := os.Remove(indexPath); err != nil {
			return fmt.Errorf("failed to remove index: %w", err)
		}
	}

	if result := s.runner.Run(ctx, "reset"); !result.Success {
		s.logger.Warn("reset after index removal failed", zap.String("error", result.Error))
	}

	s.logger.Info("repaired git index")

	return nil
}
