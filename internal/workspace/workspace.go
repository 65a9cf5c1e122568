// Package workspace models the configuration directory every other
// component operates on: path resolution with traversal protection,
// protected-path checks and the seeded ignore file.
package workspace

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/samber/lo"
	"go.uber.org/zap"
)

// protectedPaths cannot be deleted or overwritten through the API.
var protectedPaths = []string{
	"configuration.yaml",
	"secrets.yaml",
	"home-assistant.log",
	".storage",
}

// excludedPatterns are directory names skipped by listings.
var excludedPatterns = []string{
	"__pycache__",
	".git",
	".cache",
	"deps",
	"tts",
	".git_credential_helper",
}

const gitignoreSeed = `# Blueprint Studio - Git Ignore File
*.db
*.log
.storage/
.cloud/
__pycache__/
.vscode/
.git_credential_helper.sh
`

type Workspace struct {
	root string

	logger *zap.Logger
}

func New(config Config, logger *zap.Logger) (*Workspace, error) {
	root, err := filepath.Abs(config.Root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve workspace root: %w", err)
	}

	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrRootMissing, root)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", ErrRootMissing, root)
	}

	return &Workspace{
		root:   root,
		logger: logger,
	}, nil
}

// Root returns the absolute workspace root path.
func (w *Workspace) Root() string {
	return w.root
}

// GitDir returns the path of the repository control directory.
func (w *Workspace) GitDir() string {
	return filepath.Join(w.root, ".git")
}

// IsInitialized reports whether the control directory exists.
func (w *Workspace) IsInitialized() bool {
	info, err := os.Stat(w.GitDir())
	return err == nil && info.IsDir()
}

// SafePath resolves a workspace-relative path and rejects anything that
// would escape the root.
func (w *Workspace) SafePath(path string) (string, error) {
	cleaned := filepath.Clean(strings.TrimPrefix(path, "/"))
	full := filepath.Join(w.root, cleaned)

	rel, err := filepath.Rel(w.root, full)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s", ErrUnsafePath, path)
	}

	return full, nil
}

// ValidatePaths resolves a batch of paths, failing the whole batch on the
// first unsafe entry.
func (w *Workspace) ValidatePaths(paths []string) error {
	for _, p := range paths {
		if _, err := w.SafePath(p); err != nil {
			return err
		}
	}

	return nil
}

// IsProtected reports whether the path or its top-level segment belongs to
// the protected set.
func (w *Workspace) IsProtected(path string) bool {
	trimmed := strings.Trim(path, "/")
	top := strings.SplitN(trimmed, "/", 2)[0]

	return lo.Contains(protectedPaths, trimmed) || lo.Contains(protectedPaths, top)
}

// IsExcluded reports whether a directory name is hidden from listings.
func (w *Workspace) IsExcluded(name string) bool {
	return lo.Contains(excludedPatterns, name)
}

// EnsureGitignore writes the seed ignore file if none exists. The seed
// covers secrets, logs, caches and the credential helper artifact.
func (w *Workspace) EnsureGitignore() error {
	path := filepath.Join(w.root, ".gitignore")
	if _, err := os.Stat(path); err == nil {
		return nil
	}

	if err := os.WriteFile(path, []byte(gitignoreSeed), 0o644); err != nil {
		return fmt.Errorf("failed to write .gitignore: %w", err)
	}

	w.logger.Info("seeded .gitignore", zap.String("path", path))

	return nil
}
