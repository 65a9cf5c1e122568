// Package files is the path-scoped file manager: CRUD, listings and zip
// packaging over the workspace, with every path resolved through the
// traversal-safe workspace handle.
package files

import (
	"encoding/base64"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/blueprintstudio/blueprintstudio/internal/workspace"
)

// binaryExtensions are served base64-encoded.
var binaryExtensions = []string{
	".jpg", ".jpeg", ".png", ".gif", ".bmp", ".webp", ".ico", ".pdf", ".zip",
	".db", ".sqlite", ".der", ".bin", ".ota", ".tar", ".gz",
}

type Service struct {
	workspace *workspace.Workspace

	logger *zap.Logger
}

func NewService(ws *workspace.Workspace, logger *zap.Logger) *Service {
	return &Service{
		workspace: ws,
		logger:    logger,
	}
}

// List walks the workspace and returns files and folders, hiding dotfiles
// unless showHidden is set and always skipping excluded directories.
func (s *Service) List(showHidden bool) ([]Entry, error) {
	root := s.workspace.Root()
	entries := []Entry{}

	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil //nolint:nilerr //unreadable entries are skipped, not fatal
		}
		if path == root {
			return nil
		}

		name := d.Name()
		if d.IsDir() {
			if s.workspace.IsExcluded(name) || (!showHidden && strings.HasPrefix(name, ".")) {
				return filepath.SkipDir
			}
		} else if !showHidden && strings.HasPrefix(name, ".") {
			return nil
		}

		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return nil //nolint:nilerr
		}

		entry := Entry{Path: filepath.ToSlash(rel), Name: name, Type: "file"}
		if d.IsDir() {
			entry.Type = "folder"
		} else if info, infoErr := d.Info(); infoErr == nil {
			entry.Size = info.Size()
		}

		entries = append(entries, entry)

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list workspace: %w", err)
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Path < entries[j].Path })

	return entries, nil
}

// Read returns a file's content, base64-encoded for binary types.
func (s *Service) Read(path string) (*Content, error) {
	full, err := s.workspace.SafePath(path)
	if err != nil {
		return nil, err
	}

	raw, err := os.ReadFile(full)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(full))
	content := &Content{
		Path:     path,
		MimeType: mime.TypeByExtension(ext),
	}

	if lo.Contains(binaryExtensions, ext) {
		content.Content = base64.StdEncoding.EncodeToString(raw)
		content.Encoding = "base64"
	} else {
		content.Content = string(raw)
		content.Encoding = "utf-8"
	}

	return content, nil
}

// Write stores content at path, decoding base64 payloads first. Protected
// paths are refused.
func (s *Service) Write(path, content string, isBase64 bool) error {
	full, err := s.workspace.SafePath(path)
	if err != nil {
		return err
	}
	if s.workspace.IsProtected(path) {
		return fmt.Errorf("%w: %s", workspace.ErrProtectedPath, path)
	}

	data := []byte(content)
	if isBase64 {
		data, err = base64.StdEncoding.DecodeString(content)
		if err != nil {
			return fmt.Errorf("invalid base64 payload: %w", err)
		}
	}

	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return fmt.Errorf("failed to create parent directory: %w", err)
	}
	if err := os.WriteFile(full, data, 0o644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	return nil
}

// CreateFolder makes a directory inside the workspace.
func (s *Service) CreateFolder(path string) error {
	full, err := s.workspace.SafePath(path)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(full, 0o755); err != nil {
		return fmt.Errorf("failed to create folder: %w", err)
	}

	return nil
}

// Delete removes a file or folder, refusing protected paths.
func (s *Service) Delete(path string) error {
	full, err := s.workspace.SafePath(path)
	if err != nil {
		return err
	}
	if s.workspace.IsProtected(path) {
		return fmt.Errorf("%w: %s", workspace.ErrProtectedPath, path)
	}

	info, err := os.Stat(full)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrNotFound, path)
	}

	if info.IsDir() {
		err = os.RemoveAll(full)
	} else {
		err = os.Remove(full)
	}
	if err != nil {
		return fmt.Errorf("failed to delete: %w", err)
	}

	return nil
}

// Copy duplicates a file within the workspace.
func (s *Service) Copy(source, destination string) error {
	src, err := s.workspace.SafePath(source)
	if err != nil {
		return err
	}
	dst, err := s.workspace.SafePath(destination)
	if err != nil {
		return err
	}

	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrNotFound, source)
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("failed to create parent directory: %w", err)
	}

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("failed to create destination: %w", err)
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return fmt.Errorf("failed to copy: %w", err)
	}

	return nil
}

// Rename moves a file or folder within the workspace.
func (s *Service) Rename(source, destination string) error {
	src, err := s.workspace.SafePath(source)
	if err != nil {
		return err
	}
	dst, err := s.workspace.SafePath(destination)
	if err != nil {
		return err
	}
	if s.workspace.IsProtected(source) {
		return fmt.Errorf("%w: %s", workspace.ErrProtectedPath, source)
	}

	if err := os.Rename(src, dst); err != nil {
		return fmt.Errorf("failed to rename: %w", err)
	}

	return nil
}
