package files

import (
	"archive/zip"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Archive packages the given workspace paths into a zip in the system temp
// directory and returns its location. Directories are zipped recursively,
// excluded directories skipped. The caller owns the returned file.
func (s *Service) Archive(paths []string) (string, error) {
	if err := s.workspace.ValidatePaths(paths); err != nil {
		return "", err
	}

	target := filepath.Join(os.TempDir(), "studio-"+uuid.NewString()+".zip")
	out, err := os.Create(target)
	if err != nil {
		return "", fmt.Errorf("failed to create archive: %w", err)
	}
	defer out.Close()

	writer := zip.NewWriter(out)
	defer writer.Close()

	for _, path := range paths {
		full, err := s.workspace.SafePath(path)
		if err != nil {
			return "", err
		}

		info, err := os.Stat(full)
		if err != nil {
			return "", fmt.Errorf("%w: %s", ErrNotFound, path)
		}

		if info.IsDir() {
			if err := s.zipDir(writer, full, filepath.Base(full)); err != nil {
				return "", err
			}
		} else if err := zipFile(writer, full, filepath.Base(full)); err != nil {
			return "", err
		}
	}

	return target, nil
}

func (s *Service) zipDir(writer *zip.Writer, dir, prefix string) error {
	return filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil //nolint:nilerr //unreadable entries are skipped
		}
		if d.IsDir() {
			if s.workspace.IsExcluded(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}

		rel, relErr := filepath.Rel(dir, path)
		if relErr != nil {
			return nil //nolint:nilerr
		}

		return zipFile(writer, path, filepath.ToSlash(filepath.Join(prefix, rel)))
	})
}

func zipFile(writer *zip.Writer, path, name string) error {
	in, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", name, err)
	}
	defer in.Close()

	entry, err := writer.Create(name)
	if err != nil {
		return fmt.Errorf("failed to add %s to archive: %w", name, err)
	}

	if _, err := io.Copy(entry, in); err != nil {
		return fmt.Errorf("failed to write %s to archive: %w", name, err)
	}

	return nil
}

// Extract unpacks a base64-encoded zip into the given workspace folder.
// Every entry path is validated against the workspace before writing; one
// bad entry aborts the whole extraction.
func (s *Service) Extract(destination, zipData string) (int, error) {
	destFull, err := s.workspace.SafePath(destination)
	if err != nil {
		return 0, err
	}

	raw, err := base64.StdEncoding.DecodeString(zipData)
	if err != nil {
		return 0, fmt.Errorf("invalid base64 archive: %w", err)
	}

	reader, err := zip.NewReader(strings.NewReader(string(raw)), int64(len(raw)))
	if err != nil && !errors.Is(err, zip.ErrInsecurePath) {
		return 0, fmt.Errorf("failed to read archive: %w", err)
	}

	for _, entry := range reader.File {
		joined := filepath.Join(destination, entry.Name)
		if _, err := s.workspace.SafePath(joined); err != nil {
			return 0, err
		}
	}

	written := 0
	for _, entry := range reader.File {
		target := filepath.Join(destFull, filepath.FromSlash(entry.Name))

		if entry.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0o755); err != nil {
				return written, fmt.Errorf("failed to create directory: %w", err)
			}
			continue
		}

		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return written, fmt.Errorf("failed to create directory: %w", err)
		}

		if err := extractEntry(entry, target); err != nil {
			return written, err
		}
		written++
	}

	return written, nil
}

func extractEntry(entry *zip.File, target string) error {
	in, err := entry.Open()
	if err != nil {
		return fmt.Errorf("failed to open archive entry %s: %w", entry.Name, err)
	}
	defer in.Close()

	out, err := os.Create(target)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", target, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return fmt.Errorf("failed to extract %s: %w", entry.Name, err)
	}

	return nil
}
