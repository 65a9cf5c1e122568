package files

import (
	"encoding/base64"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap/zaptest"

	"github.com/blueprintstudio/blueprintstudio/internal/workspace"
)

func newTestService(t *testing.T) (*Service, string) {
	t.Helper()

	root := t.TempDir()
	logger := zaptest.NewLogger(t)

	ws, err := workspace.New(workspace.Config{Root: root}, logger)
	if err != nil {
		t.Fatal(err)
	}

	return NewService(ws, logger), root
}

func seed(t *testing.T, root, path, content string) {
	t.Helper()

	full := filepath.Join(root, path)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestList(t *testing.T) {
	service, root := newTestService(t)
	seed(t, root, "automations.yaml", "[]\n")
	seed(t, root, "scripts/morning.yaml", "{}\n")
	seed(t, root, ".storage/core.config", "{}")
	seed(t, root, "__pycache__/junk.pyc", "x")

	entries, err := service.List(false)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}

	paths := map[string]string{}
	for _, entry := range entries {
		paths[entry.Path] = entry.Type
	}

	if paths["automations.yaml"] != "file" {
		t.Errorf("missing automations.yaml, got %v", paths)
	}
	if paths["scripts"] != "folder" || paths["scripts/morning.yaml"] != "file" {
		t.Errorf("missing nested entries, got %v", paths)
	}
	if _, present := paths[".storage/core.config"]; present {
		t.Error("hidden directories must not be listed by default")
	}
	if _, present := paths["__pycache__/junk.pyc"]; present {
		t.Error("excluded directories must never be listed")
	}

	// With hidden entries enabled, dotfiles appear but exclusions hold.
	entries, err = service.List(true)
	if err != nil {
		t.Fatal(err)
	}
	var sawStorage, sawCache bool
	for _, entry := range entries {
		if entry.Path == ".storage/core.config" {
			sawStorage = true
		}
		if entry.Path == "__pycache__/junk.pyc" {
			sawCache = true
		}
	}
	if !sawStorage {
		t.Error("show_hidden should reveal dot directories")
	}
	if sawCache {
		t.Error("excluded directories must stay hidden even with show_hidden")
	}
}

func TestReadWrite(t *testing.T) {
	service, _ := newTestService(t)

	if err := service.Write("automations.yaml", "- alias: test\n", false); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	content, err := service.Read("automations.yaml")
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if content.Content != "- alias: test\n" || content.Encoding != "utf-8" {
		t.Errorf("unexpected content %+v", content)
	}
}

func TestRead_BinaryIsBase64(t *testing.T) {
	service, root := newTestService(t)

	raw := []byte{0x89, 0x50, 0x4e, 0x47, 0x00}
	if err := os.WriteFile(filepath.Join(root, "icon.png"), raw, 0o644); err != nil {
		t.Fatal(err)
	}

	content, err := service.Read("icon.png")
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if content.Encoding != "base64" {
		t.Fatalf("expected base64 encoding, got %q", content.Encoding)
	}

	decoded, err := base64.StdEncoding.DecodeString(content.Content)
	if err != nil || string(decoded) != string(raw) {
		t.Errorf("payload must round-trip, got %q, %v", content.Content, err)
	}
}

func TestRead_NotFound(t *testing.T) {
	service, _ := newTestService(t)

	_, err := service.Read("missing.yaml")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestWrite_Base64Payload(t *testing.T) {
	service, root := newTestService(t)

	payload := base64.StdEncoding.EncodeToString([]byte("binary data"))
	if err := service.Write("blob.bin", payload, true); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	raw, err := os.ReadFile(filepath.Join(root, "blob.bin"))
	if err != nil {
		t.Fatal(err)
	}
	if string(raw) != "binary data" {
		t.Errorf("decoded payload mismatch: %q", raw)
	}
}

func TestWrite_RefusesProtected(t *testing.T) {
	service, _ := newTestService(t)

	err := service.Write("configuration.yaml", "overwritten", false)
	if !errors.Is(err, workspace.ErrProtectedPath) {
		t.Fatalf("expected ErrProtectedPath, got %v", err)
	}
}

func TestWrite_RefusesTraversal(t *testing.T) {
	service, _ := newTestService(t)

	err := service.Write("../outside.yaml", "x", false)
	if !errors.Is(err, workspace.ErrUnsafePath) {
		t.Fatalf("expected ErrUnsafePath, got %v", err)
	}
}

func TestDelete(t *testing.T) {
	service, root := newTestService(t)
	seed(t, root, "scripts/old.yaml", "{}")

	if err := service.Delete("scripts/old.yaml"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(root, "scripts/old.yaml")); !os.IsNotExist(err) {
		t.Error("file should be gone")
	}

	if err := service.Delete("scripts/old.yaml"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound on a second delete, got %v", err)
	}
	if err := service.Delete("secrets.yaml"); !errors.Is(err, workspace.ErrProtectedPath) {
		t.Errorf("expected ErrProtectedPath, got %v", err)
	}
}

func TestCopyAndRename(t *testing.T) {
	service, root := newTestService(t)
	seed(t, root, "automations.yaml", "original")

	if err := service.Copy("automations.yaml", "backups/automations.yaml"); err != nil {
		t.Fatalf("Copy failed: %v", err)
	}
	raw, err := os.ReadFile(filepath.Join(root, "backups/automations.yaml"))
	if err != nil || string(raw) != "original" {
		t.Fatalf("copy content mismatch: %q, %v", raw, err)
	}

	if err := service.Rename("backups/automations.yaml", "backups/renamed.yaml"); err != nil {
		t.Fatalf("Rename failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(root, "backups/renamed.yaml")); err != nil {
		t.Error("renamed file missing")
	}
	if _, err := os.Stat(filepath.Join(root, "backups/automations.yaml")); !os.IsNotExist(err) {
		t.Error("source should be gone after rename")
	}
}

func TestCreateFolder(t *testing.T) {
	service, root := newTestService(t)

	if err := service.CreateFolder("packages/lighting"); err != nil {
		t.Fatalf("CreateFolder failed: %v", err)
	}
	info, err := os.Stat(filepath.Join(root, "packages/lighting"))
	if err != nil || !info.IsDir() {
		t.Errorf("expected directory, got %v, %v", info, err)
	}
}
