package gitops

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
)

const helperScriptName = ".git_credential_helper.sh"

// SettingsStore is the persisted side of the vault. Tokens cross this
// boundary in their obfuscated form.
type SettingsStore interface {
	Credentials() (username, token string, ok bool)
	SaveCredentials(username, token string) error
	ClearCredentials() error
}

// Vault holds the credential pair in two tiers: the persisted store
// (survives restarts, present only when rememberMe was set) and the
// in-process session copy (always present for the current session).
//
// The persisted token is base64-obfuscated, not encrypted. That deters
// casual disk inspection only; it is deliberately kept reversible so the
// stored format stays migration-compatible.
type Vault struct {
	store SettingsStore
	root  string

	mu      sync.Mutex
	session *Credentials

	logger *zap.Logger
}

func NewVault(store SettingsStore, root string, logger *zap.Logger) *Vault {
	return &Vault{
		store:  store,
		root:   root,
		logger: logger,
	}
}

// Get returns the current credential pair, preferring the session copy and
// falling back to the persisted store.
func (v *Vault) Get() (Credentials, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.session != nil {
		return *v.session, true
	}

	username, encoded, ok := v.store.Credentials()
	if !ok {
		return Credentials{}, false
	}

	token, err := decodeToken(encoded)
	if err != nil {
		v.logger.Warn("stored token is not decodable, ignoring", zap.Error(err))
		return Credentials{}, false
	}

	creds := Credentials{Username: username, Token: token}
	v.session = &creds

	return creds, true
}

// Save stores the pair in the session tier and, when remember is set, in
// the persisted store. With remember unset the persisted store is cleared
// instead so nothing survives a restart.
func (v *Vault) Save(username, token string, remember bool) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.session = &Credentials{Username: username, Token: token}

	if remember {
		if err := v.store.SaveCredentials(username, encodeToken(token)); err != nil {
			return fmt.Errorf("failed to persist credentials: %w", err)
		}
		return nil
	}

	if err := v.store.ClearCredentials(); err != nil {
		return fmt.Errorf("failed to clear persisted credentials: %w", err)
	}

	return nil
}

// Clear drops both tiers. The caller is responsible for reverting the git
// credential-helper configuration.
func (v *Vault) Clear() error {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.session = nil

	if err := v.store.ClearCredentials(); err != nil {
		return fmt.Errorf("failed to clear persisted credentials: %w", err)
	}

	return nil
}

// HelperPath is where the transient credential helper is materialized.
func (v *Vault) HelperPath() string {
	return filepath.Join(v.root, helperScriptName)
}

// WithHelper materializes the credential helper script, runs fn with its
// path and removes the script on every exit path. A failed removal is
// logged and swallowed: a leftover script is a lesser risk than losing the
// operation's result.
func (v *Vault) WithHelper(creds Credentials, fn func(helper string) error) error {
	script := fmt.Sprintf("#!/bin/sh\necho \"username=%s\"\necho \"password=%s\"\n",
		creds.Username, creds.Token)

	path := v.HelperPath()
	if err := os.WriteFile(path, []byte(script), 0o700); err != nil {
		return fmt.Errorf("failed to write credential helper: %w", err)
	}

	defer func() {
		if err := os.Remove(path); err != nil {
			v.logger.Warn("failed to remove credential helper", zap.Error(err))
		}
	}()

	return fn(path)
}

func encodeToken(token string) string {
	return base64.StdEncoding.EncodeToString([]byte(token))
}

func decodeToken(encoded string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", fmt.Errorf("failed to decode token: %w", err)
	}

	return string(raw), nil
}
