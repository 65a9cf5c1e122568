// Package settings persists the studio's single versioned document:
// credentials (token obfuscated by the caller) and free-form settings.
// Legacy flat documents with top-level username/token are migrated into
// the nested layout on load.
package settings

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"go.uber.org/zap"
)

const (
	storageKey = "studio:settings"

	currentVersion = 1
)

type storedCredentials struct {
	Username string `json:"username"`
	Token    string `json:"token"`
}

type document struct {
	Version     int                `json:"version"`
	Credentials *storedCredentials `json:"credentials,omitempty"`
	Settings    map[string]string  `json:"settings,omitempty"`
}

// legacyDocument is the pre-versioning flat layout.
type legacyDocument struct {
	Username string `json:"username"`
	Token    string `json:"token"`
}

type Store struct {
	db *badger.DB

	logger *zap.Logger
}

func NewStore(db *badger.DB, logger *zap.Logger) *Store {
	return &Store{
		db:     db,
		logger: logger,
	}
}

func (s *Store) load(txn *badger.Txn) (*document, error) {
	item, err := txn.Get([]byte(storageKey))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return &document{Version: currentVersion, Settings: map[string]string{}}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get settings document: %w", err)
	}

	var doc document
	if valErr := item.Value(func(val []byte) error {
		return s.unmarshal(val, &doc)
	}); valErr != nil {
		return nil, valErr
	}

	if doc.Settings == nil {
		doc.Settings = map[string]string{}
	}

	return &doc, nil
}

// unmarshal decodes a stored document, migrating the legacy flat layout.
func (s *Store) unmarshal(val []byte, doc *document) error {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(val, &probe); err != nil {
		return fmt.Errorf("failed to unmarshal settings document: %w", err)
	}

	if _, versioned := probe["version"]; !versioned {
		if _, flat := probe["username"]; flat {
			var legacy legacyDocument
			if err := json.Unmarshal(val, &legacy); err != nil {
				return fmt.Errorf("failed to unmarshal legacy settings document: %w", err)
			}

			s.logger.Info("migrating legacy settings document")
			doc.Version = currentVersion
			doc.Credentials = &storedCredentials{Username: legacy.Username, Token: legacy.Token}
			doc.Settings = map[string]string{}

			return nil
		}
	}

	if err := json.Unmarshal(val, doc); err != nil {
		return fmt.Errorf("failed to unmarshal settings document: %w", err)
	}
	if doc.Version == 0 {
		doc.Version = currentVersion
	}

	return nil
}

func (s *Store) save(txn *badger.Txn, doc *document) error {
	doc.Version = currentVersion

	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal settings document: %w", err)
	}

	if err := txn.Set([]byte(storageKey), data); err != nil {
		return fmt.Errorf("failed to store settings document: %w", err)
	}

	return nil
}

// Credentials returns the persisted pair, token still obfuscated.
func (s *Store) Credentials() (username, token string, ok bool) {
	err := s.db.View(func(txn *badger.Txn) error {
		doc, err := s.load(txn)
		if err != nil {
			return err
		}

		if doc.Credentials != nil {
			username = doc.Credentials.Username
			token = doc.Credentials.Token
			ok = true
		}

		return nil
	})
	if err != nil {
		s.logger.Error("failed to read credentials", zap.Error(err))
		return "", "", false
	}

	return username, token, ok
}

func (s *Store) SaveCredentials(username, token string) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		doc, err := s.load(txn)
		if err != nil {
			return err
		}

		doc.Credentials = &storedCredentials{Username: username, Token: token}

		return s.save(txn, doc)
	})
	if err != nil {
		return fmt.Errorf("failed to save credentials: %w", err)
	}

	return nil
}

func (s *Store) ClearCredentials() error {
	err := s.db.Update(func(txn *badger.Txn) error {
		doc, err := s.load(txn)
		if err != nil {
			return err
		}

		doc.Credentials = nil

		return s.save(txn, doc)
	})
	if err != nil {
		return fmt.Errorf("failed to clear credentials: %w", err)
	}

	return nil
}

// Setting returns one settings value.
func (s *Store) Setting(key string) (string, bool) {
	var value string
	var ok bool

	err := s.db.View(func(txn *badger.Txn) error {
		doc, err := s.load(txn)
		if err != nil {
			return err
		}

		value, ok = doc.Settings[key]

		return nil
	})
	if err != nil {
		s.logger.Error("failed to read setting", zap.String("key", key), zap.Error(err))
		return "", false
	}

	return value, ok
}

func (s *Store) SaveSetting(key, value string) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		doc, err := s.load(txn)
		if err != nil {
			return err
		}

		doc.Settings[key] = value

		return s.save(txn, doc)
	})
	if err != nil {
		return fmt.Errorf("failed to save setting: %w", err)
	}

	return nil
}
