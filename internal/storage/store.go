// Package storage persists named JSON snapshots. Every Save overwrites the
// whole slot; there is no partial update and no schema migration of the
// payload itself.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

var (
	ErrNotFound       = errors.New("storage: not found")
	ErrEmptyKey       = errors.New("storage: snapshot key is required")
	ErrUnknownBackend = errors.New("storage: unknown backend")
)

const (
	BackendSQLite = "sqlite"
	BackendFile   = "file"
)

// SnapshotStore is a key/value store of whole-document snapshots.
type SnapshotStore interface {
	// Load decodes the slot into dst. Missing slots return ErrNotFound.
	Load(ctx context.Context, key string, dst any) error
	Save(ctx context.Context, key string, src any) error
	Delete(ctx context.Context, key string) error
	Keys(ctx context.Context) ([]string, error)
	Close() error
}

// Open returns the backend named by kind rooted at dataDir.
func Open(kind, dataDir string) (SnapshotStore, error) {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case BackendSQLite, "":
		return OpenSQLite(filepath.Join(dataDir, "flowstate.db"))
	case BackendFile:
		return NewFileStore(dataDir)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, kind)
	}
}

func encodePayload(key string, src any) ([]byte, error) {
	if strings.TrimSpace(key) == "" {
		return nil, ErrEmptyKey
	}
	payload, err := json.Marshal(src)
	if err != nil {
		return nil, fmt.Errorf("encode snapshot %s: %w", key, err)
	}
	return payload, nil
}

func decodePayload(key string, payload []byte, dst any) error {
	if err := json.Unmarshal(payload, dst); err != nil {
		return fmt.Errorf("decode snapshot %s: %w", key, err)
	}
	return nil
}
