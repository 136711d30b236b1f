package database

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

// Durability makes store state survive a restart. FileSnapshot writes the
// whole store on every commit; a journal-based implementation can replace it
// behind the same interface.
type Durability interface {
	// Load returns a live store holding the last durable state.
	Load(ctx context.Context) (*Store, error)
	// Snapshot persists the current store state.
	Snapshot(ctx context.Context, store *Store) error
}

// FileSnapshot keeps one snapshot file per deployment at Path.
type FileSnapshot struct {
	Path string
	log  *zap.Logger
}

var _ Durability = (*FileSnapshot)(nil)

func NewFileSnapshot(path string, log *zap.Logger) *FileSnapshot {
	if log == nil {
		log = zap.NewNop()
	}
	return &FileSnapshot{Path: path, log: log}
}

// Load restores the snapshot at Path. Without one it starts an empty store
// and writes its first snapshot right away.
func (f *FileSnapshot) Load(ctx context.Context) (*Store, error) {
	store, err := NewStore(f.log)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(f.Path)
	switch {
	case err == nil:
		if err := store.Import(ctx, data); err != nil {
			store.Close()
			return nil, fmt.Errorf("load snapshot %s: %w", f.Path, err)
		}
		if err := store.Migrate(ctx); err != nil {
			store.Close()
			return nil, err
		}
		f.log.Info("snapshot loaded", zap.String("path", f.Path), zap.Int("bytes", len(data)))
		return store, nil

	case errors.Is(err, fs.ErrNotExist):
		if err := store.Migrate(ctx); err != nil {
			store.Close()
			return nil, err
		}
		if err := f.Snapshot(ctx, store); err != nil {
			store.Close()
			return nil, err
		}
		f.log.Info("initialized empty store", zap.String("path", f.Path))
		return store, nil

	default:
		store.Close()
		return nil, fmt.Errorf("read snapshot %s: %w", f.Path, err)
	}
}

// Snapshot overwrites Path with the serialized store. The file is replaced
// atomically via rename, so readers see either the old or the new snapshot.
func (f *FileSnapshot) Snapshot(ctx context.Context, store *Store) error {
	data, err := store.Export(ctx)
	if err != nil {
		f.log.Error("snapshot export failed", zap.String("path", f.Path), zap.Error(err))
		return err
	}
	if err := writeFileAtomic(f.Path, data); err != nil {
		f.log.Error("snapshot write failed", zap.String("path", f.Path), zap.Error(err))
		return fmt.Errorf("write snapshot %s: %w", f.Path, err)
	}
	f.log.Debug("snapshot written", zap.String("path", f.Path), zap.Int("bytes", len(data)))
	return nil
}

func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}
