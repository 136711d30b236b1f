package database

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"stockledger/models"
)

func TestLoadWithoutSnapshotWritesOneEagerly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "stock.db")
	snap := NewFileSnapshot(path, zaptest.NewLogger(t))

	store, err := snap.Load(context.Background())
	require.NoError(t, err)
	defer store.Close()

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.NotZero(t, info.Size())
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	var n int64
	require.NoError(t, store.DB.Model(&models.Item{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestSnapshotThenLoadRestoresContents(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "stock.db")
	snap := NewFileSnapshot(path, nil)

	store, err := snap.Load(ctx)
	require.NoError(t, err)
	require.NoError(t, store.DB.Create(&models.Item{Code: "BRG-001", Name: "Kertas", Balance: 6}).Error)
	require.NoError(t, store.DB.Create(&models.StockLedger{
		Kind: models.MovementReceipt, RefNo: "R1", ItemCode: "BRG-001", QtyIn: 6, StockAfter: 6,
	}).Error)
	require.NoError(t, snap.Snapshot(ctx, store))
	require.NoError(t, store.Close())

	restored, err := snap.Load(ctx)
	require.NoError(t, err)
	defer restored.Close()

	var item models.Item
	require.NoError(t, restored.DB.Where("code = ?", "BRG-001").First(&item).Error)
	assert.Equal(t, 6, item.Balance)

	var entry models.StockLedger
	require.NoError(t, restored.DB.First(&entry).Error)
	assert.Equal(t, 6, entry.StockAfter)

	// Loading runs the schema again and leaves no temp files behind.
	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestSnapshotOfUnchangedStoreIsStable(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "stock.db")
	snap := NewFileSnapshot(path, nil)

	store, err := snap.Load(ctx)
	require.NoError(t, err)
	defer store.Close()
	require.NoError(t, store.DB.Create(&models.Item{Code: "BRG-001", Name: "Kertas"}).Error)

	require.NoError(t, snap.Snapshot(ctx, store))
	first, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NoError(t, snap.Snapshot(ctx, store))
	second, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.Equal(first, second))
}

func TestLoadCorruptSnapshotFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stock.db")
	require.NoError(t, os.WriteFile(path, []byte("garbage"), 0o600))

	_, err := NewFileSnapshot(path, nil).Load(context.Background())
	require.Error(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "garbage", string(data))
}

func TestSnapshotWriteFailure(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	store := newMigratedStore(t)

	// The parent "directory" is a regular file.
	blocker := filepath.Join(dir, "blocker")
	require.NoError(t, os.WriteFile(blocker, nil, 0o600))

	err := NewFileSnapshot(filepath.Join(blocker, "stock.db"), nil).Snapshot(ctx, store)
	assert.Error(t, err)
}
