package services

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"stockledger/database"
	"stockledger/idgen"
)

// switchableSnapshot forwards to a FileSnapshot until fail is set.
type switchableSnapshot struct {
	*database.FileSnapshot
	fail  bool
	calls int
}

func (s *switchableSnapshot) Snapshot(ctx context.Context, store *database.Store) error {
	s.calls++
	if s.fail {
		return errors.New("disk full")
	}
	return s.FileSnapshot.Snapshot(ctx, store)
}

type testEnv struct {
	path        string
	store       *database.Store
	snapshot    *switchableSnapshot
	coordinator *database.Coordinator
	ledger      *Ledger

	master      *MasterService
	receipts    *ReceiptService
	issues      *IssueService
	adjustments *AdjustmentService
	claims      *ClaimService
	cards       *StockCardService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	path := filepath.Join(t.TempDir(), "stock.db")
	snap := &switchableSnapshot{FileSnapshot: database.NewFileSnapshot(path, zap.NewNop())}
	store, err := snap.Load(context.Background())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	ids, err := idgen.New(1)
	require.NoError(t, err)

	coordinator := database.NewCoordinator(store, snap, zap.NewNop())
	ledger := NewLedger()
	return &testEnv{
		path:        path,
		store:       store,
		snapshot:    snap,
		coordinator: coordinator,
		ledger:      ledger,
		master:      NewMasterService(coordinator),
		receipts:    NewReceiptService(coordinator, ledger, ids),
		issues:      NewIssueService(coordinator, ledger, ids),
		adjustments: NewAdjustmentService(coordinator, ledger, ids),
		claims:      NewClaimService(coordinator, ledger, ids),
		cards:       NewStockCardService(coordinator),
	}
}

func (e *testEnv) item(t *testing.T, code string) {
	t.Helper()
	_, err := e.master.CreateItem(context.Background(), ItemRequest{
		Code:      code,
		Name:      "Item " + code,
		Unit:      "PCS",
		UnitCost:  decimal.NewFromInt(1000),
		UnitPrice: decimal.NewFromInt(1500),
	})
	require.NoError(t, err)
}

func (e *testEnv) balance(t *testing.T, code string) int {
	t.Helper()
	item, err := e.master.GetItem(context.Background(), code)
	require.NoError(t, err)
	return item.Balance
}

func (e *testEnv) receive(t *testing.T, ref, code string, qty int) {
	t.Helper()
	_, err := e.receipts.Create(context.Background(), ReceiptRequest{
		RefNo: ref,
		Date:  "2024-01-02",
		Lines: []ReceiptLineRequest{{ItemCode: code, Qty: qty}},
	})
	require.NoError(t, err)
}

func (e *testEnv) requireConsistent(t *testing.T) {
	t.Helper()
	rec, err := e.cards.Reconcile(context.Background())
	require.NoError(t, err)
	require.True(t, rec.Consistent, "mismatches: %+v", rec.Mismatches)
}
