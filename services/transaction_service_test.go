package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"stockledger/database"
	"stockledger/idgen"
	"stockledger/models"
	"stockledger/repositories"
	"stockledger/types"
)

func TestReceiptThenIssueScenario(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.item(t, "BRG-001")

	receipt, err := env.receipts.Create(ctx, ReceiptRequest{
		RefNo:     "R1",
		Date:      "2024-01-02",
		CreatedBy: 7,
		Lines:     []ReceiptLineRequest{{ItemCode: "BRG-001", Qty: 10}},
	})
	require.NoError(t, err)
	assert.NotZero(t, receipt.ID)
	assert.Equal(t, 7, receipt.CreatedBy)
	assert.Equal(t, 10, env.balance(t, "BRG-001"))

	_, err = env.issues.Create(ctx, IssueRequest{
		RefNo: "S1",
		Date:  "2024-01-03",
		Lines: []IssueLineRequest{{ItemCode: "BRG-001", Qty: 4}},
	})
	require.NoError(t, err)
	assert.Equal(t, 6, env.balance(t, "BRG-001"))

	card, err := env.cards.Card(ctx, "BRG-001", 0)
	require.NoError(t, err)
	require.Len(t, card.Entries, 2)
	assert.Equal(t, models.MovementReceipt, card.Entries[0].Kind)
	assert.Equal(t, 10, card.Entries[0].StockAfter)
	assert.Equal(t, models.MovementIssue, card.Entries[1].Kind)
	assert.Equal(t, 6, card.Entries[1].StockAfter)

	latest, err := env.cards.Latest(ctx, "BRG-001")
	require.NoError(t, err)
	assert.Equal(t, "S1", latest.RefNo)

	// A second receipt under an existing reference changes nothing.
	_, err = env.receipts.Create(ctx, ReceiptRequest{
		RefNo: "R1",
		Date:  "2024-01-04",
		Lines: []ReceiptLineRequest{{ItemCode: "BRG-001", Qty: 3}},
	})
	require.Error(t, err)
	assert.True(t, types.IsKind(err, types.KindConflict))
	assert.True(t, errors.Is(err, types.ErrReferenceExists))
	assert.Equal(t, 6, env.balance(t, "BRG-001"))
	env.requireConsistent(t)
}

func TestIssueMultiLineFailureIsAtomic(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.item(t, "BRG-001")
	env.item(t, "BRG-002")
	env.receive(t, "R1", "BRG-001", 5)
	env.receive(t, "R2", "BRG-002", 2)

	_, err := env.issues.Create(ctx, IssueRequest{
		RefNo: "S1",
		Date:  "2024-01-03",
		Lines: []IssueLineRequest{
			{ItemCode: "BRG-001", Qty: 3},
			{ItemCode: "BRG-002", Qty: 5},
		},
	})
	require.True(t, types.IsKind(err, types.KindInsufficientBalance), "got %v", err)

	assert.Equal(t, 5, env.balance(t, "BRG-001"))
	assert.Equal(t, 2, env.balance(t, "BRG-002"))

	_, err = env.issues.Get(ctx, "S1")
	assert.True(t, types.IsKind(err, types.KindNotFound))

	db := env.coordinator.DB(ctx)
	lines, err := repositories.NewIssueRepository(db).CountLines()
	require.NoError(t, err)
	assert.Zero(t, lines)
	entries, err := env.cards.Movements(ctx, "S1")
	require.NoError(t, err)
	assert.Empty(t, entries)
	env.requireConsistent(t)
}

func TestReceiptUnknownItemRollsBack(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.item(t, "BRG-001")

	_, err := env.receipts.Create(ctx, ReceiptRequest{
		RefNo: "R1",
		Date:  "2024-01-02",
		Lines: []ReceiptLineRequest{
			{ItemCode: "BRG-001", Qty: 4},
			{ItemCode: "BRG-999", Qty: 1},
		},
	})
	var e *types.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, types.KindNotFound, e.Kind)
	assert.Equal(t, "item", e.Entity)
	assert.Equal(t, "BRG-999", e.Code)

	assert.Equal(t, 0, env.balance(t, "BRG-001"))
	_, err = env.receipts.Get(ctx, "R1")
	assert.True(t, types.IsKind(err, types.KindNotFound))
}

func TestReceiptUnknownSupplier(t *testing.T) {
	env := newTestEnv(t)
	env.item(t, "BRG-001")

	_, err := env.receipts.Create(context.Background(), ReceiptRequest{
		RefNo:        "R1",
		Date:         "2024-01-02",
		SupplierCode: "SUP-404",
		Lines:        []ReceiptLineRequest{{ItemCode: "BRG-001", Qty: 4}},
	})
	var e *types.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, types.KindNotFound, e.Kind)
	assert.Equal(t, "supplier", e.Entity)
	assert.Equal(t, 0, env.balance(t, "BRG-001"))
}

func TestReceiptWithSupplierLoadsLines(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.item(t, "BRG-001")
	env.item(t, "BRG-002")
	_, err := env.master.CreateSupplier(ctx, CounterpartyRequest{Code: "SUP-001", Name: "PT Sumber Makmur"})
	require.NoError(t, err)

	_, err = env.receipts.Create(ctx, ReceiptRequest{
		RefNo:        " R1 ",
		Date:         "2024-01-02",
		SupplierCode: "SUP-001",
		Lines: []ReceiptLineRequest{
			{ItemCode: "BRG-001", Qty: 4},
			{ItemCode: " BRG-002", Qty: 9},
		},
	})
	require.NoError(t, err)

	got, err := env.receipts.Get(ctx, "R1")
	require.NoError(t, err)
	require.NotNil(t, got.SupplierCode)
	assert.Equal(t, "SUP-001", *got.SupplierCode)
	require.Len(t, got.Lines, 2)
	assert.Equal(t, "BRG-001", got.Lines[0].ItemCode)
	assert.Equal(t, "BRG-002", got.Lines[1].ItemCode)
	assert.Equal(t, 9, env.balance(t, "BRG-002"))
}

func TestTransactionValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.item(t, "BRG-001")

	_, err := env.receipts.Create(ctx, ReceiptRequest{Date: "2024-01-02"})
	var e *types.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, types.KindValidation, e.Kind)
	assert.Contains(t, e.Fields, types.FieldError{Field: "ref_no", Rule: "required"})
	assert.Contains(t, e.Fields, types.FieldError{Field: "lines", Rule: "required"})

	_, err = env.issues.Create(ctx, IssueRequest{
		RefNo: "S1",
		Date:  "2024-01-02",
		Lines: []IssueLineRequest{{ItemCode: "BRG-001", Qty: 0}},
	})
	require.ErrorAs(t, err, &e)
	assert.Equal(t, types.KindValidation, e.Kind)
	assert.Equal(t, []types.FieldError{{Field: "lines[0].qty", Rule: "gt=0"}}, e.Fields)

	_, err = env.claims.Create(ctx, ClaimRequest{RefNo: "C1", Date: "2024-01-02", Lines: []ClaimLineRequest{}})
	require.ErrorAs(t, err, &e)
	assert.Equal(t, []types.FieldError{{Field: "lines", Rule: "min=1"}}, e.Fields)

	_, err = env.adjustments.Create(ctx, AdjustmentRequest{
		RefNo: "A1",
		Lines: []AdjustmentLineRequest{{ItemCode: "  ", PhysicalCount: -2}},
	})
	require.ErrorAs(t, err, &e)
	assert.Contains(t, e.Fields, types.FieldError{Field: "date", Rule: "required"})
	assert.Contains(t, e.Fields, types.FieldError{Field: "lines[0].item_code", Rule: "required"})
	assert.Contains(t, e.Fields, types.FieldError{Field: "lines[0].physical_count", Rule: "gte=0"})

	// Only the item creation committed.
	assert.Equal(t, 1, env.snapshot.calls)
}

func TestAdjustmentRecordsSystemQuantity(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.item(t, "BRG-001")
	env.item(t, "BRG-002")
	env.receive(t, "R1", "BRG-001", 5)
	env.receive(t, "R2", "BRG-002", 3)

	adj, err := env.adjustments.Create(ctx, AdjustmentRequest{
		RefNo: "A1",
		Date:  "2024-01-05",
		Lines: []AdjustmentLineRequest{
			{ItemCode: "BRG-001", PhysicalCount: 0},
			{ItemCode: "BRG-002", PhysicalCount: 8},
		},
	})
	require.NoError(t, err)
	require.Len(t, adj.Lines, 2)
	assert.Equal(t, 5, adj.Lines[0].SystemQty)
	assert.Equal(t, -5, adj.Lines[0].Difference)
	assert.Equal(t, 3, adj.Lines[1].SystemQty)
	assert.Equal(t, 5, adj.Lines[1].Difference)

	assert.Equal(t, 0, env.balance(t, "BRG-001"))
	assert.Equal(t, 8, env.balance(t, "BRG-002"))

	entries, err := env.cards.Movements(ctx, "A1")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, models.MovementAdjustmentOut, entries[0].Kind)
	assert.Equal(t, 5, entries[0].QtyOut)
	assert.Equal(t, models.MovementAdjustmentIn, entries[1].Kind)
	assert.Equal(t, 5, entries[1].QtyIn)
	env.requireConsistent(t)
}

func TestAdjustmentUnknownItem(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.adjustments.Create(context.Background(), AdjustmentRequest{
		RefNo: "A1",
		Date:  "2024-01-05",
		Lines: []AdjustmentLineRequest{{ItemCode: "BRG-404", PhysicalCount: 2}},
	})
	assert.True(t, types.IsKind(err, types.KindNotFound))
}

func TestClaimMovesStockOut(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.item(t, "BRG-001")
	env.receive(t, "R1", "BRG-001", 5)
	_, err := env.master.CreateCustomer(ctx, CounterpartyRequest{Code: "CUS-001", Name: "Toko Sentosa", Area: "JKT"})
	require.NoError(t, err)

	claim, err := env.claims.Create(ctx, ClaimRequest{
		RefNo:        "C1",
		Date:         "2024-01-06",
		CustomerCode: "CUS-001",
		Lines:        []ClaimLineRequest{{ItemCode: "BRG-001", Qty: 2, Reason: "damaged in transit"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "damaged in transit", claim.Lines[0].Reason)
	assert.Equal(t, 3, env.balance(t, "BRG-001"))

	latest, err := env.cards.Latest(ctx, "BRG-001")
	require.NoError(t, err)
	assert.Equal(t, models.MovementClaim, latest.Kind)
	assert.Equal(t, 3, latest.StockAfter)

	_, err = env.claims.Create(ctx, ClaimRequest{
		RefNo: "C2",
		Date:  "2024-01-06",
		Lines: []ClaimLineRequest{{ItemCode: "BRG-001", Qty: 4}},
	})
	assert.True(t, types.IsKind(err, types.KindInsufficientBalance))
	assert.Equal(t, 3, env.balance(t, "BRG-001"))
}

func TestIssueUnknownCustomer(t *testing.T) {
	env := newTestEnv(t)
	env.item(t, "BRG-001")
	env.receive(t, "R1", "BRG-001", 5)

	_, err := env.issues.Create(context.Background(), IssueRequest{
		RefNo:        "S1",
		Date:         "2024-01-03",
		CustomerCode: "CUS-404",
		Lines:        []IssueLineRequest{{ItemCode: "BRG-001", Qty: 1}},
	})
	var e *types.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, "customer", e.Entity)
	assert.Equal(t, 5, env.balance(t, "BRG-001"))
}

func TestDurabilityFailureKeepsCommit(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.item(t, "BRG-001")
	env.snapshot.fail = true

	receipt, err := env.receipts.Create(ctx, ReceiptRequest{
		RefNo: "R1",
		Date:  "2024-01-02",
		Lines: []ReceiptLineRequest{{ItemCode: "BRG-001", Qty: 10}},
	})
	require.Error(t, err)
	assert.True(t, types.IsKind(err, types.KindDurability))
	require.NotNil(t, receipt)
	assert.Equal(t, "R1", receipt.RefNo)

	assert.Equal(t, 10, env.balance(t, "BRG-001"))
}

func TestCommittedWorkSurvivesRestart(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.item(t, "BRG-001")
	env.receive(t, "R1", "BRG-001", 10)
	_, err := env.issues.Create(ctx, IssueRequest{
		RefNo: "S1",
		Date:  "2024-01-03",
		Lines: []IssueLineRequest{{ItemCode: "BRG-001", Qty: 4}},
	})
	require.NoError(t, err)
	_, err = env.adjustments.Create(ctx, AdjustmentRequest{
		RefNo: "A1",
		Date:  "2024-01-04",
		Lines: []AdjustmentLineRequest{{ItemCode: "BRG-001", PhysicalCount: 6}},
	})
	require.NoError(t, err)

	// Nothing is shared with the running store but the snapshot file.
	store, err := database.NewFileSnapshot(env.path, zap.NewNop()).Load(ctx)
	require.NoError(t, err)
	defer store.Close()

	ids, err := idgen.New(2)
	require.NoError(t, err)
	coordinator := database.NewCoordinator(store, database.NewFileSnapshot(env.path, nil), nil)
	master := NewMasterService(coordinator)
	cards := NewStockCardService(coordinator)
	receipts := NewReceiptService(coordinator, NewLedger(), ids)

	item, err := master.GetItem(ctx, "BRG-001")
	require.NoError(t, err)
	assert.Equal(t, 6, item.Balance)

	card, err := cards.Card(ctx, "BRG-001", 0)
	require.NoError(t, err)
	require.Len(t, card.Entries, 3)
	assert.Equal(t, []string{"R1", "S1", "A1"},
		[]string{card.Entries[0].RefNo, card.Entries[1].RefNo, card.Entries[2].RefNo})
	assert.Equal(t, models.MovementAdjustmentIn, card.Entries[2].Kind)

	rec, err := cards.Reconcile(ctx)
	require.NoError(t, err)
	assert.True(t, rec.Consistent)

	got, err := receipts.Get(ctx, "R1")
	require.NoError(t, err)
	require.Len(t, got.Lines, 1)

	_, err = receipts.Create(ctx, ReceiptRequest{
		RefNo: "R1",
		Date:  "2024-01-05",
		Lines: []ReceiptLineRequest{{ItemCode: "BRG-001", Qty: 1}},
	})
	assert.True(t, errors.Is(err, types.ErrReferenceExists))

	_, err = receipts.Create(ctx, ReceiptRequest{
		RefNo: "R2",
		Date:  "2024-01-05",
		Lines: []ReceiptLineRequest{{ItemCode: "BRG-404", Qty: 1}},
	})
	assert.True(t, types.IsKind(err, types.KindNotFound))
}
