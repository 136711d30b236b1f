package services

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockledger/types"
)

func TestCreateItemStartsAtZero(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	item, err := env.master.CreateItem(ctx, ItemRequest{
		Code:         "BRG-001",
		Name:         "Kertas A4",
		Unit:         "RIM",
		ReorderLevel: 10,
		UnitCost:     decimal.RequireFromString("38000.50"),
	})
	require.NoError(t, err)
	assert.Zero(t, item.Balance)
	assert.True(t, item.BelowReorder())

	got, err := env.master.GetItem(ctx, "BRG-001")
	require.NoError(t, err)
	assert.Equal(t, "38000.5", got.UnitCost.String())

	_, err = env.master.CreateItem(ctx, ItemRequest{Code: "BRG-001", Name: "Again", Unit: "RIM"})
	var e *types.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, types.KindConflict, e.Kind)
	assert.Equal(t, "item", e.Entity)

	items, err := env.master.ListItems(ctx)
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestCreateItemValidation(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.master.CreateItem(context.Background(), ItemRequest{Code: "BRG-001", Unit: "PCS", ReorderLevel: -1})
	var e *types.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, types.KindValidation, e.Kind)
	assert.Contains(t, e.Fields, types.FieldError{Field: "name", Rule: "required"})
	assert.Contains(t, e.Fields, types.FieldError{Field: "reorder_level", Rule: "gte=0"})

	_, err = env.master.CreateItem(context.Background(), ItemRequest{
		Code: "BRG-001", Name: "Tinta", Unit: "PCS", UnitPrice: decimal.NewFromInt(-1),
	})
	assert.True(t, types.IsKind(err, types.KindValidation))
}

func TestCounterpartiesAreUnique(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.master.CreateCustomer(ctx, CounterpartyRequest{Code: "CUS-001", Name: "Toko Sentosa"})
	require.NoError(t, err)
	_, err = env.master.CreateCustomer(ctx, CounterpartyRequest{Code: "CUS-001", Name: "Toko Lain"})
	assert.True(t, types.IsKind(err, types.KindConflict))

	_, err = env.master.CreateSupplier(ctx, CounterpartyRequest{Code: "SUP-001", Name: "PT Sumber Makmur"})
	require.NoError(t, err)
	suppliers, err := env.master.ListSuppliers(ctx)
	require.NoError(t, err)
	assert.Len(t, suppliers, 1)
}

func TestReconcileDetectsDrift(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.item(t, "BRG-001")
	env.item(t, "BRG-002")
	env.receive(t, "R1", "BRG-001", 4)
	env.requireConsistent(t)

	// Bypass the ledger on purpose.
	require.NoError(t, env.store.DB.Exec("UPDATE items SET balance = 9 WHERE code = ?", "BRG-001").Error)

	rec, err := env.cards.Reconcile(ctx)
	require.NoError(t, err)
	assert.False(t, rec.Consistent)
	require.Len(t, rec.Mismatches, 1)
	assert.Equal(t, "BRG-001", rec.Mismatches[0].ItemCode)
	assert.Equal(t, 9, rec.Mismatches[0].Balance)
	assert.Equal(t, 4, rec.Mismatches[0].LedgerSum)
	assert.Len(t, rec.Items, 2)
}
