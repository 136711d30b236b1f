package services

import (
	"gorm.io/gorm"

	"stockledger/models"
	"stockledger/repositories"
	"stockledger/types"
)

// Movement is one signed quantity change for one item.
type Movement struct {
	ItemCode string
	Kind     models.MovementKind
	Delta    int
	RefNo    string
	Notes    string
}

// Count is a physical-count result for one item.
type Count struct {
	ItemCode      string
	PhysicalCount int
	RefNo         string
	Notes         string
}

// CountResult is what a count changed: the balance before it and the delta.
type CountResult struct {
	Entry     *models.StockLedger
	SystemQty int
	Delta     int
}

// Ledger pairs every balance change with exactly one ledger entry. Its
// methods must run on a transaction handle; any error they return is meant
// to abort that transaction.
type Ledger struct{}

func NewLedger() *Ledger {
	return &Ledger{}
}

// Move applies a receipt-like or issue-like movement. A decrease that would
// take the balance below zero fails with an insufficient-balance error.
func (l *Ledger) Move(tx *gorm.DB, m Movement) (*models.StockLedger, error) {
	switch m.Kind.Direction() {
	case models.DirectionInbound:
		if m.Delta <= 0 {
			return nil, types.Validation("inbound movement needs a positive quantity",
				types.FieldError{Field: "qty", Rule: "gt=0"})
		}
	case models.DirectionOutbound:
		if m.Delta >= 0 {
			return nil, types.Validation("outbound movement needs a negative delta",
				types.FieldError{Field: "qty", Rule: "gt=0"})
		}
	default:
		return nil, types.Validation("movement kind " + string(m.Kind) + " cannot be moved by delta")
	}

	items := repositories.NewItemRepository(tx)
	balance, err := items.Balance(m.ItemCode)
	if err != nil {
		return nil, err
	}
	if m.Delta < 0 && balance+m.Delta < 0 {
		return nil, types.InsufficientBalance(m.ItemCode, -m.Delta, balance)
	}

	return l.apply(tx, m)
}

// Adjust sets the balance to a counted quantity. The negative-balance guard
// does not apply: a count defines the balance instead of moving it. A count
// equal to the balance still records an entry with both quantities zero.
func (l *Ledger) Adjust(tx *gorm.DB, c Count) (*CountResult, error) {
	if c.PhysicalCount < 0 {
		return nil, types.Validation("physical count cannot be negative",
			types.FieldError{Field: "physical_count", Rule: "gte=0"})
	}

	items := repositories.NewItemRepository(tx)
	balance, err := items.Balance(c.ItemCode)
	if err != nil {
		return nil, err
	}

	delta := c.PhysicalCount - balance
	kind := models.MovementAdjustmentIn
	if delta < 0 {
		kind = models.MovementAdjustmentOut
	}

	entry, err := l.apply(tx, Movement{
		ItemCode: c.ItemCode,
		Kind:     kind,
		Delta:    delta,
		RefNo:    c.RefNo,
		Notes:    c.Notes,
	})
	if err != nil {
		return nil, err
	}
	return &CountResult{Entry: entry, SystemQty: balance, Delta: delta}, nil
}

func (l *Ledger) apply(tx *gorm.DB, m Movement) (*models.StockLedger, error) {
	items := repositories.NewItemRepository(tx)
	if m.Delta != 0 {
		if err := items.AddBalance(m.ItemCode, m.Delta); err != nil {
			return nil, err
		}
	}

	after, err := items.Balance(m.ItemCode)
	if err != nil {
		return nil, err
	}

	entry := &models.StockLedger{
		Kind:       m.Kind,
		RefNo:      m.RefNo,
		ItemCode:   m.ItemCode,
		QtyIn:      max(m.Delta, 0),
		QtyOut:     max(-m.Delta, 0),
		StockAfter: after,
		Notes:      m.Notes,
	}
	if err := repositories.NewLedgerRepository(tx).Append(entry); err != nil {
		return nil, err
	}
	return entry, nil
}
