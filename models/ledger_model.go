package models

import "time"

type MovementKind string

const (
	MovementReceipt       MovementKind = "inbound_receipt"
	MovementIssue         MovementKind = "outbound_issue"
	MovementClaim         MovementKind = "outbound_claim"
	MovementAdjustmentIn  MovementKind = "adjustment_in"
	MovementAdjustmentOut MovementKind = "adjustment_out"

	// Reserved; no handler produces these yet.
	MovementReturnIn  MovementKind = "inbound_return"
	MovementReturnOut MovementKind = "outbound_return"
	MovementBonusIn   MovementKind = "inbound_bonus"
)

// MovementKinds lists every kind accepted by the stock_ledger CHECK constraint.
var MovementKinds = []MovementKind{
	MovementReceipt,
	MovementIssue,
	MovementClaim,
	MovementAdjustmentIn,
	MovementAdjustmentOut,
	MovementReturnIn,
	MovementReturnOut,
	MovementBonusIn,
}

type Direction int

const (
	DirectionUnknown Direction = iota
	DirectionInbound
	DirectionOutbound
	DirectionAdjustment
)

func (k MovementKind) Direction() Direction {
	switch k {
	case MovementReceipt, MovementReturnIn, MovementBonusIn:
		return DirectionInbound
	case MovementIssue, MovementClaim, MovementReturnOut:
		return DirectionOutbound
	case MovementAdjustmentIn, MovementAdjustmentOut:
		return DirectionAdjustment
	default:
		return DirectionUnknown
	}
}

func (k MovementKind) Valid() bool {
	return k.Direction() != DirectionUnknown
}

// StockLedger is one append-only movement row. StockAfter is the item
// balance right after the movement was applied.
type StockLedger struct {
	ID         uint         `json:"id" gorm:"primaryKey"`
	CreatedAt  time.Time    `json:"created_at"`
	Kind       MovementKind `json:"kind"`
	RefNo      string       `json:"ref_no"`
	ItemCode   string       `json:"item_code"`
	QtyIn      int          `json:"qty_in"`
	QtyOut     int          `json:"qty_out"`
	StockAfter int          `json:"stock_after"`
	Notes      string       `json:"notes"`
}

func (StockLedger) TableName() string { return "stock_ledger" }

// Delta is the signed balance change recorded by the entry.
func (e StockLedger) Delta() int {
	return e.QtyIn - e.QtyOut
}
