package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Item is a stock-keeping unit. Balance is only ever changed by the stock
// ledger, inside the same transaction that appends the matching entry.
type Item struct {
	ID           uint            `json:"id" gorm:"primaryKey"`
	Code         string          `json:"code" gorm:"unique;not null"`
	Name         string          `json:"name"`
	Unit         string          `json:"unit"`
	ReorderLevel int             `json:"reorder_level"`
	UnitCost     decimal.Decimal `json:"unit_cost"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	Balance      int             `json:"balance"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

func (Item) TableName() string { return "items" }

// BelowReorder reports whether the balance reached the reorder threshold.
func (i Item) BelowReorder() bool {
	return i.ReorderLevel > 0 && i.Balance <= i.ReorderLevel
}
