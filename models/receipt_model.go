package models

import (
	"time"

	"github.com/shopspring/decimal"

	"stockledger/types"
)

// Receipt is a goods receipt header (barang masuk).
type Receipt struct {
	ID           types.SnowflakeID `json:"id" gorm:"primaryKey;autoIncrement:false"`
	RefNo        string            `json:"ref_no" gorm:"unique;not null"`
	Date         string            `json:"date"`
	SupplierCode *string           `json:"supplier_code"`
	Notes        string            `json:"notes"`
	CreatedBy    int               `json:"created_by"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`

	Lines []ReceiptLine `json:"lines" gorm:"foreignKey:ReceiptID;references:ID;constraint:OnDelete:CASCADE"`
}

func (Receipt) TableName() string { return "receipts" }

type ReceiptLine struct {
	ID        uint              `json:"id" gorm:"primaryKey"`
	ReceiptID types.SnowflakeID `json:"receipt_id"`
	ItemCode  string            `json:"item_code"`
	Qty       int               `json:"qty"`
	UnitCost  decimal.Decimal   `json:"unit_cost"`
	Notes     string            `json:"notes"`
	CreatedAt time.Time         `json:"created_at"`
}

func (ReceiptLine) TableName() string { return "receipt_lines" }
