package models

import (
	"time"

	"github.com/shopspring/decimal"

	"stockledger/types"
)

// Issue is a goods issue header (barang keluar).
type Issue struct {
	ID           types.SnowflakeID `json:"id" gorm:"primaryKey;autoIncrement:false"`
	RefNo        string            `json:"ref_no" gorm:"unique;not null"`
	Date         string            `json:"date"`
	CustomerCode *string           `json:"customer_code"`
	Notes        string            `json:"notes"`
	CreatedBy    int               `json:"created_by"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`

	Lines []IssueLine `json:"lines" gorm:"foreignKey:IssueID;references:ID;constraint:OnDelete:CASCADE"`
}

func (Issue) TableName() string { return "issues" }

type IssueLine struct {
	ID        uint              `json:"id" gorm:"primaryKey"`
	IssueID   types.SnowflakeID `json:"issue_id"`
	ItemCode  string            `json:"item_code"`
	Qty       int               `json:"qty"`
	UnitPrice decimal.Decimal   `json:"unit_price"`
	Notes     string            `json:"notes"`
	CreatedAt time.Time         `json:"created_at"`
}

func (IssueLine) TableName() string { return "issue_lines" }
