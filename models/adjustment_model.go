package models

import (
	"time"

	"stockledger/types"
)

// Adjustment is a physical-count header (stok opname).
type Adjustment struct {
	ID        types.SnowflakeID `json:"id" gorm:"primaryKey;autoIncrement:false"`
	RefNo     string            `json:"ref_no" gorm:"unique;not null"`
	Date      string            `json:"date"`
	Notes     string            `json:"notes"`
	CreatedBy int               `json:"created_by"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`

	Lines []AdjustmentLine `json:"lines" gorm:"foreignKey:AdjustmentID;references:ID;constraint:OnDelete:CASCADE"`
}

func (Adjustment) TableName() string { return "adjustments" }

// AdjustmentLine keeps what the system believed next to what was counted.
type AdjustmentLine struct {
	ID           uint              `json:"id" gorm:"primaryKey"`
	AdjustmentID types.SnowflakeID `json:"adjustment_id"`
	ItemCode     string            `json:"item_code"`
	SystemQty    int               `json:"system_qty"`
	PhysicalQty  int               `json:"physical_qty"`
	Difference   int               `json:"difference"`
	Notes        string            `json:"notes"`
	CreatedAt    time.Time         `json:"created_at"`
}

func (AdjustmentLine) TableName() string { return "adjustment_lines" }
