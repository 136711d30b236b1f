package models

import (
	"time"

	"stockledger/types"
)

// Claim is a customer claim header: replacement goods sent out against a
// customer complaint.
type Claim struct {
	ID           types.SnowflakeID `json:"id" gorm:"primaryKey;autoIncrement:false"`
	RefNo        string            `json:"ref_no" gorm:"unique;not null"`
	Date         string            `json:"date"`
	CustomerCode *string           `json:"customer_code"`
	Notes        string            `json:"notes"`
	CreatedBy    int               `json:"created_by"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`

	Lines []ClaimLine `json:"lines" gorm:"foreignKey:ClaimID;references:ID;constraint:OnDelete:CASCADE"`
}

func (Claim) TableName() string { return "claims" }

type ClaimLine struct {
	ID        uint              `json:"id" gorm:"primaryKey"`
	ClaimID   types.SnowflakeID `json:"claim_id"`
	ItemCode  string            `json:"item_code"`
	Qty       int               `json:"qty"`
	Reason    string            `json:"reason"`
	CreatedAt time.Time         `json:"created_at"`
}

func (ClaimLine) TableName() string { return "claim_lines" }
