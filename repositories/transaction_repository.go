package repositories

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"stockledger/models"
)

// TransactionRepository stores one transaction kind: header rows of type H
// owning detail rows of type L through a "Lines" association.
type TransactionRepository[H any, L any] struct {
	db *gorm.DB
}

func NewTransactionRepository[H any, L any](db *gorm.DB) *TransactionRepository[H, L] {
	return &TransactionRepository[H, L]{db}
}

func NewReceiptRepository(db *gorm.DB) *TransactionRepository[models.Receipt, models.ReceiptLine] {
	return NewTransactionRepository[models.Receipt, models.ReceiptLine](db)
}

func NewIssueRepository(db *gorm.DB) *TransactionRepository[models.Issue, models.IssueLine] {
	return NewTransactionRepository[models.Issue, models.IssueLine](db)
}

func NewAdjustmentRepository(db *gorm.DB) *TransactionRepository[models.Adjustment, models.AdjustmentLine] {
	return NewTransactionRepository[models.Adjustment, models.AdjustmentLine](db)
}

func NewClaimRepository(db *gorm.DB) *TransactionRepository[models.Claim, models.ClaimLine] {
	return NewTransactionRepository[models.Claim, models.ClaimLine](db)
}

// CreateHeader inserts the header row only; lines go through CreateLine.
func (r *TransactionRepository[H, L]) CreateHeader(header *H) error {
	return r.db.Omit(clause.Associations).Create(header).Error
}

func (r *TransactionRepository[H, L]) CreateLine(line *L) error {
	return r.db.Create(line).Error
}

// FindByRef loads a header with its lines, or returns nil when absent.
func (r *TransactionRepository[H, L]) FindByRef(refNo string) (*H, error) {
	var header H
	err := r.db.
		Preload("Lines", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Where("ref_no = ?", refNo).
		Take(&header).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &header, nil
}

func (r *TransactionRepository[H, L]) Count() (int64, error) {
	var n int64
	err := r.db.Model(new(H)).Count(&n).Error
	return n, err
}

func (r *TransactionRepository[H, L]) CountLines() (int64, error) {
	var n int64
	err := r.db.Model(new(L)).Count(&n).Error
	return n, err
}
