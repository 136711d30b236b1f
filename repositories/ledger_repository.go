package repositories

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"stockledger/models"
)

// LedgerRepository only appends and reads; the table rejects updates and
// deletes at the store level.
type LedgerRepository struct {
	db *gorm.DB
}

func NewLedgerRepository(db *gorm.DB) *LedgerRepository {
	return &LedgerRepository{db}
}

func (r *LedgerRepository) Append(entry *models.StockLedger) error {
	if err := r.db.Create(entry).Error; err != nil {
		return fmt.Errorf("append ledger entry for %s: %w", entry.ItemCode, err)
	}
	return nil
}

// ListByItem returns the item's movements oldest first. limit <= 0 means all.
func (r *LedgerRepository) ListByItem(itemCode string, limit int) ([]models.StockLedger, error) {
	var entries []models.StockLedger
	q := r.db.Where("item_code = ?", itemCode).Order("created_at ASC").Order("id ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&entries).Error
	return entries, err
}

// ListByRef returns every movement produced by one transaction.
func (r *LedgerRepository) ListByRef(refNo string) ([]models.StockLedger, error) {
	var entries []models.StockLedger
	err := r.db.Where("ref_no = ?", refNo).Order("id ASC").Find(&entries).Error
	return entries, err
}

// Latest returns the most recent movement of an item, or nil. Entries with
// the same timestamp resolve by insertion order.
func (r *LedgerRepository) Latest(itemCode string) (*models.StockLedger, error) {
	var entry models.StockLedger
	err := r.db.Where("item_code = ?", itemCode).
		Order("created_at DESC").Order("id DESC").
		Take(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *LedgerRepository) Count() (int64, error) {
	var n int64
	err := r.db.Model(&models.StockLedger{}).Count(&n).Error
	return n, err
}

// BalanceCheck pairs an item's stored balance with what its ledger says.
type BalanceCheck struct {
	ItemCode         string `json:"item_code"`
	Balance          int    `json:"balance"`
	LedgerSum        int    `json:"ledger_sum"`
	Entries          int    `json:"entries"`
	LatestStockAfter *int   `json:"latest_stock_after"`
}

func (r *LedgerRepository) BalanceChecks() ([]BalanceCheck, error) {
	sql := `SELECT i.code AS item_code, i.balance AS balance,
	COALESCE((SELECT SUM(l.qty_in - l.qty_out) FROM stock_ledger l WHERE l.item_code = i.code), 0) AS ledger_sum,
	(SELECT COUNT(*) FROM stock_ledger l WHERE l.item_code = i.code) AS entries,
	(SELECT l.stock_after FROM stock_ledger l WHERE l.item_code = i.code
		ORDER BY l.created_at DESC, l.id DESC LIMIT 1) AS latest_stock_after
	FROM items i
	ORDER BY i.code ASC`

	var checks []BalanceCheck
	if err := r.db.Raw(sql).Scan(&checks).Error; err != nil {
		return nil, err
	}
	return checks, nil
}
