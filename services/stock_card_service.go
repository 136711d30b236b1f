package services

import (
	"context"

	"stockledger/database"
	"stockledger/models"
	"stockledger/repositories"
)

// StockCard is an item with its movements, oldest first.
type StockCard struct {
	Item    *models.Item         `json:"item"`
	Entries []models.StockLedger `json:"entries"`
}

// Reconciliation compares every stored balance with the ledger.
type Reconciliation struct {
	Consistent bool                        `json:"consistent"`
	Items      []repositories.BalanceCheck `json:"items"`
	Mismatches []repositories.BalanceCheck `json:"mismatches"`
}

type StockCardService struct {
	coordinator *database.Coordinator
}

func NewStockCardService(coordinator *database.Coordinator) *StockCardService {
	return &StockCardService{coordinator: coordinator}
}

// Card returns the item and up to limit movements. limit <= 0 returns all.
func (s *StockCardService) Card(ctx context.Context, code string, limit int) (*StockCard, error) {
	db := s.coordinator.DB(ctx)
	item, err := repositories.NewItemRepository(db).FindByCode(code)
	if err != nil {
		return nil, err
	}
	entries, err := repositories.NewLedgerRepository(db).ListByItem(code, limit)
	if err != nil {
		return nil, err
	}
	return &StockCard{Item: item, Entries: entries}, nil
}

// Latest returns the most recent movement of an item, nil when it has none.
func (s *StockCardService) Latest(ctx context.Context, code string) (*models.StockLedger, error) {
	db := s.coordinator.DB(ctx)
	if _, err := repositories.NewItemRepository(db).FindByCode(code); err != nil {
		return nil, err
	}
	return repositories.NewLedgerRepository(db).Latest(code)
}

// Movements returns every ledger entry written under one reference number.
func (s *StockCardService) Movements(ctx context.Context, refNo string) ([]models.StockLedger, error) {
	return repositories.NewLedgerRepository(s.coordinator.DB(ctx)).ListByRef(refNo)
}

// Reconcile checks that each balance equals the signed sum of its ledger
// entries and, when the item has any, the stock_after of the latest one.
func (s *StockCardService) Reconcile(ctx context.Context) (*Reconciliation, error) {
	checks, err := repositories.NewLedgerRepository(s.coordinator.DB(ctx)).BalanceChecks()
	if err != nil {
		return nil, err
	}

	rec := &Reconciliation{Consistent: true, Items: checks, Mismatches: []repositories.BalanceCheck{}}
	for _, c := range checks {
		ok := c.Balance == c.LedgerSum
		if c.LatestStockAfter != nil {
			ok = ok && *c.LatestStockAfter == c.Balance
		}
		if !ok {
			rec.Consistent = false
			rec.Mismatches = append(rec.Mismatches, c)
		}
	}
	return rec, nil
}
