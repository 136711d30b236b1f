package repositories

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"stockledger/models"
	"stockledger/types"
)

type ItemRepository struct {
	db *gorm.DB
}

func NewItemRepository(db *gorm.DB) *ItemRepository {
	return &ItemRepository{db}
}

// FindByCode returns a not-found *types.Error when no item has the code.
func (r *ItemRepository) FindByCode(code string) (*models.Item, error) {
	var item models.Item
	if err := r.db.Where("code = ?", code).First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, types.NotFound("item", code)
		}
		return nil, fmt.Errorf("find item %s: %w", code, err)
	}
	return &item, nil
}

// Balance reads the current on-hand quantity of one item.
func (r *ItemRepository) Balance(code string) (int, error) {
	var balances []int
	if err := r.db.Model(&models.Item{}).Where("code = ?", code).Pluck("balance", &balances).Error; err != nil {
		return 0, fmt.Errorf("read balance of %s: %w", code, err)
	}
	if len(balances) == 0 {
		return 0, types.NotFound("item", code)
	}
	return balances[0], nil
}

// AddBalance applies a signed delta to the item balance.
func (r *ItemRepository) AddBalance(code string, delta int) error {
	res := r.db.Model(&models.Item{}).
		Where("code = ?", code).
		Updates(map[string]interface{}{
			"balance":    gorm.Expr("balance + ?", delta),
			"updated_at": r.db.NowFunc(),
		})
	if res.Error != nil {
		return fmt.Errorf("update balance of %s: %w", code, res.Error)
	}
	if res.RowsAffected == 0 {
		return types.NotFound("item", code)
	}
	return nil
}

func (r *ItemRepository) Create(item *models.Item) error {
	return r.db.Create(item).Error
}

func (r *ItemRepository) FindAll() ([]models.Item, error) {
	var items []models.Item
	err := r.db.Order("code ASC").Find(&items).Error
	return items, err
}
