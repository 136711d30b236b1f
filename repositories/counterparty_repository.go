package repositories

import (
	"fmt"

	"gorm.io/gorm"

	"stockledger/models"
	"stockledger/types"
)

type SupplierRepository struct {
	db *gorm.DB
}

func NewSupplierRepository(db *gorm.DB) *SupplierRepository {
	return &SupplierRepository{db}
}

// MustExist returns a not-found error for an unknown supplier code.
func (r *SupplierRepository) MustExist(code string) error {
	return mustExist(r.db, &models.Supplier{}, "supplier", code)
}

func (r *SupplierRepository) Create(s *models.Supplier) error {
	return r.db.Create(s).Error
}

func (r *SupplierRepository) FindAll() ([]models.Supplier, error) {
	var suppliers []models.Supplier
	err := r.db.Order("code ASC").Find(&suppliers).Error
	return suppliers, err
}

type CustomerRepository struct {
	db *gorm.DB
}

func NewCustomerRepository(db *gorm.DB) *CustomerRepository {
	return &CustomerRepository{db}
}

func (r *CustomerRepository) MustExist(code string) error {
	return mustExist(r.db, &models.Customer{}, "customer", code)
}

func (r *CustomerRepository) Create(c *models.Customer) error {
	return r.db.Create(c).Error
}

func (r *CustomerRepository) FindAll() ([]models.Customer, error) {
	var customers []models.Customer
	err := r.db.Order("code ASC").Find(&customers).Error
	return customers, err
}

func mustExist(db *gorm.DB, model interface{}, entity, code string) error {
	var n int64
	if err := db.Model(model).Where("code = ?", code).Count(&n).Error; err != nil {
		return fmt.Errorf("look up %s %s: %w", entity, code, err)
	}
	if n == 0 {
		return types.NotFound(entity, code)
	}
	return nil
}
