package services

import (
	"context"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"stockledger/database"
	"stockledger/models"
	"stockledger/repositories"
	"stockledger/types"
)

type ItemRequest struct {
	Code         string          `json:"code" validate:"required,max=50"`
	Name         string          `json:"name" validate:"required"`
	Unit         string          `json:"unit" validate:"required"`
	ReorderLevel int             `json:"reorder_level" validate:"gte=0"`
	UnitCost     decimal.Decimal `json:"unit_cost" validate:"-"`
	UnitPrice    decimal.Decimal `json:"unit_price" validate:"-"`
}

type CounterpartyRequest struct {
	Code string `json:"code" validate:"required,max=50"`
	Name string `json:"name" validate:"required"`
	Area string `json:"area"`
}

// MasterService keeps the master data the ledger refers to. Items are
// created with a zero balance; stock only arrives through transactions.
type MasterService struct {
	coordinator *database.Coordinator
}

func NewMasterService(coordinator *database.Coordinator) *MasterService {
	return &MasterService{coordinator: coordinator}
}

func (s *MasterService) CreateItem(ctx context.Context, req ItemRequest) (*models.Item, error) {
	req.Code = trim(req.Code)
	req.Name = trim(req.Name)
	req.Unit = trim(req.Unit)
	if err := validateRequest(&req); err != nil {
		return nil, err
	}
	if req.UnitCost.IsNegative() || req.UnitPrice.IsNegative() {
		return nil, types.Validation("prices cannot be negative")
	}

	return database.RunValue(ctx, s.coordinator, func(tx *gorm.DB) (*models.Item, error) {
		item := &models.Item{
			Code:         req.Code,
			Name:         req.Name,
			Unit:         req.Unit,
			ReorderLevel: req.ReorderLevel,
			UnitCost:     req.UnitCost,
			UnitPrice:    req.UnitPrice,
			Balance:      0,
		}
		if err := repositories.NewItemRepository(tx).Create(item); err != nil {
			return nil, codeInsertError("item", item.Code, err)
		}
		return item, nil
	})
}

func (s *MasterService) CreateSupplier(ctx context.Context, req CounterpartyRequest) (*models.Supplier, error) {
	req.Code = trim(req.Code)
	req.Name = trim(req.Name)
	if err := validateRequest(&req); err != nil {
		return nil, err
	}

	return database.RunValue(ctx, s.coordinator, func(tx *gorm.DB) (*models.Supplier, error) {
		supplier := &models.Supplier{Code: req.Code, Name: req.Name}
		if err := repositories.NewSupplierRepository(tx).Create(supplier); err != nil {
			return nil, codeInsertError("supplier", supplier.Code, err)
		}
		return supplier, nil
	})
}

func (s *MasterService) CreateCustomer(ctx context.Context, req CounterpartyRequest) (*models.Customer, error) {
	req.Code = trim(req.Code)
	req.Name = trim(req.Name)
	if err := validateRequest(&req); err != nil {
		return nil, err
	}

	return database.RunValue(ctx, s.coordinator, func(tx *gorm.DB) (*models.Customer, error) {
		customer := &models.Customer{Code: req.Code, Name: req.Name, Area: trim(req.Area)}
		if err := repositories.NewCustomerRepository(tx).Create(customer); err != nil {
			return nil, codeInsertError("customer", customer.Code, err)
		}
		return customer, nil
	})
}

func (s *MasterService) GetItem(ctx context.Context, code string) (*models.Item, error) {
	return repositories.NewItemRepository(s.coordinator.DB(ctx)).FindByCode(code)
}

func (s *MasterService) ListItems(ctx context.Context) ([]models.Item, error) {
	return repositories.NewItemRepository(s.coordinator.DB(ctx)).FindAll()
}

func (s *MasterService) ListSuppliers(ctx context.Context) ([]models.Supplier, error) {
	return repositories.NewSupplierRepository(s.coordinator.DB(ctx)).FindAll()
}

func (s *MasterService) ListCustomers(ctx context.Context) ([]models.Customer, error) {
	return repositories.NewCustomerRepository(s.coordinator.DB(ctx)).FindAll()
}

func codeInsertError(entity, code string, err error) error {
	if database.IsUniqueViolation(err) {
		return &types.Error{
			Kind:    types.KindConflict,
			Entity:  entity,
			Code:    code,
			Message: entity + " " + code + " already exists",
			Err:     err,
		}
	}
	return err
}
