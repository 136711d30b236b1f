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

// IDGenerator hands out header IDs.
type IDGenerator interface {
	Generate() types.SnowflakeID
}

type ReceiptLineRequest struct {
	ItemCode string          `json:"item_code" validate:"required"`
	Qty      int             `json:"qty" validate:"gt=0"`
	UnitCost decimal.Decimal `json:"unit_cost" validate:"-"`
	Notes    string          `json:"notes"`
}

type ReceiptRequest struct {
	RefNo        string               `json:"ref_no" validate:"required"`
	Date         string               `json:"date" validate:"required"`
	SupplierCode string               `json:"supplier_code"`
	Notes        string               `json:"notes"`
	CreatedBy    int                  `json:"-"`
	Lines        []ReceiptLineRequest `json:"lines" validate:"required,min=1,dive"`
}

func (r *ReceiptRequest) normalize() {
	r.RefNo = trim(r.RefNo)
	r.Date = trim(r.Date)
	for i := range r.Lines {
		r.Lines[i].ItemCode = trim(r.Lines[i].ItemCode)
	}
}

// ReceiptService records goods receipts. Every line raises the item balance.
type ReceiptService struct {
	coordinator *database.Coordinator
	ledger      *Ledger
	ids         IDGenerator
}

func NewReceiptService(coordinator *database.Coordinator, ledger *Ledger, ids IDGenerator) *ReceiptService {
	return &ReceiptService{coordinator: coordinator, ledger: ledger, ids: ids}
}

// Create stores the receipt and its lines and moves stock in, all in one
// transaction. A durability error comes back together with the receipt.
func (s *ReceiptService) Create(ctx context.Context, req ReceiptRequest) (*models.Receipt, error) {
	req.normalize()
	if err := validateRequest(&req); err != nil {
		return nil, err
	}

	return database.RunValue(ctx, s.coordinator, func(tx *gorm.DB) (*models.Receipt, error) {
		header := &models.Receipt{
			ID:           s.ids.Generate(),
			RefNo:        req.RefNo,
			Date:         req.Date,
			SupplierCode: optionalCode(req.SupplierCode),
			Notes:        req.Notes,
			CreatedBy:    req.CreatedBy,
		}
		if header.SupplierCode != nil {
			if err := repositories.NewSupplierRepository(tx).MustExist(*header.SupplierCode); err != nil {
				return nil, err
			}
		}

		repo := repositories.NewReceiptRepository(tx)
		if err := repo.CreateHeader(header); err != nil {
			return nil, headerInsertError(header.RefNo, err)
		}

		items := repositories.NewItemRepository(tx)
		for _, l := range req.Lines {
			if _, err := items.FindByCode(l.ItemCode); err != nil {
				return nil, err
			}

			line := models.ReceiptLine{
				ReceiptID: header.ID,
				ItemCode:  l.ItemCode,
				Qty:       l.Qty,
				UnitCost:  l.UnitCost,
				Notes:     l.Notes,
			}
			if err := repo.CreateLine(&line); err != nil {
				return nil, lineInsertError(header.RefNo, l.ItemCode, err)
			}

			if _, err := s.ledger.Move(tx, Movement{
				ItemCode: l.ItemCode,
				Kind:     models.MovementReceipt,
				Delta:    l.Qty,
				RefNo:    header.RefNo,
				Notes:    l.Notes,
			}); err != nil {
				return nil, err
			}
			header.Lines = append(header.Lines, line)
		}
		return header, nil
	})
}

// Get returns the receipt with its lines, or a not-found error.
func (s *ReceiptService) Get(ctx context.Context, refNo string) (*models.Receipt, error) {
	header, err := repositories.NewReceiptRepository(s.coordinator.DB(ctx)).FindByRef(refNo)
	if err != nil {
		return nil, err
	}
	if header == nil {
		return nil, types.NotFound("receipt", refNo)
	}
	return header, nil
}
