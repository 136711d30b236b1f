package services

import (
	"context"

	"gorm.io/gorm"

	"stockledger/database"
	"stockledger/models"
	"stockledger/repositories"
	"stockledger/types"
)

type AdjustmentLineRequest struct {
	ItemCode      string `json:"item_code" validate:"required"`
	PhysicalCount int    `json:"physical_count" validate:"gte=0"`
	Notes         string `json:"notes"`
}

type AdjustmentRequest struct {
	RefNo     string                  `json:"ref_no" validate:"required"`
	Date      string                  `json:"date" validate:"required"`
	Notes     string                  `json:"notes"`
	CreatedBy int                     `json:"-"`
	Lines     []AdjustmentLineRequest `json:"lines" validate:"required,min=1,dive"`
}

func (r *AdjustmentRequest) normalize() {
	r.RefNo = trim(r.RefNo)
	r.Date = trim(r.Date)
	for i := range r.Lines {
		r.Lines[i].ItemCode = trim(r.Lines[i].ItemCode)
	}
}

// AdjustmentService records physical counts. The counted quantity replaces
// the balance, even when that lowers it below what was issued against it.
type AdjustmentService struct {
	coordinator *database.Coordinator
	ledger      *Ledger
	ids         IDGenerator
}

func NewAdjustmentService(coordinator *database.Coordinator, ledger *Ledger, ids IDGenerator) *AdjustmentService {
	return &AdjustmentService{coordinator: coordinator, ledger: ledger, ids: ids}
}

func (s *AdjustmentService) Create(ctx context.Context, req AdjustmentRequest) (*models.Adjustment, error) {
	req.normalize()
	if err := validateRequest(&req); err != nil {
		return nil, err
	}

	return database.RunValue(ctx, s.coordinator, func(tx *gorm.DB) (*models.Adjustment, error) {
		header := &models.Adjustment{
			ID:        s.ids.Generate(),
			RefNo:     req.RefNo,
			Date:      req.Date,
			Notes:     req.Notes,
			CreatedBy: req.CreatedBy,
		}

		repo := repositories.NewAdjustmentRepository(tx)
		if err := repo.CreateHeader(header); err != nil {
			return nil, headerInsertError(header.RefNo, err)
		}

		for _, l := range req.Lines {
			// The count comes first so the line can store the system quantity
			// it replaced; the item lookup inside Adjust reports unknown codes.
			res, err := s.ledger.Adjust(tx, Count{
				ItemCode:      l.ItemCode,
				PhysicalCount: l.PhysicalCount,
				RefNo:         header.RefNo,
				Notes:         l.Notes,
			})
			if err != nil {
				return nil, err
			}

			line := models.AdjustmentLine{
				AdjustmentID: header.ID,
				ItemCode:     l.ItemCode,
				SystemQty:    res.SystemQty,
				PhysicalQty:  l.PhysicalCount,
				Difference:   res.Delta,
				Notes:        l.Notes,
			}
			if err := repo.CreateLine(&line); err != nil {
				return nil, lineInsertError(header.RefNo, l.ItemCode, err)
			}
			header.Lines = append(header.Lines, line)
		}
		return header, nil
	})
}

func (s *AdjustmentService) Get(ctx context.Context, refNo string) (*models.Adjustment, error) {
	header, err := repositories.NewAdjustmentRepository(s.coordinator.DB(ctx)).FindByRef(refNo)
	if err != nil {
		return nil, err
	}
	if header == nil {
		return nil, types.NotFound("adjustment", refNo)
	}
	return header, nil
}
