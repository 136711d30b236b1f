package services

import (
	"context"

	"gorm.io/gorm"

	"stockledger/database"
	"stockledger/models"
	"stockledger/repositories"
	"stockledger/types"
)

type ClaimLineRequest struct {
	ItemCode string `json:"item_code" validate:"required"`
	Qty      int    `json:"qty" validate:"gt=0"`
	Reason   string `json:"reason"`
}

type ClaimRequest struct {
	RefNo        string             `json:"ref_no" validate:"required"`
	Date         string             `json:"date" validate:"required"`
	CustomerCode string             `json:"customer_code"`
	Notes        string             `json:"notes"`
	CreatedBy    int                `json:"-"`
	Lines        []ClaimLineRequest `json:"lines" validate:"required,min=1,dive"`
}

func (r *ClaimRequest) normalize() {
	r.RefNo = trim(r.RefNo)
	r.Date = trim(r.Date)
	for i := range r.Lines {
		r.Lines[i].ItemCode = trim(r.Lines[i].ItemCode)
	}
}

// ClaimService records replacement goods sent out against customer claims.
// Stock leaves the same way as an issue, under its own movement kind.
type ClaimService struct {
	coordinator *database.Coordinator
	ledger      *Ledger
	ids         IDGenerator
}

func NewClaimService(coordinator *database.Coordinator, ledger *Ledger, ids IDGenerator) *ClaimService {
	return &ClaimService{coordinator: coordinator, ledger: ledger, ids: ids}
}

func (s *ClaimService) Create(ctx context.Context, req ClaimRequest) (*models.Claim, error) {
	req.normalize()
	if err := validateRequest(&req); err != nil {
		return nil, err
	}

	return database.RunValue(ctx, s.coordinator, func(tx *gorm.DB) (*models.Claim, error) {
		header := &models.Claim{
			ID:           s.ids.Generate(),
			RefNo:        req.RefNo,
			Date:         req.Date,
			CustomerCode: optionalCode(req.CustomerCode),
			Notes:        req.Notes,
			CreatedBy:    req.CreatedBy,
		}
		if header.CustomerCode != nil {
			if err := repositories.NewCustomerRepository(tx).MustExist(*header.CustomerCode); err != nil {
				return nil, err
			}
		}

		repo := repositories.NewClaimRepository(tx)
		if err := repo.CreateHeader(header); err != nil {
			return nil, headerInsertError(header.RefNo, err)
		}

		items := repositories.NewItemRepository(tx)
		for _, l := range req.Lines {
			if _, err := items.FindByCode(l.ItemCode); err != nil {
				return nil, err
			}

			line := models.ClaimLine{
				ClaimID:  header.ID,
				ItemCode: l.ItemCode,
				Qty:      l.Qty,
				Reason:   l.Reason,
			}
			if err := repo.CreateLine(&line); err != nil {
				return nil, lineInsertError(header.RefNo, l.ItemCode, err)
			}

			if _, err := s.ledger.Move(tx, Movement{
				ItemCode: l.ItemCode,
				Kind:     models.MovementClaim,
				Delta:    -l.Qty,
				RefNo:    header.RefNo,
				Notes:    l.Reason,
			}); err != nil {
				return nil, err
			}
			header.Lines = append(header.Lines, line)
		}
		return header, nil
	})
}

func (s *ClaimService) Get(ctx context.Context, refNo string) (*models.Claim, error) {
	header, err := repositories.NewClaimRepository(s.coordinator.DB(ctx)).FindByRef(refNo)
	if err != nil {
		return nil, err
	}
	if header == nil {
		return nil, types.NotFound("claim", refNo)
	}
	return header, nil
}
