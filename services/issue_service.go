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

type IssueLineRequest struct {
	ItemCode  string          `json:"item_code" validate:"required"`
	Qty       int             `json:"qty" validate:"gt=0"`
	UnitPrice decimal.Decimal `json:"unit_price" validate:"-"`
	Notes     string          `json:"notes"`
}

type IssueRequest struct {
	RefNo        string             `json:"ref_no" validate:"required"`
	Date         string             `json:"date" validate:"required"`
	CustomerCode string             `json:"customer_code"`
	Notes        string             `json:"notes"`
	CreatedBy    int                `json:"-"`
	Lines        []IssueLineRequest `json:"lines" validate:"required,min=1,dive"`
}

func (r *IssueRequest) normalize() {
	r.RefNo = trim(r.RefNo)
	r.Date = trim(r.Date)
	for i := range r.Lines {
		r.Lines[i].ItemCode = trim(r.Lines[i].ItemCode)
	}
}

// IssueService records goods issues. A line larger than the balance fails
// the whole issue.
type IssueService struct {
	coordinator *database.Coordinator
	ledger      *Ledger
	ids         IDGenerator
}

func NewIssueService(coordinator *database.Coordinator, ledger *Ledger, ids IDGenerator) *IssueService {
	return &IssueService{coordinator: coordinator, ledger: ledger, ids: ids}
}

func (s *IssueService) Create(ctx context.Context, req IssueRequest) (*models.Issue, error) {
	req.normalize()
	if err := validateRequest(&req); err != nil {
		return nil, err
	}

	return database.RunValue(ctx, s.coordinator, func(tx *gorm.DB) (*models.Issue, error) {
		header := &models.Issue{
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

		repo := repositories.NewIssueRepository(tx)
		if err := repo.CreateHeader(header); err != nil {
			return nil, headerInsertError(header.RefNo, err)
		}

		items := repositories.NewItemRepository(tx)
		for _, l := range req.Lines {
			if _, err := items.FindByCode(l.ItemCode); err != nil {
				return nil, err
			}

			line := models.IssueLine{
				IssueID:   header.ID,
				ItemCode:  l.ItemCode,
				Qty:       l.Qty,
				UnitPrice: l.UnitPrice,
				Notes:     l.Notes,
			}
			if err := repo.CreateLine(&line); err != nil {
				return nil, lineInsertError(header.RefNo, l.ItemCode, err)
			}

			if _, err := s.ledger.Move(tx, Movement{
				ItemCode: l.ItemCode,
				Kind:     models.MovementIssue,
				Delta:    -l.Qty,
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

func (s *IssueService) Get(ctx context.Context, refNo string) (*models.Issue, error) {
	header, err := repositories.NewIssueRepository(s.coordinator.DB(ctx)).FindByRef(refNo)
	if err != nil {
		return nil, err
	}
	if header == nil {
		return nil, types.NotFound("issue", refNo)
	}
	return header, nil
}
