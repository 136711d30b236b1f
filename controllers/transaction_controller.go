package controllers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"stockledger/middleware"
	"stockledger/notify"
	"stockledger/services"
)

// TransactionController exposes the four stock transaction kinds.
type TransactionController struct {
	handler
	receipts    *services.ReceiptService
	issues      *services.IssueService
	adjustments *services.AdjustmentService
	claims      *services.ClaimService
}

func NewTransactionController(
	receipts *services.ReceiptService,
	issues *services.IssueService,
	adjustments *services.AdjustmentService,
	claims *services.ClaimService,
	log *zap.Logger,
	alerter notify.Alerter,
) *TransactionController {
	return &TransactionController{
		handler:     newHandler(log, alerter),
		receipts:    receipts,
		issues:      issues,
		adjustments: adjustments,
		claims:      claims,
	}
}

func (c *TransactionController) CreateReceipt(ctx *fiber.Ctx) error {
	var req services.ReceiptRequest
	if err := ctx.BodyParser(&req); err != nil {
		return c.badRequest(ctx, "Invalid request body", err)
	}
	req.CreatedBy = middleware.UserID(ctx)

	receipt, err := c.receipts.Create(ctx.UserContext(), req)
	if err != nil {
		return c.fail(ctx, err, receipt)
	}
	return c.created(ctx, "Receipt created successfully", receipt)
}

func (c *TransactionController) GetReceipt(ctx *fiber.Ctx) error {
	receipt, err := c.receipts.Get(ctx.UserContext(), ctx.Params("ref"))
	if err != nil {
		return c.fail(ctx, err, nil)
	}
	return c.ok(ctx, receipt)
}

func (c *TransactionController) CreateIssue(ctx *fiber.Ctx) error {
	var req services.IssueRequest
	if err := ctx.BodyParser(&req); err != nil {
		return c.badRequest(ctx, "Invalid request body", err)
	}
	req.CreatedBy = middleware.UserID(ctx)

	issue, err := c.issues.Create(ctx.UserContext(), req)
	if err != nil {
		return c.fail(ctx, err, issue)
	}
	return c.created(ctx, "Issue created successfully", issue)
}

func (c *TransactionController) GetIssue(ctx *fiber.Ctx) error {
	issue, err := c.issues.Get(ctx.UserContext(), ctx.Params("ref"))
	if err != nil {
		return c.fail(ctx, err, nil)
	}
	return c.ok(ctx, issue)
}

func (c *TransactionController) CreateAdjustment(ctx *fiber.Ctx) error {
	var req services.AdjustmentRequest
	if err := ctx.BodyParser(&req); err != nil {
		return c.badRequest(ctx, "Invalid request body", err)
	}
	req.CreatedBy = middleware.UserID(ctx)

	adjustment, err := c.adjustments.Create(ctx.UserContext(), req)
	if err != nil {
		return c.fail(ctx, err, adjustment)
	}
	return c.created(ctx, "Adjustment created successfully", adjustment)
}

func (c *TransactionController) GetAdjustment(ctx *fiber.Ctx) error {
	adjustment, err := c.adjustments.Get(ctx.UserContext(), ctx.Params("ref"))
	if err != nil {
		return c.fail(ctx, err, nil)
	}
	return c.ok(ctx, adjustment)
}

func (c *TransactionController) CreateClaim(ctx *fiber.Ctx) error {
	var req services.ClaimRequest
	if err := ctx.BodyParser(&req); err != nil {
		return c.badRequest(ctx, "Invalid request body", err)
	}
	req.CreatedBy = middleware.UserID(ctx)

	claim, err := c.claims.Create(ctx.UserContext(), req)
	if err != nil {
		return c.fail(ctx, err, claim)
	}
	return c.created(ctx, "Claim created successfully", claim)
}

func (c *TransactionController) GetClaim(ctx *fiber.Ctx) error {
	claim, err := c.claims.Get(ctx.UserContext(), ctx.Params("ref"))
	if err != nil {
		return c.fail(ctx, err, nil)
	}
	return c.ok(ctx, claim)
}
