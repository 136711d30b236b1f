package controllers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"stockledger/notify"
	"stockledger/services"
)

// ItemController serves the master data the ledger needs: items and the
// suppliers and customers transactions refer to.
type ItemController struct {
	handler
	master *services.MasterService
}

func NewItemController(master *services.MasterService, log *zap.Logger, alerter notify.Alerter) *ItemController {
	return &ItemController{handler: newHandler(log, alerter), master: master}
}

func (c *ItemController) CreateItem(ctx *fiber.Ctx) error {
	var req services.ItemRequest
	if err := ctx.BodyParser(&req); err != nil {
		return c.badRequest(ctx, "Invalid request body", err)
	}

	item, err := c.master.CreateItem(ctx.UserContext(), req)
	if err != nil {
		return c.fail(ctx, err, item)
	}
	return c.created(ctx, "Item created successfully", item)
}

func (c *ItemController) GetItems(ctx *fiber.Ctx) error {
	items, err := c.master.ListItems(ctx.UserContext())
	if err != nil {
		return c.fail(ctx, err, nil)
	}
	return c.ok(ctx, fiber.Map{"items": items})
}

func (c *ItemController) GetItem(ctx *fiber.Ctx) error {
	item, err := c.master.GetItem(ctx.UserContext(), ctx.Params("code"))
	if err != nil {
		return c.fail(ctx, err, nil)
	}
	return c.ok(ctx, fiber.Map{"item": item, "below_reorder": item.BelowReorder()})
}

func (c *ItemController) CreateSupplier(ctx *fiber.Ctx) error {
	var req services.CounterpartyRequest
	if err := ctx.BodyParser(&req); err != nil {
		return c.badRequest(ctx, "Invalid request body", err)
	}

	supplier, err := c.master.CreateSupplier(ctx.UserContext(), req)
	if err != nil {
		return c.fail(ctx, err, supplier)
	}
	return c.created(ctx, "Supplier created successfully", supplier)
}

func (c *ItemController) GetSuppliers(ctx *fiber.Ctx) error {
	suppliers, err := c.master.ListSuppliers(ctx.UserContext())
	if err != nil {
		return c.fail(ctx, err, nil)
	}
	return c.ok(ctx, fiber.Map{"suppliers": suppliers})
}

func (c *ItemController) CreateCustomer(ctx *fiber.Ctx) error {
	var req services.CounterpartyRequest
	if err := ctx.BodyParser(&req); err != nil {
		return c.badRequest(ctx, "Invalid request body", err)
	}

	customer, err := c.master.CreateCustomer(ctx.UserContext(), req)
	if err != nil {
		return c.fail(ctx, err, customer)
	}
	return c.created(ctx, "Customer created successfully", customer)
}

func (c *ItemController) GetCustomers(ctx *fiber.Ctx) error {
	customers, err := c.master.ListCustomers(ctx.UserContext())
	if err != nil {
		return c.fail(ctx, err, nil)
	}
	return c.ok(ctx, fiber.Map{"customers": customers})
}
