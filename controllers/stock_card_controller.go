package controllers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"stockledger/services"
)

type StockCardController struct {
	handler
	cards *services.StockCardService
}

func NewStockCardController(cards *services.StockCardService, log *zap.Logger) *StockCardController {
	return &StockCardController{handler: newHandler(log, nil), cards: cards}
}

func (c *StockCardController) GetStockCard(ctx *fiber.Ctx) error {
	card, err := c.cards.Card(ctx.UserContext(), ctx.Params("code"), ctx.QueryInt("limit", 0))
	if err != nil {
		return c.fail(ctx, err, nil)
	}
	return c.ok(ctx, card)
}

func (c *StockCardController) GetLatestMovement(ctx *fiber.Ctx) error {
	entry, err := c.cards.Latest(ctx.UserContext(), ctx.Params("code"))
	if err != nil {
		return c.fail(ctx, err, nil)
	}
	return c.ok(ctx, fiber.Map{"movement": entry})
}

func (c *StockCardController) GetMovementsByRef(ctx *fiber.Ctx) error {
	entries, err := c.cards.Movements(ctx.UserContext(), ctx.Params("ref"))
	if err != nil {
		return c.fail(ctx, err, nil)
	}
	return c.ok(ctx, fiber.Map{"movements": entries})
}

func (c *StockCardController) Reconcile(ctx *fiber.Ctx) error {
	rec, err := c.cards.Reconcile(ctx.UserContext())
	if err != nil {
		return c.fail(ctx, err, nil)
	}
	return c.ok(ctx, rec)
}

// Handler untuk generate dan kirim kartu stok sebagai file Excel
func (c *StockCardController) ExportExcel(ctx *fiber.Ctx) error {
	card, err := c.cards.Card(ctx.UserContext(), ctx.Params("code"), 0)
	if err != nil {
		return c.fail(ctx, err, nil)
	}

	f, err := stockCardWorkbook(card)
	if err != nil {
		return c.fail(ctx, err, nil)
	}
	defer f.Close()

	ctx.Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	ctx.Set("Content-Disposition", fmt.Sprintf(`attachment; filename="stock-card-%s.xlsx"`, card.Item.Code))

	if err := f.Write(ctx.Response().BodyWriter()); err != nil {
		return ctx.Status(fiber.StatusInternalServerError).SendString("Gagal generate Excel")
	}
	return nil
}

func stockCardWorkbook(card *services.StockCard) (*excelize.File, error) {
	f := excelize.NewFile()
	sheet := "Sheet1"
	if err := f.SetSheetName(sheet, "Stock Card"); err != nil {
		return nil, err
	}
	sheet = "Stock Card"

	f.SetCellValue(sheet, "A1", "Item Code")
	f.SetCellValue(sheet, "B1", card.Item.Code)
	f.SetCellValue(sheet, "A2", "Item Name")
	f.SetCellValue(sheet, "B2", card.Item.Name)
	f.SetCellValue(sheet, "A3", "Balance")
	f.SetCellValue(sheet, "B3", card.Item.Balance)

	headers := []string{"Date", "Kind", "Ref No", "Qty In", "Qty Out", "Stock After", "Notes"}
	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 5)
		if err != nil {
			return nil, err
		}
		f.SetCellValue(sheet, cell, h)
	}

	for i, e := range card.Entries {
		row := i + 6
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), e.CreatedAt.Format("2006-01-02 15:04:05"))
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), string(e.Kind))
		f.SetCellValue(sheet, fmt.Sprintf("C%d", row), e.RefNo)
		f.SetCellValue(sheet, fmt.Sprintf("D%d", row), e.QtyIn)
		f.SetCellValue(sheet, fmt.Sprintf("E%d", row), e.QtyOut)
		f.SetCellValue(sheet, fmt.Sprintf("F%d", row), e.StockAfter)
		f.SetCellValue(sheet, fmt.Sprintf("G%d", row), e.Notes)
	}
	return f, nil
}
