package routes

import (
	"github.com/gofiber/fiber/v2"

	"stockledger/controllers"
)

func SetupTransactionRoutes(api fiber.Router, c *controllers.TransactionController) {
	receipts := api.Group("/receipts")
	receipts.Post("/", c.CreateReceipt)
	receipts.Get("/:ref", c.GetReceipt)

	issues := api.Group("/issues")
	issues.Post("/", c.CreateIssue)
	issues.Get("/:ref", c.GetIssue)

	adjustments := api.Group("/adjustments")
	adjustments.Post("/", c.CreateAdjustment)
	adjustments.Get("/:ref", c.GetAdjustment)

	claims := api.Group("/claims")
	claims.Post("/", c.CreateClaim)
	claims.Get("/:ref", c.GetClaim)
}
