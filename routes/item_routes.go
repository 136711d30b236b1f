package routes

import (
	"github.com/gofiber/fiber/v2"

	"stockledger/controllers"
)

func SetupItemRoutes(api fiber.Router, c *controllers.ItemController, cards *controllers.StockCardController) {
	items := api.Group("/items")
	items.Post("/", c.CreateItem)
	items.Get("/", c.GetItems)
	items.Get("/:code", c.GetItem)
	items.Get("/:code/stock-card", cards.GetStockCard)
	items.Get("/:code/stock-card/export", cards.ExportExcel)
	items.Get("/:code/latest-movement", cards.GetLatestMovement)

	suppliers := api.Group("/suppliers")
	suppliers.Post("/", c.CreateSupplier)
	suppliers.Get("/", c.GetSuppliers)

	customers := api.Group("/customers")
	customers.Post("/", c.CreateCustomer)
	customers.Get("/", c.GetCustomers)
}

func SetupStockCardRoutes(api fiber.Router, c *controllers.StockCardController) {
	api.Get("/movements/:ref", c.GetMovementsByRef)
	api.Get("/reconcile", c.Reconcile)
}
