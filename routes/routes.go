package routes

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"stockledger/controllers"
	"stockledger/middleware"
)

type Controllers struct {
	Transactions *controllers.TransactionController
	Items        *controllers.ItemController
	StockCards   *controllers.StockCardController
}

// Setup mounts every route under prefix behind auth and the single-writer
// lock.
func Setup(app *fiber.App, prefix, jwtSecret string, log *zap.Logger, c Controllers) {
	app.Use(middleware.RequestID(log))

	api := app.Group(prefix, middleware.Auth(jwtSecret), middleware.Serialize())
	SetupTransactionRoutes(api, c.Transactions)
	SetupItemRoutes(api, c.Items, c.StockCards)
	SetupStockCardRoutes(api, c.StockCards)
}
