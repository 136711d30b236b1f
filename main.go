package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"stockledger/config"
	"stockledger/controllers"
	"stockledger/database"
	"stockledger/idgen"
	"stockledger/notify"
	"stockledger/routes"
	"stockledger/services"
)

func main() {
	log, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	snapshot := database.NewFileSnapshot(cfg.SnapshotPath, log)
	store, err := snapshot.Load(ctx)
	if err != nil {
		log.Fatal("failed to load store", zap.String("path", cfg.SnapshotPath), zap.Error(err))
	}
	defer store.Close()

	coordinator := database.NewCoordinator(store, snapshot, log)
	if cfg.SeedDemo {
		if err := database.SeedDemo(ctx, coordinator); err != nil {
			log.Fatal("failed to seed demo data", zap.Error(err))
		}
	}

	ids, err := idgen.New(cfg.NodeID)
	if err != nil {
		log.Fatal("failed to init id generator", zap.Error(err))
	}

	alerter := notify.New(notify.SMTPConfig{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		User:     cfg.SMTPUser,
		Password: cfg.SMTPPassword,
		From:     cfg.AlertFrom,
		To:       cfg.AlertEmails,
	}, log)

	ledger := services.NewLedger()
	cards := controllers.NewStockCardController(services.NewStockCardService(coordinator), log)

	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	cfg.SetupCORS(app)
	routes.Setup(app, cfg.MainRoutes, cfg.JWTSecret, log, routes.Controllers{
		Transactions: controllers.NewTransactionController(
			services.NewReceiptService(coordinator, ledger, ids),
			services.NewIssueService(coordinator, ledger, ids),
			services.NewAdjustmentService(coordinator, ledger, ids),
			services.NewClaimService(coordinator, ledger, ids),
			log,
			alerter,
		),
		Items:      controllers.NewItemController(services.NewMasterService(coordinator), log, alerter),
		StockCards: cards,
	})

	go func() {
		<-ctx.Done()
		log.Info("shutting down")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.Warn("shutdown", zap.Error(err))
		}
	}()

	log.Info("server starting", zap.String("port", cfg.AppPort), zap.String("snapshot", cfg.SnapshotPath))
	if err := app.Listen(":" + cfg.AppPort); err != nil {
		log.Error("server stopped", zap.Error(err))
	}
}
