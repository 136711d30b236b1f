package database

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"stockledger/models"
)

// SeedDemo inserts demo master data that is not there yet. Items start at a
// zero balance; stock only arrives through transactions.
func SeedDemo(ctx context.Context, c *Coordinator) error {
	return c.Run(ctx, func(tx *gorm.DB) error {
		if err := seedSuppliers(tx, c.log); err != nil {
			return err
		}
		if err := seedCustomers(tx, c.log); err != nil {
			return err
		}
		return seedItems(tx, c.log)
	})
}

func seedSuppliers(db *gorm.DB, log *zap.Logger) error {
	suppliers := []models.Supplier{
		{Code: "SUP-001", Name: "PT Sumber Makmur"},
		{Code: "SUP-002", Name: "CV Jaya Abadi"},
	}

	for _, s := range suppliers {
		var existing models.Supplier
		err := db.Where("code = ?", s.Code).First(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			if err := db.Create(&s).Error; err != nil {
				return err
			}
			log.Info("seeded supplier", zap.String("code", s.Code))
		} else if err != nil {
			return err
		}
	}
	return nil
}

func seedCustomers(db *gorm.DB, log *zap.Logger) error {
	customers := []models.Customer{
		{Code: "CUS-001", Name: "Toko Sentosa", Area: "JKT"},
		{Code: "CUS-002", Name: "UD Berkah", Area: "BDG"},
	}

	for _, c := range customers {
		var existing models.Customer
		err := db.Where("code = ?", c.Code).First(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			if err := db.Create(&c).Error; err != nil {
				return err
			}
			log.Info("seeded customer", zap.String("code", c.Code))
		} else if err != nil {
			return err
		}
	}
	return nil
}

func seedItems(db *gorm.DB, log *zap.Logger) error {
	items := []models.Item{
		{Code: "BRG-001", Name: "Kertas A4 70gsm", Unit: "RIM", ReorderLevel: 10,
			UnitCost: decimal.RequireFromString("38000"), UnitPrice: decimal.RequireFromString("45000")},
		{Code: "BRG-002", Name: "Tinta Printer Hitam", Unit: "PCS", ReorderLevel: 5,
			UnitCost: decimal.RequireFromString("65000"), UnitPrice: decimal.RequireFromString("80000")},
	}

	for _, it := range items {
		var existing models.Item
		err := db.Where("code = ?", it.Code).First(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			it.Balance = 0
			if err := db.Create(&it).Error; err != nil {
				return err
			}
			log.Info("seeded item", zap.String("code", it.Code))
		} else if err != nil {
			return err
		}
	}
	return nil
}
