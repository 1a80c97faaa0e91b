package main

import (
	"log"
	"os"

	"snochat-be/internal/model"
	"snochat-be/pkg/database"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"gorm.io/gorm/clause"
)

// Seeds the purchasable credit packs. Safe to run repeatedly; rows are
// upserted by slug.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	db, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	plans := []model.CreditPlan{
		{Name: "Starter Pack", Slug: "chat-starter", Service: "sno", CreditAmount: 40, Price: 15000, IsActive: true},
		{Name: "Regular Pack", Slug: "chat-regular", Service: "sno", CreditAmount: 120, Price: 39000, IsActive: true},
		{Name: "Power Pack", Slug: "chat-power", Service: "sno", CreditAmount: 400, Price: 99000, IsActive: true},
		{Name: "Panorama Single", Slug: "pano-single", Service: "pano", CreditAmount: 1, Price: 25000, IsActive: true},
		{Name: "Panorama Bundle", Slug: "pano-bundle", Service: "pano", CreditAmount: 5, Price: 99000, IsActive: true},
	}

	for _, plan := range plans {
		err := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "slug"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "service", "credit_amount", "price", "is_active"}),
		}).Create(&plan).Error
		if err != nil {
			color.Red("✗ Failed to seed plan %s: %v", plan.Slug, err)
			continue
		}
		color.Green("✓ Seeded plan %s (%d credits, %.0f)", plan.Slug, plan.CreditAmount, plan.Price)
	}

	color.Cyan("Done.")
}
