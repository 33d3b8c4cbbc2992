package migration

import (
	"fmt"
	"log"

	"gorm.io/gorm"

	"leftys-backend/entities"
)

func Migrate(db *gorm.DB) error {
	// Extensions for geographical queries.
	db.Exec("CREATE EXTENSION IF NOT EXISTS \"cube\";")
	db.Exec("CREATE EXTENSION IF NOT EXISTS \"earthdistance\" CASCADE;")

	if err := db.AutoMigrate(&entities.Account{}); err != nil {
		log.Fatalf("Error migrating account database: %v", err)
		return err
	}
	if err := db.AutoMigrate(&entities.Posting{}); err != nil {
		log.Fatalf("Error migrating posting database: %v", err)
		return err
	}
	if err := db.AutoMigrate(&entities.Claim{}); err != nil {
		log.Fatalf("Error migrating claim database: %v", err)
		return err
	}
	if err := db.AutoMigrate(&entities.Message{}); err != nil {
		log.Fatalf("Error migrating message database: %v", err)
		return err
	}
	if err := db.AutoMigrate(&entities.InventoryItem{}); err != nil {
		log.Fatalf("Error migrating inventory item database: %v", err)
		return err
	}
	if err := db.AutoMigrate(&entities.UserMetrics{}); err != nil {
		log.Fatalf("Error migrating user metrics database: %v", err)
		return err
	}
	if err := db.AutoMigrate(&entities.ScanRecord{}); err != nil {
		log.Fatalf("Error migrating scan record database: %v", err)
		return err
	}

	// Phone numbers are unique when present; lazily created accounts start
	// with an empty phone, so a plain unique index would collide.
	if err := db.Exec(
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_accounts_phone_unique ON accounts (phone) WHERE phone <> ''",
	).Error; err != nil {
		log.Printf("Warning: could not create phone unique index: %v", err)
	}

	fmt.Println("Database migration complete")
	return nil
}
