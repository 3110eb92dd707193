package migration

import (
	"Receipt-Tracker/entities"
	"fmt"

	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&entities.User{}); err != nil {
		return fmt.Errorf("migrating user table: %w", err)
	}
	if err := db.AutoMigrate(&entities.Receipt{}); err != nil {
		return fmt.Errorf("migrating receipt table: %w", err)
	}
	if err := db.AutoMigrate(&entities.ReceiptItem{}); err != nil {
		return fmt.Errorf("migrating receipt item table: %w", err)
	}
	return nil
}
