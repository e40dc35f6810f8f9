package database

import (
	"log"

	"gorm.io/gorm"

	"cineblog/models"
)

// RunMigrations creates or extends the users and posts tables. Table and
// column names match databases written by earlier versions of the site.
func RunMigrations(db *gorm.DB) error {
	tables := []interface{}{
		&models.User{},
		&models.Post{},
	}

	log.Printf("Migrating %d tables on %s...", len(tables), db.Dialector.Name())
	if err := db.AutoMigrate(tables...); err != nil {
		log.Printf("Error running migrations: %v", err)
		return err
	}

	log.Println("Migrations completed successfully")
	return nil
}
