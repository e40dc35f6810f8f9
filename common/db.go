package common

import (
	"fmt"
	"log"
	"strings"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Dialector picks the gorm driver for a connection string. sqlite:///path and
// bare file paths go to sqlite, postgres:// and postgresql:// to postgres.
func Dialector(uri string) (gorm.Dialector, error) {
	switch {
	case uri == "":
		return nil, fmt.Errorf("empty database uri")
	case strings.HasPrefix(uri, "postgres://"), strings.HasPrefix(uri, "postgresql://"):
		return postgres.Open(uri), nil
	case strings.HasPrefix(uri, "sqlite:///"):
		return sqlite.Open(strings.TrimPrefix(uri, "sqlite:///")), nil
	case strings.HasPrefix(uri, "sqlite://"):
		return sqlite.Open(strings.TrimPrefix(uri, "sqlite://")), nil
	case strings.Contains(uri, "://"):
		return nil, fmt.Errorf("unsupported database uri scheme: %s", uri[:strings.Index(uri, "://")])
	default:
		return sqlite.Open(uri), nil
	}
}

func ConnectDb(uri string) (*gorm.DB, error) {
	dialector, err := Dialector(uri)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
		TranslateError:                           true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening %s database: %w", dialector.Name(), err)
	}
	log.Println("opened database with driver:", dialector.Name())
	return db, nil
}

// Quiet returns a session of db that does not log. Use it for lookups where
// a missing row is an expected outcome rather than an error.
func Quiet(db *gorm.DB) *gorm.DB {
	return db.Session(&gorm.Session{Logger: db.Logger.LogMode(logger.Silent)})
}
