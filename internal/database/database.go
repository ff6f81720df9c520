package database

import (
	"fmt"
	"time"

	"vox-populi/internal/config"
	"vox-populi/internal/logger"
	"vox-populi/internal/models"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Connect opens the database selected by cfg.Database.Driver
func Connect(cfg *config.Config, log *logrus.Entry) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Database.Driver {
	case config.DriverSQLite:
		dialector = sqlite.Open(sqliteDSN(cfg.Database.SQLitePath))
	default:
		dialector = postgres.Open(cfg.GetDSN())
	}

	db, err := Open(dialector, log)
	if err != nil {
		return nil, err
	}

	log.WithField("driver", cfg.Database.Driver).Info("Database connection established successfully")
	return db, nil
}

// Open wraps gorm.Open with the settings every connection shares.
// Driver errors are translated so unique violations surface as
// gorm.ErrDuplicatedKey on both Postgres and SQLite.
func Open(dialector gorm.Dialector, log *logrus.Entry) (*gorm.DB, error) {
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         logger.Gorm(log),
		TranslateError: true,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if dialector.Name() == "sqlite" {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to access sql pool: %w", err)
		}
		// SQLite allows a single writer.
		sqlDB.SetMaxOpenConns(1)
	}

	return db, nil
}

// OpenInMemory returns a private in-memory SQLite database with the schema
// applied. name keeps concurrent callers from sharing state.
func OpenInMemory(name string, log *logrus.Entry) (*gorm.DB, error) {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=1", name)
	db, err := Open(sqlite.Open(dsn), log)
	if err != nil {
		return nil, err
	}
	if err := AutoMigrate(db, log); err != nil {
		return nil, err
	}
	return db, nil
}

// Models lists every table owned by the service in dependency order
func Models() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Profile{},
		&models.Question{},
		&models.Answer{},
		&models.Reply{},
	}
}

// AutoMigrate creates or updates the schema
func AutoMigrate(db *gorm.DB, log *logrus.Entry) error {
	for _, model := range Models() {
		if err := db.AutoMigrate(model); err != nil {
			return fmt.Errorf("migrate %T: %w", model, err)
		}
	}

	log.Info("Database migrations completed successfully")
	return nil
}

func sqliteDSN(path string) string {
	return fmt.Sprintf("file:%s?_foreign_keys=1&_busy_timeout=5000", path)
}
