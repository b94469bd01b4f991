package database

import (
	"fmt"
	"sync"

	"github.com/GabrielGomez33/mirror-server-sub002/configs"
	"github.com/GabrielGomez33/mirror-server-sub002/internal/models"
	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var (
	db    *gorm.DB
	dbErr error
	once  sync.Once
)

// GetDB opens and migrates the shared connection once.
func GetDB(config *configs.Config) (*gorm.DB, error) {
	once.Do(func() {
		db, dbErr = Open(config.Database.DSN())
		if dbErr != nil {
			return
		}
		dbErr = Migrate(db)
	})
	return db, dbErr
}

func Open(dsn string) (*gorm.DB, error) {
	conn, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	log.Info().Str("module", "database").Msg("database connected")
	return conn, nil
}

func Migrate(conn *gorm.DB) error {
	err := conn.AutoMigrate(
		&models.GroupMember{},
		&models.SessionParticipant{},
		&models.ConversationInsight{},
	)
	if err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	log.Info().Str("module", "database").Msg("database migrated successfully")
	return nil
}
