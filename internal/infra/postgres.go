package infra

import (
	"log"
	"os"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"submgmt/internal/models/db_models"
)

func InitPostgresql() *gorm.DB {

	dsn := os.Getenv("POSTGRES_URL")

	// TranslateError maps driver unique-violation errors to
	// gorm.ErrDuplicatedKey, which the purchase path relies on.
	connectionPool, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})

	if err != nil {
		log.Printf("Error connecting to database: %v", err)
		log.Fatal("Error connecting to database")
	}

	return connectionPool
}

func ClosePostgresql(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		log.Printf("Error getting database instance: %v", err)
		return
	}

	if err := sqlDB.Close(); err != nil {
		log.Printf("Error closing database connection: %v", err)
	} else {
		log.Println("PostgreSQL database connection closed successfully")
	}
}

// Migrate creates or alters the billing tables. The users table belongs
// to the host application and is never touched here.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&db_models.Plan{},
		&db_models.Subscription{},
		&db_models.Transaction{},
		&db_models.PendingIntent{},
		&db_models.Setting{},
	)
	if err != nil {
		return err
	}

	// Backstop for the one-current-subscription-per-user invariant.
	return db.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS idx_subscriptions_one_current
		ON subscriptions (user_id)
		WHERE status = 'active' AND is_active_plan = 1 AND deleted_at IS NULL`).Error
}
