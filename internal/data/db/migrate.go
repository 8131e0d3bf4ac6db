package db

import (
	"fmt"

	types "github.com/yungbote/sitebuilder-backend/internal/domain"
	"gorm.io/gorm"
)

func AutoMigrateAll(db *gorm.DB) error {
	return db.AutoMigrate(
		// Accounts
		&types.User{},
		&types.UserToken{},

		// Websites
		&types.GenerationRequest{},
	)
}

// EnsureIndexes creates indexes AutoMigrate cannot express. Safe to re-run.
func EnsureIndexes(db *gorm.DB) error {
	if db.Dialector.Name() != DriverPostgres {
		return nil
	}
	if err := db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS idx_user_email_live
		ON "user"(lower(email))
		WHERE deleted_at IS NULL;
	`).Error; err != nil {
		return fmt.Errorf("create idx_user_email_live: %w", err)
	}
	if err := db.Exec(`CREATE INDEX IF NOT EXISTS idx_user_token_expires_at ON user_token(expires_at);`).Error; err != nil {
		return fmt.Errorf("create idx_user_token_expires_at: %w", err)
	}
	return nil
}
