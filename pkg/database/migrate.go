package database

import (
	"fmt"

	"pollpay/internal/domain/poll"
	"pollpay/internal/domain/user"
	"pollpay/internal/domain/vote"
	"pollpay/internal/domain/wallet"

	"gorm.io/gorm"
)

// models lists every persisted entity in migration order.
func models() []interface{} {
	return []interface{}{
		&user.User{},
		&poll.Poll{},
		&vote.Vote{},
		&wallet.Transaction{},
	}
}

// Migrate applies the GORM auto-migrations for all entities.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(models()...); err != nil {
		return fmt.Errorf("auto-migration failed: %w", err)
	}
	return nil
}

// Reset drops every table and re-runs the migrations.
func Reset(db *gorm.DB) error {
	tables := models()
	// Drop in reverse order so foreign references go first.
	for i := len(tables) - 1; i >= 0; i-- {
		if err := db.Migrator().DropTable(tables[i]); err != nil {
			return fmt.Errorf("drop table failed: %w", err)
		}
	}
	return Migrate(db)
}

// Truncate empties every table without touching the schema.
func Truncate(db *gorm.DB) error {
	for _, table := range []string{"wallet_transactions", "votes", "polls", "users"} {
		if err := db.Exec("DELETE FROM " + table).Error; err != nil {
			return fmt.Errorf("truncate %s failed: %w", table, err)
		}
	}
	return nil
}

// TableExists reports whether the named table is present.
func TableExists(db *gorm.DB, table string) bool {
	return db.Migrator().HasTable(table)
}

// TableCount returns the number of rows in the named table.
func TableCount(db *gorm.DB, table string) (int64, error) {
	var count int64
	if err := db.Table(table).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Ping verifies the underlying connection is alive.
func Ping(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}
