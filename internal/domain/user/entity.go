package user

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// User represents the users table. WalletBalance and TotalEarnings are
// mutated exclusively by the wallet service inside its transactions.
type User struct {
	ID           uuid.UUID      `gorm:"type:uuid;primaryKey"`
	Username     string         `gorm:"size:64;uniqueIndex;not null"`
	Email        sql.NullString `gorm:"size:255;uniqueIndex"`
	PasswordHash string         `gorm:"size:255;not null"`
	DisplayName  string         `gorm:"size:128"`

	WalletBalance decimal.Decimal `gorm:"type:numeric(10,2);not null;default:0"`
	TotalEarnings decimal.Decimal `gorm:"type:numeric(10,2);not null;default:0"`

	TotalPollsCreated int `gorm:"not null;default:0"`
	TotalVotesCast    int `gorm:"not null;default:0"`

	LastActiveAt sql.NullTime
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (User) TableName() string {
	return "users"
}
