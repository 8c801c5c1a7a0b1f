package poll

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Poll statuses. The transition is one-way: ACTIVE -> CLOSED.
const (
	StatusActive = "ACTIVE"
	StatusClosed = "CLOSED"
)

// DefaultMaxRewardedVoters caps how many of the earliest voters can draw
// from the reward pool.
const DefaultMaxRewardedVoters = 50

// Poll represents the polls table
type Poll struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	CreatorID uuid.UUID `gorm:"type:uuid;index;not null"`

	Question    string `gorm:"size:500;not null"`
	OptionAText string `gorm:"size:255"`
	OptionBText string `gorm:"size:255"`

	MaxVotes    int `gorm:"not null;default:10"`
	TimeLimit   sql.NullInt64
	ExpiresAt   sql.NullTime
	Status      string `gorm:"size:16;not null;default:ACTIVE"`
	VotesCountA int    `gorm:"not null;default:0"`
	VotesCountB int    `gorm:"not null;default:0"`

	IsPaid            bool            `gorm:"not null;default:false"`
	PollFee           decimal.Decimal `gorm:"type:numeric(10,2);not null;default:0"`
	RewardPool        decimal.Decimal `gorm:"type:numeric(10,2);not null;default:0"`
	RewardPerVoter    decimal.Decimal `gorm:"type:numeric(10,2);not null;default:0"`
	MaxRewardedVoters int             `gorm:"not null;default:50"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Poll) TableName() string {
	return "polls"
}

// TotalVotes is the number of accepted votes across both options.
func (p Poll) TotalVotes() int {
	return p.VotesCountA + p.VotesCountB
}

// IsFull reports whether the poll has reached its vote capacity.
func (p Poll) IsFull() bool {
	return p.TotalVotes() >= p.MaxVotes
}

// IsExpired reports whether the poll's deadline has passed as of now.
func (p Poll) IsExpired(now time.Time) bool {
	return p.ExpiresAt.Valid && now.After(p.ExpiresAt.Time)
}
