package vote

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Selectable options. Polls are strictly two-option.
const (
	OptionA = "A"
	OptionB = "B"
)

// ValidOption reports whether s is one of the two poll options.
func ValidOption(s string) bool {
	return s == OptionA || s == OptionB
}

// Vote represents the votes table. Rows are immutable once written except
// for the reward fields, which the wallet service stamps at most once.
// The composite unique index backs the one-vote-per-user-per-poll rule.
type Vote struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	PollID         uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_votes_poll_user"`
	UserID         uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_votes_poll_user"`
	SelectedOption string    `gorm:"size:1;not null"`

	VoteSequence int             `gorm:"not null"`
	RewardEarned decimal.Decimal `gorm:"type:numeric(10,2);not null;default:0"`
	RewardPaid   bool            `gorm:"not null;default:false"`

	CreatedAt time.Time
}

func (Vote) TableName() string {
	return "votes"
}
