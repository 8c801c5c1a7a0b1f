package wallet

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Transaction types.
const (
	TypeDeposit     = "DEPOSIT"
	TypeWithdrawal  = "WITHDRAWAL"
	TypePollPayment = "POLL_PAYMENT"
	TypeVoteReward  = "VOTE_REWARD"
	TypeRefund      = "REFUND"
)

// Transaction statuses. Withdrawals start PENDING until external settlement.
const (
	StatusPending   = "PENDING"
	StatusCompleted = "COMPLETED"
	StatusFailed    = "FAILED"
)

// Transaction represents the wallet_transactions table: the append-only
// ledger of every balance-affecting event. Amount is signed, debits are
// negative. BalanceAfter = BalanceBefore + Amount and must equal the user's
// wallet_balance at commit time.
type Transaction struct {
	ID     uuid.UUID     `gorm:"type:uuid;primaryKey"`
	UserID uuid.UUID     `gorm:"type:uuid;index;not null"`
	PollID uuid.NullUUID `gorm:"type:uuid;index"`

	Type          string          `gorm:"size:32;not null"`
	Amount        decimal.Decimal `gorm:"type:numeric(10,2);not null"`
	BalanceBefore decimal.Decimal `gorm:"type:numeric(10,2);not null"`
	BalanceAfter  decimal.Decimal `gorm:"type:numeric(10,2);not null"`

	Description string `gorm:"size:255"`
	ReferenceID string `gorm:"size:128"`
	Status      string `gorm:"size:16;not null;default:COMPLETED"`

	CreatedAt time.Time
}

func (Transaction) TableName() string {
	return "wallet_transactions"
}
