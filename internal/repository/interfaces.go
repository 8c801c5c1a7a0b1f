package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"pollpay/internal/domain/poll"
	"pollpay/internal/domain/user"
	"pollpay/internal/domain/vote"
	"pollpay/internal/domain/wallet"
)

type UserRepository interface {
	// WithTx returns a copy of the repository bound to the given transaction.
	WithTx(tx *gorm.DB) UserRepository

	Create(ctx context.Context, u *user.User) error
	GetByID(ctx context.Context, id uuid.UUID) (user.User, error)
	GetByUsername(ctx context.Context, username string) (user.User, error)

	// CreditBalance adds amount to wallet_balance.
	CreditBalance(ctx context.Context, id uuid.UUID, amount decimal.Decimal) error
	// DebitBalance subtracts amount from wallet_balance, guarded so the
	// balance can never go negative under concurrent debits.
	DebitBalance(ctx context.Context, id uuid.UUID, amount decimal.Decimal) error
	// CreditEarnings adds amount to both wallet_balance and total_earnings.
	CreditEarnings(ctx context.Context, id uuid.UUID, amount decimal.Decimal) error

	IncrementPollsCreated(ctx context.Context, id uuid.UUID) error
	IncrementVotesCast(ctx context.Context, id uuid.UUID) error
}

type PollRepository interface {
	WithTx(tx *gorm.DB) PollRepository

	Create(ctx context.Context, p *poll.Poll) error
	GetByID(ctx context.Context, id uuid.UUID) (poll.Poll, error)
	Delete(ctx context.Context, id uuid.UUID) error

	ListByCreator(ctx context.Context, creatorID uuid.UUID) ([]poll.Poll, error)
	Discover(ctx context.Context, userID uuid.UUID, limit int) ([]poll.Poll, error)

	// MarkPaid stamps the payment-derived fields on the poll.
	MarkPaid(ctx context.Context, id uuid.UUID, fee, rewardPool, rewardPerVoter decimal.Decimal) error
	// Close transitions the poll to CLOSED. Returns true only when this call
	// performed the ACTIVE -> CLOSED transition.
	Close(ctx context.Context, id uuid.UUID) (bool, error)
	// AdmitVote atomically increments the counter for the selected option,
	// guarded on the poll being ACTIVE and below capacity. Returns false
	// when the guard rejected the increment.
	AdmitVote(ctx context.Context, id uuid.UUID, selectedOption string) (bool, error)
	// DebitRewardPool subtracts amount from reward_pool, guarded so the pool
	// can never go negative. Returns false when the pool cannot cover it.
	DebitRewardPool(ctx context.Context, id uuid.UUID, amount decimal.Decimal) (bool, error)
}

type VoteRepository interface {
	WithTx(tx *gorm.DB) VoteRepository

	Create(ctx context.Context, v *vote.Vote) error
	GetByPollAndUser(ctx context.Context, pollID, userID uuid.UUID) (vote.Vote, error)
	Exists(ctx context.Context, pollID, userID uuid.UUID) (bool, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]vote.Vote, error)

	// SetReward stamps reward_earned/reward_paid on an existing vote row.
	SetReward(ctx context.Context, pollID, userID uuid.UUID, amount decimal.Decimal) error
}

type WalletTransactionRepository interface {
	WithTx(tx *gorm.DB) WalletTransactionRepository

	Create(ctx context.Context, t *wallet.Transaction) error
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]wallet.Transaction, error)
	// SumAmounts returns the signed sum of all ledger amounts for a user,
	// the reconciliation counterpart of users.wallet_balance.
	SumAmounts(ctx context.Context, userID uuid.UUID) (decimal.Decimal, error)
}
