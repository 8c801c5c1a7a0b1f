package services

import (
	"context"
	"fmt"

	"pollpay/internal/domain/wallet"
	"pollpay/internal/repository"
	pollpay_errors "pollpay/pkg/errors"
	"pollpay/pkg/logger"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// WalletService orchestrates every balance mutation. Each mutating operation
// runs as a single transaction spanning the user row, any poll row touched,
// and the ledger insert, so a partial balance change can never persist.
type WalletService struct {
	db     *gorm.DB
	users  repository.UserRepository
	polls  repository.PollRepository
	votes  repository.VoteRepository
	ledger repository.WalletTransactionRepository
	log    *logger.Logger
}

func NewWalletService(
	db *gorm.DB,
	users repository.UserRepository,
	polls repository.PollRepository,
	votes repository.VoteRepository,
	ledger repository.WalletTransactionRepository,
	log *logger.Logger,
) *WalletService {
	return &WalletService{
		db:     db,
		users:  users,
		polls:  polls,
		votes:  votes,
		ledger: ledger,
		log:    log,
	}
}

// PaymentResult reports the outcome of a poll payment.
type PaymentResult struct {
	Fee            decimal.Decimal
	RewardPool     decimal.Decimal
	RewardPerVoter decimal.Decimal
}

// BalanceInfo is the read-only wallet summary for a user.
type BalanceInfo struct {
	Balance       decimal.Decimal
	TotalEarnings decimal.Decimal
}

// AddFunds credits the user's wallet and records a DEPOSIT ledger row.
// The amount must be strictly positive.
func (s *WalletService) AddFunds(ctx context.Context, userID uuid.UUID, amount decimal.Decimal, referenceID string) (decimal.Decimal, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, pollpay_errors.ErrInvalidInput
	}

	var newBalance decimal.Decimal
	err := s.db.Transaction(func(tx *gorm.DB) error {
		users := s.users.WithTx(tx)
		ledger := s.ledger.WithTx(tx)

		if err := users.CreditBalance(ctx, userID, amount); err != nil {
			return err
		}
		u, err := users.GetByID(ctx, userID)
		if err != nil {
			return err
		}
		newBalance = u.WalletBalance

		return ledger.Create(ctx, &wallet.Transaction{
			ID:            uuid.New(),
			UserID:        userID,
			Type:          wallet.TypeDeposit,
			Amount:        amount,
			BalanceBefore: newBalance.Sub(amount),
			BalanceAfter:  newBalance,
			Description:   "Wallet deposit",
			ReferenceID:   referenceID,
			Status:        wallet.StatusCompleted,
		})
	})
	if err != nil {
		return decimal.Zero, err
	}
	return newBalance, nil
}

// WithdrawFunds debits the user's wallet and records a WITHDRAWAL ledger row
// with status PENDING; external settlement is asynchronous and out of scope.
func (s *WalletService) WithdrawFunds(ctx context.Context, userID uuid.UUID, amount decimal.Decimal, method string) (decimal.Decimal, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, pollpay_errors.ErrInvalidInput
	}
	if method == "" {
		method = "bank_transfer"
	}

	var newBalance decimal.Decimal
	err := s.db.Transaction(func(tx *gorm.DB) error {
		users := s.users.WithTx(tx)
		ledger := s.ledger.WithTx(tx)

		if err := users.DebitBalance(ctx, userID, amount); err != nil {
			return err
		}
		u, err := users.GetByID(ctx, userID)
		if err != nil {
			return err
		}
		newBalance = u.WalletBalance

		return ledger.Create(ctx, &wallet.Transaction{
			ID:            uuid.New(),
			UserID:        userID,
			Type:          wallet.TypeWithdrawal,
			Amount:        amount.Neg(),
			BalanceBefore: newBalance.Add(amount),
			BalanceAfter:  newBalance,
			Description:   fmt.Sprintf("Withdrawal via %s", method),
			Status:        wallet.StatusPending,
		})
	})
	if err != nil {
		return decimal.Zero, err
	}
	return newBalance, nil
}

// ProcessPollPayment charges the creator for a poll's vote capacity and
// stamps the reward fields on the poll. A free-tier poll is a no-op success.
// On InsufficientBalance the caller is responsible for the compensating
// delete of the just-created poll.
func (s *WalletService) ProcessPollPayment(ctx context.Context, userID, pollID uuid.UUID, maxVotes int) (PaymentResult, error) {
	fee := CalculatePollFee(maxVotes)
	if fee.IsZero() {
		return PaymentResult{Fee: decimal.Zero, RewardPool: decimal.Zero, RewardPerVoter: decimal.Zero}, nil
	}

	var result PaymentResult
	err := s.db.Transaction(func(tx *gorm.DB) error {
		users := s.users.WithTx(tx)
		polls := s.polls.WithTx(tx)
		ledger := s.ledger.WithTx(tx)

		p, err := polls.GetByID(ctx, pollID)
		if err != nil {
			return err
		}

		if err := users.DebitBalance(ctx, userID, fee); err != nil {
			return err
		}

		rewardPool := CalculateRewardPool(fee)
		rewardPerVoter := RewardPerVoter(rewardPool, maxVotes, p.MaxRewardedVoters)
		if err := polls.MarkPaid(ctx, pollID, fee, rewardPool, rewardPerVoter); err != nil {
			return err
		}

		u, err := users.GetByID(ctx, userID)
		if err != nil {
			return err
		}

		result = PaymentResult{Fee: fee, RewardPool: rewardPool, RewardPerVoter: rewardPerVoter}
		return ledger.Create(ctx, &wallet.Transaction{
			ID:            uuid.New(),
			UserID:        userID,
			PollID:        uuid.NullUUID{UUID: pollID, Valid: true},
			Type:          wallet.TypePollPayment,
			Amount:        fee.Neg(),
			BalanceBefore: u.WalletBalance.Add(fee),
			BalanceAfter:  u.WalletBalance,
			Description:   fmt.Sprintf("Payment for poll: %s", truncate(p.Question, 50)),
			Status:        wallet.StatusCompleted,
		})
	})
	if err != nil {
		return PaymentResult{}, err
	}
	return result, nil
}

// ProcessVoterReward pays the frozen per-voter reward to an eligible voter,
// depleting the poll's reward pool. Every "no reward" condition (unpaid
// poll, empty pool, sequence past max_rewarded_voters, pool short of the
// per-voter amount) is a zero-reward success, never an error. Only missing
// entities error.
func (s *WalletService) ProcessVoterReward(ctx context.Context, userID, pollID uuid.UUID, voteSequence int) (decimal.Decimal, error) {
	var reward decimal.Decimal
	err := s.db.Transaction(func(tx *gorm.DB) error {
		users := s.users.WithTx(tx)
		polls := s.polls.WithTx(tx)
		votes := s.votes.WithTx(tx)
		ledger := s.ledger.WithTx(tx)

		p, err := polls.GetByID(ctx, pollID)
		if err != nil {
			return err
		}
		if _, err := users.GetByID(ctx, userID); err != nil {
			return err
		}

		reward = decimal.Zero
		if !p.IsPaid || p.RewardPool.LessThanOrEqual(decimal.Zero) {
			return nil
		}
		if voteSequence > p.MaxRewardedVoters {
			return nil
		}
		if p.RewardPerVoter.LessThanOrEqual(decimal.Zero) {
			return nil
		}

		// The guarded debit doubles as the final eligibility check under
		// concurrent payouts on the same poll.
		ok, err := polls.DebitRewardPool(ctx, pollID, p.RewardPerVoter)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}

		if err := users.CreditEarnings(ctx, userID, p.RewardPerVoter); err != nil {
			return err
		}
		if err := votes.SetReward(ctx, pollID, userID, p.RewardPerVoter); err != nil {
			return err
		}

		u, err := users.GetByID(ctx, userID)
		if err != nil {
			return err
		}

		reward = p.RewardPerVoter
		return ledger.Create(ctx, &wallet.Transaction{
			ID:            uuid.New(),
			UserID:        userID,
			PollID:        uuid.NullUUID{UUID: pollID, Valid: true},
			Type:          wallet.TypeVoteReward,
			Amount:        reward,
			BalanceBefore: u.WalletBalance.Sub(reward),
			BalanceAfter:  u.WalletBalance,
			Description:   fmt.Sprintf("Reward for voting on poll: %s", truncate(p.Question, 50)),
			Status:        wallet.StatusCompleted,
		})
	})
	if err != nil {
		return decimal.Zero, err
	}
	return reward, nil
}

// GetWalletBalance returns the user's balance and lifetime earnings.
func (s *WalletService) GetWalletBalance(ctx context.Context, userID uuid.UUID) (BalanceInfo, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return BalanceInfo{}, err
	}
	return BalanceInfo{Balance: u.WalletBalance, TotalEarnings: u.TotalEarnings}, nil
}

// GetWalletHistory returns the user's ledger rows, newest first.
func (s *WalletService) GetWalletHistory(ctx context.Context, userID uuid.UUID, limit, offset int) ([]wallet.Transaction, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.ledger.ListByUser(ctx, userID, limit, offset)
}

// CanAffordPoll reports whether the user's balance covers the fee for a poll
// with the given capacity. Returns false rather than erroring when the user
// cannot be found.
func (s *WalletService) CanAffordPoll(ctx context.Context, userID uuid.UUID, maxVotes int) bool {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return false
	}
	return u.WalletBalance.GreaterThanOrEqual(CalculatePollFee(maxVotes))
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
