package services

import (
	"context"
	"testing"

	pollpay_errors "pollpay/pkg/errors"

	"pollpay/internal/domain/poll"
	"pollpay/internal/domain/wallet"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestAddFunds(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()
	u := seedUser(t, s.db, "alice", "0")

	balance, err := s.wallet.AddFunds(ctx, u.ID, mustDecimal(t, "25.00"), "ref-1")
	require.NoError(t, err)
	require.True(t, balance.Equal(mustDecimal(t, "25.00")))

	balance, err = s.wallet.AddFunds(ctx, u.ID, mustDecimal(t, "10.50"), "ref-2")
	require.NoError(t, err)
	require.True(t, balance.Equal(mustDecimal(t, "35.50")))

	history, err := s.ledger.ListByUser(ctx, u.ID, 10, 0)
	require.NoError(t, err)
	require.Len(t, history, 2)
	require.Equal(t, wallet.TypeDeposit, history[0].Type)
	require.Equal(t, wallet.StatusCompleted, history[0].Status)

	// The ledger reconciles with the stored balance.
	sum, err := s.ledger.SumAmounts(ctx, u.ID)
	require.NoError(t, err)
	require.True(t, sum.Equal(reloadUser(t, s.db, u.ID).WalletBalance))
}

func TestAddFundsRejectsNonPositive(t *testing.T) {
	s := newTestServices(t)
	u := seedUser(t, s.db, "alice", "0")

	_, err := s.wallet.AddFunds(context.Background(), u.ID, decimal.Zero, "")
	require.ErrorIs(t, err, pollpay_errors.ErrInvalidInput)

	_, err = s.wallet.AddFunds(context.Background(), u.ID, mustDecimal(t, "-1.00"), "")
	require.ErrorIs(t, err, pollpay_errors.ErrInvalidInput)
}

func TestWithdrawFunds(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()
	u := seedUser(t, s.db, "alice", "50.00")

	balance, err := s.wallet.WithdrawFunds(ctx, u.ID, mustDecimal(t, "20.00"), "paypal")
	require.NoError(t, err)
	require.True(t, balance.Equal(mustDecimal(t, "30.00")))

	history, err := s.ledger.ListByUser(ctx, u.ID, 10, 0)
	require.NoError(t, err)
	require.Len(t, history, 1)
	require.Equal(t, wallet.TypeWithdrawal, history[0].Type)
	require.Equal(t, wallet.StatusPending, history[0].Status)
	require.True(t, history[0].Amount.Equal(mustDecimal(t, "-20.00")))
	require.Equal(t, "Withdrawal via paypal", history[0].Description)
}

func TestWithdrawFundsInsufficientBalance(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()
	u := seedUser(t, s.db, "alice", "10.00")

	_, err := s.wallet.WithdrawFunds(ctx, u.ID, mustDecimal(t, "10.01"), "")
	require.ErrorIs(t, err, pollpay_errors.ErrInsufficientBalance)

	// Nothing moved and no ledger row was written.
	require.True(t, reloadUser(t, s.db, u.ID).WalletBalance.Equal(mustDecimal(t, "10.00")))
	history, err := s.ledger.ListByUser(ctx, u.ID, 10, 0)
	require.NoError(t, err)
	require.Empty(t, history)
}

func TestProcessPollPaymentExactBalance(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()
	// fee(20) = 5.00 + 10 * 0.50 = 10.00
	u := seedUser(t, s.db, "alice", "10.00")
	p := seedFreePoll(t, s.db, u.ID, 20)

	result, err := s.wallet.ProcessPollPayment(ctx, u.ID, p.ID, 20)
	require.NoError(t, err)
	require.True(t, result.Fee.Equal(mustDecimal(t, "10.00")))
	require.True(t, result.RewardPool.Equal(mustDecimal(t, "9.00")))
	require.True(t, result.RewardPerVoter.Equal(mustDecimal(t, "0.45")))

	require.True(t, reloadUser(t, s.db, u.ID).WalletBalance.IsZero())

	paid := reloadPoll(t, s.db, p.ID)
	require.True(t, paid.IsPaid)
	require.True(t, paid.PollFee.Equal(mustDecimal(t, "10.00")))
	require.True(t, paid.RewardPool.Equal(mustDecimal(t, "9.00")))

	history, err := s.ledger.ListByUser(ctx, u.ID, 10, 0)
	require.NoError(t, err)
	require.Len(t, history, 1)
	require.Equal(t, wallet.TypePollPayment, history[0].Type)
	require.True(t, history[0].Amount.Equal(mustDecimal(t, "-10.00")))
	require.Equal(t, p.ID, history[0].PollID.UUID)
}

func TestProcessPollPaymentOneCentShort(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()
	u := seedUser(t, s.db, "alice", "9.99")
	p := seedFreePoll(t, s.db, u.ID, 20)

	_, err := s.wallet.ProcessPollPayment(ctx, u.ID, p.ID, 20)
	require.ErrorIs(t, err, pollpay_errors.ErrInsufficientBalance)

	// The failed payment left no trace.
	require.True(t, reloadUser(t, s.db, u.ID).WalletBalance.Equal(mustDecimal(t, "9.99")))
	require.False(t, reloadPoll(t, s.db, p.ID).IsPaid)
	history, err := s.ledger.ListByUser(ctx, u.ID, 10, 0)
	require.NoError(t, err)
	require.Empty(t, history)
}

func TestProcessPollPaymentFreeTier(t *testing.T) {
	s := newTestServices(t)
	u := seedUser(t, s.db, "alice", "0")
	p := seedFreePoll(t, s.db, u.ID, 10)

	result, err := s.wallet.ProcessPollPayment(context.Background(), u.ID, p.ID, 10)
	require.NoError(t, err)
	require.True(t, result.Fee.IsZero())
	require.False(t, reloadPoll(t, s.db, p.ID).IsPaid)
}

func TestProcessVoterRewardDepletesPool(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()
	creator := seedUser(t, s.db, "creator", "0")
	// Pool of 9.00 at 3.00 per voter covers exactly three voters.
	p := seedPaidPoll(t, s.db, creator.ID, 20, "9.00", "3.00")

	for i, name := range []string{"v1", "v2", "v3"} {
		voter := seedUser(t, s.db, name, "0")
		seedVote(t, s.db, p.ID, voter.ID, "A", i+1)
		reward, err := s.wallet.ProcessVoterReward(ctx, voter.ID, p.ID, i+1)
		require.NoError(t, err)
		require.True(t, reward.Equal(mustDecimal(t, "3.00")))

		got := reloadUser(t, s.db, voter.ID)
		require.True(t, got.WalletBalance.Equal(mustDecimal(t, "3.00")))
		require.True(t, got.TotalEarnings.Equal(mustDecimal(t, "3.00")))

		v, err := s.votes.GetByPollAndUser(ctx, p.ID, voter.ID)
		require.NoError(t, err)
		require.True(t, v.RewardPaid)
		require.True(t, v.RewardEarned.Equal(mustDecimal(t, "3.00")))
	}

	// Fourth voter gets nothing and the pool never goes negative.
	late := seedUser(t, s.db, "v4", "0")
	reward, err := s.wallet.ProcessVoterReward(ctx, late.ID, p.ID, 4)
	require.NoError(t, err)
	require.True(t, reward.IsZero())
	require.True(t, reloadUser(t, s.db, late.ID).WalletBalance.IsZero())
	require.True(t, reloadPoll(t, s.db, p.ID).RewardPool.IsZero())
}

func TestProcessVoterRewardFreePoll(t *testing.T) {
	s := newTestServices(t)
	creator := seedUser(t, s.db, "creator", "0")
	voter := seedUser(t, s.db, "voter", "0")
	p := seedFreePoll(t, s.db, creator.ID, 10)

	reward, err := s.wallet.ProcessVoterReward(context.Background(), voter.ID, p.ID, 1)
	require.NoError(t, err)
	require.True(t, reward.IsZero())
}

func TestProcessVoterRewardBeyondRewardedCap(t *testing.T) {
	s := newTestServices(t)
	creator := seedUser(t, s.db, "creator", "0")
	voter := seedUser(t, s.db, "voter", "0")
	p := seedPaidPoll(t, s.db, creator.ID, 100, "45.00", "0.90")

	reward, err := s.wallet.ProcessVoterReward(context.Background(), voter.ID, p.ID, poll.DefaultMaxRewardedVoters+1)
	require.NoError(t, err)
	require.True(t, reward.IsZero())
}

func TestGetWalletBalance(t *testing.T) {
	s := newTestServices(t)
	u := seedUser(t, s.db, "alice", "12.34")

	info, err := s.wallet.GetWalletBalance(context.Background(), u.ID)
	require.NoError(t, err)
	require.True(t, info.Balance.Equal(mustDecimal(t, "12.34")))
	require.True(t, info.TotalEarnings.IsZero())

	_, err = s.wallet.GetWalletBalance(context.Background(), uuid.New())
	require.ErrorIs(t, err, pollpay_errors.ErrNotFound)
}

func TestGetWalletHistoryPaging(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()
	u := seedUser(t, s.db, "alice", "0")

	for i := 0; i < 5; i++ {
		_, err := s.wallet.AddFunds(ctx, u.ID, mustDecimal(t, "1.00"), "")
		require.NoError(t, err)
	}

	page, err := s.wallet.GetWalletHistory(ctx, u.ID, 2, 0)
	require.NoError(t, err)
	require.Len(t, page, 2)

	rest, err := s.wallet.GetWalletHistory(ctx, u.ID, 10, 2)
	require.NoError(t, err)
	require.Len(t, rest, 3)
}

func TestCanAffordPoll(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()
	u := seedUser(t, s.db, "alice", "10.00")

	require.True(t, s.wallet.CanAffordPoll(ctx, u.ID, 20))  // fee 10.00
	require.False(t, s.wallet.CanAffordPoll(ctx, u.ID, 21)) // fee 10.50
	require.True(t, s.wallet.CanAffordPoll(ctx, u.ID, 10))  // free tier

	// Unknown users can afford nothing.
	require.False(t, s.wallet.CanAffordPoll(ctx, uuid.New(), 20))
}
