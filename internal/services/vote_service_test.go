package services

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"testing"
	"time"

	pollpay_errors "pollpay/pkg/errors"

	"pollpay/internal/domain/poll"
	"pollpay/internal/domain/vote"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestCastVote(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()
	creator := seedUser(t, s.db, "creator", "0")
	voter := seedUser(t, s.db, "voter", "0")
	p := seedFreePoll(t, s.db, creator.ID, 10)

	result, err := s.vote.CastVote(ctx, p.ID, voter.ID, vote.OptionA)
	require.NoError(t, err)
	require.Equal(t, 1, result.VoteSequence)
	require.True(t, result.RewardEarned.IsZero())
	require.Equal(t, 1, result.Poll.VotesCountA)
	require.Equal(t, 0, result.Poll.VotesCountB)

	require.Equal(t, 1, reloadUser(t, s.db, voter.ID).TotalVotesCast)
}

func TestCastVoteInvalidOption(t *testing.T) {
	s := newTestServices(t)
	creator := seedUser(t, s.db, "creator", "0")
	voter := seedUser(t, s.db, "voter", "0")
	p := seedFreePoll(t, s.db, creator.ID, 10)

	for _, option := range []string{"", "C", "a", "AB"} {
		_, err := s.vote.CastVote(context.Background(), p.ID, voter.ID, option)
		require.ErrorIs(t, err, pollpay_errors.ErrInvalidOption)
	}
}

func TestCastVotePollNotFound(t *testing.T) {
	s := newTestServices(t)
	voter := seedUser(t, s.db, "voter", "0")

	_, err := s.vote.CastVote(context.Background(), uuid.New(), voter.ID, vote.OptionA)
	require.ErrorIs(t, err, pollpay_errors.ErrNotFound)
}

func TestCastVoteClosedPoll(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()
	creator := seedUser(t, s.db, "creator", "0")
	voter := seedUser(t, s.db, "voter", "0")
	p := seedFreePoll(t, s.db, creator.ID, 10)
	require.NoError(t, s.db.Model(&p).Update("status", poll.StatusClosed).Error)

	_, err := s.vote.CastVote(ctx, p.ID, voter.ID, vote.OptionA)
	require.ErrorIs(t, err, pollpay_errors.ErrPollClosed)
}

func TestCastVoteDuplicate(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()
	creator := seedUser(t, s.db, "creator", "0")
	voter := seedUser(t, s.db, "voter", "0")
	p := seedFreePoll(t, s.db, creator.ID, 10)

	_, err := s.vote.CastVote(ctx, p.ID, voter.ID, vote.OptionA)
	require.NoError(t, err)

	// Same user, either option.
	_, err = s.vote.CastVote(ctx, p.ID, voter.ID, vote.OptionB)
	require.ErrorIs(t, err, pollpay_errors.ErrDuplicateVote)

	require.Equal(t, 1, reloadPoll(t, s.db, p.ID).TotalVotes())
}

func TestCastVoteFullPollClosesIt(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()
	creator := seedUser(t, s.db, "creator", "0")
	p := seedFreePoll(t, s.db, creator.ID, 2)

	for _, name := range []string{"v1", "v2"} {
		voter := seedUser(t, s.db, name, "0")
		_, err := s.vote.CastVote(ctx, p.ID, voter.ID, vote.OptionA)
		require.NoError(t, err)
	}

	// The filling vote closed the poll.
	require.Equal(t, poll.StatusClosed, reloadPoll(t, s.db, p.ID).Status)

	late := seedUser(t, s.db, "late", "0")
	_, err := s.vote.CastVote(ctx, p.ID, late.ID, vote.OptionB)
	require.ErrorIs(t, err, pollpay_errors.ErrPollClosed)
}

func TestCastVoteExpiredPoll(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()
	creator := seedUser(t, s.db, "creator", "0")
	voter := seedUser(t, s.db, "voter", "0")
	p := seedFreePoll(t, s.db, creator.ID, 10)
	require.NoError(t, s.db.Model(&p).Update("expires_at", sql.NullTime{
		Time:  time.Now().Add(-time.Minute),
		Valid: true,
	}).Error)

	_, err := s.vote.CastVote(ctx, p.ID, voter.ID, vote.OptionA)
	require.ErrorIs(t, err, pollpay_errors.ErrPollExpired)

	// The expiring vote did not count but it did close the poll.
	got := reloadPoll(t, s.db, p.ID)
	require.Equal(t, poll.StatusClosed, got.Status)
	require.Zero(t, got.TotalVotes())
}

func TestCastVotePaidPollPaysReward(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()
	creator := seedUser(t, s.db, "creator", "50.00")

	p, err := s.poll.CreatePoll(ctx, creator.ID, CreatePollInput{
		Question:    "Paid question?",
		OptionAText: "A",
		OptionBText: "B",
		MaxVotes:    20,
	})
	require.NoError(t, err)

	voter := seedUser(t, s.db, "voter", "0")
	result, err := s.vote.CastVote(ctx, p.ID, voter.ID, vote.OptionB)
	require.NoError(t, err)
	require.Equal(t, 1, result.VoteSequence)
	require.True(t, result.RewardEarned.Equal(mustDecimal(t, "0.45")))

	got := reloadUser(t, s.db, voter.ID)
	require.True(t, got.WalletBalance.Equal(mustDecimal(t, "0.45")))
	require.True(t, got.TotalEarnings.Equal(mustDecimal(t, "0.45")))

	v, err := s.votes.GetByPollAndUser(ctx, p.ID, voter.ID)
	require.NoError(t, err)
	require.True(t, v.RewardPaid)
	require.True(t, reloadPoll(t, s.db, p.ID).RewardPool.Equal(mustDecimal(t, "8.55")))
}

func TestCastVoteConcurrentSequences(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()
	creator := seedUser(t, s.db, "creator", "0")
	p := seedFreePoll(t, s.db, creator.ID, 10)

	const voters = 5
	ids := make([]uuid.UUID, voters)
	for i := 0; i < voters; i++ {
		ids[i] = seedUser(t, s.db, "voter"+string(rune('a'+i)), "0").ID
	}

	var wg sync.WaitGroup
	results := make([]VoteResult, voters)
	errs := make([]error, voters)
	for i := 0; i < voters; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = s.vote.CastVote(ctx, p.ID, ids[i], vote.OptionA)
		}(i)
	}
	wg.Wait()

	seen := make(map[int]bool)
	for i := 0; i < voters; i++ {
		require.NoError(t, errs[i])
		require.False(t, seen[results[i].VoteSequence], "duplicate sequence %d", results[i].VoteSequence)
		seen[results[i].VoteSequence] = true
	}
	// Sequences are exactly 1..N with no gaps.
	for seq := 1; seq <= voters; seq++ {
		require.True(t, seen[seq], "missing sequence %d", seq)
	}
	require.Equal(t, voters, reloadPoll(t, s.db, p.ID).TotalVotes())
}

func TestCastVoteConcurrentDuplicate(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()
	creator := seedUser(t, s.db, "creator", "0")
	voter := seedUser(t, s.db, "voter", "0")
	p := seedFreePoll(t, s.db, creator.ID, 10)

	const attempts = 4
	var wg sync.WaitGroup
	errs := make([]error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = s.vote.CastVote(ctx, p.ID, voter.ID, vote.OptionA)
		}(i)
	}
	wg.Wait()

	// Exactly one attempt lands; the unique index rejects the rest and
	// rolls their counter increments back.
	accepted := 0
	for _, err := range errs {
		if err == nil {
			accepted++
		} else {
			require.ErrorIs(t, err, pollpay_errors.ErrDuplicateVote)
		}
	}
	require.Equal(t, 1, accepted)

	got := reloadPoll(t, s.db, p.ID)
	require.Equal(t, 1, got.TotalVotes())
	require.Equal(t, 1, reloadUser(t, s.db, voter.ID).TotalVotesCast)
}

func TestCastVoteConcurrentCapacity(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()
	creator := seedUser(t, s.db, "creator", "0")
	p := seedFreePoll(t, s.db, creator.ID, 3)

	const voters = 6
	ids := make([]uuid.UUID, voters)
	for i := 0; i < voters; i++ {
		ids[i] = seedUser(t, s.db, "voter"+string(rune('a'+i)), "0").ID
	}

	var wg sync.WaitGroup
	errs := make([]error, voters)
	for i := 0; i < voters; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = s.vote.CastVote(ctx, p.ID, ids[i], vote.OptionB)
		}(i)
	}
	wg.Wait()

	accepted := 0
	for _, err := range errs {
		if err == nil {
			accepted++
		} else {
			require.True(t,
				errors.Is(err, pollpay_errors.ErrPollFull) || errors.Is(err, pollpay_errors.ErrPollClosed),
				"unexpected error: %v", err)
		}
	}
	require.Equal(t, 3, accepted)

	got := reloadPoll(t, s.db, p.ID)
	require.Equal(t, 3, got.TotalVotes())
	require.Equal(t, poll.StatusClosed, got.Status)
}
