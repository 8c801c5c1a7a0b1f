package services

import (
	"context"
	"errors"
	"time"

	"pollpay/internal/domain/poll"
	"pollpay/internal/domain/vote"
	"pollpay/internal/repository"
	pollpay_errors "pollpay/pkg/errors"
	"pollpay/pkg/logger"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// VoteService is the admission controller for votes: it decides whether a
// vote attempt is accepted, assigns the per-poll sequence number, and kicks
// off the best-effort reward payout.
type VoteService struct {
	db     *gorm.DB
	polls  repository.PollRepository
	votes  repository.VoteRepository
	users  repository.UserRepository
	wallet *WalletService
	hooks  Hooks
	log    *logger.Logger
}

func NewVoteService(
	db *gorm.DB,
	polls repository.PollRepository,
	votes repository.VoteRepository,
	users repository.UserRepository,
	wallet *WalletService,
	hooks Hooks,
	log *logger.Logger,
) *VoteService {
	if hooks == nil {
		hooks = NopHooks{}
	}
	return &VoteService{
		db:     db,
		polls:  polls,
		votes:  votes,
		users:  users,
		wallet: wallet,
		hooks:  hooks,
		log:    log,
	}
}

// VoteResult is returned to the caller after a vote commits.
type VoteResult struct {
	VoteSequence int
	RewardEarned decimal.Decimal
	Poll         poll.Poll
}

// CastVote validates eligibility, atomically records the vote with its
// arrival-order sequence, then runs the post-commit side effects: voter
// reward (best-effort), close-on-full, and hook notifications. The vote
// itself stays committed even when the reward step fails.
func (s *VoteService) CastVote(ctx context.Context, pollID, userID uuid.UUID, selectedOption string) (VoteResult, error) {
	if !vote.ValidOption(selectedOption) {
		return VoteResult{}, pollpay_errors.ErrInvalidOption
	}

	p, err := s.polls.GetByID(ctx, pollID)
	if err != nil {
		return VoteResult{}, err
	}
	if p.Status != poll.StatusActive {
		return VoteResult{}, pollpay_errors.ErrPollClosed
	}

	exists, err := s.votes.Exists(ctx, pollID, userID)
	if err != nil {
		return VoteResult{}, err
	}
	if exists {
		return VoteResult{}, pollpay_errors.ErrDuplicateVote
	}

	if p.IsFull() {
		s.closeAndNotify(ctx, pollID)
		return VoteResult{}, pollpay_errors.ErrPollFull
	}
	if p.IsExpired(time.Now()) {
		// The expiring vote does not count; closing is a side effect of the
		// rejection itself.
		s.closeAndNotify(ctx, pollID)
		return VoteResult{}, pollpay_errors.ErrPollExpired
	}

	var snapshot poll.Poll
	var sequence int
	err = s.db.Transaction(func(tx *gorm.DB) error {
		polls := s.polls.WithTx(tx)
		votes := s.votes.WithTx(tx)

		// The guarded increment is the admission point: concurrent votes on
		// the same poll serialize here, so the counter can never pass
		// max_votes and each admitted vote sees a distinct total.
		admitted, err := polls.AdmitVote(ctx, pollID, selectedOption)
		if err != nil {
			return err
		}
		if !admitted {
			current, err := polls.GetByID(ctx, pollID)
			if err != nil {
				return err
			}
			if current.Status != poll.StatusActive {
				return pollpay_errors.ErrPollClosed
			}
			return pollpay_errors.ErrPollFull
		}

		current, err := polls.GetByID(ctx, pollID)
		if err != nil {
			return err
		}
		sequence = current.TotalVotes()
		snapshot = current

		// The composite unique index is the backstop for two simultaneous
		// votes from the same user; a conflict rolls back the increment too.
		return votes.Create(ctx, &vote.Vote{
			ID:             uuid.New(),
			PollID:         pollID,
			UserID:         userID,
			SelectedOption: selectedOption,
			VoteSequence:   sequence,
			RewardEarned:   decimal.Zero,
		})
	})
	if err != nil {
		if errors.Is(err, pollpay_errors.ErrPollFull) {
			s.closeAndNotify(ctx, pollID)
		}
		return VoteResult{}, err
	}

	if err := s.users.IncrementVotesCast(ctx, userID); err != nil {
		s.log.Warnf("vote counter update failed for %s: %v", userID, err)
	}

	reward := decimal.Zero
	if snapshot.IsPaid {
		r, err := s.wallet.ProcessVoterReward(ctx, userID, pollID, sequence)
		if err != nil {
			// The vote is already committed; the reward is best-effort.
			s.log.Errorf("reward processing failed for vote %d on poll %s: %v", sequence, pollID, err)
		} else if r.GreaterThan(decimal.Zero) {
			reward = r
			s.hooks.OnRewardEarned(ctx, userID, reward, pollID, "Reward for voting on poll: "+truncate(snapshot.Question, 30))
		}
	}

	if snapshot.IsFull() {
		s.closeAndNotify(ctx, pollID)
	}

	final, err := s.polls.GetByID(ctx, pollID)
	if err != nil {
		final = snapshot
	}

	s.hooks.OnVoteRecorded(ctx, pollID, userID, selectedOption, sequence, reward, final.TotalVotes())
	s.hooks.OnAnalyticsUpdate(ctx, pollID, userID, selectedOption)

	return VoteResult{VoteSequence: sequence, RewardEarned: reward, Poll: final}, nil
}

// closeAndNotify performs the ACTIVE -> CLOSED transition and fires the hook
// only when this call actually transitioned the poll.
func (s *VoteService) closeAndNotify(ctx context.Context, pollID uuid.UUID) {
	transitioned, err := s.polls.Close(ctx, pollID)
	if err != nil {
		s.log.Errorf("poll close failed for %s: %v", pollID, err)
		return
	}
	if transitioned {
		s.hooks.OnPollClosed(ctx, pollID, poll.StatusClosed)
	}
}
