package services

import (
	"context"
	"database/sql"
	"time"

	"pollpay/internal/domain/poll"
	"pollpay/internal/domain/vote"
	"pollpay/internal/repository"
	pollpay_errors "pollpay/pkg/errors"
	"pollpay/pkg/logger"

	"github.com/google/uuid"
)

// PollService owns the poll lifecycle: creation (with the create-then-charge
// saga), reads, and the one-way ACTIVE -> CLOSED transition.
type PollService struct {
	polls  repository.PollRepository
	votes  repository.VoteRepository
	users  repository.UserRepository
	wallet *WalletService
	hooks  Hooks
	log    *logger.Logger
}

func NewPollService(
	polls repository.PollRepository,
	votes repository.VoteRepository,
	users repository.UserRepository,
	wallet *WalletService,
	hooks Hooks,
	log *logger.Logger,
) *PollService {
	if hooks == nil {
		hooks = NopHooks{}
	}
	return &PollService{
		polls:  polls,
		votes:  votes,
		users:  users,
		wallet: wallet,
		hooks:  hooks,
		log:    log,
	}
}

type CreatePollInput struct {
	Question         string
	OptionAText      string
	OptionBText      string
	MaxVotes         int
	TimeLimitMinutes int // 0 means no deadline
}

// CreatePoll inserts an ACTIVE poll, then charges the creator when the
// capacity is above the free tier. Poll creation and payment are two steps;
// a payment failure triggers the compensating delete of the poll row so no
// half-created paid poll survives.
func (s *PollService) CreatePoll(ctx context.Context, creatorID uuid.UUID, in CreatePollInput) (poll.Poll, error) {
	if in.Question == "" || in.OptionAText == "" || in.OptionBText == "" {
		return poll.Poll{}, pollpay_errors.ErrInvalidInput
	}
	if in.MaxVotes <= 0 {
		in.MaxVotes = FreeVoteLimit
	}

	p := poll.Poll{
		ID:                uuid.New(),
		CreatorID:         creatorID,
		Question:          in.Question,
		OptionAText:       in.OptionAText,
		OptionBText:       in.OptionBText,
		MaxVotes:          in.MaxVotes,
		Status:            poll.StatusActive,
		MaxRewardedVoters: poll.DefaultMaxRewardedVoters,
	}
	if in.TimeLimitMinutes > 0 {
		p.TimeLimit = sql.NullInt64{Int64: int64(in.TimeLimitMinutes), Valid: true}
		p.ExpiresAt = sql.NullTime{Time: time.Now().Add(time.Duration(in.TimeLimitMinutes) * time.Minute), Valid: true}
	}

	if err := s.polls.Create(ctx, &p); err != nil {
		return poll.Poll{}, err
	}

	if in.MaxVotes > FreeVoteLimit {
		if _, err := s.wallet.ProcessPollPayment(ctx, creatorID, p.ID, in.MaxVotes); err != nil {
			if delErr := s.polls.Delete(ctx, p.ID); delErr != nil {
				s.log.Errorf("compensating poll delete failed for %s: %v", p.ID, delErr)
			}
			return poll.Poll{}, err
		}
		// Pick up the payment-derived fields.
		paid, err := s.polls.GetByID(ctx, p.ID)
		if err != nil {
			return poll.Poll{}, err
		}
		p = paid
	}

	if err := s.users.IncrementPollsCreated(ctx, creatorID); err != nil {
		s.log.Warnf("poll counter update failed for %s: %v", creatorID, err)
	}
	s.hooks.OnPollCreated(ctx, p)

	return p, nil
}

func (s *PollService) GetPoll(ctx context.Context, pollID uuid.UUID) (poll.Poll, error) {
	return s.polls.GetByID(ctx, pollID)
}

// Discover returns active polls the user can still vote on.
func (s *PollService) Discover(ctx context.Context, userID uuid.UUID) ([]poll.Poll, error) {
	return s.polls.Discover(ctx, userID, 10)
}

func (s *PollService) ListCreated(ctx context.Context, creatorID uuid.UUID) ([]poll.Poll, error) {
	return s.polls.ListByCreator(ctx, creatorID)
}

// VotedPoll pairs a user's vote with the poll it landed on.
type VotedPoll struct {
	Vote vote.Vote
	Poll poll.Poll
}

func (s *PollService) ListVoted(ctx context.Context, userID uuid.UUID) ([]VotedPoll, error) {
	votes, err := s.votes.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]VotedPoll, 0, len(votes))
	for _, v := range votes {
		p, err := s.polls.GetByID(ctx, v.PollID)
		if err != nil {
			continue
		}
		out = append(out, VotedPoll{Vote: v, Poll: p})
	}
	return out, nil
}

// ClosePoll force-closes a poll. Only the creator may do this; closing an
// already-closed poll is an idempotent success returning the current state.
func (s *PollService) ClosePoll(ctx context.Context, pollID, requesterID uuid.UUID) (poll.Poll, error) {
	p, err := s.polls.GetByID(ctx, pollID)
	if err != nil {
		return poll.Poll{}, err
	}
	if p.CreatorID != requesterID {
		return poll.Poll{}, pollpay_errors.ErrForbidden
	}

	transitioned, err := s.polls.Close(ctx, pollID)
	if err != nil {
		return poll.Poll{}, err
	}
	if transitioned {
		s.hooks.OnPollClosed(ctx, pollID, poll.StatusClosed)
	}

	return s.polls.GetByID(ctx, pollID)
}
