package services

import (
	"context"

	"pollpay/internal/domain/poll"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Hooks is the notify-only collaborator surface invoked after state changes
// commit. Implementations must be fire-and-forget: they may log failures but
// must never influence the outcome of the operation that triggered them.
type Hooks interface {
	OnPollCreated(ctx context.Context, p poll.Poll)
	OnPollClosed(ctx context.Context, pollID uuid.UUID, status string)
	OnVoteRecorded(ctx context.Context, pollID, userID uuid.UUID, selectedOption string, voteSequence int, rewardEarned decimal.Decimal, totalVotes int)
	OnRewardEarned(ctx context.Context, userID uuid.UUID, amount decimal.Decimal, pollID uuid.UUID, description string)
	OnAnalyticsUpdate(ctx context.Context, pollID, userID uuid.UUID, selectedOption string)
}

// NopHooks discards every notification. Used in tests and as a fallback when
// no event transport is configured.
type NopHooks struct{}

func (NopHooks) OnPollCreated(context.Context, poll.Poll) {}
func (NopHooks) OnPollClosed(context.Context, uuid.UUID, string) {}
func (NopHooks) OnVoteRecorded(context.Context, uuid.UUID, uuid.UUID, string, int, decimal.Decimal, int) {
}
func (NopHooks) OnRewardEarned(context.Context, uuid.UUID, decimal.Decimal, uuid.UUID, string) {}
func (NopHooks) OnAnalyticsUpdate(context.Context, uuid.UUID, uuid.UUID, string)               {}
