package events

import (
	"context"
	"encoding/json"
	"time"

	"pollpay/internal/domain/poll"
	"pollpay/pkg/logger"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

// Publisher fans state-change notifications out over Redis pub/sub. It
// implements the services.Hooks interface; every failure is logged and
// swallowed so a broken broker can never unwind a committed vote or payment.
type Publisher struct {
	client *redis.Client
	log    *logger.Logger
}

func NewPublisher(client *redis.Client, log *logger.Logger) *Publisher {
	return &Publisher{client: client, log: log}
}

func (p *Publisher) publish(ctx context.Context, channels []string, eventType, aggregateType, aggregateID string, payload interface{}) {
	raw, err := json.Marshal(payload)
	if err != nil {
		p.log.Errorf("event payload marshal failed for %s: %v", eventType, err)
		return
	}
	data, err := json.Marshal(Envelope{
		EventType:     eventType,
		AggregateType: aggregateType,
		AggregateID:   aggregateID,
		OccurredAt:    time.Now(),
		Payload:       raw,
	})
	if err != nil {
		p.log.Errorf("event envelope marshal failed for %s: %v", eventType, err)
		return
	}
	for _, channel := range channels {
		if err := p.client.Publish(ctx, channel, data).Err(); err != nil {
			p.log.Errorf("event publish to %s failed: %v", channel, err)
		}
	}
}

func (p *Publisher) OnPollCreated(ctx context.Context, pl poll.Poll) {
	p.publish(ctx, []string{ChannelPollFeed},
		EventTypePollCreated, AggregateTypePoll, pl.ID.String(),
		map[string]interface{}{
			"poll_id":   pl.ID,
			"question":  pl.Question,
			"max_votes": pl.MaxVotes,
			"is_paid":   pl.IsPaid,
		})
}

func (p *Publisher) OnPollClosed(ctx context.Context, pollID uuid.UUID, status string) {
	p.publish(ctx, []string{ChannelPrefixPoll + pollID.String(), ChannelPollFeed},
		EventTypePollClosed, AggregateTypePoll, pollID.String(),
		map[string]interface{}{
			"poll_id": pollID,
			"status":  status,
		})
}

func (p *Publisher) OnVoteRecorded(ctx context.Context, pollID, userID uuid.UUID, selectedOption string, voteSequence int, rewardEarned decimal.Decimal, totalVotes int) {
	p.publish(ctx, []string{ChannelPrefixPoll + pollID.String()},
		EventTypePollVoted, AggregateTypePoll, pollID.String(),
		map[string]interface{}{
			"poll_id":         pollID,
			"user_id":         userID,
			"selected_option": selectedOption,
			"vote_sequence":   voteSequence,
			"reward_earned":   rewardEarned,
			"total_votes":     totalVotes,
		})
}

func (p *Publisher) OnRewardEarned(ctx context.Context, userID uuid.UUID, amount decimal.Decimal, pollID uuid.UUID, description string) {
	p.publish(ctx, []string{ChannelPrefixUser + userID.String()},
		EventTypeRewardEarned, AggregateTypeWallet, userID.String(),
		map[string]interface{}{
			"user_id":     userID,
			"amount":      amount,
			"poll_id":     pollID,
			"description": description,
		})
}

func (p *Publisher) OnAnalyticsUpdate(ctx context.Context, pollID, userID uuid.UUID, selectedOption string) {
	p.publish(ctx, []string{ChannelSystemAnalytics},
		EventTypeAnalyticsVote, AggregateTypePoll, pollID.String(),
		map[string]interface{}{
			"poll_id":         pollID,
			"user_id":         userID,
			"selected_option": selectedOption,
		})
}
