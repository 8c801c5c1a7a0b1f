package events

// Event type constants, format: domain.action

// Poll events
const (
	EventTypePollCreated = "poll.created"
	EventTypePollVoted   = "poll.voted"
	EventTypePollClosed  = "poll.closed"
)

// Wallet events
const (
	EventTypeRewardEarned = "wallet.reward_earned"
)

// Analytics events
const (
	EventTypeAnalyticsVote = "analytics.vote_recorded"
)

// Aggregate type constants
const (
	AggregateTypePoll   = "poll"
	AggregateTypeUser   = "user"
	AggregateTypeWallet = "wallet"
)

// Redis channel prefixes
const (
	ChannelPrefixPoll      = "channel:poll:"
	ChannelPrefixUser      = "channel:user:"
	ChannelPollFeed        = "channel:poll:feed"
	ChannelSystemAnalytics = "channel:system:analytics"
)
