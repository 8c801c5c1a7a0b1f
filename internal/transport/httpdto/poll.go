package httpdto

import (
	"time"

	"pollpay/internal/domain/poll"
	"pollpay/internal/domain/vote"

	"github.com/shopspring/decimal"
)

type CreatePollRequest struct {
	Question         string `json:"question" binding:"required"`
	OptionAText      string `json:"option_a_text" binding:"required"`
	OptionBText      string `json:"option_b_text" binding:"required"`
	MaxVotes         int    `json:"max_votes"`
	TimeLimitMinutes int    `json:"time_limit"`
}

type VoteRequest struct {
	SelectedOption string `json:"selected_option" binding:"required"`
}

type PollResponse struct {
	ID                string          `json:"id"`
	CreatorID         string          `json:"creator_id"`
	Question          string          `json:"question"`
	OptionAText       string          `json:"option_a_text"`
	OptionBText       string          `json:"option_b_text"`
	MaxVotes          int             `json:"max_votes"`
	Status            string          `json:"status"`
	VotesCountA       int             `json:"votes_count_a"`
	VotesCountB       int             `json:"votes_count_b"`
	IsPaid            bool            `json:"is_paid"`
	PollFee           decimal.Decimal `json:"poll_fee"`
	RewardPool        decimal.Decimal `json:"reward_pool"`
	RewardPerVoter    decimal.Decimal `json:"reward_per_voter"`
	MaxRewardedVoters int             `json:"max_rewarded_voters"`
	ExpiresAt         *time.Time      `json:"expires_at,omitempty"`
	CreatedAt         time.Time       `json:"created_at"`
}

func FromPoll(p poll.Poll) PollResponse {
	resp := PollResponse{
		ID:                p.ID.String(),
		CreatorID:         p.CreatorID.String(),
		Question:          p.Question,
		OptionAText:       p.OptionAText,
		OptionBText:       p.OptionBText,
		MaxVotes:          p.MaxVotes,
		Status:            p.Status,
		VotesCountA:       p.VotesCountA,
		VotesCountB:       p.VotesCountB,
		IsPaid:            p.IsPaid,
		PollFee:           p.PollFee,
		RewardPool:        p.RewardPool,
		RewardPerVoter:    p.RewardPerVoter,
		MaxRewardedVoters: p.MaxRewardedVoters,
		CreatedAt:         p.CreatedAt,
	}
	if p.ExpiresAt.Valid {
		t := p.ExpiresAt.Time
		resp.ExpiresAt = &t
	}
	return resp
}

func FromPollSlice(polls []poll.Poll) []PollResponse {
	out := make([]PollResponse, 0, len(polls))
	for _, p := range polls {
		out = append(out, FromPoll(p))
	}
	return out
}

type VoteResponse struct {
	VoteSequence int             `json:"vote_sequence"`
	RewardEarned decimal.Decimal `json:"reward_earned"`
	UpdatedPoll  PollResponse    `json:"updated_poll"`
}

type VotedPollResponse struct {
	PollID         string          `json:"poll_id"`
	SelectedOption string          `json:"selected_option"`
	VoteSequence   int             `json:"vote_sequence"`
	RewardEarned   decimal.Decimal `json:"reward_earned"`
	VotedAt        time.Time       `json:"voted_at"`
	Poll           PollResponse    `json:"poll"`
}

func FromVotedPoll(v vote.Vote, p poll.Poll) VotedPollResponse {
	return VotedPollResponse{
		PollID:         v.PollID.String(),
		SelectedOption: v.SelectedOption,
		VoteSequence:   v.VoteSequence,
		RewardEarned:   v.RewardEarned,
		VotedAt:        v.CreatedAt,
		Poll:           FromPoll(p),
	}
}
