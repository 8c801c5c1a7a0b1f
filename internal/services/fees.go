package services

import "github.com/shopspring/decimal"

// Poll pricing constants. A poll with at most FreeVoteLimit responses costs
// nothing; above that the creator pays a base fee plus a per-response fee,
// and the platform keeps PlatformCommission of it.
var (
	PollBaseFee        = decimal.RequireFromString("5.00")
	PollFeePerResponse = decimal.RequireFromString("0.50")
	PlatformCommission = decimal.RequireFromString("0.10")
)

const FreeVoteLimit = 10

// CalculatePollFee returns the creation fee for a poll with the given vote
// capacity. Deterministic and side-effect free.
func CalculatePollFee(maxVotes int) decimal.Decimal {
	if maxVotes <= FreeVoteLimit {
		return decimal.Zero
	}
	extra := decimal.NewFromInt(int64(maxVotes - FreeVoteLimit))
	return PollBaseFee.Add(extra.Mul(PollFeePerResponse)).Round(2)
}

// CalculateRewardPool returns the voter reward budget funded by a poll fee
// after the platform commission is removed.
func CalculateRewardPool(pollFee decimal.Decimal) decimal.Decimal {
	return pollFee.Mul(decimal.NewFromInt(1).Sub(PlatformCommission)).Round(2)
}

// RewardPerVoter splits the reward pool across the rewarded voters. The
// figure is frozen on the poll at payment time and never recomputed as the
// live pool depletes.
func RewardPerVoter(rewardPool decimal.Decimal, maxVotes, maxRewardedVoters int) decimal.Decimal {
	n := maxVotes
	if maxRewardedVoters < n {
		n = maxRewardedVoters
	}
	if n <= 0 {
		return decimal.Zero
	}
	return rewardPool.Div(decimal.NewFromInt(int64(n))).Round(2)
}
