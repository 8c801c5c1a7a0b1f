package services

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCalculatePollFee(t *testing.T) {
	tests := []struct {
		maxVotes int
		want     string
	}{
		{1, "0"},
		{10, "0"},
		{11, "5.5"},
		{20, "10"},
		{50, "25"},
		{100, "50"},
	}
	for _, tt := range tests {
		got := CalculatePollFee(tt.maxVotes)
		require.True(t, got.Equal(mustDecimal(t, tt.want)),
			"fee(%d) = %s, want %s", tt.maxVotes, got, tt.want)
	}
}

func TestCalculateRewardPool(t *testing.T) {
	require.True(t, CalculateRewardPool(mustDecimal(t, "25.00")).Equal(mustDecimal(t, "22.50")))
	require.True(t, CalculateRewardPool(mustDecimal(t, "10.00")).Equal(mustDecimal(t, "9.00")))
	require.True(t, CalculateRewardPool(mustDecimal(t, "0")).IsZero())
}

func TestRewardPerVoter(t *testing.T) {
	// Pool split across capacity when capacity is under the reward cap.
	require.True(t, RewardPerVoter(mustDecimal(t, "9.00"), 20, 50).Equal(mustDecimal(t, "0.45")))
	// Capacity above the cap splits across the cap instead.
	require.True(t, RewardPerVoter(mustDecimal(t, "45.00"), 100, 50).Equal(mustDecimal(t, "0.90")))
	// Rounded to cents.
	require.True(t, RewardPerVoter(mustDecimal(t, "10.00"), 30, 50).Equal(mustDecimal(t, "0.33")))
	require.True(t, RewardPerVoter(mustDecimal(t, "5.00"), 0, 0).IsZero())
}
