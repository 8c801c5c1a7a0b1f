package httpdto

import (
	"time"

	"pollpay/internal/domain/wallet"

	"github.com/shopspring/decimal"
)

type DepositRequest struct {
	Amount        decimal.Decimal `json:"amount" binding:"required"`
	PaymentMethod string          `json:"payment_method"`
}

type WithdrawRequest struct {
	Amount           decimal.Decimal `json:"amount" binding:"required"`
	WithdrawalMethod string          `json:"withdrawal_method"`
}

type BalanceResponse struct {
	Balance       decimal.Decimal `json:"balance"`
	TotalEarnings decimal.Decimal `json:"total_earnings"`
}

type MutationResponse struct {
	NewBalance decimal.Decimal `json:"new_balance"`
}

type TransactionResponse struct {
	ID            string          `json:"id"`
	PollID        string          `json:"poll_id,omitempty"`
	Type          string          `json:"transaction_type"`
	Amount        decimal.Decimal `json:"amount"`
	BalanceBefore decimal.Decimal `json:"balance_before"`
	BalanceAfter  decimal.Decimal `json:"balance_after"`
	Description   string          `json:"description,omitempty"`
	Status        string          `json:"status"`
	CreatedAt     time.Time       `json:"created_at"`
}

func FromTransaction(t wallet.Transaction) TransactionResponse {
	resp := TransactionResponse{
		ID:            t.ID.String(),
		Type:          t.Type,
		Amount:        t.Amount,
		BalanceBefore: t.BalanceBefore,
		BalanceAfter:  t.BalanceAfter,
		Description:   t.Description,
		Status:        t.Status,
		CreatedAt:     t.CreatedAt,
	}
	if t.PollID.Valid {
		resp.PollID = t.PollID.UUID.String()
	}
	return resp
}

func FromTransactionSlice(txns []wallet.Transaction) []TransactionResponse {
	out := make([]TransactionResponse, 0, len(txns))
	for _, t := range txns {
		out = append(out, FromTransaction(t))
	}
	return out
}

type FeeQuoteResponse struct {
	MaxVotes   int             `json:"max_votes"`
	PollFee    decimal.Decimal `json:"poll_fee"`
	RewardPool decimal.Decimal `json:"reward_pool"`
	IsFree     bool            `json:"is_free"`
}

type CanAffordResponse struct {
	CanAfford      bool            `json:"can_afford"`
	RequiredFee    decimal.Decimal `json:"required_fee"`
	CurrentBalance decimal.Decimal `json:"current_balance"`
	Shortfall      decimal.Decimal `json:"shortfall"`
}
