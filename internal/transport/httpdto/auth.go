package httpdto

import (
	"pollpay/internal/domain/user"

	"github.com/shopspring/decimal"
)

type RegisterRequest struct {
	Username    string `json:"username" binding:"required"`
	Email       string `json:"email"`
	Password    string `json:"password" binding:"required"`
	DisplayName string `json:"display_name"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type UserResponse struct {
	ID                string          `json:"id"`
	Username          string          `json:"username"`
	DisplayName       string          `json:"display_name,omitempty"`
	WalletBalance     decimal.Decimal `json:"wallet_balance"`
	TotalEarnings     decimal.Decimal `json:"total_earnings"`
	TotalPollsCreated int             `json:"total_polls_created"`
	TotalVotesCast    int             `json:"total_votes_cast"`
}

func FromUser(u user.User) UserResponse {
	return UserResponse{
		ID:                u.ID.String(),
		Username:          u.Username,
		DisplayName:       u.DisplayName,
		WalletBalance:     u.WalletBalance,
		TotalEarnings:     u.TotalEarnings,
		TotalPollsCreated: u.TotalPollsCreated,
		TotalVotesCast:    u.TotalVotesCast,
	}
}

type AuthResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}
