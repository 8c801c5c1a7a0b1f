package handler

import (
	"net/http"
	"strconv"
	"time"

	"pollpay/internal/services"
	"pollpay/internal/transport/httpdto"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type WalletHandler struct {
	wallet *services.WalletService

	maxDeposit    decimal.Decimal
	minWithdrawal decimal.Decimal
}

func NewWalletHandler(wallet *services.WalletService, maxDeposit, minWithdrawal decimal.Decimal) *WalletHandler {
	return &WalletHandler{wallet: wallet, maxDeposit: maxDeposit, minWithdrawal: minWithdrawal}
}

func (h *WalletHandler) Balance(c *gin.Context) {
	userID, ok := services.UserIDFromContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, httpdto.NewErrorResponse("unauthorized", "UNAUTHORIZED"))
		return
	}

	info, err := h.wallet.GetWalletBalance(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(httpdto.BalanceResponse{
		Balance:       info.Balance,
		TotalEarnings: info.TotalEarnings,
	}))
}

func (h *WalletHandler) History(c *gin.Context) {
	userID, ok := services.UserIDFromContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, httpdto.NewErrorResponse("unauthorized", "UNAUTHORIZED"))
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	txns, err := h.wallet.GetWalletHistory(c.Request.Context(), userID, limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(httpdto.FromTransactionSlice(txns)))
}

func (h *WalletHandler) Deposit(c *gin.Context) {
	userID, ok := services.UserIDFromContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, httpdto.NewErrorResponse("unauthorized", "UNAUTHORIZED"))
		return
	}

	var req httpdto.DepositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid request", "INVALID_REQUEST"))
		return
	}
	if req.Amount.LessThanOrEqual(decimal.Zero) {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid amount", "INVALID_INPUT"))
		return
	}
	if req.Amount.GreaterThan(h.maxDeposit) {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("maximum deposit amount is "+h.maxDeposit.StringFixed(2), "INVALID_INPUT"))
		return
	}

	referenceID := "deposit-" + strconv.FormatInt(time.Now().UnixMilli(), 10)
	newBalance, err := h.wallet.AddFunds(c.Request.Context(), userID, req.Amount, referenceID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(httpdto.MutationResponse{NewBalance: newBalance}))
}

func (h *WalletHandler) Withdraw(c *gin.Context) {
	userID, ok := services.UserIDFromContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, httpdto.NewErrorResponse("unauthorized", "UNAUTHORIZED"))
		return
	}

	var req httpdto.WithdrawRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid request", "INVALID_REQUEST"))
		return
	}
	if req.Amount.LessThan(h.minWithdrawal) {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("minimum withdrawal amount is "+h.minWithdrawal.StringFixed(2), "INVALID_INPUT"))
		return
	}

	newBalance, err := h.wallet.WithdrawFunds(c.Request.Context(), userID, req.Amount, req.WithdrawalMethod)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(httpdto.MutationResponse{NewBalance: newBalance}))
}

func (h *WalletHandler) PollFee(c *gin.Context) {
	maxVotes, err := strconv.Atoi(c.Param("maxVotes"))
	if err != nil || maxVotes < 1 {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid max votes", "INVALID_REQUEST"))
		return
	}

	fee := services.CalculatePollFee(maxVotes)
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(httpdto.FeeQuoteResponse{
		MaxVotes:   maxVotes,
		PollFee:    fee,
		RewardPool: services.CalculateRewardPool(fee),
		IsFree:     fee.IsZero(),
	}))
}

func (h *WalletHandler) CanAfford(c *gin.Context) {
	userID, ok := services.UserIDFromContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, httpdto.NewErrorResponse("unauthorized", "UNAUTHORIZED"))
		return
	}

	maxVotes, err := strconv.Atoi(c.Param("maxVotes"))
	if err != nil || maxVotes < 1 {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid max votes", "INVALID_REQUEST"))
		return
	}

	canAfford := h.wallet.CanAffordPoll(c.Request.Context(), userID, maxVotes)
	requiredFee := services.CalculatePollFee(maxVotes)

	balance := decimal.Zero
	if info, err := h.wallet.GetWalletBalance(c.Request.Context(), userID); err == nil {
		balance = info.Balance
	}
	shortfall := decimal.Zero
	if !canAfford {
		shortfall = requiredFee.Sub(balance)
	}

	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(httpdto.CanAffordResponse{
		CanAfford:      canAfford,
		RequiredFee:    requiredFee,
		CurrentBalance: balance,
		Shortfall:      shortfall,
	}))
}
