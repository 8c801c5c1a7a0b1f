package handler

import (
	"errors"
	"net/http"

	"pollpay/internal/transport/httpdto"
	pollpay_errors "pollpay/pkg/errors"

	"github.com/gin-gonic/gin"
)

// respondError maps domain sentinels to transport responses with stable
// error kinds. Anything unrecognized surfaces as a 500 without leaking
// storage detail.
func respondError(c *gin.Context, err error) {
	status, code := http.StatusInternalServerError, "INTERNAL_ERROR"
	msg := err.Error()

	switch {
	case errors.Is(err, pollpay_errors.ErrNotFound):
		status, code = http.StatusNotFound, "NOT_FOUND"
	case errors.Is(err, pollpay_errors.ErrInsufficientBalance):
		status, code = http.StatusBadRequest, "INSUFFICIENT_BALANCE"
	case errors.Is(err, pollpay_errors.ErrDuplicateVote):
		status, code = http.StatusConflict, "DUPLICATE_VOTE"
	case errors.Is(err, pollpay_errors.ErrPollClosed):
		status, code = http.StatusBadRequest, "POLL_CLOSED"
	case errors.Is(err, pollpay_errors.ErrPollFull):
		status, code = http.StatusBadRequest, "POLL_FULL"
	case errors.Is(err, pollpay_errors.ErrPollExpired):
		status, code = http.StatusBadRequest, "POLL_EXPIRED"
	case errors.Is(err, pollpay_errors.ErrInvalidOption):
		status, code = http.StatusBadRequest, "INVALID_OPTION"
	case errors.Is(err, pollpay_errors.ErrForbidden):
		status, code = http.StatusForbidden, "FORBIDDEN"
	case errors.Is(err, pollpay_errors.ErrUnauthorized):
		status, code = http.StatusUnauthorized, "UNAUTHORIZED"
	case errors.Is(err, pollpay_errors.ErrInvalidInput):
		status, code = http.StatusBadRequest, "INVALID_INPUT"
	case errors.Is(err, pollpay_errors.ErrAlreadyExists):
		status, code = http.StatusConflict, "ALREADY_EXISTS"
	default:
		msg = "internal server error"
	}

	c.JSON(status, httpdto.NewErrorResponse(msg, code))
}
