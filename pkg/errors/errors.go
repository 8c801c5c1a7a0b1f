package pollpay_errors

import "errors"

// Common errors
var (
	ErrUnauthorized        = errors.New("unauthorized")
	ErrForbidden           = errors.New("forbidden")
	ErrNotFound            = errors.New("not found")
	ErrInvalidInput        = errors.New("invalid input")
	ErrAlreadyExists       = errors.New("already exists")
	ErrRateLimited         = errors.New("rate limited")
	ErrInsufficientBalance = errors.New("insufficient wallet balance")
	ErrDuplicateVote       = errors.New("user already voted on this poll")
	ErrPollClosed          = errors.New("poll is closed")
	ErrPollFull            = errors.New("poll has reached maximum votes")
	ErrPollExpired         = errors.New("poll has expired")
	ErrInvalidOption       = errors.New("invalid selected option")
)
