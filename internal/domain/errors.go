package domain

import "errors"

var (
	ErrAuthExpired         = errors.New("auth data expired")
	ErrInvalidSignature    = errors.New("invalid signature")
	ErrNotFound            = errors.New("not found")
	ErrAlreadyCompleted    = errors.New("task already completed")
	ErrAlreadyPaid         = errors.New("payment already paid")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrMalformedInput      = errors.New("malformed input")
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
)
