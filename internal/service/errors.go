package service

import "errors"

var (
	// ErrHistoryDisabled is returned by history queries when no history store is configured
	ErrHistoryDisabled = errors.New("prediction history is disabled")

	// ErrInvalidRequest marks request validation failures
	ErrInvalidRequest = errors.New("invalid request")
)
