package service

import "errors"

var (
	ErrInvalidDataProvided = errors.New("invalid data provided")
	ErrEmptyTaskID         = errors.New("no task id provided")

	ErrTokenNotConfigured = errors.New("token signing is not configured")
	ErrInvalidToken       = errors.New("invalid token")
)
