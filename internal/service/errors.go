package service

import "errors"

var (
	ErrAlreadyExists          = errors.New("user already exists")
	ErrNotFound               = errors.New("not found")
	ErrInvalidCredentials     = errors.New("invalid credentials")
	ErrTokenExpired           = errors.New("token expired or revoked")
	ErrTokenNotFoundOrRevoked = errors.New("token not found or already revoked")
	ErrInvalidOrExpiredCode   = errors.New("invalid or expired code")
	ErrTooManyRequests        = errors.New("too many requests")
)
