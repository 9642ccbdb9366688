package services

import "errors"

var (
	ErrToolNotFound = errors.New("tool not found")
	ErrUserNotFound = errors.New("user not found")
)
