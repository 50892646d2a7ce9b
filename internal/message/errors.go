package message

import "errors"

var (
	ErrInvalidMessage = errors.New("invalid message")
	ErrSendFailed     = errors.New("failed to send message")
	ErrInvalidConfig  = errors.New("invalid sender config")
)
