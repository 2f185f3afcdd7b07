package receiver

import "errors"

var (
	ErrReceiverNotFound = errors.New("receiver not found")
	ErrReceiverExists   = errors.New("receiver already exists for this method")
	ErrInvalidReceiver  = errors.New("invalid receiver")
)
