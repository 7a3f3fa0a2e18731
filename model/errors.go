package model

import "errors"

var (
	ErrNoActiveSession  = errors.New("no active brief session")
	ErrInvalidOption    = errors.New("invalid brief option")
	ErrEmptySelection   = errors.New("no option selected")
	ErrVersionConflict  = errors.New("brief session was modified concurrently")
	ErrUnexpectedAction = errors.New("unexpected brief action")
)
