package repository

import "errors"

// Sentinel kinds for pick store errors.
var (
	ErrPickNotFound    = errors.New("pick not found")
	ErrDuplicatePick   = errors.New("duplicate pick id")
	ErrInvalidPick     = errors.New("invalid pick record")
	ErrInvalidOutcome  = errors.New("invalid outcome")
	ErrOutcomeResolved = errors.New("outcome already resolved")
)
