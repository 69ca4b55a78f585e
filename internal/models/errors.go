package models

import "errors"

// Input errors surfaced to the user at the point of the attempted operation.
var (
	ErrInvalidEmail       = errors.New("invalid email address")
	ErrWeakPassword       = errors.New("password too short")
	ErrDuplicateAccount   = errors.New("account already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrNoSession          = errors.New("no active session")
	ErrInvalidTransaction = errors.New("invalid transaction")
	ErrAccountNotFound    = errors.New("account not found")
)

// ErrLedgerConflict is returned when a ledger was saved by another writer
// after it was loaded.
var ErrLedgerConflict = errors.New("ledger modified by another session")
