package sentinel

import "errors"

// Sentinel errors for runtime facts. Account stores and the ledger runtime return
// these (optionally wrapped) so services can translate them into domain errors.
//
// These describe the state of storage, not validation failures:
// - ErrNotFound: no account exists at the address
// - ErrAccountInUse: allocation target already holds an account
// - ErrInsufficientFunds: payer cannot cover the requested debit
// - ErrUnavailable: backing store temporarily unavailable
//
// For validation errors (bad input, missing fields), use pkg/domain-errors directly.
var (
	ErrNotFound          = errors.New("not found")
	ErrAccountInUse      = errors.New("account already in use")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrUnavailable       = errors.New("unavailable")
)
