package model

import "errors"

// Ledger error kinds. Callers match them with errors.Is; stores and the
// engine wrap them with context.
var (
	ErrInvalidAmount          = errors.New("invalid amount")
	ErrAccountNotFound        = errors.New("account not found")
	ErrInsufficientFunds      = errors.New("insufficient funds")
	ErrSameAccount            = errors.New("source and destination are the same account")
	ErrDuplicateAccountNumber = errors.New("account number already exists")
	ErrInvalidAccountType     = errors.New("invalid account type")
	ErrDuplicateReference     = errors.New("reference has already been used")
	ErrAccountNotLeased       = errors.New("account is not held by this lease")
	ErrInvalidPostingGroup    = errors.New("invalid posting group")
	ErrLoanNotFound           = errors.New("loan not found")
	ErrLoanAlreadyDecided     = errors.New("loan has already been decided")
	ErrInvalidDuration        = errors.New("invalid investment duration")
	ErrTransactionNotFound    = errors.New("transaction not found")
)
