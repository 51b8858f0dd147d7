package transactions

import "errors"

var (
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrForbidden           = errors.New("action not allowed for role")
)
