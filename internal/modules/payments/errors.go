package payments

import "errors"

var (
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrDuplicateOrderID    = errors.New("duplicate order id")
)
