package models

import "errors"

// Validation failures. A rejected operation leaves the stored state untouched.
var (
	ErrInvalidName       = errors.New("item name is required")
	ErrInvalidCategory   = errors.New("unknown item category")
	ErrInvalidPrice      = errors.New("price must be greater than zero")
	ErrInvalidStock      = errors.New("stock must be a non-negative integer")
	ErrInvalidQuantity   = errors.New("quantity must be a positive integer")
	ErrInsufficientStock = errors.New("quantity exceeds available stock")
	ErrItemNotFound      = errors.New("item not found")
	ErrInvalidWindow     = errors.New("unsupported date range")
	ErrInvalidSort       = errors.New("unsupported sort option")
)
