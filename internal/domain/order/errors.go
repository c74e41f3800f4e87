package order

import "errors"

// Order domain errors.
var (
	ErrOrderNotFound = errors.New("order not found")
)
