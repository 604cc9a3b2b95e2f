package services

import "github.com/shopspring/decimal"

// BusinessError is a business-rule failure: the request was understood but
// refused, nothing was mutated, and the caller gets a 400-class response.
// Infrastructure failures stay plain errors and map to 500.
type BusinessError struct {
	Message string
	// Balance carries the current balance for insufficient-funds refusals.
	Balance *decimal.Decimal
}

func (e *BusinessError) Error() string {
	return e.Message
}
