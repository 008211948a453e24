package order

import "errors"

var (
	ErrOrderNotFound   = errors.New("order not found")
	ErrEmptyCart       = errors.New("cart is empty")
	ErrMissingDelivery = errors.New("delivery type not chosen")
)
