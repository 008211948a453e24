package checkout

import "errors"

var (
	ErrInvalidQuantity = errors.New("invalid quantity")
)
