package variant

import "errors"

// Errors returned by Card.SelectOption. The selection is left unchanged.
var (
	ErrUnknownOption = errors.New("UNKNOWN_OPTION")
	ErrUnknownValue  = errors.New("UNKNOWN_OPTION_VALUE")
)
