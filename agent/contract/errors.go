package contract

import "errors"

var (
	ErrValidation  = errors.New("validation failed")
	ErrUnknownTool = errors.New("unknown tool")
)
