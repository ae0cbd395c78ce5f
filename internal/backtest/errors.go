package backtest

import "errors"

var (
	ErrInvalidParameter = errors.New("invalid parameter")
	ErrInvalidBar       = errors.New("invalid bar")
	ErrEmptyInput       = errors.New("empty input")
)
