package engine

import "errors"

var (
	ErrOutOfBounds     = errors.New("square out of bounds")
	ErrEmptySquare     = errors.New("no piece at start square")
	ErrBadSquare       = errors.New("malformed square")
	ErrInvalidPosition = errors.New("invalid position")
)
