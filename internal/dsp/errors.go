package dsp

import "errors"

var (
	// ErrInvalidParameter is returned when an object is constructed with
	// arguments outside their documented range.
	ErrInvalidParameter = errors.New("invalid parameter")
)
