package config

import "errors"

// ErrInvalidConfig is returned by Validate.
var ErrInvalidConfig = errors.New("invalid config")
