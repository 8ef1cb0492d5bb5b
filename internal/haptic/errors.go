// Package haptic composes vibration requests into driver commands.
package haptic

import "errors"

// ErrInvalidArgument reports a value or size outside the driver limits.
var ErrInvalidArgument = errors.New("invalid argument")

// ErrUnsupportedOperation reports an effect or primitive outside the supported set.
var ErrUnsupportedOperation = errors.New("unsupported operation")
