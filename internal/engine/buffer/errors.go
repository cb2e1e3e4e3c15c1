package buffer

import (
	"errors"
	"fmt"
)

// ErrInvalidRange indicates an offset or range outside the buffer bounds.
var ErrInvalidRange = errors.New("invalid range")

// rangeError wraps ErrInvalidRange with the offending values.
func rangeError(r Range, length Offset) error {
	return fmt.Errorf("%w: %s outside [0:%d]", ErrInvalidRange, r, length)
}
