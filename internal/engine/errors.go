package engine

import (
	"errors"

	"github.com/dshills/lintite/internal/engine/buffer"
)

// Errors returned by engine operations.
var (
	// ErrInvalidRange indicates a caret or selection outside the text.
	ErrInvalidRange = buffer.ErrInvalidRange

	// ErrNoLoader indicates a file reload on an engine built without a loader.
	ErrNoLoader = errors.New("no rule loader configured")
)
