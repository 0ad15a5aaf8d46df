package export

import (
	"errors"
)

// Sentinel kinds for export errors.
var (
	ErrWriteFailed       = errors.New("export write failed")
	ErrUnsupportedFormat = errors.New("unsupported export format")
)
