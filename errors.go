package yomail

import (
	yomailerr "github.com/hurttlocker/yomail/internal/errors"
)

// InvalidInputError, NoBodyDetectedError, and LowConfidenceError are the
// three typed failures Extract and ExtractWithMetadata can report. They
// are aliases of the internal error types so callers can use errors.As
// against either this package's names or the underlying internal type.
type (
	InvalidInputError   = yomailerr.InvalidInputError
	NoBodyDetectedError = yomailerr.NoBodyDetectedError
	LowConfidenceError  = yomailerr.LowConfidenceError
)
