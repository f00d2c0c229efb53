package yomail

import (
	"github.com/hurttlocker/yomail/internal/confidence"
	"github.com/hurttlocker/yomail/internal/reconstruct"
)

// ExtractionResult is the outcome of ExtractWithMetadata: either a
// successful extraction (Success true, BodyText and friends populated)
// or a failed one (Success false, Err holding one of the three typed
// errors). It never carries a non-nil Go error out of band — the error,
// if any, is this field.
type ExtractionResult struct {
	Success              bool
	BodyText             string
	Confidence           float64
	LabeledLines         []reconstruct.Line
	SignatureDetected    bool
	InlineQuotesIncluded int
	Diagnostics          confidence.Diagnostics
	Err                  error
}

func failureResult(err error) ExtractionResult {
	return ExtractionResult{Success: false, Err: err}
}
