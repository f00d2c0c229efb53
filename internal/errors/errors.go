// Package yomailerr defines the three error kinds the extraction
// pipeline can fail with. They live in an internal package, separate
// from both the pipeline stages and the public yomail package, so every
// stage that can fail can return one without creating an import cycle
// back to the root package that re-exports them.
package yomailerr

import "fmt"

// InvalidInputError means the input was empty, or became empty after
// normalization, or contained no processable text.
type InvalidInputError struct {
	Message string
}

func (e *InvalidInputError) Error() string { return e.Message }

// NoBodyDetectedError means the pipeline ran to completion but no block
// of lines could be assembled into a body.
type NoBodyDetectedError struct {
	Message string
}

func (e *NoBodyDetectedError) Error() string { return e.Message }

// LowConfidenceError means a body was assembled but the sequence
// probability the CRF assigned it fell below the caller's threshold.
type LowConfidenceError struct {
	Message    string
	Confidence float64
	Threshold  float64
}

func (e *LowConfidenceError) Error() string {
	return fmt.Sprintf("%s (confidence: %.2f, threshold: %.2f)", e.Message, e.Confidence, e.Threshold)
}
