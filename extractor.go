// Package yomail extracts the human-authored message from a Japanese
// business email: greeting, body, and closing, plus inline quoted
// fragments, discarding signatures, leading/trailing quoted history, and
// forward/reply headers. It wires seven pipeline stages — normalization, content
// filtering, structural analysis, feature extraction, CRF sequence
// labeling, reconstruction, and body assembly — behind a small public
// surface: Extract, ExtractSafe, and ExtractWithMetadata.
package yomail

import (
	"fmt"
	"strings"

	"github.com/hurttlocker/yomail/internal/assemble"
	"github.com/hurttlocker/yomail/internal/confidence"
	"github.com/hurttlocker/yomail/internal/content"
	"github.com/hurttlocker/yomail/internal/crf"
	"github.com/hurttlocker/yomail/internal/crfmodel"
	yomailerr "github.com/hurttlocker/yomail/internal/errors"
	"github.com/hurttlocker/yomail/internal/features"
	"github.com/hurttlocker/yomail/internal/normalize"
	"github.com/hurttlocker/yomail/internal/reconstruct"
	"github.com/hurttlocker/yomail/internal/structural"
)

// DefaultConfidenceThreshold is the sequence-probability floor an
// extraction must clear when the caller doesn't specify one.
const DefaultConfidenceThreshold = 0.5

// Extractor holds a loaded CRF model and a confidence threshold. It is
// safe for concurrent use by multiple goroutines: every extraction reads
// the loaded model but never mutates it.
type Extractor struct {
	labeler             *crf.Labeler
	confidenceThreshold float64
	modelMeta           crfmodel.Metadata
}

// NewExtractor constructs an Extractor. If modelPath is empty, the
// bundled default model is loaded. If confidenceThreshold is zero,
// DefaultConfidenceThreshold is used.
func NewExtractor(modelPath string, confidenceThreshold float64) (*Extractor, error) {
	if confidenceThreshold <= 0 {
		confidenceThreshold = DefaultConfidenceThreshold
	}
	e := &Extractor{
		labeler:             crf.NewLabeler(nil),
		confidenceThreshold: confidenceThreshold,
	}

	if strings.TrimSpace(modelPath) == "" {
		model, meta, err := crfmodel.Default()
		if err != nil {
			return nil, fmt.Errorf("loading bundled model: %w", err)
		}
		e.labeler.SetModel(model)
		e.modelMeta = meta
		return e, nil
	}

	if err := e.LoadModel(modelPath); err != nil {
		return nil, err
	}
	return e, nil
}

// LoadModel replaces the extractor's model with the one at path.
func (e *Extractor) LoadModel(path string) error {
	model, meta, err := crfmodel.Load(path)
	if err != nil {
		return fmt.Errorf("loading model %s: %w", path, err)
	}
	e.labeler.SetModel(model)
	e.modelMeta = meta
	return nil
}

// IsModelLoaded reports whether a model is installed.
func (e *Extractor) IsModelLoaded() bool { return e.labeler.IsLoaded() }

// ModelMetadata returns the metadata sidecar of the currently loaded
// model: its label set, feature template version, training algorithm,
// and training timestamp.
func (e *Extractor) ModelMetadata() crfmodel.Metadata { return e.modelMeta }

// ConfidenceThreshold returns the sequence-probability floor this
// extractor enforces.
func (e *Extractor) ConfidenceThreshold() float64 { return e.confidenceThreshold }

// Extract returns the extracted body text, or a typed error
// (*InvalidInputError, *NoBodyDetectedError, or *LowConfidenceError).
func (e *Extractor) Extract(text string) (string, error) {
	result := e.ExtractWithMetadata(text)
	if !result.Success {
		return "", result.Err
	}
	return result.BodyText, nil
}

// ExtractSafe returns the extracted body text, or nil if extraction
// failed for any reason.
func (e *Extractor) ExtractSafe(text string) *string {
	result := e.ExtractWithMetadata(text)
	if !result.Success {
		return nil
	}
	body := result.BodyText
	return &body
}

// ExtractWithMetadata runs the full pipeline and never fails for
// expected conditions: a failed extraction is reported via
// ExtractionResult.Success and ExtractionResult.Err, not a returned
// error.
func (e *Extractor) ExtractWithMetadata(text string) ExtractionResult {
	normalized, err := normalize.Normalize(text)
	if err != nil {
		return failureResult(err)
	}

	filtered := content.Filter(normalized)
	analysis := structural.Analyze(filtered)
	extracted := features.Extract(filtered.Lines, analysis)

	texts := make([]string, len(filtered.Lines))
	for i, l := range filtered.Lines {
		texts[i] = l.Text
	}

	labeling := e.labeler.Predict(texts, extracted)
	doc := reconstruct.Reconstruct(labeling, filtered.WhitespaceMap, filtered.OriginalLines)
	assembled := assemble.Assemble(doc, analysis.Lines)

	if strings.TrimSpace(assembled.BodyText) == "" {
		return failureResult(&yomailerr.NoBodyDetectedError{
			Message: "no body could be assembled from the labeled lines",
		})
	}

	if labeling.SequenceProbability < e.confidenceThreshold {
		return failureResult(&yomailerr.LowConfidenceError{
			Message:    "extraction confidence below threshold",
			Confidence: labeling.SequenceProbability,
			Threshold:  e.confidenceThreshold,
		})
	}

	return ExtractionResult{
		Success:              true,
		BodyText:             assembled.BodyText,
		Confidence:           labeling.SequenceProbability,
		LabeledLines:         doc.Lines,
		SignatureDetected:    assembled.SignatureIndex != -1,
		InlineQuotesIncluded: assembled.InlineQuoteCount,
		Diagnostics:          confidence.Compute(labeling, doc, assembled),
	}
}
