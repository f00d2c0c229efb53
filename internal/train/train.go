// Package train fits a CRF model from labeled training documents: the
// same normalize/content/structural/features pipeline the extractor runs
// at inference time, paired here with gold labels instead of a loaded
// model's predictions.
package train

import (
	"fmt"

	"github.com/hurttlocker/yomail/internal/content"
	"github.com/hurttlocker/yomail/internal/crf"
	"github.com/hurttlocker/yomail/internal/features"
	"github.com/hurttlocker/yomail/internal/normalize"
	"github.com/hurttlocker/yomail/internal/structural"
)

// LineLabel pairs a content line's text with its gold label, matching one
// entry of a training record's "lines" array. Blank lines never appear
// here: they're excluded from the label sequence before reaching this
// package, same as at inference time.
type LineLabel struct {
	Text  string
	Label crf.Label
}

// Config mirrors a CRF training toolkit's algorithm and regularization
// knobs. Only Algorithm "ap" trains a model; the others are accepted so
// callers can round-trip a training config that named one, but Train
// reports ErrAlgorithmNotImplemented for them.
type Config struct {
	Algorithm              string
	C1                     float64
	C2                     float64
	MaxIterations          int
	AllPossibleTransitions bool
}

// DefaultMaxIterations is used when a Config doesn't set one.
const DefaultMaxIterations = 50

// DefaultConfig returns the averaged-perceptron trainer's defaults.
func DefaultConfig() Config {
	return Config{
		Algorithm:              "ap",
		MaxIterations:          DefaultMaxIterations,
		AllPossibleTransitions: true,
	}
}

// ErrAlgorithmNotImplemented reports a training algorithm named in a
// Config that has no implementation in this package.
type ErrAlgorithmNotImplemented struct {
	Algorithm string
}

func (e *ErrAlgorithmNotImplemented) Error() string {
	return fmt.Sprintf("training algorithm %q is not implemented; only %q (averaged structured perceptron) is available", e.Algorithm, "ap")
}

// CRFTrainer accumulates labeled training documents and fits a Model from
// them. It is not safe for concurrent use.
type CRFTrainer struct {
	cfg       Config
	sequences [][]crf.FeatureDict
	golds     [][]crf.Label
}

// NewCRFTrainer constructs a trainer. A zero Config is filled in with
// DefaultConfig's values.
func NewCRFTrainer(cfg Config) *CRFTrainer {
	if cfg == (Config{}) {
		cfg = DefaultConfig()
	}
	if cfg.Algorithm == "" {
		cfg.Algorithm = "ap"
	}
	if cfg.MaxIterations <= 0 {
		cfg.MaxIterations = DefaultMaxIterations
	}
	return &CRFTrainer{cfg: cfg}
}

// AddDocument runs the feature pipeline over emailText and pairs the
// resulting content-line sequence positionally with lineLabels, which
// must list exactly the email's non-blank lines in order. A length
// mismatch is almost always a sign the record's "lines" array wasn't
// segmented the same way normalize+content would segment email_text.
func (t *CRFTrainer) AddDocument(emailText string, lineLabels []LineLabel) error {
	normalized, err := normalize.Normalize(emailText)
	if err != nil {
		return fmt.Errorf("normalizing training document: %w", err)
	}

	filtered := content.Filter(normalized)
	if len(filtered.Lines) != len(lineLabels) {
		return fmt.Errorf("document has %d content lines but %d labels were given", len(filtered.Lines), len(lineLabels))
	}

	analysis := structural.Analyze(filtered)
	extracted := features.Extract(filtered.Lines, analysis)

	dicts := make([]crf.FeatureDict, extracted.TotalLines)
	golds := make([]crf.Label, extracted.TotalLines)
	for i, line := range extracted.Lines {
		dicts[i] = crf.BuildFeatureDict(line, i, extracted.TotalLines)
		golds[i] = lineLabels[i].Label
	}

	t.sequences = append(t.sequences, dicts)
	t.golds = append(t.golds, golds)
	return nil
}

// NumSequences reports how many documents have been added so far.
func (t *CRFTrainer) NumSequences() int { return len(t.sequences) }

// Train fits a Model over every document added via AddDocument.
func (t *CRFTrainer) Train() (*crf.Model, error) {
	if t.cfg.Algorithm != "ap" {
		return nil, &ErrAlgorithmNotImplemented{Algorithm: t.cfg.Algorithm}
	}
	if len(t.sequences) == 0 {
		return nil, fmt.Errorf("no training documents added")
	}
	return crf.TrainAveragedPerceptron(t.sequences, t.golds, t.cfg.MaxIterations), nil
}
