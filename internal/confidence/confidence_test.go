package confidence

import (
	"testing"

	"github.com/hurttlocker/yomail/internal/assemble"
	"github.com/hurttlocker/yomail/internal/crf"
	"github.com/hurttlocker/yomail/internal/reconstruct"
)

func TestComputeBaseConfidenceIsP10OfBodyLines(t *testing.T) {
	labeling := crf.SequenceLabelingResult{
		LabeledLines: []crf.LabeledLine{
			{Text: "a", Label: crf.Body, Confidence: 0.9},
			{Text: "b", Label: crf.Body, Confidence: 0.4},
			{Text: "c", Label: crf.Body, Confidence: 0.6},
		},
	}
	doc := reconstruct.Document{
		Lines: []reconstruct.Line{
			{Text: "a", OriginalIndex: 0, Label: crf.Body, HasLabel: true},
			{Text: "b", OriginalIndex: 1, Label: crf.Body, HasLabel: true},
			{Text: "c", OriginalIndex: 2, Label: crf.Body, HasLabel: true},
		},
	}
	assembled := assemble.AssembledBody{BodyLines: []int{0, 1, 2}}

	diag := Compute(labeling, doc, assembled)

	if diag.BaseConfidence != 0.4 {
		t.Fatalf("BaseConfidence = %v, want 0.4 (min fallback for n<10)", diag.BaseConfidence)
	}
}

func TestComputeAmbiguityPenaltyForExcludedHighConfidenceBody(t *testing.T) {
	labeling := crf.SequenceLabelingResult{
		LabeledLines: []crf.LabeledLine{
			{Text: "a", Label: crf.Body, Confidence: 0.9, LabelProbabilities: map[crf.Label]float64{crf.Body: 0.95}},
			{Text: "b", Label: crf.Other, Confidence: 0.9, LabelProbabilities: map[crf.Label]float64{crf.Body: 0.8, crf.Other: 0.2}},
		},
	}
	doc := reconstruct.Document{
		Lines: []reconstruct.Line{
			{Text: "a", OriginalIndex: 0, Label: crf.Body, HasLabel: true},
			{Text: "b", OriginalIndex: 1, Label: crf.Other, HasLabel: true},
		},
	}
	assembled := assemble.AssembledBody{BodyLines: []int{0}}

	diag := Compute(labeling, doc, assembled)

	if diag.ExcludedBodyCount != 1 {
		t.Fatalf("ExcludedBodyCount = %d, want 1", diag.ExcludedBodyCount)
	}
	if diag.AmbiguityPenalty != DefaultAmbiguityPenalty {
		t.Fatalf("AmbiguityPenalty = %v, want %v", diag.AmbiguityPenalty, DefaultAmbiguityPenalty)
	}
}

func TestComputeEmptyBodyYieldsZeroConfidence(t *testing.T) {
	diag := Compute(crf.SequenceLabelingResult{}, reconstruct.Document{}, assemble.AssembledBody{})
	if diag.BaseConfidence != 0 || diag.AdjustedConfidence != 0 {
		t.Fatalf("expected zero confidence for empty body, got %+v", diag)
	}
}
