// Package confidence computes extraction confidence diagnostics beyond the
// single sequence-probability gate: a P10-of-body-marginals base score and
// a penalty for high-confidence BODY lines the assembler left out.
package confidence

import (
	"sort"

	"github.com/hurttlocker/yomail/internal/assemble"
	"github.com/hurttlocker/yomail/internal/crf"
	"github.com/hurttlocker/yomail/internal/reconstruct"
)

const (
	DefaultAmbiguityThreshold = 0.7
	DefaultAmbiguityPenalty   = 0.2
	maxAmbiguityPenalty       = 0.5
)

// Diagnostics is supplemental confidence detail. It never overrides the
// sequence_probability pass/fail gate; it is surfaced alongside it.
type Diagnostics struct {
	BaseConfidence     float64 // P10 of marginal probabilities among selected body lines
	AmbiguityPenalty   float64
	ExcludedBodyCount  int // high-confidence BODY lines left outside the selected body
	AdjustedConfidence float64
}

// Compute derives diagnostics from the CRF labeling, the reconstructed
// document (used to map original line indices to labeling positions), and
// the assembled body.
func Compute(labeling crf.SequenceLabelingResult, doc reconstruct.Document, assembled assemble.AssembledBody) Diagnostics {
	return ComputeWithThresholds(labeling, doc, assembled, DefaultAmbiguityThreshold, DefaultAmbiguityPenalty)
}

// ComputeWithThresholds is Compute with explicit ambiguity parameters.
func ComputeWithThresholds(labeling crf.SequenceLabelingResult, doc reconstruct.Document, assembled assemble.AssembledBody, ambiguityThreshold, ambiguityPenaltyStep float64) Diagnostics {
	bodyOriginal := make(map[int]bool, len(assembled.BodyLines))
	for _, idx := range assembled.BodyLines {
		bodyOriginal[idx] = true
	}

	bodyPositions := make(map[int]bool)
	contentIdx := 0
	for _, line := range doc.Lines {
		if line.IsBlank {
			continue
		}
		if bodyOriginal[line.OriginalIndex] {
			bodyPositions[contentIdx] = true
		}
		contentIdx++
	}

	base := baseConfidence(labeling.LabeledLines, bodyPositions)
	excluded, penalty := ambiguityPenalty(labeling.LabeledLines, bodyPositions, ambiguityThreshold, ambiguityPenaltyStep)

	adjusted := base - penalty
	if adjusted < 0 {
		adjusted = 0
	}

	return Diagnostics{
		BaseConfidence:     base,
		AmbiguityPenalty:   penalty,
		ExcludedBodyCount:  excluded,
		AdjustedConfidence: adjusted,
	}
}

// baseConfidence is the 10th percentile of marginal confidences among the
// selected body lines: robust to a single weak line dragging down the score.
func baseConfidence(lines []crf.LabeledLine, bodyPositions map[int]bool) float64 {
	if len(bodyPositions) == 0 {
		return 0
	}
	confidences := make([]float64, 0, len(bodyPositions))
	for idx := range bodyPositions {
		confidences = append(confidences, lines[idx].Confidence)
	}
	sort.Float64s(confidences)

	p10Index := len(confidences) / 10
	return confidences[p10Index]
}

func ambiguityPenalty(lines []crf.LabeledLine, bodyPositions map[int]bool, ambiguityThreshold, penaltyStep float64) (int, float64) {
	excluded := 0
	for idx, line := range lines {
		if bodyPositions[idx] {
			continue
		}
		if line.LabelProbabilities[crf.Body] >= ambiguityThreshold {
			excluded++
		}
	}
	penalty := float64(excluded) * penaltyStep
	if penalty > maxAmbiguityPenalty {
		penalty = maxAmbiguityPenalty
	}
	return excluded, penalty
}
