package crf

import (
	"math"

	"github.com/hurttlocker/yomail/internal/features"
)

// Labeler wraps a Model with the feature-flattening and post-processing
// steps needed to turn a content-line feature sequence into a final,
// repaired label sequence.
type Labeler struct {
	model *Model
}

// NewLabeler wraps model for inference. model may be nil; IsLoaded
// reports false until SetModel is called with a non-nil model.
func NewLabeler(model *Model) *Labeler {
	return &Labeler{model: model}
}

// SetModel installs model, replacing whatever was previously loaded.
func (l *Labeler) SetModel(model *Model) { l.model = model }

// IsLoaded reports whether a model is installed.
func (l *Labeler) IsLoaded() bool { return l.model != nil }

// Predict labels every content line in extracted, applying Viterbi
// decoding, marginal computation, and the two post-processing passes.
// The reported sequence_probability is the pre-repair Viterbi path
// probability, per the post-processing contract: repair must never
// change the reported confidence of the path it corrects.
func (l *Labeler) Predict(texts []string, extracted features.Extracted) SequenceLabelingResult {
	if l.model == nil || extracted.TotalLines == 0 {
		return SequenceLabelingResult{SequenceProbability: 0}
	}

	sequence := make([][]featureWeight, extracted.TotalLines)
	for i, line := range extracted.Lines {
		dict := BuildFeatureDict(line, i, extracted.TotalLines)
		sequence[i] = flatten(dict)
	}

	path, bestScore := l.model.Decode(sequence)
	marginals, logZ := l.model.ForwardBackward(sequence)
	sequenceProbability := math.Exp(bestScore - logZ)

	repaired := repairForbiddenTransitions(path, extracted.Lines)
	repaired = unifyBracketBlocks(repaired, extracted.Lines)

	labeledLines := make([]LabeledLine, extracted.TotalLines)
	for i, label := range repaired {
		labeledLines[i] = LabeledLine{
			Text:               texts[i],
			Label:              label,
			Confidence:         marginals[i][label],
			LabelProbabilities: marginals[i],
		}
	}

	return SequenceLabelingResult{
		LabeledLines:        labeledLines,
		SequenceProbability: sequenceProbability,
	}
}

// repairForbiddenTransitions enforces: once any line is SIGNATURE, no
// later line may be CLOSING (relabeled SIGNATURE); a delimiter line can
// never be CLOSING (relabeled OTHER).
func repairForbiddenTransitions(path []Label, lines []features.Line) []Label {
	repaired := append([]Label(nil), path...)
	seenSignature := false
	for i, label := range repaired {
		if label == Signature {
			seenSignature = true
		}
		if label == Closing {
			if lines[i].IsDelimiter {
				repaired[i] = Other
				continue
			}
			if seenSignature {
				repaired[i] = Signature
			}
		}
	}
	return repaired
}

// unifyBracketBlocks relabels each bracketed block with two or more
// interior lines (separators excluded), boundaries included, as BODY or
// SIGNATURE when one of those labels holds a strict majority
// (>50%) among the block's interior lines, per the bracket-block
// definition features.Extract already computed.
func unifyBracketBlocks(path []Label, lines []features.Line) []Label {
	repaired := append([]Label(nil), path...)

	blocks := bracketBlockRanges(lines)
	for _, b := range blocks {
		start, end := b[0], b[1]
		interior := end - start - 1
		if interior < 2 {
			continue
		}

		bodyCount, sigCount := 0, 0
		for i := start + 1; i < end; i++ {
			switch repaired[i] {
			case Body:
				bodyCount++
			case Signature:
				sigCount++
			}
		}

		var target Label
		switch {
		case float64(bodyCount)/float64(interior) > 0.5:
			target = Body
		case float64(sigCount)/float64(interior) > 0.5:
			target = Signature
		default:
			continue
		}

		for i := start; i <= end; i++ {
			repaired[i] = target
		}
	}

	return repaired
}

// bracketBlockRanges reconstructs the [start,end] index pairs of every
// bracketed block from the InBracketedSection flag features.Extract set,
// by finding the maximal contiguous runs it marked.
func bracketBlockRanges(lines []features.Line) [][2]int {
	var ranges [][2]int
	i := 0
	for i < len(lines) {
		if !lines[i].InBracketedSection {
			i++
			continue
		}
		start := i
		for i < len(lines) && lines[i].InBracketedSection {
			i++
		}
		ranges = append(ranges, [2]int{start, i - 1})
	}
	return ranges
}
