// Package reconstruct reinserts the blank lines filtered out before CRF
// labeling, restoring the original document order.
package reconstruct

import (
	"github.com/hurttlocker/yomail/internal/content"
	"github.com/hurttlocker/yomail/internal/crf"
)

// Line is one line of the reconstructed document: either a labeled
// content line, or a blank line that inherits the label, confidence, and
// probabilities of the most recent preceding labeled line.
type Line struct {
	Text               string
	OriginalIndex      int
	IsBlank            bool
	Label              crf.Label
	HasLabel           bool // false only for a blank line with no preceding content line
	Confidence         float64
	LabelProbabilities map[crf.Label]float64
}

// Document is the full, labeled document in original line order.
type Document struct {
	Lines               []Line
	SequenceProbability float64
}

// Reconstruct interleaves labeling (content lines only) with the blank
// positions recorded in whitespaceMap, in original document order.
func Reconstruct(labeling crf.SequenceLabelingResult, whitespaceMap content.WhitespaceMap, originalLines []string) Document {
	lines := make([]Line, 0, whitespaceMap.OriginalLineCount)

	contentIdx := 0
	var lastLabel crf.Label
	var lastConfidence float64
	var lastProbs map[crf.Label]float64
	haveLast := false

	for origIdx := 0; origIdx < whitespaceMap.OriginalLineCount; origIdx++ {
		if whitespaceMap.BlankPositions[origIdx] {
			lines = append(lines, Line{
				Text:               originalLines[origIdx],
				OriginalIndex:      origIdx,
				IsBlank:            true,
				Label:              lastLabel,
				HasLabel:           haveLast,
				Confidence:         lastConfidence,
				LabelProbabilities: lastProbs,
			})
			continue
		}

		labeled := labeling.LabeledLines[contentIdx]
		lines = append(lines, Line{
			Text:               labeled.Text,
			OriginalIndex:      origIdx,
			IsBlank:            false,
			Label:              labeled.Label,
			HasLabel:           true,
			Confidence:         labeled.Confidence,
			LabelProbabilities: labeled.LabelProbabilities,
		})
		lastLabel = labeled.Label
		lastConfidence = labeled.Confidence
		lastProbs = labeled.LabelProbabilities
		haveLast = true
		contentIdx++
	}

	return Document{Lines: lines, SequenceProbability: labeling.SequenceProbability}
}
