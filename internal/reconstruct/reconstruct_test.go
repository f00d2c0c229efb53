package reconstruct

import (
	"testing"

	"github.com/hurttlocker/yomail/internal/content"
	"github.com/hurttlocker/yomail/internal/crf"
)

func TestReconstructInterleavesBlankLines(t *testing.T) {
	labeling := crf.SequenceLabelingResult{
		LabeledLines: []crf.LabeledLine{
			{Text: "greeting", Label: crf.Greeting, Confidence: 0.9, LabelProbabilities: map[crf.Label]float64{crf.Greeting: 0.9}},
			{Text: "body", Label: crf.Body, Confidence: 0.8, LabelProbabilities: map[crf.Label]float64{crf.Body: 0.8}},
		},
		SequenceProbability: 0.7,
	}
	wsMap := content.WhitespaceMap{
		BlankPositions:    map[int]bool{0: true, 2: true, 4: true},
		OriginalLineCount: 5,
	}
	originalLines := []string{"", "greeting", "", "body", ""}

	doc := Reconstruct(labeling, wsMap, originalLines)

	if len(doc.Lines) != 5 {
		t.Fatalf("expected 5 lines, got %d", len(doc.Lines))
	}
	if !doc.Lines[0].IsBlank || doc.Lines[0].HasLabel {
		t.Fatalf("expected leading blank with no inherited label, got %+v", doc.Lines[0])
	}
	if doc.Lines[2].Label != crf.Greeting || !doc.Lines[2].HasLabel {
		t.Fatalf("expected blank at index 2 to inherit GREETING, got %+v", doc.Lines[2])
	}
	if doc.Lines[4].Label != crf.Body || !doc.Lines[4].HasLabel {
		t.Fatalf("expected trailing blank to inherit BODY, got %+v", doc.Lines[4])
	}
	if doc.SequenceProbability != 0.7 {
		t.Fatalf("SequenceProbability = %v, want 0.7", doc.SequenceProbability)
	}
}
