package crf

import (
	"math"
	"testing"

	"github.com/hurttlocker/yomail/internal/content"
	"github.com/hurttlocker/yomail/internal/features"
	"github.com/hurttlocker/yomail/internal/structural"
)

func extractLines(texts ...string) ([]string, features.Extracted) {
	cls := make([]content.Line, len(texts))
	for i, t := range texts {
		cls[i] = content.Line{Text: t, OriginalIndex: i}
	}
	analysis := structural.Analyze(content.Filtered{Lines: cls})
	return texts, features.Extract(cls, analysis)
}

// trainedModel builds a small, deliberately biased model: it learns that
// is_greeting implies GREETING, is_closing implies CLOSING, and
// everything else defaults toward BODY, purely from hand-set weights (no
// training loop involved) so the test exercises Decode/ForwardBackward
// directly rather than convergence behavior.
func trainedModel() *Model {
	m := NewModel(Labels)
	m.StateW["is_greeting"] = map[Label]float64{Greeting: 5.0}
	m.StateW["is_closing"] = map[Label]float64{Closing: 5.0}
	m.Bias[Body] = 1.0
	return m
}

func TestDecodeEmptySequence(t *testing.T) {
	m := trainedModel()
	path, score := m.Decode(nil)
	if path != nil || score != 0 {
		t.Fatalf("expected nil path and 0 score, got %v %v", path, score)
	}
}

func TestPredictLabelsGreetingAndClosing(t *testing.T) {
	texts, extracted := extractLines(
		"いつもお世話になっております。",
		"本文です。",
		"よろしくお願いいたします。",
	)

	labeler := NewLabeler(trainedModel())
	result := labeler.Predict(texts, extracted)

	if len(result.LabeledLines) != 3 {
		t.Fatalf("expected 3 labeled lines, got %d", len(result.LabeledLines))
	}
	if result.LabeledLines[0].Label != Greeting {
		t.Fatalf("line 0 label = %v, want GREETING", result.LabeledLines[0].Label)
	}
	if result.LabeledLines[2].Label != Closing {
		t.Fatalf("line 2 label = %v, want CLOSING", result.LabeledLines[2].Label)
	}
	if result.SequenceProbability <= 0 || result.SequenceProbability > 1 {
		t.Fatalf("SequenceProbability = %v, want in (0,1]", result.SequenceProbability)
	}
}

func TestPredictEmptyExtracted(t *testing.T) {
	labeler := NewLabeler(trainedModel())
	result := labeler.Predict(nil, features.Extracted{})
	if result.SequenceProbability != 0 {
		t.Fatalf("expected 0 probability for empty sequence, got %v", result.SequenceProbability)
	}
	if result.LabeledLines != nil {
		t.Fatalf("expected nil labeled lines, got %v", result.LabeledLines)
	}
}

func TestPredictNoModelLoaded(t *testing.T) {
	labeler := NewLabeler(nil)
	if labeler.IsLoaded() {
		t.Fatal("expected IsLoaded false with nil model")
	}
	texts, extracted := extractLines("本文です。")
	result := labeler.Predict(texts, extracted)
	if result.SequenceProbability != 0 {
		t.Fatalf("expected 0 probability with no model, got %v", result.SequenceProbability)
	}
}

func TestRepairForbiddenTransitions(t *testing.T) {
	_, extracted := extractLines("本文です。", "署名です。", "よろしくお願いいたします。")
	lines := extracted.Lines

	path := []Label{Body, Signature, Closing}
	repaired := repairForbiddenTransitions(path, lines)

	if repaired[2] != Signature {
		t.Fatalf("expected CLOSING after SIGNATURE to be relabeled SIGNATURE, got %v", repaired[2])
	}
}

func TestRepairDelimiterNeverClosing(t *testing.T) {
	_, extracted := extractLines("本文です。", "---")
	lines := extracted.Lines

	path := []Label{Body, Closing}
	repaired := repairForbiddenTransitions(path, lines)

	if repaired[1] != Other {
		t.Fatalf("expected delimiter line relabeled OTHER, got %v", repaired[1])
	}
}

func TestUnifyBracketBlocksRelabelsInteriorMajority(t *testing.T) {
	_, extracted := extractLines(
		"本文です。",
		"★---★",
		"【添付ファイルについて】",
		"添付ファイルをご確認ください。",
		"★---★",
		"よろしくお願いいたします。",
	)
	lines := extracted.Lines

	path := []Label{Body, Other, Body, Body, Other, Closing}
	repaired := unifyBracketBlocks(path, lines)

	for i := 1; i <= 4; i++ {
		if repaired[i] != Body {
			t.Fatalf("line %d label = %v, want BODY (bracket block unified toward its majority)", i, repaired[i])
		}
	}
	if repaired[0] != Body || repaired[5] != Closing {
		t.Fatalf("lines outside the bracket block should be untouched, got %v", repaired)
	}
}

func TestUnifyBracketBlocksNeverIntroducesClosing(t *testing.T) {
	_, extracted := extractLines(
		"署名です。",
		"★---★",
		"社内情報です。",
		"社内情報です。",
		"★---★",
		"よろしくお願いいたします。",
	)
	lines := extracted.Lines

	raw := []Label{Signature, Other, Signature, Signature, Other, Closing}
	afterTransitions := repairForbiddenTransitions(raw, lines)
	afterBrackets := unifyBracketBlocks(afterTransitions, lines)

	for _, label := range afterBrackets {
		if label == Closing {
			t.Fatalf("no CLOSING should survive once a SIGNATURE has been seen, got %v", afterBrackets)
		}
	}
}

func TestLogSumExpMatchesNaiveSum(t *testing.T) {
	xs := []float64{0.1, 0.2, -0.5, 2.0}
	got := logSumExp(xs)

	naive := 0.0
	for _, x := range xs {
		naive += math.Exp(x)
	}
	want := math.Log(naive)

	if math.Abs(got-want) > 1e-9 {
		t.Fatalf("logSumExp = %v, want %v", got, want)
	}
}
