package features

import (
	"testing"

	"github.com/hurttlocker/yomail/internal/content"
	"github.com/hurttlocker/yomail/internal/structural"
)

func analyze(lines ...string) ([]content.Line, structural.Analysis) {
	cls := make([]content.Line, len(lines))
	for i, l := range lines {
		cls[i] = content.Line{Text: l, OriginalIndex: i}
	}
	return cls, structural.Analyze(content.Filtered{Lines: cls})
}

func TestExtractPositionalFeatures(t *testing.T) {
	cls, analysis := analyze("いつもお世話になっております。", "本文です。", "よろしくお願いいたします。")
	got := Extract(cls, analysis)

	if got.TotalLines != 3 {
		t.Fatalf("TotalLines = %d, want 3", got.TotalLines)
	}
	if got.Lines[0].PositionNormalized != 0.0 {
		t.Fatalf("first line PositionNormalized = %v, want 0", got.Lines[0].PositionNormalized)
	}
	if got.Lines[2].PositionNormalized != 1.0 {
		t.Fatalf("last line PositionNormalized = %v, want 1", got.Lines[2].PositionNormalized)
	}
	if !got.Lines[0].IsGreeting {
		t.Fatal("expected first line to be flagged as a greeting")
	}
	if !got.Lines[2].IsClosing {
		t.Fatal("expected last line to be flagged as a closing")
	}
}

func TestExtractSingleLineAvoidsDivideByZero(t *testing.T) {
	cls, analysis := analyze("本文のみの一行です。")
	got := Extract(cls, analysis)
	if got.Lines[0].PositionNormalized != 0.0 {
		t.Fatalf("PositionNormalized = %v, want 0", got.Lines[0].PositionNormalized)
	}
}

func TestExtractEmptyInput(t *testing.T) {
	got := Extract(nil, structural.Analysis{})
	if got.TotalLines != 0 || len(got.Lines) != 0 {
		t.Fatalf("expected empty result, got %+v", got)
	}
}

func TestExtractBracketBlockDetection(t *testing.T) {
	cls, analysis := analyze(
		"本文です。",
		"---",
		"田中太郎",
		"株式会社サンプル",
		"---",
		"続きの本文です。",
	)
	got := Extract(cls, analysis)

	for i := 1; i <= 4; i++ {
		if !got.Lines[i].InBracketedSection {
			t.Fatalf("line %d expected InBracketedSection true", i)
		}
	}
	if !got.Lines[2].BracketHasSignaturePatterns {
		t.Fatal("expected bracket block to carry signature patterns")
	}
	if got.Lines[0].InBracketedSection || got.Lines[5].InBracketedSection {
		t.Fatal("lines outside the bracket must not be marked in-bracket")
	}
}

func TestExtractBracketSpanExceeded(t *testing.T) {
	lines := []string{"---"}
	for i := 0; i < 20; i++ {
		lines = append(lines, "本文の行です。")
	}
	lines = append(lines, "---")

	cls, analysis := analyze(lines...)
	got := Extract(cls, analysis)

	for _, l := range got.Lines {
		if l.InBracketedSection {
			t.Fatal("separators more than 15 lines apart must not be paired")
		}
	}
}

func TestContextWindowIncludesCurrentLine(t *testing.T) {
	cls, analysis := analyze("いつもお世話になっております。")
	got := Extract(cls, analysis)
	if got.Lines[0].ContextGreetingCount != 1 {
		t.Fatalf("ContextGreetingCount = %d, want 1 (current line included)", got.Lines[0].ContextGreetingCount)
	}
}
