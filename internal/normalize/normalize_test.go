package normalize

import (
	"errors"
	"strings"
	"testing"

	yomailerr "github.com/hurttlocker/yomail/internal/errors"
)

func TestNormalizeLineEndings(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"crlf", "line1\r\nline2\r\n", []string{"line1", "line2", ""}},
		{"cr_only", "line1\rline2", []string{"line1", "line2"}},
		{"already_lf", "line1\nline2", []string{"line1", "line2"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Normalize(tt.in)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(got.Lines) != len(tt.want) {
				t.Fatalf("Lines = %v, want %v", got.Lines, tt.want)
			}
			for i := range tt.want {
				if got.Lines[i] != tt.want[i] {
					t.Fatalf("Lines[%d] = %q, want %q", i, got.Lines[i], tt.want[i])
				}
			}
		})
	}
}

func TestNormalizeEmptyInputIsInvalid(t *testing.T) {
	_, err := Normalize("   \n\n  \t")
	if err == nil {
		t.Fatal("expected an error for blank input")
	}
	var invalid *yomailerr.InvalidInputError
	if !errors.As(err, &invalid) {
		t.Fatalf("expected *yomailerr.InvalidInputError, got %T", err)
	}
}

func TestNormalizeWidthFolding(t *testing.T) {
	got, err := Normalize("ＡＢＣ１２３")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Lines[0] != "ABC123" {
		t.Fatalf("expected fullwidth ASCII folded to halfwidth, got %q", got.Lines[0])
	}
}

func TestNormalizeHalfwidthKatakanaFoldsToFullwidth(t *testing.T) {
	got, err := Normalize("ｶﾀｶﾅ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(got.Lines[0], "カ") {
		t.Fatalf("expected halfwidth katakana folded to fullwidth, got %q", got.Lines[0])
	}
}

func TestNormalizePreservesSeparatorRun(t *testing.T) {
	got, err := Normalize("本文です\n---\n以上です")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Lines[1] != "---" {
		t.Fatalf("expected delimiter run preserved verbatim, got %q", got.Lines[1])
	}
}

func TestNormalizeUnifiesMixedDashLine(t *testing.T) {
	got, err := Normalize("--ー--")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	stripped := strings.TrimSpace(got.Lines[0])
	for _, c := range stripped {
		if c != '-' {
			t.Fatalf("expected all-dash unification to ASCII hyphen, got %q", got.Lines[0])
		}
	}
}
