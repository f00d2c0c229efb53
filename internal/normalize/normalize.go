// Package normalize turns raw email text into a normalized, line-oriented
// form: line-ending unification, neologdn-equivalent Japanese width/kana
// folding, NFKC, zero-width stripping, and preservation of delimiter runs
// that the folding step would otherwise distort.
package normalize

import (
	"strings"

	yomailerr "github.com/hurttlocker/yomail/internal/errors"
	"github.com/hurttlocker/yomail/internal/patterns"
	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"
)

// Email is the result of normalizing raw text: the ordered lines with no
// trailing line-ending characters, and their "\n"-joined concatenation.
type Email struct {
	Lines []string
	Text  string
}

// choonpuChars are prolonged-sound-mark / dash variants that neologdn
// would otherwise collapse (ーーー→ー). A line made up entirely of these
// skips width-folding/NFKC so its visual length survives, matching
// delimiter preservation.
var choonpuChars = map[rune]bool{
	'﹣': true, '－': true, 'ｰ': true, '—': true, '―': true,
	'─': true, '━': true, 'ー': true,
}

// dashChars are the two characters eligible for majority-unification on
// an all-dash line.
var dashChars = map[rune]bool{'-': true, 'ー': true}

const zeroWidthChars = "\ufeff\u200b\u200c\u200d\u2060"

// Normalize applies line-ending unification, neologdn-equivalent
// Japanese normalization, and NFKC, returning an error satisfying
// *yomailerr.InvalidInputError if the result is empty.
func Normalize(text string) (Email, error) {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	text = normalizeJapanese(text)

	lines := strings.Split(text, "\n")

	allBlank := true
	for _, l := range lines {
		if strings.TrimSpace(l) != "" {
			allBlank = false
			break
		}
	}
	if len(lines) == 0 || allBlank {
		return Email{}, &yomailerr.InvalidInputError{Message: "empty input after normalization"}
	}

	return Email{Lines: lines, Text: text}, nil
}

func normalizeJapanese(text string) string {
	lines := strings.Split(text, "\n")
	normalizedLines := make([]string, len(lines))

	for i, line := range lines {
		// A delimiter run (---, ===, ★---★, ...) is restored verbatim:
		// width folding/NFKC must never shorten or reshape a separator.
		if patterns.IsSeparatorLine(line) {
			normalizedLines[i] = line
			continue
		}
		if isChoonpuLine(line) {
			normalizedLines[i] = normalizeChoonpuLine(line)
			continue
		}

		// width.Fold performs the neologdn-equivalent width folding:
		// fullwidth ASCII to halfwidth, halfwidth katakana to fullwidth.
		folded := width.Fold.String(line)
		folded = norm.NFKC.String(folded)
		folded = stripZeroWidth(folded)
		// Repeated prolonged-sound marks collapse to one (ーーー→ー), except
		// on an all-dash line, which unifyDelimiterLines handles below.
		if !isAllDashChars(strings.TrimSpace(folded)) {
			for strings.Contains(folded, "ーー") {
				folded = strings.ReplaceAll(folded, "ーー", "ー")
			}
		}
		normalizedLines[i] = folded
	}

	return unifyDelimiterLines(strings.Join(normalizedLines, "\n"))
}

func isChoonpuLine(line string) bool {
	stripped := strings.TrimSpace(line)
	if stripped == "" {
		return false
	}
	for _, c := range stripped {
		if !choonpuChars[c] {
			return false
		}
	}
	return true
}

func normalizeChoonpuLine(line string) string {
	n := 0
	for _, c := range line {
		if choonpuChars[c] {
			n++
		}
	}
	return strings.Repeat("-", n)
}

func stripZeroWidth(s string) string {
	for _, c := range zeroWidthChars {
		s = strings.ReplaceAll(s, string(c), "")
	}
	return s
}

// unifyDelimiterLines normalizes lines made up entirely of the two dash
// variants (- and ー) to whichever variant is the majority in that line,
// preserving surrounding whitespace. This repairs dash lines that width
// folding/NFKC left mixed.
func unifyDelimiterLines(text string) string {
	lines := strings.Split(text, "\n")
	result := make([]string, len(lines))

	for i, line := range lines {
		stripped := strings.TrimSpace(line)
		if stripped == "" || !isAllDashChars(stripped) {
			result[i] = line
			continue
		}

		countHyphen := strings.Count(stripped, "-")
		countProlonged := strings.Count(stripped, "ー")
		target := "ー"
		if countHyphen >= countProlonged {
			target = "-"
		}

		leading := line[:len(line)-len(strings.TrimLeft(line, " \t"))]
		trailing := line[len(strings.TrimRight(line, " \t")):]
		result[i] = leading + strings.Repeat(target, len([]rune(stripped))) + trailing
	}

	return strings.Join(result, "\n")
}

func isAllDashChars(s string) bool {
	for _, c := range s {
		if !dashChars[c] {
			return false
		}
	}
	return true
}
