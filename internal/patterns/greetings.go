// Package patterns holds the compiled-once Japanese business-email pattern
// library: greetings, closings, separators, contact/company/position
// signatures, names, and meta-discussion markers. All predicates match
// against normalized text (see internal/normalize), so callers never need
// to enumerate ASCII-width or half-width-katakana variants.
package patterns

import "regexp"

// greetingPatterns are common Japanese email opening formulas, compiled
// once at package init so callers never pay per-line compilation cost.
var greetingPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^.*お世話になっております.*$`),
	regexp.MustCompile(`^.*お世話になります.*$`),
	regexp.MustCompile(`^.*いつもお世話になっております.*$`),
	regexp.MustCompile(`^.*いつも大変お世話になっております.*$`),
	regexp.MustCompile(`^拝啓[、,]?.*$`),
	regexp.MustCompile(`^前略[、,]?.*$`),
	regexp.MustCompile(`^謹啓[、,]?.*$`),
	regexp.MustCompile(`^お疲れ様です[。.]?.*$`),
	regexp.MustCompile(`^お疲れさまです[。.]?.*$`),
	regexp.MustCompile(`^おつかれさまです[。.]?.*$`),
	regexp.MustCompile(`^お疲れ様でございます.*$`),
	regexp.MustCompile(`^.*初めてご連絡.*$`),
	regexp.MustCompile(`^.*初めてメール.*$`),
	regexp.MustCompile(`^.*突然のご連絡.*$`),
	regexp.MustCompile(`^.*突然メール.*$`),
	regexp.MustCompile(`^.*突然のメール.*$`),
	regexp.MustCompile(`^.*ご無沙汰.*$`),
	regexp.MustCompile(`^.*ご連絡(を)?ありがとう.*$`),
	regexp.MustCompile(`^.*ご返信(を)?ありがとう.*$`),
	regexp.MustCompile(`^.*ご対応(を)?ありがとう.*$`),
	regexp.MustCompile(`^.*メール(を)?ありがとう.*$`),
	regexp.MustCompile(`^.+様[,、]?$`),
	regexp.MustCompile(`^.+さん[,、]?$`),
	regexp.MustCompile(`^.+殿[,、]?$`),
	regexp.MustCompile(`^.+御中[,、]?$`),
	regexp.MustCompile(`^こんにちは[。.]?$`),
	regexp.MustCompile(`^おはようございます[。.]?$`),
}

// IsGreetingLine reports whether line matches a greeting opening formula.
func IsGreetingLine(line string) bool {
	stripped := trimASCIISpace(line)
	if stripped == "" {
		return false
	}
	for _, p := range greetingPatterns {
		if p.MatchString(stripped) {
			return true
		}
	}
	return false
}
