package patterns

import "regexp"

// metaDiscussionPatterns mark lines that discuss an example or quoted
// content rather than carry the author's own message, per the curated
// set named in the pattern library's open decision on has_meta_discussion.
var metaDiscussionPatterns = []*regexp.Regexp{
	regexp.MustCompile(`例えば`),
	regexp.MustCompile(`以下の`),
	regexp.MustCompile(`下記の`),
	regexp.MustCompile(`次の`),
	regexp.MustCompile(`サンプル`),
	regexp.MustCompile(`具体例`),
	regexp.MustCompile(`参考まで`),
	regexp.MustCompile(`添付の`),
	regexp.MustCompile(`上記の`),
	regexp.MustCompile(`前述の`),
}

// HasMetaDiscussion reports whether line contains a discourse marker
// indicating it discusses an example or quoted material.
func HasMetaDiscussion(line string) bool {
	for _, p := range metaDiscussionPatterns {
		if p.MatchString(line) {
			return true
		}
	}
	return false
}

// quotationPair is an opening/closing quotation mark pair.
type quotationPair struct {
	open, close string
}

var quotationPairs = []quotationPair{
	{"「", "」"},
	{"『", "』"},
	{"“", "”"},
	{"\"", "\""},
}

// IsInsideQuotationMarks reports whether line begins with an opening
// quotation mark and ends with its matching closing mark.
func IsInsideQuotationMarks(line string) bool {
	stripped := trimASCIISpace(line)
	if stripped == "" {
		return false
	}
	runes := []rune(stripped)
	for _, pair := range quotationPairs {
		openRunes := []rune(pair.open)
		closeRunes := []rune(pair.close)
		if len(runes) < len(openRunes)+len(closeRunes) {
			continue
		}
		if string(runes[:len(openRunes)]) == pair.open &&
			string(runes[len(runes)-len(closeRunes):]) == pair.close {
			return true
		}
	}
	return false
}
