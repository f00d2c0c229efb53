// Package structural annotates content lines with quote depth, visual
// delimiter status, and forward/reply attribution headers ahead of
// feature extraction.
package structural

import (
	"regexp"
	"strings"

	"github.com/hurttlocker/yomail/internal/content"
	"github.com/hurttlocker/yomail/internal/patterns"
)

// Line is a content line annotated with structural information.
type Line struct {
	Text                 string
	LineIndex            int // content-line index, not original document index
	QuoteDepth           int
	IsForwardReplyHeader bool
	PrecededByDelimiter  bool
	IsDelimiter          bool
}

// Analysis is the result of structural analysis over content lines.
type Analysis struct {
	Lines            []Line
	HasQuotes        bool
	HasForwardReply  bool
	FirstQuoteIndex  int // -1 if none
	LastQuoteIndex   int // -1 if none
}

var quoteMarkerPattern = regexp.MustCompile(`^([>|][\s>|]*)`)

var forwardReplyPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^-{3,}\s*Original\s+Message\s*-{3,}$`),
	regexp.MustCompile(`(?i)^-{3,}\s*Forwarded\s+message\s*-{3,}$`),
	regexp.MustCompile(`(?i)^On\s+\d{4}[/-]\d{1,2}[/-]\d{1,2}.*wrote:?\s*$`),
	regexp.MustCompile(`(?i)^On\s+.+wrote:?\s*$`),
	regexp.MustCompile(`^\d{4}年\d{1,2}月\d{1,2}日.*wrote:?\s*$`),
	regexp.MustCompile(`^\d{4}年\d{1,2}月\d{1,2}日.*:$`),
	regexp.MustCompile(`^.*さんからのメール:?\s*$`),
	regexp.MustCompile(`^.*さんは.*に書きました:?\s*$`),
	regexp.MustCompile(`^転送:.*$`),
	regexp.MustCompile(`(?i)^Fwd:\s*.*$`),
	regexp.MustCompile(`(?i)^Re:\s*.*$`),
	regexp.MustCompile(`(?i)^From:\s+.+$`),
	regexp.MustCompile(`^差出人:\s+.+$`),
	regexp.MustCompile(`^送信者:\s+.+$`),
	regexp.MustCompile(`^件名:\s+.+$`),
}

// Analyze annotates the content lines from a filtered document with
// quote depth, delimiter status, and forward/reply header detection.
func Analyze(filtered content.Filtered) Analysis {
	lines := make([]Line, len(filtered.Lines))

	firstQuoteIndex := -1
	lastQuoteIndex := -1
	hasForwardReply := false
	previousIsDelimiter := false

	for i, cl := range filtered.Lines {
		quoteDepth := computeQuoteDepth(cl.Text)
		isDelimiter := patterns.IsSeparatorLine(cl.Text)
		isForwardReplyHeader := isForwardReplyLine(cl.Text)

		if isForwardReplyHeader {
			hasForwardReply = true
		}
		if quoteDepth > 0 {
			if firstQuoteIndex == -1 {
				firstQuoteIndex = i
			}
			lastQuoteIndex = i
		}

		lines[i] = Line{
			Text:                 cl.Text,
			LineIndex:            i,
			QuoteDepth:           quoteDepth,
			IsForwardReplyHeader: isForwardReplyHeader,
			PrecededByDelimiter:  previousIsDelimiter,
			IsDelimiter:          isDelimiter,
		}

		previousIsDelimiter = isDelimiter
	}

	return Analysis{
		Lines:           lines,
		HasQuotes:       firstQuoteIndex != -1,
		HasForwardReply: hasForwardReply,
		FirstQuoteIndex: firstQuoteIndex,
		LastQuoteIndex:  lastQuoteIndex,
	}
}

func computeQuoteDepth(line string) int {
	match := quoteMarkerPattern.FindStringSubmatch(line)
	if match == nil {
		return 0
	}
	depth := 0
	for _, c := range match[1] {
		if c == '>' || c == '|' {
			depth++
		}
	}
	return depth
}

func isForwardReplyLine(line string) bool {
	stripped := strings.TrimSpace(line)
	if stripped == "" {
		return false
	}
	for _, p := range forwardReplyPatterns {
		if p.MatchString(stripped) {
			return true
		}
	}
	return false
}
