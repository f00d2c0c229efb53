// Package assemble selects and joins the labeled lines of a reconstructed
// document into the final extracted body text.
package assemble

import (
	"strings"

	"github.com/hurttlocker/yomail/internal/crf"
	"github.com/hurttlocker/yomail/internal/reconstruct"
	"github.com/hurttlocker/yomail/internal/structural"
)

// AssembledBody is the result of body assembly.
type AssembledBody struct {
	BodyText         string
	BodyLines        []int // original document indices included in the body
	SignatureIndex   int   // -1 if no signature was found
	InlineQuoteCount int
	Success          bool
}

// quoteRun is a maximal contiguous run of Label == crf.Quote lines in doc.Lines.
type quoteRun struct {
	start, end int // indices into doc.Lines, inclusive
	inline     bool
}

// Assemble builds the final body from a reconstructed, labeled document.
// structuralLines must be the per-content-line structural analysis produced
// upstream of reconstruction, in content-line order (blanks excluded), used
// here only to locate forward/reply attribution headers.
func Assemble(doc reconstruct.Document, structuralLines []structural.Line) AssembledBody {
	if len(doc.Lines) == 0 {
		return AssembledBody{SignatureIndex: -1}
	}

	forwardReplyByLine := forwardReplyFlags(doc, structuralLines)

	signatureLineIdx := findSignatureBoundary(doc)
	limit := len(doc.Lines)
	signatureOriginalIdx := -1
	if signatureLineIdx != -1 {
		limit = signatureLineIdx
		signatureOriginalIdx = doc.Lines[signatureLineIdx].OriginalIndex
	}

	runs := findQuoteRuns(doc, limit)
	hardBreak := make([]bool, limit)
	for _, r := range runs {
		if r.inline {
			continue
		}
		for i := r.start; i <= r.end && i < limit; i++ {
			hardBreak[i] = true
		}
	}
	for i := 0; i < limit; i++ {
		if !doc.Lines[i].IsBlank && forwardReplyByLine[i] {
			hardBreak[i] = true
		}
	}

	inlineQuoteLine := make([]bool, limit)
	for _, r := range runs {
		if !r.inline {
			continue
		}
		for i := r.start; i <= r.end && i < limit; i++ {
			inlineQuoteLine[i] = true
		}
	}

	blocks := buildBlocks(doc, limit, hardBreak, inlineQuoteLine)
	selected := selectBody(blocks, signatureOriginalIdx != -1)

	bodyLines := make([]int, len(selected))
	texts := make([]string, len(selected))
	inlineQuoteCount := 0
	for i, lineIdx := range selected {
		bodyLines[i] = doc.Lines[lineIdx].OriginalIndex
		texts[i] = doc.Lines[lineIdx].Text
		if !doc.Lines[lineIdx].IsBlank && doc.Lines[lineIdx].Label == crf.Quote {
			inlineQuoteCount++
		}
	}

	bodyText := strings.Join(texts, "\n")

	return AssembledBody{
		BodyText:         bodyText,
		BodyLines:        bodyLines,
		SignatureIndex:   signatureOriginalIdx,
		InlineQuoteCount: inlineQuoteCount,
		Success:          strings.TrimSpace(bodyText) != "",
	}
}

// forwardReplyFlags maps each doc.Lines index to whether the corresponding
// content line was flagged as a forward/reply header. Blank lines are false.
func forwardReplyFlags(doc reconstruct.Document, structuralLines []structural.Line) []bool {
	flags := make([]bool, len(doc.Lines))
	contentIdx := 0
	for i, line := range doc.Lines {
		if line.IsBlank {
			continue
		}
		if contentIdx < len(structuralLines) {
			flags[i] = structuralLines[contentIdx].IsForwardReplyHeader
		}
		contentIdx++
	}
	return flags
}

func findSignatureBoundary(doc reconstruct.Document) int {
	for i, line := range doc.Lines {
		if !line.IsBlank && line.HasLabel && line.Label == crf.Signature {
			return i
		}
	}
	return -1
}

func findQuoteRuns(doc reconstruct.Document, limit int) []quoteRun {
	var runs []quoteRun
	i := 0
	for i < limit {
		if doc.Lines[i].Label != crf.Quote || !doc.Lines[i].HasLabel {
			i++
			continue
		}
		start := i
		for i < limit && doc.Lines[i].HasLabel && doc.Lines[i].Label == crf.Quote {
			i++
		}
		end := i - 1
		runs = append(runs, quoteRun{start: start, end: end, inline: isRunInline(doc, limit, start, end)})
	}
	return runs
}

// isRunInline reports whether there is at least one non-quote, non-signature
// content line strictly before start and strictly after end, both within
// [0, limit).
func isRunInline(doc reconstruct.Document, limit, start, end int) bool {
	before := false
	for i := 0; i < start; i++ {
		if isPlainContentLine(doc.Lines[i]) {
			before = true
			break
		}
	}
	if !before {
		return false
	}
	for i := end + 1; i < limit; i++ {
		if isPlainContentLine(doc.Lines[i]) {
			return true
		}
	}
	return false
}

func isPlainContentLine(line reconstruct.Line) bool {
	if line.IsBlank || !line.HasLabel {
		return false
	}
	return line.Label != crf.Quote && line.Label != crf.Signature
}

func isInSet(line reconstruct.Line, lineIdx int, inlineQuoteLine []bool) bool {
	if line.IsBlank || !line.HasLabel {
		return false
	}
	switch line.Label {
	case crf.Greeting, crf.Body, crf.Closing:
		return true
	case crf.Quote:
		return inlineQuoteLine[lineIdx]
	default:
		return false
	}
}

// buildBlocks scans doc.Lines[:limit], grouping in-set lines into maximal
// blocks that absorb intervening OTHER and blank lines as filler whenever
// another in-set line follows before the next hard break.
func buildBlocks(doc reconstruct.Document, limit int, hardBreak, inlineQuoteLine []bool) [][]int {
	var blocks [][]int
	var current []int
	var buffer []int

	flush := func() {
		if len(current) > 0 {
			blocks = append(blocks, current)
			current = nil
		}
		buffer = nil
	}

	for i := 0; i < limit; i++ {
		if hardBreak[i] {
			flush()
			continue
		}
		line := doc.Lines[i]
		if isInSet(line, i, inlineQuoteLine) {
			if len(current) > 0 {
				current = append(current, buffer...)
			}
			buffer = nil
			current = append(current, i)
			continue
		}
		buffer = append(buffer, i)
	}
	flush()

	return blocks
}

func selectBody(blocks [][]int, hasSignature bool) []int {
	if len(blocks) == 0 {
		return nil
	}
	if hasSignature {
		var result []int
		for _, b := range blocks {
			result = append(result, b...)
		}
		return result
	}

	longest := blocks[0]
	for _, b := range blocks[1:] {
		if len(b) > len(longest) {
			longest = b
		}
	}
	return longest
}
