// Package content separates blank lines from content lines ahead of
// feature extraction and CRF labeling, tracking enough context to
// reinsert the blanks afterward.
package content

import (
	"strings"

	"github.com/hurttlocker/yomail/internal/normalize"
)

// Line is a single non-blank line plus its blank-line context.
type Line struct {
	Text             string
	OriginalIndex    int
	BlankLinesBefore int
	BlankLinesAfter  int
}

// WhitespaceMap maps content-line positions back to the original
// document so the blank lines filtered out here can be reinserted.
type WhitespaceMap struct {
	ContentToOriginal []int
	BlankPositions    map[int]bool
	OriginalLineCount int
}

// Filtered is the result of filtering: the content lines, the map
// needed to reconstruct the full document, and the original lines
// themselves (kept for reconstruction).
type Filtered struct {
	Lines         []Line
	WhitespaceMap WhitespaceMap
	OriginalLines []string
}

// Filter extracts content lines from a normalized email, recording
// blank-line runs before and after each content line.
func Filter(normalized normalize.Email) Filtered {
	var lines []Line
	blankPositions := map[int]bool{}
	var contentToOriginal []int

	pendingBlanks := 0
	for origIdx, text := range normalized.Lines {
		if strings.TrimSpace(text) != "" {
			lines = append(lines, Line{
				Text:             text,
				OriginalIndex:    origIdx,
				BlankLinesBefore: pendingBlanks,
			})
			contentToOriginal = append(contentToOriginal, origIdx)
			pendingBlanks = 0
		} else {
			blankPositions[origIdx] = true
			pendingBlanks++
		}
	}

	for i := 0; i < len(lines)-1; i++ {
		currOrig := lines[i].OriginalIndex
		nextOrig := lines[i+1].OriginalIndex
		lines[i].BlankLinesAfter = nextOrig - currOrig - 1
	}
	if len(lines) > 0 {
		last := len(lines) - 1
		lines[last].BlankLinesAfter = len(normalized.Lines) - lines[last].OriginalIndex - 1
	}

	return Filtered{
		Lines: lines,
		WhitespaceMap: WhitespaceMap{
			ContentToOriginal: contentToOriginal,
			BlankPositions:    blankPositions,
			OriginalLineCount: len(normalized.Lines),
		},
		OriginalLines: normalized.Lines,
	}
}
