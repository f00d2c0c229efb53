// Package features builds the per-line feature vector the CRF labeler
// consumes: positional, content, whitespace-context, structural, pattern,
// contextual, and bracket-block features.
package features

import (
	"unicode"

	"github.com/emirpasic/gods/stacks/arraystack"
	"github.com/hurttlocker/yomail/internal/content"
	"github.com/hurttlocker/yomail/internal/patterns"
	"github.com/hurttlocker/yomail/internal/structural"
)

// bracketSpan is the maximum content-line distance between two visual
// separators for them to be considered a matched bracketed-block pair.
const bracketSpan = 15

// contextWindow is the half-width of the contextual aggregation window.
const contextWindow = 2

// Line is the feature vector for a single content line.
type Line struct {
	// Positional (6)
	PositionNormalized    float64
	PositionReverse       float64
	LinesFromStart        int
	LinesFromEnd          int
	PositionRelFirstQuote float64
	PositionRelLastQuote  float64

	// Content (9)
	LineLength        int
	KanjiRatio        float64
	HiraganaRatio     float64
	KatakanaRatio     float64
	ASCIIRatio        float64
	DigitRatio        float64
	SymbolRatio       float64
	LeadingWhitespace int
	TrailingWhitespace int

	// Whitespace context (2)
	BlankLinesBefore int
	BlankLinesAfter  int

	// Structural (4)
	QuoteDepth           int
	IsForwardReplyHeader bool
	PrecededByDelimiter  bool
	IsDelimiter          bool

	// Pattern flags (9)
	IsGreeting             bool
	IsClosing               bool
	HasContactInfo          bool
	HasCompanyPattern       bool
	HasPositionPattern      bool
	HasNamePattern          bool
	IsVisualSeparator       bool
	HasMetaDiscussion       bool
	IsInsideQuotationMarks  bool

	// Contextual window (5)
	ContextGreetingCount  int
	ContextClosingCount   int
	ContextContactCount   int
	ContextQuoteCount     int
	ContextSeparatorCount int

	// Bracket block (2)
	InBracketedSection         bool
	BracketHasSignaturePatterns bool
}

// Extracted is the feature vectors for an entire content-line sequence.
type Extracted struct {
	Lines      []Line
	TotalLines int
}

type lineFlags struct {
	greeting  bool
	closing   bool
	contact   bool
	company   bool
	position  bool
	name      bool
	separator bool
	meta      bool
	quoted    bool
}

// Extract builds the feature vectors for every content line in analysis,
// using the blank-run counts from the matching content lines for
// blank_lines_before/blank_lines_after.
func Extract(contentLines []content.Line, analysis structural.Analysis) Extracted {
	total := len(analysis.Lines)
	if total == 0 {
		return Extracted{}
	}

	flags := make([]lineFlags, total)
	for i, line := range analysis.Lines {
		flags[i] = lineFlags{
			greeting:  patterns.IsGreetingLine(line.Text),
			closing:   patterns.IsClosingLine(line.Text),
			contact:   patterns.IsContactInfoLine(line.Text),
			company:   patterns.IsCompanyLine(line.Text),
			position:  patterns.IsPositionLine(line.Text),
			name:      patterns.HasNamePattern(line.Text),
			separator: patterns.IsSeparatorLine(line.Text) || line.IsDelimiter,
			meta:      patterns.HasMetaDiscussion(line.Text),
			quoted:    patterns.IsInsideQuotationMarks(line.Text),
		}
	}

	bracketed, bracketSig := computeBracketBlocks(analysis.Lines)

	lines := make([]Line, total)
	for i, sline := range analysis.Lines {
		lines[i] = buildLine(i, total, sline, contentLines[i], analysis, flags, bracketed[i], bracketSig[i])
	}

	return Extracted{Lines: lines, TotalLines: total}
}

func buildLine(idx, total int, sline structural.Line, cline content.Line, analysis structural.Analysis, flags []lineFlags, inBracket, bracketSig bool) Line {
	denom := total - 1
	if denom < 1 {
		denom = 1
	}
	positionNormalized := float64(idx) / float64(denom)

	var relFirst, relLast float64
	if analysis.FirstQuoteIndex != -1 {
		relFirst = float64(idx-analysis.FirstQuoteIndex) / float64(maxInt(total, 1))
	}
	if analysis.LastQuoteIndex != -1 {
		relLast = float64(idx-analysis.LastQuoteIndex) / float64(maxInt(total, 1))
	}

	ratios := characterRatios(sline.Text)
	leading, trailing := whitespaceCounts(sline.Text)

	f := flags[idx]
	ctx := contextCounts(idx, total, analysis.Lines, flags)

	return Line{
		PositionNormalized:    positionNormalized,
		PositionReverse:       1.0 - positionNormalized,
		LinesFromStart:        idx,
		LinesFromEnd:          total - 1 - idx,
		PositionRelFirstQuote: relFirst,
		PositionRelLastQuote:  relLast,

		LineLength:         len([]rune(sline.Text)),
		KanjiRatio:         ratios.kanji,
		HiraganaRatio:      ratios.hiragana,
		KatakanaRatio:      ratios.katakana,
		ASCIIRatio:         ratios.ascii,
		DigitRatio:         ratios.digit,
		SymbolRatio:        ratios.symbol,
		LeadingWhitespace:  leading,
		TrailingWhitespace: trailing,

		BlankLinesBefore: cline.BlankLinesBefore,
		BlankLinesAfter:  cline.BlankLinesAfter,

		QuoteDepth:           sline.QuoteDepth,
		IsForwardReplyHeader: sline.IsForwardReplyHeader,
		PrecededByDelimiter:  sline.PrecededByDelimiter,
		IsDelimiter:          sline.IsDelimiter,

		IsGreeting:             f.greeting,
		IsClosing:              f.closing,
		HasContactInfo:         f.contact,
		HasCompanyPattern:      f.company,
		HasPositionPattern:     f.position,
		HasNamePattern:         f.name,
		IsVisualSeparator:      f.separator,
		HasMetaDiscussion:      f.meta,
		IsInsideQuotationMarks: f.quoted,

		ContextGreetingCount:  ctx.greeting,
		ContextClosingCount:   ctx.closing,
		ContextContactCount:   ctx.contact,
		ContextQuoteCount:     ctx.quote,
		ContextSeparatorCount: ctx.separator,

		InBracketedSection:          inBracket,
		BracketHasSignaturePatterns: bracketSig,
	}
}

type contextCount struct {
	greeting, closing, contact, quote, separator int
}

// contextCounts aggregates over the inclusive ±2 content-line window
// around idx (the current line counts toward its own window).
func contextCounts(idx, total int, lines []structural.Line, flags []lineFlags) contextCount {
	start := idx - contextWindow
	if start < 0 {
		start = 0
	}
	end := idx + contextWindow + 1
	if end > total {
		end = total
	}

	var c contextCount
	for i := start; i < end; i++ {
		f := flags[i]
		if f.greeting {
			c.greeting++
		}
		if f.closing {
			c.closing++
		}
		if f.contact {
			c.contact++
		}
		if lines[i].QuoteDepth > 0 {
			c.quote++
		}
		if f.separator {
			c.separator++
		}
	}
	return c
}

type ratios struct {
	kanji, hiragana, katakana, ascii, digit, symbol float64
}

// characterRatios computes character-class ratios over the non-whitespace
// characters of text; categories are mutually exclusive and any character
// that is not kanji, hiragana, katakana, an ASCII letter, or a digit counts
// as a symbol, so the ratios sum to 1 for a line with any non-space
// character.
func characterRatios(text string) ratios {
	var kanji, hiragana, katakana, ascii, digit, symbol, nonSpace int

	for _, r := range text {
		if unicode.IsSpace(r) {
			continue
		}
		nonSpace++
		switch {
		case r < unicode.MaxASCII:
			switch {
			case unicode.IsDigit(r):
				digit++
			case unicode.IsLetter(r):
				ascii++
			default:
				symbol++
			}
		case unicode.In(r, unicode.Han):
			kanji++
		case unicode.In(r, unicode.Hiragana):
			hiragana++
		case unicode.In(r, unicode.Katakana):
			katakana++
		case unicode.IsDigit(r):
			digit++
		default:
			symbol++
		}
	}

	if nonSpace == 0 {
		return ratios{}
	}
	n := float64(nonSpace)
	return ratios{
		kanji:    float64(kanji) / n,
		hiragana: float64(hiragana) / n,
		katakana: float64(katakana) / n,
		ascii:    float64(ascii) / n,
		digit:    float64(digit) / n,
		symbol:   float64(symbol) / n,
	}
}

func whitespaceCounts(text string) (leading, trailing int) {
	runes := []rune(text)
	for _, r := range runes {
		if !unicode.IsSpace(r) {
			break
		}
		leading++
	}
	for i := len(runes) - 1; i >= 0; i-- {
		if !unicode.IsSpace(runes[i]) {
			break
		}
		trailing++
	}
	return leading, trailing
}

// computeBracketBlocks pairs visual-separator lines using an explicit
// delimiter stack: a second separator within bracketSpan content lines of
// the stack's top pops and pairs with it (innermost match preferred); a
// separator that exceeds the span discards the stale top instead of
// pairing with it, and anything left on the stack at end-of-document is
// never paired.
func computeBracketBlocks(lines []structural.Line) (inBracket []bool, hasSig []bool) {
	total := len(lines)
	inBracket = make([]bool, total)
	hasSig = make([]bool, total)

	stack := arraystack.New()
	var pairs [][2]int

	for i, line := range lines {
		if !line.IsDelimiter {
			continue
		}
		if !stack.Empty() {
			topVal, _ := stack.Peek()
			top := topVal.(int)
			if i-top <= bracketSpan {
				stack.Pop()
				pairs = append(pairs, [2]int{top, i})
				continue
			}
			stack.Pop() // stale top exceeds the span: skipped, never paired
		}
		stack.Push(i)
	}

	for _, pair := range pairs {
		start, end := pair[0], pair[1]
		signature := false
		for i := start; i <= end; i++ {
			inBracket[i] = true
			if i == start || i == end {
				continue
			}
			if patterns.IsContactInfoLine(lines[i].Text) ||
				patterns.IsCompanyLine(lines[i].Text) ||
				patterns.IsPositionLine(lines[i].Text) ||
				patterns.HasNamePattern(lines[i].Text) {
				signature = true
			}
		}
		for i := start; i <= end; i++ {
			hasSig[i] = hasSig[i] || signature
		}
	}

	return inBracket, hasSig
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
