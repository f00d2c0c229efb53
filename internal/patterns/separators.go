package patterns

// delimiterGlyphs is the closed set of characters that may form a visual
// separator line, per the explicit glyph set (not a Unicode-category
// heuristic): a separator is ≥3 repetitions of one of these, optionally
// wrapped by a decorative terminator such as "★---★".
var delimiterGlyphs = map[rune]bool{
	'-': true, '─': true, '━': true, '=': true, '＝': true,
	'_': true, '*': true, '★': true, '☆': true,
}

// IsSeparatorLine reports whether line, once trimmed, consists of three or
// more repetitions of the same delimiter glyph, possibly bookended by a
// single decorative terminator glyph on each side (e.g. "★---★").
func IsSeparatorLine(line string) bool {
	stripped := trimASCIISpace(line)
	if stripped == "" {
		return false
	}
	runes := []rune(stripped)
	if len(runes) < 3 {
		return false
	}

	for _, r := range runes {
		if !delimiterGlyphs[r] {
			return false
		}
	}

	// Drop a single decorative terminator on either side (the ★ in
	// "★---★") when it differs from its neighbour; what remains must be
	// one glyph repeated three or more times.
	core := runes
	if len(core) >= 2 && core[0] != core[1] {
		core = core[1:]
	}
	if n := len(core); n >= 2 && core[n-1] != core[n-2] {
		core = core[:n-1]
	}
	if len(core) < 3 {
		return false
	}
	for _, r := range core {
		if r != core[0] {
			return false
		}
	}
	return true
}
