package crf

import (
	"fmt"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/hurttlocker/yomail/internal/features"
)

// FeatureDict is an ordered name/value feature bag for a single content
// line, mirroring the dict[str, str|float|bool] shape a CRF toolkit
// consumes: string values are categorical, float values are numeric
// weights, bool values are presence flags. The ordering is deterministic
// so two runs over the same input produce byte-identical training data
// and so iteration order never perturbs floating-point summation.
type FeatureDict = *orderedmap.OrderedMap[string, any]

// BuildFeatureDict converts a single line's feature vector into the
// feature dictionary the model consumes, given its position in the
// sequence.
func BuildFeatureDict(line features.Line, idx, totalLines int) FeatureDict {
	feat := orderedmap.New[string, any]()

	if idx == 0 {
		feat.Set("BOS", true)
	}
	if idx == totalLines-1 {
		feat.Set("EOS", true)
	}

	feat.Set("pos_norm", line.PositionNormalized)
	feat.Set("pos_rev", line.PositionReverse)
	feat.Set("lines_from_start", float64(line.LinesFromStart))
	feat.Set("lines_from_end", float64(line.LinesFromEnd))
	feat.Set("pos_rel_first_quote", line.PositionRelFirstQuote)
	feat.Set("pos_rel_last_quote", line.PositionRelLastQuote)

	feat.Set("line_length", float64(line.LineLength))
	feat.Set("kanji_ratio", line.KanjiRatio)
	feat.Set("hiragana_ratio", line.HiraganaRatio)
	feat.Set("katakana_ratio", line.KatakanaRatio)
	feat.Set("ascii_ratio", line.ASCIIRatio)
	feat.Set("digit_ratio", line.DigitRatio)
	feat.Set("symbol_ratio", line.SymbolRatio)
	feat.Set("leading_ws", float64(line.LeadingWhitespace))
	feat.Set("trailing_ws", float64(line.TrailingWhitespace))

	feat.Set("blank_lines_before", float64(line.BlankLinesBefore))
	feat.Set("blank_lines_after", float64(line.BlankLinesAfter))

	feat.Set("quote_depth", float64(line.QuoteDepth))
	feat.Set("is_forward_reply_header", line.IsForwardReplyHeader)
	feat.Set("preceded_by_delimiter", line.PrecededByDelimiter)
	feat.Set("is_delimiter", line.IsDelimiter)

	feat.Set("is_greeting", line.IsGreeting)
	feat.Set("is_closing", line.IsClosing)
	feat.Set("has_contact_info", line.HasContactInfo)
	feat.Set("has_company_pattern", line.HasCompanyPattern)
	feat.Set("has_position_pattern", line.HasPositionPattern)
	feat.Set("has_name_pattern", line.HasNamePattern)
	feat.Set("is_visual_separator", line.IsVisualSeparator)
	feat.Set("has_meta_discussion", line.HasMetaDiscussion)
	feat.Set("is_inside_quotation_marks", line.IsInsideQuotationMarks)

	feat.Set("ctx_greeting_count", float64(line.ContextGreetingCount))
	feat.Set("ctx_closing_count", float64(line.ContextClosingCount))
	feat.Set("ctx_contact_count", float64(line.ContextContactCount))
	feat.Set("ctx_quote_count", float64(line.ContextQuoteCount))
	feat.Set("ctx_separator_count", float64(line.ContextSeparatorCount))

	feat.Set("in_bracketed_section", line.InBracketedSection)
	feat.Set("bracket_has_signature_patterns", line.BracketHasSignaturePatterns)

	if line.QuoteDepth > 0 {
		feat.Set("quote_depth_cat", "quoted")
	} else {
		feat.Set("quote_depth_cat", "unquoted")
	}

	switch {
	case line.PositionNormalized < 0.1:
		feat.Set("pos_bucket", "start")
	case line.PositionNormalized < 0.3:
		feat.Set("pos_bucket", "early")
	case line.PositionNormalized < 0.7:
		feat.Set("pos_bucket", "middle")
	case line.PositionNormalized < 0.9:
		feat.Set("pos_bucket", "late")
	default:
		feat.Set("pos_bucket", "end")
	}

	switch {
	case line.ASCIIRatio > 0.8:
		feat.Set("char_type", "ascii_heavy")
	case line.KanjiRatio+line.HiraganaRatio > 0.7:
		feat.Set("char_type", "japanese_heavy")
	default:
		feat.Set("char_type", "mixed")
	}

	if line.InBracketedSection {
		feat.Set("bracket_cat", "bracketed")
	} else {
		feat.Set("bracket_cat", "unbracketed")
	}

	return feat
}

// flatten turns a FeatureDict into a sparse name/weight vector: a string
// value becomes a categorical "name=value" feature with weight 1.0, a
// true bool becomes a presence feature named "name" with weight 1.0 (a
// false bool contributes nothing, matching the training-toolkit
// convention that absence implies false), and a numeric value becomes a
// feature named "name" weighted by its value.
func flatten(dict FeatureDict) []featureWeight {
	weights := make([]featureWeight, 0, dict.Len())
	for pair := dict.Oldest(); pair != nil; pair = pair.Next() {
		switch v := pair.Value.(type) {
		case string:
			weights = append(weights, featureWeight{name: fmt.Sprintf("%s=%s", pair.Key, v), weight: 1.0})
		case bool:
			if v {
				weights = append(weights, featureWeight{name: pair.Key, weight: 1.0})
			}
		case float64:
			weights = append(weights, featureWeight{name: pair.Key, weight: v})
		}
	}
	return weights
}

type featureWeight struct {
	name   string
	weight float64
}
