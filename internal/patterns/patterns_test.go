package patterns

import "testing"

func TestIsGreetingLine(t *testing.T) {
	tests := []struct {
		name string
		line string
		want bool
	}{
		{"care_phrase", "いつもお世話になっております。", true},
		{"formal_opening", "拝啓、時下ますますご清祥のこととお慶び申し上げます。", true},
		{"addressing_sama", "田中様、", true},
		{"simple_hello", "こんにちは。", true},
		{"body_sentence", "資料を添付いたしましたのでご確認ください。", false},
		{"blank", "   ", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsGreetingLine(tt.line); got != tt.want {
				t.Fatalf("IsGreetingLine(%q) = %v, want %v", tt.line, got, tt.want)
			}
		})
	}
}

func TestIsClosingLine(t *testing.T) {
	tests := []struct {
		name string
		line string
		want bool
	}{
		{"thanks_request", "よろしくお願いいたします。", true},
		{"ijou", "以上です。", true},
		{"keigu", "敬具", true},
		{"body_sentence", "添付ファイルをご確認ください。", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsClosingLine(tt.line); got != tt.want {
				t.Fatalf("IsClosingLine(%q) = %v, want %v", tt.line, got, tt.want)
			}
		})
	}
}

func TestIsSeparatorLine(t *testing.T) {
	tests := []struct {
		name string
		line string
		want bool
	}{
		{"dashes", "---", true},
		{"equals_long", "==================", true},
		{"black_squares", "■■■■", false}, // ■ not in the delimiter glyph set
		{"bookended_stars", "★---★", true},
		{"choon_run", "ーーー", false}, // ー not in the delimiter glyph set
		{"too_short", "--", false},
		{"prose", "詳細は---をご確認ください", false},
		{"single_bullet", "*", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsSeparatorLine(tt.line); got != tt.want {
				t.Fatalf("IsSeparatorLine(%q) = %v, want %v", tt.line, got, tt.want)
			}
		})
	}
}

func TestIsContactCompanyPositionLine(t *testing.T) {
	tests := []struct {
		name string
		line string
		want bool
		fn   func(string) bool
	}{
		{"tel", "TEL: 03-1234-5678", true, IsContactInfoLine},
		{"email", "contact@example.com", true, IsContactInfoLine},
		{"url", "https://example.com", true, IsContactInfoLine},
		{"not_contact", "明日の会議について", false, IsContactInfoLine},
		{"kabushiki", "株式会社サンプル", true, IsCompanyLine},
		{"inc", "Sample Inc.", true, IsCompanyLine},
		{"not_company", "明日お伺いします", false, IsCompanyLine},
		{"buchou", "営業部長", true, IsPositionLine},
		{"manager", "Project Manager", true, IsPositionLine},
		{"not_position", "資料を送ります", false, IsPositionLine},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.fn(tt.line); got != tt.want {
				t.Fatalf("%s(%q) = %v, want %v", tt.name, tt.line, got, tt.want)
			}
		})
	}
}

func TestIsNameLineAndContainsKnownName(t *testing.T) {
	tests := []struct {
		name string
		line string
		want bool
	}{
		{"name_with_reading", "田中太郎(タナカタロウ)", true},
		{"name_with_romaji", "田中 / Tanaka", true},
		{"romaji_name", "Taro Tanaka", true},
		{"bare_last_name", "佐藤", true},
		{"prose_with_punct", "田中さんにお伝えください。", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsNameLine(tt.line); got != tt.want {
				t.Fatalf("IsNameLine(%q) = %v, want %v", tt.line, got, tt.want)
			}
		})
	}

	if !ContainsKnownName("株式会社サンプル　佐藤太郎") {
		t.Fatalf("ContainsKnownName should find 佐藤 embedded in a longer signature line")
	}
	if ContainsKnownName("明日の会議について") {
		t.Fatalf("ContainsKnownName should not match a name-free sentence")
	}
}

func TestHasMetaDiscussionAndQuotationMarks(t *testing.T) {
	if !HasMetaDiscussion("例えば以下のようなケースです") {
		t.Fatalf("expected meta-discussion marker to match")
	}
	if HasMetaDiscussion("明日の会議について") {
		t.Fatalf("did not expect meta-discussion marker to match")
	}

	if !IsInsideQuotationMarks("「これは引用です」") {
		t.Fatalf("expected quotation-paired line to match")
	}
	if IsInsideQuotationMarks("「閉じていない引用") {
		t.Fatalf("did not expect unmatched quotation to match")
	}
}
