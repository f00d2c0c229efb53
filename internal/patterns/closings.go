package patterns

import "regexp"

// closingPatterns are common Japanese email closing formulas.
var closingPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^.*よろしくお願い(いた|致)します[。.]?$`),
	regexp.MustCompile(`^.*よろしくお願い申し上げます[。.]?$`),
	regexp.MustCompile(`^.*よろしくお願いします[。.]?$`),
	regexp.MustCompile(`^以上[、,]?.*よろしくお願い.*$`),
	regexp.MustCompile(`^.*何卒よろしくお願い.*$`),
	regexp.MustCompile(`^.*どうぞよろしくお願い.*$`),
	regexp.MustCompile(`^.*引き続きよろしくお願い.*$`),
	regexp.MustCompile(`^.*今後(とも)?よろしくお願い.*$`),
	regexp.MustCompile(`^.*ご確認.*よろしくお願い.*$`),
	regexp.MustCompile(`^.*ご検討.*よろしくお願い.*$`),
	regexp.MustCompile(`^.*ご対応.*よろしくお願い.*$`),
	regexp.MustCompile(`^.*お手数をおかけしますが.*$`),
	regexp.MustCompile(`^.*お手数ですが.*$`),
	regexp.MustCompile(`^.*ご面倒をおかけしますが.*$`),
	regexp.MustCompile(`^敬具[。.]?$`),
	regexp.MustCompile(`^草々[。.]?$`),
	regexp.MustCompile(`^敬白[。.]?$`),
	regexp.MustCompile(`^謹白[。.]?$`),
	regexp.MustCompile(`^早々[。.]?$`),
	regexp.MustCompile(`^以上です[。.]?$`),
	regexp.MustCompile(`^以上となります[。.]?$`),
	regexp.MustCompile(`^以上[。.]?$`),
	regexp.MustCompile(`^.*ご返信.*お待ち.*$`),
	regexp.MustCompile(`^.*お返事.*お待ち.*$`),
	regexp.MustCompile(`^.*ありがとうございます[。.]?$`),
	regexp.MustCompile(`^.*ありがとうございました[。.]?$`),
	regexp.MustCompile(`^.*失礼いたします[。.]?$`),
	regexp.MustCompile(`^.*失礼します[。.]?$`),
}

// IsClosingLine reports whether line matches a closing formula.
func IsClosingLine(line string) bool {
	stripped := trimASCIISpace(line)
	if stripped == "" {
		return false
	}
	for _, p := range closingPatterns {
		if p.MatchString(stripped) {
			return true
		}
	}
	return false
}
