package patterns

import "regexp"

var contactPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)TEL\s*[:：]`),
	regexp.MustCompile(`電話\s*[:：]`),
	regexp.MustCompile(`携帯\s*[:：]`),
	regexp.MustCompile(`直通\s*[:：]`),
	regexp.MustCompile(`内線\s*[:：]`),
	regexp.MustCompile(`(?i)FAX\s*[:：]`),
	regexp.MustCompile(`ファックス\s*[:：]`),
	regexp.MustCompile(`ファクス\s*[:：]`),
	regexp.MustCompile(`\d{2,4}-\d{2,4}-\d{4}`),
	regexp.MustCompile(`\(\d{2,4}\)\s*\d{2,4}-\d{4}`),
	regexp.MustCompile(`0\d{1,3}-\d{1,4}-\d{4}`),
	regexp.MustCompile(`(?i)E-?mail\s*[:：]`),
	regexp.MustCompile(`(?i)Mail\s*[:：]`),
	regexp.MustCompile(`メール\s*[:：]`),
	regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`),
	regexp.MustCompile(`https?://`),
	regexp.MustCompile(`www\.`),
	regexp.MustCompile(`(?i)URL\s*[:：]`),
	regexp.MustCompile(`HP\s*[:：]`),
	regexp.MustCompile(`ホームページ\s*[:：]`),
	regexp.MustCompile(`〒\s*\d{3}-?\d{4}`),
	regexp.MustCompile(`郵便番号\s*[:：]?\s*\d{3}-?\d{4}`),
	regexp.MustCompile(`住所\s*[:：]`),
	regexp.MustCompile(`所在地\s*[:：]`),
}

var companyPatterns = []*regexp.Regexp{
	regexp.MustCompile(`株式会社`),
	regexp.MustCompile(`有限会社`),
	regexp.MustCompile(`合同会社`),
	regexp.MustCompile(`合資会社`),
	regexp.MustCompile(`合名会社`),
	regexp.MustCompile(`\(株\)`),
	regexp.MustCompile(`\(有\)`),
	regexp.MustCompile(`(?i)Inc\.?`),
	regexp.MustCompile(`(?i)Corp\.?`),
	regexp.MustCompile(`(?i)Co\.,?\s*Ltd\.?`),
	regexp.MustCompile(`(?i)LLC`),
}

var positionPatterns = []*regexp.Regexp{
	regexp.MustCompile(`代表取締役`),
	regexp.MustCompile(`取締役`),
	regexp.MustCompile(`部長`),
	regexp.MustCompile(`課長`),
	regexp.MustCompile(`係長`),
	regexp.MustCompile(`主任`),
	regexp.MustCompile(`マネージャー`),
	regexp.MustCompile(`リーダー`),
	regexp.MustCompile(`担当`),
	regexp.MustCompile(`スタッフ`),
	regexp.MustCompile(`チーフ`),
	regexp.MustCompile(`ディレクター`),
	regexp.MustCompile(`エンジニア`),
	regexp.MustCompile(`(?i)Manager`),
	regexp.MustCompile(`(?i)Director`),
	regexp.MustCompile(`(?i)Engineer`),
}

func matchAny(patterns []*regexp.Regexp, line string) bool {
	if trimASCIISpace(line) == "" {
		return false
	}
	for _, p := range patterns {
		if p.MatchString(line) {
			return true
		}
	}
	return false
}

// IsContactInfoLine reports whether line contains phone, fax, email, URL,
// or postal-code contact information.
func IsContactInfoLine(line string) bool { return matchAny(contactPatterns, line) }

// IsCompanyLine reports whether line contains a company-name suffix such
// as 株式会社 or Inc.
func IsCompanyLine(line string) bool { return matchAny(companyPatterns, line) }

// IsPositionLine reports whether line contains a job-title pattern such
// as 部長 or Manager.
func IsPositionLine(line string) bool { return matchAny(positionPatterns, line) }
