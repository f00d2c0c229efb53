package patterns

import (
	_ "embed"
	"regexp"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed data/names.yaml
var namesYAML []byte

// namesData mirrors the shape of the bundled names.yaml: each entry is
// [kanji, hiragana, katakana, romaji].
type namesData struct {
	LastName  [][]string `yaml:"last_name"`
	FirstName struct {
		Male   [][]string `yaml:"male"`
		Female [][]string `yaml:"female"`
	} `yaml:"first_name"`
}

type nameSets struct {
	lastKanji  map[string]bool
	firstKanji map[string]bool
	katakana   map[string]bool
	romaji     map[string]bool
}

var (
	nameSetsOnce sync.Once
	cachedNames  nameSets
)

func getNameSets() nameSets {
	nameSetsOnce.Do(func() {
		cachedNames = nameSets{
			lastKanji:  map[string]bool{},
			firstKanji: map[string]bool{},
			katakana:   map[string]bool{},
			romaji:     map[string]bool{},
		}

		var data namesData
		if err := yaml.Unmarshal(namesYAML, &data); err != nil {
			return
		}

		for _, entry := range data.LastName {
			if len(entry) < 4 {
				continue
			}
			cachedNames.lastKanji[entry[0]] = true
			cachedNames.katakana[entry[2]] = true
			cachedNames.romaji[entry[3]] = true
		}
		for _, group := range [][][]string{data.FirstName.Male, data.FirstName.Female} {
			for _, entry := range group {
				if len(entry) < 4 {
					continue
				}
				cachedNames.firstKanji[entry[0]] = true
				cachedNames.katakana[entry[2]] = true
				cachedNames.romaji[entry[3]] = true
			}
		}
	})
	return cachedNames
}

var (
	nameWithReadingPattern = regexp.MustCompile(`^([^\s(（]+)\s*[（(]([ァ-ヶー\s]+)[）)]$`)
	nameWithRomajiPattern  = regexp.MustCompile(`^([^\s/]+)\s*[/／]\s*([A-Za-z\s]+)$`)
	romajiNamePattern      = regexp.MustCompile(`^[A-Z][a-z]+(?:\s+[A-Z][a-z]+)+$`)
	namePunctuation        = "。、！？!?,.:;"
)

// IsNameLine reports whether line appears to be a standalone personal
// name: a name with a parenthetical reading, a kanji/romaji pair, a bare
// romaji name, or a short unpunctuated line matching a known name.
func IsNameLine(line string) bool {
	stripped := trimASCIISpace(line)
	if stripped == "" {
		return false
	}

	if nameWithReadingPattern.MatchString(stripped) {
		return true
	}
	if nameWithRomajiPattern.MatchString(stripped) {
		return true
	}
	if romajiNamePattern.MatchString(stripped) {
		return true
	}

	if len([]rune(stripped)) <= 15 && !strings.ContainsAny(stripped, namePunctuation) {
		sets := getNameSets()

		for last := range sets.lastKanji {
			if strings.HasPrefix(stripped, last) {
				remainder := stripped[len(last):]
				if remainder == "" || sets.firstKanji[remainder] {
					return true
				}
			}
		}
		if sets.katakana[stripped] {
			return true
		}
		if sets.lastKanji[stripped] && len([]rune(stripped)) <= 4 {
			return true
		}
	}

	return false
}

// ContainsKnownName reports whether line contains any known name
// substring, broader than IsNameLine: useful for signature blocks that
// mix a name with other contact details.
func ContainsKnownName(line string) bool {
	stripped := trimASCIISpace(line)
	if stripped == "" {
		return false
	}

	sets := getNameSets()
	for name := range sets.lastKanji {
		if strings.Contains(stripped, name) {
			return true
		}
	}
	for name := range sets.katakana {
		if strings.Contains(stripped, name) {
			return true
		}
	}
	lower := strings.ToLower(stripped)
	for name := range sets.romaji {
		if name == "" {
			continue
		}
		if strings.Contains(lower, strings.ToLower(name)) {
			return true
		}
	}
	return false
}

// HasNamePattern is a package-level alias matching the pattern-flag name
// used by the feature extractor (has_name_pattern): a line with either a
// standalone name or a known name substring.
func HasNamePattern(line string) bool {
	return IsNameLine(line) || ContainsKnownName(line)
}
