package i18n

import (
	"strings"

	"golang.org/x/text/language"
)

// Language is a supported display language.
type Language string

const (
	EN Language = "en"
	AR Language = "ar"
)

// DefaultLanguage is used whenever no valid choice has been persisted.
const DefaultLanguage = EN

// StorageKey is the preference key the language choice is persisted under.
const StorageKey = "vita-language"

const (
	DirLTR = "ltr"
	DirRTL = "rtl"
)

var supportedTags = []language.Tag{language.English, language.Arabic}

var matcher = language.NewMatcher(supportedTags)

// Supported lists the supported languages, default first.
func Supported() []Language {
	return []Language{EN, AR}
}

// ParseLanguage reads a language typed or posted by a user: "en" or "ar",
// ignoring case and surrounding space. Persisted values are matched exactly
// by NewStore instead.
func ParseLanguage(s string) (Language, bool) {
	switch Language(strings.ToLower(strings.TrimSpace(s))) {
	case EN:
		return EN, true
	case AR:
		return AR, true
	default:
		return "", false
	}
}

// Valid reports whether l is supported.
func (l Language) Valid() bool {
	return l == EN || l == AR
}

// RTL reports whether the language is written right to left.
func (l Language) RTL() bool {
	return l == AR
}

// Dir returns the document direction for the language.
func (l Language) Dir() string {
	if l.RTL() {
		return DirRTL
	}
	return DirLTR
}

// Tag returns the x/text language tag.
func (l Language) Tag() language.Tag {
	if l == AR {
		return language.Arabic
	}
	return language.English
}

// Other returns the language a two-way switcher toggles to.
func (l Language) Other() Language {
	if l == AR {
		return EN
	}
	return AR
}

// MatchAcceptLanguage picks the closest supported language for an
// Accept-Language header. It is a hint for the switcher only and never
// replaces a persisted choice.
func MatchAcceptLanguage(header string) Language {
	header = strings.TrimSpace(header)
	if header == "" {
		return DefaultLanguage
	}
	tags, _, err := language.ParseAcceptLanguage(header)
	if err != nil || len(tags) == 0 {
		return DefaultLanguage
	}
	_, idx, conf := matcher.Match(tags...)
	if conf == language.No {
		return DefaultLanguage
	}
	if supportedTags[idx] == language.Arabic {
		return AR
	}
	return EN
}
