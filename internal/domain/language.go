package domain

import "unicode"

// Language is a detected query script class.
type Language string

// Supported language tags.
const (
	LangEnglish Language = "en"
	LangHindi   Language = "hi"
)

// DetectLanguage classifies a query string by script: any Devanagari rune
// tags the whole query as Hindi, everything else is English. There is no
// mixed-language handling; the first Devanagari rune wins.
func DetectLanguage(text string) Language {
	for _, r := range text {
		if unicode.Is(unicode.Devanagari, r) {
			return LangHindi
		}
	}
	return LangEnglish
}
