// Package i18n holds display strings for the supported languages and the
// process-wide language selection. Language never affects assignment logic.
package i18n

import (
	"strings"
	"sync"

	teamserr "github.com/amterp/teams/internal/errors"
	"golang.org/x/text/language"
)

// Language is one of the supported display languages.
type Language string

const (
	English Language = "en"
	Latvian Language = "lv"
	Russian Language = "ru"
)

// Default is the language used until something else is selected.
const Default = Russian

// Supported lists every language in menu order.
var Supported = []Language{English, Latvian, Russian}

// Names are the languages' own names, for language pickers.
var Names = map[Language]string{
	English: "English",
	Latvian: "Latviešu",
	Russian: "Русский",
}

// The matcher's first tag is what unmatched requests fall back to.
var matcher = language.NewMatcher([]language.Tag{
	language.Russian,
	language.English,
	language.Latvian,
})

var matcherLanguages = []Language{Russian, English, Latvian}

// Parse accepts a BCP 47 tag such as "lv" or "en-GB" and returns the
// supported language with the same base.
func Parse(code string) (Language, error) {
	tag, err := language.Parse(strings.TrimSpace(code))
	if err != nil {
		return "", teamserr.LanguageNotFound(code)
	}
	base, _ := tag.Base()
	for _, l := range Supported {
		if base.String() == string(l) {
			return l, nil
		}
	}
	return "", teamserr.LanguageNotFound(code)
}

// Match picks the best supported language for an Accept-Language header,
// falling back to Default.
func Match(acceptLanguage string) Language {
	if strings.TrimSpace(acceptLanguage) == "" {
		return Default
	}
	_, idx := language.MatchStrings(matcher, acceptLanguage)
	if idx < 0 || idx >= len(matcherLanguages) {
		return Default
	}
	return matcherLanguages[idx]
}

// Locale is the process-wide language selection with an explicit default.
type Locale struct {
	mu   sync.RWMutex
	lang Language
}

// NewLocale returns a locale set to lang.
func NewLocale(lang Language) *Locale {
	return &Locale{lang: lang}
}

// Current returns the selected language.
func (l *Locale) Current() Language {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.lang
}

// Set selects a language.
func (l *Locale) Set(lang Language) {
	l.mu.Lock()
	l.lang = lang
	l.mu.Unlock()
}

// T translates key in the selected language.
func (l *Locale) T(key Key) string {
	return Translate(l.Current(), key)
}

var global = NewLocale(Default)

// Global returns the process-wide locale.
func Global() *Locale {
	return global
}
