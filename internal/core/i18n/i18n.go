package i18n

import (
	"embed"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed locales/*.yml
var localesFS embed.FS

// Translations holds all translation strings organized by section
type Translations struct {
	Errors ErrorTranslations  `yaml:"errors"`
	Server ServerTranslations `yaml:"server"`
}

// ErrorTranslations holds the user-facing message for each error kind.
// These are the only strings that ever reach an API caller on failure.
type ErrorTranslations struct {
	InvalidURL          string `yaml:"invalid_url"`
	UnsupportedPlatform string `yaml:"unsupported_platform"`
	RateLimited         string `yaml:"rate_limited"`
	Timeout             string `yaml:"timeout"`
	NotFound            string `yaml:"not_found"`
	Forbidden           string `yaml:"forbidden"`
	NoFormat            string `yaml:"no_format"`
	Upstream            string `yaml:"upstream"`
	TooLarge            string `yaml:"too_large"`
	Internal            string `yaml:"internal"`
}

// ServerTranslations holds translations for server log messages
type ServerTranslations struct {
	NoConfigWarning string `yaml:"no_config_warning"`
	RunInitHint     string `yaml:"run_init_hint"`
	Started         string `yaml:"started"`
}

var (
	translationsCache = make(map[string]*Translations)
	cacheMutex        sync.RWMutex
	defaultLang       = "en"
)

// SupportedLanguages returns all available language codes
var SupportedLanguages = []struct {
	Code string
	Name string
}{
	{"tr", "Türkçe"},
	{"en", "English"},
}

// GetTranslations returns translations for the specified language
func GetTranslations(lang string) *Translations {
	cacheMutex.RLock()
	if t, ok := translationsCache[lang]; ok {
		cacheMutex.RUnlock()
		return t
	}
	cacheMutex.RUnlock()

	t, err := loadTranslations(lang)
	if err != nil {
		if lang != defaultLang {
			// Cache the fallback under the requested key so unknown
			// languages do not re-read the embedded files on every call.
			t = GetTranslations(defaultLang)
		} else {
			t = &Translations{}
		}
	}

	cacheMutex.Lock()
	translationsCache[lang] = t
	cacheMutex.Unlock()

	return t
}

func loadTranslations(lang string) (*Translations, error) {
	filename := fmt.Sprintf("locales/%s.yml", lang)
	data, err := localesFS.ReadFile(filename)
	if err != nil {
		return nil, err
	}

	var t Translations
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, err
	}

	return &t, nil
}

// T is a convenience function for getting translations
func T(lang string) *Translations {
	return GetTranslations(lang)
}
