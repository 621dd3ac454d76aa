package i18n

import "testing"

func TestGetTranslations(t *testing.T) {
	en := GetTranslations("en")
	if en.Errors.InvalidURL == "" {
		t.Error("en invalid_url message is empty")
	}

	tr := GetTranslations("tr")
	if tr.Errors.InvalidURL == "" {
		t.Error("tr invalid_url message is empty")
	}
	if en.Errors.InvalidURL == tr.Errors.InvalidURL {
		t.Error("en and tr messages should differ")
	}
}

func TestGetTranslationsUnknownFallsBack(t *testing.T) {
	en := GetTranslations("en")
	xx := GetTranslations("xx")
	if xx != en {
		t.Error("unknown language should return the default translations")
	}
}

func TestGetTranslationsFallbackCached(t *testing.T) {
	first := GetTranslations("zz")

	cacheMutex.RLock()
	cached, ok := translationsCache["zz"]
	cacheMutex.RUnlock()
	if !ok {
		t.Fatal("fallback result was not cached under the requested key")
	}
	if cached != first {
		t.Error("cached entry differs from the returned translations")
	}
	if second := GetTranslations("zz"); second != first {
		t.Error("second lookup did not hit the cache")
	}
}
