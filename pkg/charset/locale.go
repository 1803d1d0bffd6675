package charset

import (
	"os"
	"strings"
)

const defaultEncoding = "UTF-8"

// LocaleEncoding resolves the codeset name the environment declares
// for text interpretation, consulting LC_ALL, LC_CTYPE and LANG in
// that order. A locale without a codeset suffix, and an environment
// with none of the variables set, resolve to UTF-8. The result is
// environment-dependent by nature.
func LocaleEncoding() string {
	for _, key := range []string{"LC_ALL", "LC_CTYPE", "LANG"} {
		if v := os.Getenv(key); v != "" {
			return extractCodeset(v)
		}
	}
	return defaultEncoding
}

// extractCodeset pulls the codeset out of a locale name such as
// "de_DE.ISO-8859-15@euro".
func extractCodeset(locale string) string {
	if i := strings.IndexByte(locale, '@'); i >= 0 {
		locale = locale[:i]
	}
	if i := strings.IndexByte(locale, '.'); i >= 0 && i+1 < len(locale) {
		return locale[i+1:]
	}
	return defaultEncoding
}
