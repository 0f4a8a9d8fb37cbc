// Package locale derives the decimal separator used for durations from a
// language tag or from the POSIX locale environment variables.
package locale

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const fallback = '.'

// Separator returns the decimal separator numbers use in tag. Separators the
// duration grammar cannot carry (non-ASCII ones such as the Arabic U+066B)
// fall back to '.'.
func Separator(tag language.Tag) rune {
	if tag == language.Und {
		return fallback
	}
	// "0.5" printed for the locale holds the separator between the digits,
	// whatever digit script the locale uses.
	s := message.NewPrinter(tag).Sprintf("%.1f", 0.5)
	_, size := utf8.DecodeRuneInString(s)
	sep, _ := utf8.DecodeRuneInString(s[size:])
	if sep == utf8.RuneError || sep > unicode.MaxASCII || unicode.IsDigit(sep) {
		return fallback
	}
	return sep
}

// Tag parses a POSIX locale name such as "de_DE.UTF-8@euro". The C and POSIX
// locales and unparsable names yield language.Und.
func Tag(posix string) language.Tag {
	name := posix
	if i := strings.IndexAny(name, ".@"); i >= 0 {
		name = name[:i]
	}
	name = strings.TrimSpace(name)
	if name == "" || name == "C" || name == "POSIX" {
		return language.Und
	}
	tag, err := language.Parse(strings.ReplaceAll(name, "_", "-"))
	if err != nil {
		return language.Und
	}
	return tag
}

// FromEnv returns the numeric locale named by LC_ALL, LC_NUMERIC or LANG, in
// that order of precedence. lookup is usually os.LookupEnv.
func FromEnv(lookup func(string) (string, bool)) language.Tag {
	for _, key := range []string{"LC_ALL", "LC_NUMERIC", "LANG"} {
		if v, ok := lookup(key); ok && v != "" {
			return Tag(v)
		}
	}
	return language.Und
}
