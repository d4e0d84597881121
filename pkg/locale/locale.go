// Package locale resolves BCP 47 language codes to display names. It
// replaces per-entity locale validation with a single shared helper.
package locale

import (
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

var namer = display.English.Languages()

// Known reports whether code parses as a well-formed language tag.
func Known(code string) bool {
	_, err := language.Parse(code)
	return err == nil
}

// LanguageName returns the English display name for a language code. The
// second return value is false when the code cannot be parsed or has no
// display name.
func LanguageName(code string) (string, bool) {
	tag, err := language.Parse(code)
	if err != nil {
		return "", false
	}
	name := namer.Name(tag)
	if name == "" {
		return "", false
	}
	return name, true
}
