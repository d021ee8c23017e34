// Package lang maps between the language display names used by the query
// surface ("English", "Chinese-Simplified", "Auto") and the values expected
// on the wire by translation backends.
package lang

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// Auto is the display name for automatic source language detection.
const Auto = "Auto"

// ServiceLanguage converts a language display name into the tag expected by
// dedicated translation models. "Auto" becomes "auto", and every Chinese
// regional variant collapses to the single "Chinese" family tag the backend
// understands. Other names pass through unchanged.
func ServiceLanguage(name string) string {
	if name == Auto {
		return "auto"
	}
	if strings.Contains(name, "Chinese") {
		return "Chinese"
	}
	return name
}

// displayAliases covers the tags the query surface uses that either are not
// valid BCP 47 or carry an Easydict-specific display name.
var displayAliases = map[string]string{
	"auto":   Auto,
	"zh-CHS": "Chinese-Simplified",
	"zh-CHT": "Chinese-Traditional",
	"zh":     "Chinese-Simplified",
	"yue":    "Cantonese",
}

// DisplayName returns the English display name for a language tag. Unknown
// or unparseable tags are returned as-is so a query never fails on naming.
func DisplayName(tag string) string {
	if name, ok := displayAliases[tag]; ok {
		return name
	}
	t, err := language.Parse(tag)
	if err != nil {
		return tag
	}
	name := display.English.Languages().Name(t)
	if name == "" {
		return tag
	}
	return name
}
