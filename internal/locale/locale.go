// Package locale defines the canonical target-language identifiers
// accepted by the dubbing backend. Every interface in this codebase
// takes a Locale value; short codes ("fr") and display names ("French")
// are accepted only at the input boundary via Resolve.
package locale

import (
	"fmt"
	"sort"
	"strings"
)

// Locale is one supported dubbing target.
type Locale struct {
	// Short is the two-letter selector shown in menus, e.g. "fr".
	Short string
	// Code is the canonical identifier sent to the dubbing service, e.g. "fr_FR".
	Code string
	// Name is the human-readable language name, e.g. "French".
	Name string
	// Voice is the default voice id the backend uses for this locale.
	Voice string
}

var table = []Locale{
	{Short: "fr", Code: "fr_FR", Name: "French", Voice: "fr-FR-theo"},
	{Short: "de", Code: "de_DE", Name: "German", Voice: "de-DE-marcus"},
	{Short: "es", Code: "es_ES", Name: "Spanish", Voice: "es-ES-maria"},
	{Short: "hi", Code: "hi_IN", Name: "Hindi", Voice: "hi-IN-priya"},
	{Short: "ja", Code: "ja_JP", Name: "Japanese", Voice: "ja-JP-hiro"},
	{Short: "en", Code: "en_US", Name: "English", Voice: "en-US-marcus"},
	{Short: "ko", Code: "ko_KR", Name: "Korean", Voice: "ko-KR-minjun"},
	{Short: "zh", Code: "zh_CN", Name: "Chinese", Voice: "zh-CN-xiaoyu"},
}

// Default is the locale used when the operator just presses enter.
var Default = table[5] // en_US

// All returns the supported locales sorted by short code.
func All() []Locale {
	out := make([]Locale, len(table))
	copy(out, table)
	sort.Slice(out, func(i, j int) bool { return out[i].Short < out[j].Short })
	return out
}

// Resolve maps any accepted spelling of a target language to its
// canonical Locale: the short code, the canonical code, or the display
// name, case-insensitively.
func Resolve(s string) (Locale, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	if key == "" {
		return Locale{}, fmt.Errorf("locale: empty language selector")
	}
	for _, l := range table {
		if key == l.Short || key == strings.ToLower(l.Code) || key == strings.ToLower(l.Name) {
			return l, nil
		}
	}
	return Locale{}, fmt.Errorf("locale: unsupported language %q", s)
}

// ShortCodes returns the menu selector codes in table order.
func ShortCodes() []string {
	out := make([]string, 0, len(table))
	for _, l := range table {
		out = append(out, l.Short)
	}
	return out
}
