package dataset

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// RenameColumn turns a raw header into its canonical snake_case name:
// every word is title-cased, spaces are removed and the resulting
// CamelCase is split on word boundaries.
//
//	"Restaurant ID"        -> "restaurant_id"
//	"Average Cost for two" -> "average_cost_for_two"
func RenameColumn(header string) string {
	titled := cases.Title(language.Und).String(strings.TrimSpace(header))
	return toSnake(strings.ReplaceAll(titled, " ", ""))
}

func toSnake(s string) string {
	runes := []rune(s)
	var b strings.Builder
	b.Grow(len(s) + 4)

	for i, r := range runes {
		if r == '-' {
			b.WriteRune('_')
			continue
		}
		if unicode.IsUpper(r) && i > 0 {
			prev := runes[i-1]
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
				b.WriteRune('_')
			}
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}
