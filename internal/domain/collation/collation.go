package collation

import (
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Comparer orders display names case-insensitively
type Comparer func(a, b string) int

// NewComparer returns a case-insensitive, locale-aware string comparison.
// A collate.Collator is not safe for concurrent use, so every sort gets its own.
func NewComparer() Comparer {
	collator := collate.New(language.English, collate.IgnoreCase)
	return func(a, b string) int {
		return collator.CompareString(a, b)
	}
}
