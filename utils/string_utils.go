package utils

import "strings"

// NormalizeHeader lowercases a column name, trims it and folds '_' and '-' into
// single spaces so "Units_Sold" and "units sold" compare equal.
func NormalizeHeader(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	name = strings.NewReplacer("_", " ", "-", " ").Replace(name)
	return strings.Join(strings.Fields(name), " ")
}

var nullTokens = map[string]bool{
	"":     true,
	"na":   true,
	"n/a":  true,
	"nan":  true,
	"null": true,
	"none": true,
	"nat":  true,
	"-":    true,
}

// IsNullCell reports whether a raw cell holds no value.
func IsNullCell(cell string) bool {
	return nullTokens[strings.ToLower(strings.TrimSpace(cell))]
}
