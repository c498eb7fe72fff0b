package utils

import (
	"strings"

	"bakery/models"
)

var ValidSeasonalityModes = map[string]models.SeasonalityMode{
	"additive":       models.SeasonalityAdditive,
	"multiplicative": models.SeasonalityMultiplicative,
}

// ValidateAndNormalizeSeasonalityMode lowercases a mode name and reports whether it is supported.
// An empty name selects the additive default.
func ValidateAndNormalizeSeasonalityMode(mode string) (models.SeasonalityMode, bool) {
	normalized := strings.ToLower(strings.TrimSpace(mode))
	if normalized == "" {
		return models.SeasonalityAdditive, true
	}
	m, ok := ValidSeasonalityModes[normalized]
	if !ok {
		return models.SeasonalityMode(normalized), false
	}
	return m, true
}
