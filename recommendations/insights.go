package recommendations

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"bakery/models"
)

// significantChange is the absolute day-over-day change, in percent, above
// which a plan day counts as a production swing.
const significantChange = 20.0

const notAvailable = "Not available"

// WeeklyPattern summarises day-over-day variability in a plan.
type WeeklyPattern struct {
	HighestDay         string
	LowestDay          string
	SignificantChanges int
}

// AnalyzePattern computes day-over-day percent changes of the recommended
// production. The first day has no predecessor and is skipped, as is any day
// where both it and the previous day are zero. Weekday means are taken over
// the remaining days; ties go to the alphabetically first weekday name.
func AnalyzePattern(plan []models.ProductionPlanRow) WeeklyPattern {
	pattern := WeeklyPattern{HighestDay: notAvailable, LowestDay: notAvailable}

	sums := make(map[string]float64)
	counts := make(map[string]int)
	for i := 1; i < len(plan); i++ {
		prev := float64(plan[i-1].RecommendedProduction)
		cur := float64(plan[i].RecommendedProduction)
		change := (cur - prev) / prev * 100
		if math.IsNaN(change) {
			continue
		}
		if math.Abs(change) > significantChange {
			pattern.SignificantChanges++
		}
		name := plan[i].Date.Weekday().String()
		sums[name] += cur
		counts[name]++
	}
	if len(counts) == 0 {
		return pattern
	}

	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Strings(names)

	mean := func(name string) float64 { return sums[name] / float64(counts[name]) }
	pattern.HighestDay, pattern.LowestDay = names[0], names[0]
	for _, name := range names[1:] {
		if mean(name) > mean(pattern.HighestDay) {
			pattern.HighestDay = name
		}
		if mean(name) < mean(pattern.LowestDay) {
			pattern.LowestDay = name
		}
	}
	return pattern
}

// RiskAssessment renders the risk summary for the given number of high-risk days.
func RiskAssessment(highRiskDays int) string {
	if highRiskDays == 0 {
		return "**Risk Assessment**: No high-risk days identified in the forecast period."
	}
	return strings.Join([]string{
		"**Risk Assessment**:",
		fmt.Sprintf("- %d days identified with high forecast uncertainty", highRiskDays),
		"- These days may require special attention and flexible production planning",
		"- Consider having extra staff on hand or preparing more shelf-stable items",
	}, "\n")
}

// AdditionalRecommendations renders the weekday, variability, capacity and
// inventory guidance for a plan.
func AdditionalRecommendations(plan []models.ProductionPlanRow, product string, avgProduction float64, peakProduction int) string {
	var lines []string
	if len(plan) == 0 {
		lines = append(lines,
			"**No Production Data Available**",
			"- No forecast data is available for the selected product and time range.",
			"- Try selecting a different product or extending the forecast period.",
		)
	}
	pattern := AnalyzePattern(plan)

	if product != models.AllProducts {
		lines = append(lines, fmt.Sprintf("**Product Specific (%s):**", product))
	} else {
		lines = append(lines, "**Overall Production:**")
	}

	lines = append(lines,
		fmt.Sprintf("- %ss show the highest average production requirements", pattern.HighestDay),
		fmt.Sprintf("- %ss show the lowest average production requirements", pattern.LowestDay),
		"- Consider adjusting staff scheduling to match this pattern",
	)

	if pattern.SignificantChanges > 0 {
		lines = append(lines,
			"\n**Production Variability:**",
			fmt.Sprintf("- %d days show significant day-to-day production changes (>20%%)", pattern.SignificantChanges),
			"- Consider preparing shelf-stable ingredients in advance for these fluctuations",
			"- Plan staff scheduling carefully around these dates",
		)
	}

	lines = append(lines,
		"\n**Capacity Planning:**",
		fmt.Sprintf("- Peak production day requires %d units", peakProduction),
	)
	if avgProduction > 0 {
		higher := (float64(peakProduction)/avgProduction - 1) * 100
		lines = append(lines, fmt.Sprintf("- This is %.1f%% higher than the average daily production", higher))
	} else {
		lines = append(lines, "- No percentage calculation possible (average production is zero)")
	}
	lines = append(lines,
		"- Ensure that equipment and staff capacity can handle peak days",
		"- Consider pre-producing stable components if peak exceeds production capacity",
	)

	lines = append(lines,
		"\n**Inventory Management:**",
		"- Review ingredient inventory levels based on the forecast",
		"- Schedule deliveries to align with production peaks",
		"- Consider JIT (Just-In-Time) ordering for perishable ingredients",
	)

	return strings.Join(lines, "\n")
}
