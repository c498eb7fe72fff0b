package forecasting

import (
	"sort"
	"time"

	"bakery/models"
)

// ToSeries builds the daily series for one product, or for every product when
// product is models.AllProducts. Rows sharing a date are summed.
func ToSeries(records []models.EnrichedRecord, product string) []models.SeriesPoint {
	series := make([]models.SeriesPoint, 0, len(records))
	for _, r := range records {
		if product != models.AllProducts && r.Item != product {
			continue
		}
		series = append(series, models.SeriesPoint{
			Date:     r.Date,
			Quantity: r.Quantity,
			Revenue:  r.Revenue,
			Cogs:     r.Cogs,
		})
	}
	return CollapseDuplicates(series)
}

// SeriesByProduct builds one daily series per item.
func SeriesByProduct(records []models.EnrichedRecord) map[string][]models.SeriesPoint {
	grouped := make(map[string][]models.SeriesPoint)
	for _, r := range records {
		grouped[r.Item] = append(grouped[r.Item], models.SeriesPoint{
			Date:     r.Date,
			Quantity: r.Quantity,
			Revenue:  r.Revenue,
			Cogs:     r.Cogs,
		})
	}
	for item, s := range grouped {
		grouped[item] = CollapseDuplicates(s)
	}
	return grouped
}

// CollapseDuplicates sums observations that share a date and sorts the result.
func CollapseDuplicates(series []models.SeriesPoint) []models.SeriesPoint {
	byDate := make(map[time.Time]int, len(series))
	out := make([]models.SeriesPoint, 0, len(series))
	for _, p := range series {
		if i, ok := byDate[p.Date]; ok {
			out[i].Quantity += p.Quantity
			out[i].Revenue += p.Revenue
			out[i].Cogs += p.Cogs
			continue
		}
		byDate[p.Date] = len(out)
		out = append(out, p)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}
