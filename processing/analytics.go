package processing

import (
	"sort"
	"time"

	"bakery/models"
)

const topProductsLimit = 10

// Summarize computes the descriptive views shown next to the forecast.
func Summarize(records []models.EnrichedRecord) models.Analytics {
	return models.Analytics{
		Summary:             Summary(records),
		DailyRevenue:        DailyRevenue(records),
		ProductDistribution: ProductDistribution(records, topProductsLimit),
		WeekdayAverages:     WeekdayAverages(records),
		MonthlyAverages:     MonthlyAverages(records),
	}
}

// Summary returns totals, the date range and the sorted product list.
func Summary(records []models.EnrichedRecord) models.SalesSummary {
	s := models.SalesSummary{Rows: len(records), Products: Products(records)}
	if len(records) == 0 {
		return s
	}
	s.StartDate = records[0].Date
	s.EndDate = records[0].Date
	var marginSum float64
	for _, r := range records {
		if r.Date.Before(s.StartDate) {
			s.StartDate = r.Date
		}
		if r.Date.After(s.EndDate) {
			s.EndDate = r.Date
		}
		s.TotalQuantity += r.Quantity
		s.TotalRevenue += r.Revenue
		s.TotalCogs += r.Cogs
		s.TotalProfit += r.Profit
		marginSum += r.ProfitMargin
	}
	s.AverageMargin = marginSum / float64(len(records))
	return s
}

// Products lists the distinct items in alphabetical order.
func Products(records []models.EnrichedRecord) []string {
	seen := make(map[string]bool)
	products := make([]string, 0)
	for _, r := range records {
		if !seen[r.Item] {
			seen[r.Item] = true
			products = append(products, r.Item)
		}
	}
	sort.Strings(products)
	return products
}

// DailyRevenue sums revenue per date, ascending.
func DailyRevenue(records []models.EnrichedRecord) []models.DailyRevenue {
	byDate := make(map[time.Time]float64)
	for _, r := range records {
		byDate[r.Date] += r.Revenue
	}
	out := make([]models.DailyRevenue, 0, len(byDate))
	for d, v := range byDate {
		out = append(out, models.DailyRevenue{Date: d, Revenue: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

// ProductDistribution ranks items by total quantity sold. A limit <= 0 keeps all items.
func ProductDistribution(records []models.EnrichedRecord, limit int) []models.ProductQuantity {
	byItem := make(map[string]float64)
	for _, r := range records {
		byItem[r.Item] += r.Quantity
	}
	out := make([]models.ProductQuantity, 0, len(byItem))
	for item, q := range byItem {
		out = append(out, models.ProductQuantity{Item: item, Quantity: q})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Quantity != out[j].Quantity {
			return out[i].Quantity > out[j].Quantity
		}
		return out[i].Item < out[j].Item
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// WeekdayAverages returns the mean daily quantity per weekday, Monday first.
// Quantities are first summed per date so that multi-item days count once.
func WeekdayAverages(records []models.EnrichedRecord) []models.PeriodAverage {
	daily := dailyQuantity(records)
	sums := make(map[time.Weekday]float64)
	counts := make(map[time.Weekday]int)
	for d, q := range daily {
		sums[d.Weekday()] += q
		counts[d.Weekday()]++
	}
	order := []time.Weekday{time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday, time.Saturday, time.Sunday}
	out := make([]models.PeriodAverage, 0, len(order))
	for _, wd := range order {
		if counts[wd] == 0 {
			continue
		}
		out = append(out, models.PeriodAverage{Period: wd.String(), Quantity: sums[wd] / float64(counts[wd])})
	}
	return out
}

// MonthlyAverages returns the mean daily quantity per calendar month, January first.
func MonthlyAverages(records []models.EnrichedRecord) []models.PeriodAverage {
	daily := dailyQuantity(records)
	sums := make(map[time.Month]float64)
	counts := make(map[time.Month]int)
	for d, q := range daily {
		sums[d.Month()] += q
		counts[d.Month()]++
	}
	out := make([]models.PeriodAverage, 0, 12)
	for m := time.January; m <= time.December; m++ {
		if counts[m] == 0 {
			continue
		}
		out = append(out, models.PeriodAverage{Period: m.String(), Quantity: sums[m] / float64(counts[m])})
	}
	return out
}

func dailyQuantity(records []models.EnrichedRecord) map[time.Time]float64 {
	daily := make(map[time.Time]float64)
	for _, r := range records {
		daily[r.Date] += r.Quantity
	}
	return daily
}
