package processing

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"bakery/models"
	"bakery/utils"
)

// NormalizeResult holds the enriched records and the diagnostics collected on the way.
type NormalizeResult struct {
	Records     []models.EnrichedRecord `json:"-"`
	Diagnostics []models.Diagnostic     `json:"diagnostics"`
	Dropped     int                     `json:"dropped"`
	LenientDate bool                    `json:"lenientDate"`
}

// Normalize resolves, types and enriches a raw table. Rows whose date, item
// or quantity cannot be parsed are dropped; missing revenue and cogs become 0.
// The output is stable-sorted by date.
func Normalize(table *models.RawTable, synonyms SynonymTable) (*NormalizeResult, error) {
	if table == nil || len(table.Rows) == 0 {
		src := ""
		if table != nil {
			src = table.Source
		}
		return nil, &models.EmptyInputError{Source: src}
	}

	res := Resolve(table.Headers, synonyms)
	if !res.Complete() {
		return nil, &models.SchemaError{Missing: res.Missing}
	}

	idx := make(map[models.CanonicalField]int, len(models.CanonicalFields))
	for _, f := range models.CanonicalFields {
		col, _ := res.Column(f)
		idx[f] = table.ColumnIndex(col)
		if idx[f] < 0 {
			return nil, &models.SchemaError{Missing: []models.CanonicalField{f}}
		}
	}

	dateCol, _ := res.Column(models.FieldDate)
	dates, lenient, err := coerceDates(table, idx[models.FieldDate], dateCol)
	if err != nil {
		return nil, err
	}

	out := &NormalizeResult{
		Records:     make([]models.EnrichedRecord, 0, len(table.Rows)),
		LenientDate: lenient,
	}

	var noDate, noItem, noQty, negQty, revDefaulted, cogsDefaulted int
	for r := range table.Rows {
		date := dates[r]
		if date == nil {
			noDate++
			continue
		}
		item := strings.TrimSpace(table.Cell(r, idx[models.FieldItem]))
		if utils.IsNullCell(item) {
			noItem++
			continue
		}
		qty, ok := utils.ParseNumber(table.Cell(r, idx[models.FieldQuantity]))
		if !ok {
			noQty++
			continue
		}
		if qty < 0 {
			negQty++
			continue
		}
		revenue, ok := utils.ParseNumber(table.Cell(r, idx[models.FieldRevenue]))
		if !ok {
			revDefaulted++
		}
		cogs, ok := utils.ParseNumber(table.Cell(r, idx[models.FieldCogs]))
		if !ok {
			cogsDefaulted++
		}

		out.Records = append(out.Records, Enrich(models.CanonicalRecord{
			Date:     *date,
			Item:     item,
			Quantity: qty,
			Revenue:  revenue,
			Cogs:     cogs,
		}))
	}

	sort.SliceStable(out.Records, func(i, j int) bool {
		return out.Records[i].Date.Before(out.Records[j].Date)
	})

	out.Dropped = noDate + noItem + noQty + negQty
	addDropped := func(count int, field models.CanonicalField, reason string) {
		if count == 0 {
			return
		}
		out.Diagnostics = append(out.Diagnostics, models.Diagnostic{
			Kind:    models.DroppedRowsWarning,
			Field:   string(field),
			Count:   count,
			Message: fmt.Sprintf("Dropped %d rows with %s", count, reason),
		})
	}
	addDropped(noDate, models.FieldDate, "a missing or unparseable date")
	addDropped(noItem, models.FieldItem, "a missing item")
	addDropped(noQty, models.FieldQuantity, "a missing or non-numeric quantity")
	addDropped(negQty, models.FieldQuantity, "a negative quantity")

	addDefaulted := func(count int, field models.CanonicalField) {
		if count == 0 {
			return
		}
		out.Diagnostics = append(out.Diagnostics, models.Diagnostic{
			Kind:    models.NumericCoercionWarning,
			Field:   string(field),
			Count:   count,
			Message: fmt.Sprintf("Set %s to 0 on %d rows with missing or non-numeric values", field, count),
		})
	}
	addDefaulted(revDefaulted, models.FieldRevenue)
	addDefaulted(cogsDefaulted, models.FieldCogs)

	return out, nil
}

// coerceDates parses the date column. A strict pass uses one layout inferred
// from the first value; if any non-empty value fails it, every value is
// retried against all known layouts. Entries stay nil for rows to drop.
func coerceDates(table *models.RawTable, col int, name string) ([]*time.Time, bool, error) {
	dates := make([]*time.Time, len(table.Rows))

	var layout, sample string
	nonNull := 0
	strictOK := true
	for r := range table.Rows {
		cell := table.Cell(r, col)
		if utils.IsNullCell(cell) {
			continue
		}
		nonNull++
		if sample == "" {
			sample = cell
			layout, _ = utils.InferDateLayout(cell)
		}
		if layout == "" {
			strictOK = false
			break
		}
		t, ok := utils.ParseDateWithLayout(layout, cell)
		if !ok {
			strictOK = false
			break
		}
		dates[r] = &t
	}
	if nonNull == 0 || strictOK {
		return dates, false, nil
	}

	parsed := 0
	for r := range table.Rows {
		dates[r] = nil
		cell := table.Cell(r, col)
		if utils.IsNullCell(cell) {
			continue
		}
		if t, ok := utils.ParseDateLenient(cell); ok {
			dates[r] = &t
			parsed++
		}
	}
	if parsed == 0 {
		return nil, true, &models.DateParseError{Column: name, Sample: sample}
	}
	return dates, true, nil
}

// Enrich derives profit, margin and calendar features from a canonical record.
func Enrich(rec models.CanonicalRecord) models.EnrichedRecord {
	profit := rec.Revenue - rec.Cogs
	margin := 0.0
	if rec.Revenue != 0 {
		margin = profit / rec.Revenue * 100
		if math.IsNaN(margin) || math.IsInf(margin, 0) {
			margin = 0
		}
	}
	_, week := rec.Date.ISOWeek()
	return models.EnrichedRecord{
		CanonicalRecord: rec,
		Profit:          profit,
		ProfitMargin:    margin,
		DayOfWeek:       rec.Date.Weekday().String(),
		Month:           rec.Date.Month().String(),
		Year:            rec.Date.Year(),
		Day:             rec.Date.Day(),
		WeekOfYear:      week,
	}
}
