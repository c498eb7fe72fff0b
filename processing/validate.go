package processing

import (
	"fmt"
	"strings"

	"bakery/models"
	"bakery/utils"
)

const maxReportedRows = 5

// ValidationReport is the outcome of checking a raw table before normalization.
// Issues are hard problems that block the pipeline; Warnings are soft diagnostics.
type ValidationReport struct {
	OK         bool                `json:"ok"`
	Issues     []string            `json:"issues"`
	Warnings   []models.Diagnostic `json:"warnings"`
	Resolution Resolution          `json:"resolution"`
	Rows       int                 `json:"rows"`
}

// Message joins every hard issue into one itemized block.
func (r *ValidationReport) Message() string {
	if r.OK {
		return "Data validation successful"
	}
	return (&models.ValidationError{Issues: r.Issues}).Error()
}

// Err returns a *models.ValidationError when the report is not OK.
func (r *ValidationReport) Err() error {
	if r.OK {
		return nil
	}
	return &models.ValidationError{Issues: append([]string(nil), r.Issues...)}
}

// Validate checks a raw table for the canonical columns and for values that
// will not survive type coercion. It only returns an error for an empty table;
// every other problem is collected into the report.
func Validate(table *models.RawTable, synonyms SynonymTable) (*ValidationReport, error) {
	if table == nil || len(table.Rows) == 0 {
		src := ""
		if table != nil {
			src = table.Source
		}
		return nil, &models.EmptyInputError{Source: src}
	}

	report := &ValidationReport{
		Resolution: Resolve(table.Headers, synonyms),
		Rows:       len(table.Rows),
	}

	if !report.Resolution.Complete() {
		report.Issues = append(report.Issues, missingColumnsIssue(report.Resolution.Missing, synonyms))
	}

	if col, ok := report.Resolution.Column(models.FieldDate); ok {
		validateDateColumn(report, table, col)
	}
	if col, ok := report.Resolution.Column(models.FieldItem); ok {
		idx := table.ColumnIndex(col)
		var nulls int
		for r := range table.Rows {
			if utils.IsNullCell(table.Cell(r, idx)) {
				nulls++
			}
		}
		if nulls > 0 {
			report.Warnings = append(report.Warnings, models.Diagnostic{
				Kind:    models.MissingValuesWarning,
				Field:   string(models.FieldItem),
				Count:   nulls,
				Message: fmt.Sprintf("Item column '%s' has %d missing values; those rows will be dropped", col, nulls),
			})
		}
	}
	for _, field := range []models.CanonicalField{models.FieldQuantity, models.FieldRevenue, models.FieldCogs} {
		if col, ok := report.Resolution.Column(field); ok {
			validateNumericColumn(report, table, field, col)
		}
	}

	report.OK = len(report.Issues) == 0
	return report, nil
}

func missingColumnsIssue(missing []models.CanonicalField, synonyms SynonymTable) string {
	names := make([]string, len(missing))
	hints := make([]string, len(missing))
	for i, f := range missing {
		names[i] = string(f)
		hints[i] = fmt.Sprintf("%s: %s", f, synonyms.AcceptedNames(f))
	}
	return fmt.Sprintf("Missing required columns: %s (accepted names, %s)", strings.Join(names, ", "), strings.Join(hints, "; "))
}

func validateDateColumn(report *ValidationReport, table *models.RawTable, col string) {
	idx := table.ColumnIndex(col)
	var nulls int
	var bad []int
	var layout string
	for r := range table.Rows {
		cell := table.Cell(r, idx)
		if utils.IsNullCell(cell) {
			nulls++
			continue
		}
		if layout == "" {
			layout, _ = utils.InferDateLayout(cell)
		}
		if layout != "" {
			if _, ok := utils.ParseDateWithLayout(layout, cell); ok {
				continue
			}
		}
		if _, ok := utils.ParseDateLenient(cell); !ok {
			bad = append(bad, r)
		}
	}

	if nulls > 0 {
		report.Warnings = append(report.Warnings, models.Diagnostic{
			Kind:    models.MissingValuesWarning,
			Field:   string(models.FieldDate),
			Count:   nulls,
			Message: fmt.Sprintf("Date column '%s' has %d missing values; those rows will be dropped", col, nulls),
		})
	}
	if len(bad) > 0 {
		report.Issues = append(report.Issues, fmt.Sprintf(
			"Error converting date column '%s' to dates: %d values could not be parsed (rows %s)",
			col, len(bad), formatRows(bad)))
	}
}

func validateNumericColumn(report *ValidationReport, table *models.RawTable, field models.CanonicalField, col string) {
	idx := table.ColumnIndex(col)
	var nulls int
	var bad []int
	for r := range table.Rows {
		cell := table.Cell(r, idx)
		if utils.IsNullCell(cell) {
			nulls++
			continue
		}
		if _, ok := utils.ParseNumber(cell); !ok {
			bad = append(bad, r)
		}
	}
	if nulls == 0 && len(bad) == 0 {
		return
	}

	consequence := "defaulted to 0"
	if field == models.FieldQuantity {
		consequence = "dropped"
	}
	msg := fmt.Sprintf("Column '%s' (%s) has %d missing values and %d non-numeric values", col, field, nulls, len(bad))
	if len(bad) > 0 {
		msg += fmt.Sprintf(" (rows %s)", formatRows(bad))
	}
	msg += fmt.Sprintf("; affected rows will be %s", consequence)

	report.Warnings = append(report.Warnings, models.Diagnostic{
		Kind:    models.NumericCoercionWarning,
		Field:   string(field),
		Count:   nulls + len(bad),
		Rows:    firstRows(bad),
		Message: msg,
	})
}

func firstRows(rows []int) []int {
	if len(rows) > maxReportedRows {
		rows = rows[:maxReportedRows]
	}
	return append([]int(nil), rows...)
}

func formatRows(rows []int) string {
	shown := firstRows(rows)
	parts := make([]string, len(shown))
	for i, r := range shown {
		parts[i] = fmt.Sprint(r)
	}
	s := strings.Join(parts, ", ")
	if len(rows) > len(shown) {
		s += ", ..."
	}
	return s
}
