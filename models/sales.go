package models

import "time"

// CanonicalField names one of the fields every sales record must carry.
type CanonicalField string

const (
	FieldDate     CanonicalField = "date"
	FieldItem     CanonicalField = "item"
	FieldQuantity CanonicalField = "quantity"
	FieldRevenue  CanonicalField = "revenue"
	FieldCogs     CanonicalField = "cogs"
)

// CanonicalFields lists the required fields in resolution order.
var CanonicalFields = []CanonicalField{FieldDate, FieldItem, FieldQuantity, FieldRevenue, FieldCogs}

// AllProducts selects the aggregate series across every item.
const AllProducts = "All Products"

// RawTable is an uploaded table before any typing: a header row plus string cells.
type RawTable struct {
	Source  string     `json:"source"`
	Headers []string   `json:"headers"`
	Rows    [][]string `json:"-"`
}

// Cell returns the cell at row/col, or "" for ragged rows.
func (t *RawTable) Cell(row, col int) string {
	if row < 0 || row >= len(t.Rows) || col < 0 || col >= len(t.Rows[row]) {
		return ""
	}
	return t.Rows[row][col]
}

// ColumnIndex returns the position of header name, or -1.
func (t *RawTable) ColumnIndex(name string) int {
	for i, h := range t.Headers {
		if h == name {
			return i
		}
	}
	return -1
}

// CanonicalRecord is a typed sales row after normalization.
type CanonicalRecord struct {
	Date     time.Time `json:"date"`
	Item     string    `json:"item"`
	Quantity float64   `json:"quantity"`
	Revenue  float64   `json:"revenue"`
	Cogs     float64   `json:"cogs"`
}

// EnrichedRecord adds profit and calendar features to a CanonicalRecord.
type EnrichedRecord struct {
	CanonicalRecord
	Profit       float64 `json:"profit"`
	ProfitMargin float64 `json:"profit_margin"`
	DayOfWeek    string  `json:"day_of_week"`
	Month        string  `json:"month"`
	Year         int     `json:"year"`
	Day          int     `json:"day"`
	WeekOfYear   int     `json:"week_of_year"`
}

// SeriesPoint is one observation of a daily sales series.
type SeriesPoint struct {
	Date     time.Time `json:"date"`
	Quantity float64   `json:"quantity"`
	Revenue  float64   `json:"revenue"`
	Cogs     float64   `json:"cogs"`
}

// SalesSummary holds headline figures for a normalized dataset.
type SalesSummary struct {
	Rows          int       `json:"rows"`
	Products      []string  `json:"products"`
	StartDate     time.Time `json:"startDate"`
	EndDate       time.Time `json:"endDate"`
	TotalQuantity float64   `json:"totalQuantity"`
	TotalRevenue  float64   `json:"totalRevenue"`
	TotalCogs     float64   `json:"totalCogs"`
	TotalProfit   float64   `json:"totalProfit"`
	AverageMargin float64   `json:"averageMargin"`
}

// DailyRevenue is revenue summed over one date.
type DailyRevenue struct {
	Date    time.Time `json:"date"`
	Revenue float64   `json:"revenue"`
}

// ProductQuantity is total quantity sold for one item.
type ProductQuantity struct {
	Item     string  `json:"item"`
	Quantity float64 `json:"quantity"`
}

// PeriodAverage is the mean quantity for a weekday or month bucket.
type PeriodAverage struct {
	Period   string  `json:"period"`
	Quantity float64 `json:"quantity"`
}

// Analytics bundles the descriptive views of a dataset.
type Analytics struct {
	Summary             SalesSummary      `json:"summary"`
	DailyRevenue        []DailyRevenue    `json:"dailyRevenue"`
	ProductDistribution []ProductQuantity `json:"productDistribution"`
	WeekdayAverages     []PeriodAverage   `json:"weekdayAverages"`
	MonthlyAverages     []PeriodAverage   `json:"monthlyAverages"`
}
