package processing

import "bakery/models"

func newTable(headers []string, rows ...[]string) *models.RawTable {
	return &models.RawTable{Source: "test.csv", Headers: headers, Rows: rows}
}

var canonicalHeaders = []string{"date", "item", "quantity", "revenue", "cogs"}
