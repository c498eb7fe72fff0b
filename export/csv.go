// Package export writes forecasts and production plans as downloadable CSV tables.
package export

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"bakery/models"
)

const dateLayout = "2006-01-02"

var (
	forecastHeader = []string{"Date", "Forecast", "Lower Bound", "Upper Bound"}
	planHeader     = []string{"Date", "Forecasted Sales", "Recommended Production", "Risk Level"}
)

// WriteForecastCSV writes the forecast detail with values rounded to two decimals.
func WriteForecastCSV(w io.Writer, points []models.ForecastPoint) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(forecastHeader); err != nil {
		return err
	}
	for _, p := range points {
		if err := cw.Write([]string{
			p.Date.Format(dateLayout),
			strconv.FormatFloat(p.Estimate, 'f', 2, 64),
			strconv.FormatFloat(p.Lower, 'f', 2, 64),
			strconv.FormatFloat(p.Upper, 'f', 2, 64),
		}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WritePlanCSV writes the daily production plan.
func WritePlanCSV(w io.Writer, plan []models.ProductionPlanRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(planHeader); err != nil {
		return err
	}
	for _, row := range plan {
		if err := cw.Write([]string{
			row.Date.Format(dateLayout),
			strconv.Itoa(row.ForecastedSales),
			strconv.Itoa(row.RecommendedProduction),
			string(row.RiskLevel),
		}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadPlanCSV parses a table written by WritePlanCSV. Only the exported
// columns are populated.
func ReadPlanCSV(r io.Reader) ([]models.ProductionPlanRow, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(planHeader)

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &models.EmptyInputError{Source: "production plan"}
		}
		return nil, fmt.Errorf("read plan header: %w", err)
	}
	if strings.Join(header, ",") != strings.Join(planHeader, ",") {
		return nil, fmt.Errorf("unexpected plan header %q", header)
	}

	plan := make([]models.ProductionPlanRow, 0)
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read plan: %w", err)
		}
		date, err := time.Parse(dateLayout, rec[0])
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid date %q", line, rec[0])
		}
		sales, err := strconv.Atoi(rec[1])
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid forecasted sales %q", line, rec[1])
		}
		recommended, err := strconv.Atoi(rec[2])
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid recommended production %q", line, rec[2])
		}
		risk := models.RiskLevel(rec[3])
		if risk != models.RiskNormal && risk != models.RiskHigh {
			return nil, fmt.Errorf("line %d: invalid risk level %q", line, rec[3])
		}
		plan = append(plan, models.ProductionPlanRow{
			Date:                  date,
			ForecastedSales:       sales,
			RecommendedProduction: recommended,
			RiskLevel:             risk,
		})
	}
	return plan, nil
}
