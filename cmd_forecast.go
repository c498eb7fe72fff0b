package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"bakery/export"
	"bakery/forecasting"
	"bakery/models"
	"bakery/pipeline"
	"bakery/utils"
)

var (
	forecastFile    string
	forecastProduct string
	forecastDays    int
	forecastMode    string
	forecastTrend   float64
	forecastSeason  float64
	forecastBuffer  float64
	forecastOut     string
)

var forecastCmd = &cobra.Command{
	Use:   "forecast",
	Short: "Forecast a sales file and write the production plan",
	Long: `Runs the whole pipeline on a sales file: validation, normalization,
forecasting and recommendations. Writes forecast.csv and
production_plan.csv into the output directory.

Flags left unset take their values from the config file.

Example:
  bakery forecast --file sales.csv --product Croissant --days 14 --buffer 15`,
	RunE: runForecast,
}

func init() {
	f := forecastCmd.Flags()
	f.StringVarP(&forecastFile, "file", "f", "", "Sales file (.csv or .xlsx)")
	f.StringVarP(&forecastProduct, "product", "p", models.AllProducts, "Product to forecast")
	f.IntVarP(&forecastDays, "days", "d", models.DefaultForecastParams().HorizonDays, "Forecast horizon in days")
	f.StringVar(&forecastMode, "mode", string(models.SeasonalityAdditive), "Seasonality mode (additive or multiplicative)")
	f.Float64Var(&forecastTrend, "trend", models.DefaultForecastParams().TrendFlexibility, "Trend flexibility")
	f.Float64Var(&forecastSeason, "seasonality", models.DefaultForecastParams().SeasonalityFlexibility, "Seasonality flexibility")
	f.Float64VarP(&forecastBuffer, "buffer", "b", models.DefaultBufferPercentage, "Safety buffer in percent")
	f.StringVarP(&forecastOut, "out", "o", ".", "Output directory")
	_ = forecastCmd.MarkFlagRequired("file")
}

func runForecast(cmd *cobra.Command, args []string) error {
	params, buffer, err := forecastSettings(cmd)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	engine, closeEngine, err := newForecaster(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeEngine()

	p := pipeline.New(cfg.Columns, forecasting.NewAdapter(engine, cfg.ForecastTimeout()), logger)
	ds, err := loadDataset(p, forecastFile)
	if err != nil {
		if ds != nil && ds.Report != nil {
			printReport(cmd, ds)
		}
		return err
	}

	run, err := p.Forecast(ctx, ds, forecastProduct, params)
	if err != nil {
		return err
	}
	bundle, err := p.Recommend(run, buffer, run.HistoryEnd.AddDate(0, 0, 1))
	if err != nil {
		return err
	}

	if err := os.MkdirAll(forecastOut, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	var buf bytes.Buffer
	if err := export.WriteForecastCSV(&buf, run.FuturePoints()); err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(forecastOut, "forecast.csv"), buf.Bytes(), 0644); err != nil {
		return err
	}
	buf.Reset()
	if err := export.WritePlanCSV(&buf, bundle.DailyPlan); err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(forecastOut, "production_plan.csv"), buf.Bytes(), 0644); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Forecast for %s (%s engine, %d days)\n", run.Product, run.Engine, params.HorizonDays)
	if run.Accuracy != nil {
		fmt.Fprintf(out, "In-sample MAE %.2f, RMSE %.2f\n", run.Accuracy.MAE, run.Accuracy.RMSE)
	}
	fmt.Fprintf(out, "Total production %d, average %.1f per day, peak %d on %s\n",
		bundle.TotalProduction, bundle.AvgDailyProduction, bundle.PeakProduction, bundle.PeakProductionDate)
	fmt.Fprintln(out, bundle.RiskAssessment)
	fmt.Fprintln(out, bundle.AdditionalRecommendations)
	fmt.Fprintf(out, "Wrote %s and %s\n",
		filepath.Join(forecastOut, "forecast.csv"), filepath.Join(forecastOut, "production_plan.csv"))
	return nil
}

// forecastSettings starts from the configured defaults and applies the flags
// the user set explicitly.
func forecastSettings(cmd *cobra.Command) (models.ForecastParams, float64, error) {
	params := cfg.Forecast.Defaults
	buffer := cfg.Recommendations.BufferPercentage

	flags := cmd.Flags()
	if flags.Changed("days") {
		params.HorizonDays = forecastDays
	}
	if flags.Changed("trend") {
		params.TrendFlexibility = forecastTrend
	}
	if flags.Changed("seasonality") {
		params.SeasonalityFlexibility = forecastSeason
	}
	if flags.Changed("mode") {
		mode, ok := utils.ValidateAndNormalizeSeasonalityMode(forecastMode)
		if !ok {
			return params, 0, &models.InvalidParamsError{Field: "mode", Reason: "must be additive or multiplicative"}
		}
		params.SeasonalityMode = mode
	}
	if flags.Changed("buffer") {
		buffer = forecastBuffer
	}
	return params, buffer, nil
}
