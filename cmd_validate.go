package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"bakery/forecasting"
	"bakery/pipeline"
)

var validateFile string

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check a sales file without forecasting",
	Long: `Reads a CSV or XLSX sales file, resolves its columns and reports the
validation issues and data quality warnings.

Example:
  bakery validate --file sales.csv`,
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().StringVarP(&validateFile, "file", "f", "", "Sales file (.csv or .xlsx)")
	_ = validateCmd.MarkFlagRequired("file")
}

func runValidate(cmd *cobra.Command, args []string) error {
	p := pipeline.New(cfg.Columns, forecasting.NewAdapter(forecasting.NewSeasonalForecaster(), cfg.ForecastTimeout()), logger)
	ds, err := loadDataset(p, validateFile)
	if ds != nil && ds.Report != nil {
		printReport(cmd, ds)
	}
	return err
}

func loadDataset(p *pipeline.Pipeline, path string) (*pipeline.Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return p.LoadFile(path, f, "cli")
}

func printReport(cmd *cobra.Command, ds *pipeline.Dataset) {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, ds.Report.Message())
	fmt.Fprintf(out, "Rows: %d read, %d kept, %d dropped\n", ds.Report.Rows, len(ds.Records), ds.Dropped)
	for _, field := range cfg.Columns {
		if col, ok := ds.Report.Resolution.Column(field.Field); ok {
			fmt.Fprintf(out, "  %-9s <- %s\n", field.Field, col)
		}
	}
	for _, d := range ds.Diagnostics {
		fmt.Fprintf(out, "warning: %s\n", d.Message)
	}
	if len(ds.Records) > 0 {
		fmt.Fprintf(out, "Products: %v\n", ds.Products())
	}
}
