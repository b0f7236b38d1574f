package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"shopmetrics/internal/config"
	"shopmetrics/internal/exporter"
	"shopmetrics/internal/metrics"
	"shopmetrics/internal/sales"
	"shopmetrics/internal/services"
)

func main() {
	dataDir := flag.String("data", "", "dataset directory (defaults to the configured data dir)")
	outPath := flag.String("out", "", "output file path (defaults to exports/sales_report_<date>.<format>)")
	start := flag.String("start", "", "start of the reporting window, YYYY or YYYY-MM")
	end := flag.String("end", "", "end of the reporting window, YYYY or YYYY-MM")
	format := flag.String("format", "xlsx", "output format: csv or xlsx")
	topCategories := flag.Int("top", 0, "number of top categories to include (0 uses the configured default)")
	compare := flag.Int("compare", 0, "comparison year for the year-over-year section (0 uses the year before the window's end)")
	includeFreight := flag.Bool("freight", false, "fold freight into revenue totals")
	flag.Parse()

	if *format != "csv" && *format != "xlsx" {
		slog.Error("Unsupported format", "format", *format, "hint", "use csv or xlsx")
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	if *dataDir != "" {
		cfg.Paths.DataDir = *dataDir
	}
	if *topCategories > 0 {
		cfg.Analytics.TopCategories = *topCategories
	}

	paths, err := config.GetPaths(cfg.Paths)
	if err != nil {
		slog.Error("Failed to resolve paths", "error", err)
		os.Exit(1)
	}
	if err := paths.EnsureDirectories(); err != nil {
		slog.Error("Failed to create output directories", "error", err)
		os.Exit(1)
	}
	if err := paths.ValidateDataDir(); err != nil {
		slog.Error("Dataset directory validation failed",
			"data_dir", paths.DataDir,
			"error", err,
			"hint", "point -data at a directory holding the five dataset CSV files")
		os.Exit(1)
	}

	params, err := buildParams(*start, *end, *compare)
	if err != nil {
		slog.Error("Invalid reporting window", "error", err)
		os.Exit(1)
	}

	logger := slog.Default()
	svc := services.NewAnalyticsService(cfg, paths, logger)

	slog.Info("Preparing sales dataset", "data_dir", paths.DataDir)
	ctx := context.Background()
	ds, err := svc.Run(ctx, params)
	if err != nil {
		slog.Error("Failed to prepare sales dataset", "error", err)
		os.Exit(1)
	}
	if len(ds.Sales) == 0 {
		slog.Error("No delivered orders in the selected window",
			"start", *start, "end", *end)
		os.Exit(1)
	}
	slog.Info("Prepared sales dataset", "records", len(ds.Sales))

	summary := metrics.KeySummary(ds, params, metrics.SummaryOptions{
		TopCategories:  cfg.Analytics.TopCategories,
		IncludeFreight: cfg.Analytics.IncludeFreight || *includeFreight,
	})

	target := *outPath
	if target == "" {
		target = fmt.Sprintf("sales_report_%s.%s", time.Now().Format("20060102"), *format)
	}

	switch *format {
	case "csv":
		writer := exporter.NewCSVWriter(paths, logger)
		if err := writer.WriteMonthlyRevenue(target, summary.MonthlyRevenue); err != nil {
			slog.Error("Failed to write CSV report", "error", err)
			os.Exit(1)
		}
	case "xlsx":
		workbook := exporter.NewWorkbookExporter(paths, logger)
		if target, err = workbook.Export(summary, target); err != nil {
			slog.Error("Failed to write workbook report", "error", err)
			os.Exit(1)
		}
	}

	slog.Info("Report written",
		"path", target,
		"format", *format,
		"total_revenue", summary.TotalRevenue,
		"total_orders", summary.TotalOrders)
}

// buildParams turns -start / -end / -compare values into analysis
// parameters. A bare year means the whole year; YYYY-MM narrows to the month.
func buildParams(start, end string, compare int) (sales.Params, error) {
	var params sales.Params

	startYear, startMonth, err := parsePeriod(start)
	if err != nil {
		return params, fmt.Errorf("start: %w", err)
	}
	endYear, endMonth, err := parsePeriod(end)
	if err != nil {
		return params, fmt.Errorf("end: %w", err)
	}

	params.StartYear = startYear
	params.StartMonth = startMonth
	params.EndYear = endYear
	params.EndMonth = endMonth
	if compare > 0 {
		params.ComparisonYear = &compare
	}

	return params, params.Validate()
}

func parsePeriod(value string) (*int, *int, error) {
	if value == "" {
		return nil, nil, nil
	}

	parts := strings.SplitN(value, "-", 2)
	year, err := strconv.Atoi(parts[0])
	if err != nil {
		return nil, nil, fmt.Errorf("invalid year %q", parts[0])
	}
	if len(parts) == 1 {
		return &year, nil, nil
	}

	month, err := strconv.Atoi(parts[1])
	if err != nil {
		return nil, nil, fmt.Errorf("invalid month %q", parts[1])
	}
	return &year, &month, nil
}
