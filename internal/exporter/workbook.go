package exporter

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"shopmetrics/internal/config"
	"shopmetrics/internal/metrics"
)

// Sheet names of the exported workbook
const (
	sheetSummary      = "Summary"
	sheetMonthly      = "Monthly Revenue"
	sheetCategories   = "Categories"
	sheetStates       = "States"
	sheetSatisfaction = "Satisfaction"
)

// WorkbookExporter renders a metrics summary into a multi-sheet Excel
// workbook, one sheet per breakdown, for offline analysis.
type WorkbookExporter struct {
	paths  *config.Paths
	logger *slog.Logger
}

// NewWorkbookExporter creates a workbook exporter
func NewWorkbookExporter(paths *config.Paths, logger *slog.Logger) *WorkbookExporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &WorkbookExporter{paths: paths, logger: logger}
}

// Export writes the summary to an .xlsx file and returns the full path.
// Relative paths resolve against the exports directory.
func (e *WorkbookExporter) Export(summary metrics.Summary, filePath string) (string, error) {
	fullPath := filePath
	if !filepath.IsAbs(fullPath) {
		fullPath = filepath.Join(e.paths.ExportsDir, fullPath)
	}

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := e.writeSummarySheet(f, summary); err != nil {
		return "", err
	}
	if err := e.writeMonthlySheet(f, summary.MonthlyRevenue); err != nil {
		return "", err
	}
	if err := e.writeCategoriesSheet(f, summary.TopCategories); err != nil {
		return "", err
	}
	if err := e.writeStatesSheet(f, summary.RevenueByState); err != nil {
		return "", err
	}
	if err := e.writeSatisfactionSheet(f, summary.Satisfaction); err != nil {
		return "", err
	}

	// The default sheet becomes the summary
	if err := f.SetSheetName("Sheet1", sheetSummary); err != nil {
		return "", fmt.Errorf("failed to rename summary sheet: %w", err)
	}

	if err := f.SaveAs(fullPath); err != nil {
		return "", fmt.Errorf("failed to save workbook: %w", err)
	}

	e.logger.Info("workbook exported",
		slog.String("path", fullPath),
		slog.Int("monthly_periods", len(summary.MonthlyRevenue)),
		slog.Int("categories", len(summary.TopCategories)))

	return fullPath, nil
}

func (e *WorkbookExporter) writeSummarySheet(f *excelize.File, summary metrics.Summary) error {
	rows := [][]interface{}{
		{"Metric", "Value"},
		{"Total Revenue", summary.TotalRevenue},
		{"Total Freight", summary.TotalFreight},
		{"Total Orders", summary.TotalOrders},
		{"Average Order Value", summary.AverageOrderValue},
		{"Average Review Score", summary.AverageReviewScore},
		{"Average Delivery Days", summary.AverageDeliveryDays},
	}
	if summary.RevenueGrowth != nil {
		rows = append(rows, []interface{}{"Revenue Growth", *summary.RevenueGrowth})
	}
	return writeRows(f, "Sheet1", rows)
}

func (e *WorkbookExporter) writeMonthlySheet(f *excelize.File, periods []metrics.PeriodRevenue) error {
	rows := [][]interface{}{{"Period", "Revenue", "Orders", "Average Order Value"}}
	for _, p := range periods {
		rows = append(rows, []interface{}{p.Label(), p.Revenue, p.Orders, p.AverageOrderValue})
	}
	return writeSheet(f, sheetMonthly, rows)
}

func (e *WorkbookExporter) writeCategoriesSheet(f *excelize.File, categories []metrics.CategoryRevenue) error {
	rows := [][]interface{}{{"Category", "Revenue", "Items"}}
	for _, c := range categories {
		rows = append(rows, []interface{}{c.Category, c.Revenue, c.Items})
	}
	return writeSheet(f, sheetCategories, rows)
}

func (e *WorkbookExporter) writeStatesSheet(f *excelize.File, states []metrics.StateRevenue) error {
	rows := [][]interface{}{{"State", "Revenue", "Orders"}}
	for _, s := range states {
		rows = append(rows, []interface{}{s.State, s.Revenue, s.Orders})
	}
	return writeSheet(f, sheetStates, rows)
}

func (e *WorkbookExporter) writeSatisfactionSheet(f *excelize.File, buckets []metrics.SpeedBucket) error {
	rows := [][]interface{}{{"Delivery Time", "Reviews", "Average Score"}}
	for _, b := range buckets {
		rows = append(rows, []interface{}{b.Label, b.Reviews, b.AverageScore})
	}
	return writeSheet(f, sheetSatisfaction, rows)
}

func writeSheet(f *excelize.File, name string, rows [][]interface{}) error {
	if _, err := f.NewSheet(name); err != nil {
		return fmt.Errorf("failed to create sheet %s: %w", name, err)
	}
	return writeRows(f, name, rows)
}

func writeRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for i, row := range rows {
		for j, value := range row {
			cell, err := excelize.CoordinatesToCellName(j+1, i+1)
			if err != nil {
				return fmt.Errorf("invalid cell coordinates: %w", err)
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return fmt.Errorf("failed to write cell %s!%s: %w", sheet, cell, err)
			}
		}
	}
	return nil
}
