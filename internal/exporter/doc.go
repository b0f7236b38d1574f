// Package exporter writes analysis results to files for offline use.
//
// Two components:
//
// CSVWriter: core CSV writing with headers, streaming, and an optional UTF-8
// BOM for Excel compatibility.
//
// WorkbookExporter: renders a full metrics summary into a multi-sheet Excel
// workbook, one sheet per breakdown.
//
// Example usage:
//
//	wb := exporter.NewWorkbookExporter(paths, logger)
//	path, err := wb.Export(summary, "sales_report.xlsx")
package exporter
