package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Dataset file names. Column layout of each file is a contract the loader
// depends on; see internal/dataset.
const (
	OrdersFile     = "orders_dataset.csv"
	OrderItemsFile = "order_items_dataset.csv"
	ProductsFile   = "products_dataset.csv"
	CustomersFile  = "customers_dataset.csv"
	ReviewsFile    = "order_reviews_dataset.csv"
)

// Paths holds the resolved absolute directories the application works with
type Paths struct {
	WorkingDir string
	DataDir    string
	LogsDir    string
	ExportsDir string
}

// GetPaths resolves the configured directories against the current working
// directory. Absolute paths in the configuration are kept as-is.
func GetPaths(cfg PathsConfig) (*Paths, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to determine working directory: %w", err)
	}

	return &Paths{
		WorkingDir: wd,
		DataDir:    resolve(wd, cfg.DataDir),
		LogsDir:    resolve(wd, cfg.LogsDir),
		ExportsDir: resolve(wd, cfg.ExportsDir),
	}, nil
}

func resolve(base, dir string) string {
	if filepath.IsAbs(dir) {
		return dir
	}
	return filepath.Join(base, dir)
}

// DatasetFile returns the absolute path of a dataset file inside DataDir
func (p *Paths) DatasetFile(name string) string {
	return filepath.Join(p.DataDir, name)
}

// EnsureDirectories creates the writable directories if they are missing.
// The dataset directory is read-only input and is only checked, not created.
func (p *Paths) EnsureDirectories() error {
	for _, dir := range []string{p.LogsDir, p.ExportsDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// ValidateDataDir verifies the dataset directory and all five source files
// exist before any pipeline run is attempted.
func (p *Paths) ValidateDataDir() error {
	info, err := os.Stat(p.DataDir)
	if err != nil {
		return fmt.Errorf("dataset directory %s: %w", p.DataDir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("dataset path %s is not a directory", p.DataDir)
	}

	for _, name := range []string{OrdersFile, OrderItemsFile, ProductsFile, CustomersFile, ReviewsFile} {
		if !FileExists(p.DatasetFile(name)) {
			return fmt.Errorf("dataset file %s: missing or not a regular file", name)
		}
	}
	return nil
}

// LogPathResolution logs all resolved paths at startup for debugging
func (p *Paths) LogPathResolution() {
	slog.Info("Resolved application paths",
		slog.String("working_dir", p.WorkingDir),
		slog.String("data_dir", p.DataDir),
		slog.String("logs_dir", p.LogsDir),
		slog.String("exports_dir", p.ExportsDir))
}

// FileExists reports whether a regular file exists at path
func FileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
