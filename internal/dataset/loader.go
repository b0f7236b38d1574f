package dataset

import (
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"shopmetrics/internal/config"
	apperrors "shopmetrics/internal/errors"
	"shopmetrics/pkg/contracts/domain"
)

// Tables holds the five raw source tables loaded from the dataset directory.
// Each table is an immutable snapshot; the pipeline never mutates loaded rows.
type Tables struct {
	Orders     []domain.Order
	OrderItems []domain.OrderItem
	Products   []domain.Product
	Customers  []domain.Customer
	Reviews    []domain.Review
}

// Loader reads the source CSV files into typed tables
type Loader struct {
	paths  *config.Paths
	logger *slog.Logger
}

// NewLoader creates a loader rooted at the configured dataset directory
func NewLoader(paths *config.Paths, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{
		paths:  paths,
		logger: logger,
	}
}

// Load reads all five source files concurrently. Any parse or I/O failure
// aborts the whole load; partial tables are never returned.
func (l *Loader) Load(ctx context.Context) (*Tables, error) {
	tables := &Tables{}

	// Each goroutine writes a distinct field, so no locking is needed.
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		orders, err := l.loadOrders(ctx)
		if err != nil {
			return err
		}
		tables.Orders = orders
		return nil
	})

	g.Go(func() error {
		items, err := l.loadOrderItems(ctx)
		if err != nil {
			return err
		}
		tables.OrderItems = items
		return nil
	})

	g.Go(func() error {
		products, err := l.loadProducts(ctx)
		if err != nil {
			return err
		}
		tables.Products = products
		return nil
	})

	g.Go(func() error {
		customers, err := l.loadCustomers(ctx)
		if err != nil {
			return err
		}
		tables.Customers = customers
		return nil
	})

	g.Go(func() error {
		reviews, err := l.loadReviews(ctx)
		if err != nil {
			return err
		}
		tables.Reviews = reviews
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	l.logger.InfoContext(ctx, "dataset loaded",
		slog.Int("orders", len(tables.Orders)),
		slog.Int("order_items", len(tables.OrderItems)),
		slog.Int("products", len(tables.Products)),
		slog.Int("customers", len(tables.Customers)),
		slog.Int("reviews", len(tables.Reviews)))

	return tables, nil
}

func (l *Loader) loadOrders(ctx context.Context) ([]domain.Order, error) {
	t, err := readTable(ctx, l.paths.DatasetFile(config.OrdersFile))
	if err != nil {
		return nil, err
	}

	cols, err := t.columns("order_id", "customer_id", "order_status",
		"order_purchase_timestamp", "order_delivered_customer_date")
	if err != nil {
		return nil, err
	}

	orders := make([]domain.Order, 0, len(t.rows))
	for i, row := range t.rows {
		status := domain.OrderStatus(strings.ToLower(t.value(row, cols[2])))
		if !status.IsValid() {
			return nil, parseError(t.file, i, "order_status",
				fmt.Errorf("unknown status %q", t.value(row, cols[2])))
		}

		orders = append(orders, domain.Order{
			OrderID:            t.value(row, cols[0]),
			CustomerID:         t.value(row, cols[1]),
			Status:             status,
			PurchaseTimestamp:  t.value(row, cols[3]),
			DeliveredTimestamp: t.value(row, cols[4]),
		})
	}
	return orders, nil
}

func (l *Loader) loadOrderItems(ctx context.Context) ([]domain.OrderItem, error) {
	t, err := readTable(ctx, l.paths.DatasetFile(config.OrderItemsFile))
	if err != nil {
		return nil, err
	}

	cols, err := t.columns("order_id", "order_item_id", "product_id", "price", "freight_value")
	if err != nil {
		return nil, err
	}

	items := make([]domain.OrderItem, 0, len(t.rows))
	for i, row := range t.rows {
		itemID, err := parseInt(t.file, i, "order_item_id", t.value(row, cols[1]))
		if err != nil {
			return nil, err
		}
		price, err := parseFloat(t.file, i, "price", t.value(row, cols[3]))
		if err != nil {
			return nil, err
		}
		freight, err := parseFloat(t.file, i, "freight_value", t.value(row, cols[4]))
		if err != nil {
			return nil, err
		}

		items = append(items, domain.OrderItem{
			OrderID:      t.value(row, cols[0]),
			OrderItemID:  itemID,
			ProductID:    t.value(row, cols[2]),
			Price:        price,
			FreightValue: freight,
		})
	}
	return items, nil
}

func (l *Loader) loadProducts(ctx context.Context) ([]domain.Product, error) {
	t, err := readTable(ctx, l.paths.DatasetFile(config.ProductsFile))
	if err != nil {
		return nil, err
	}

	cols, err := t.columns("product_id", "product_category_name",
		"product_name_length", "product_description_length")
	if err != nil {
		return nil, err
	}

	products := make([]domain.Product, 0, len(t.rows))
	for i, row := range t.rows {
		// Length fields are blank for products without descriptions.
		nameLen, err := parseOptionalInt(t.file, i, "product_name_length", t.value(row, cols[2]))
		if err != nil {
			return nil, err
		}
		descLen, err := parseOptionalInt(t.file, i, "product_description_length", t.value(row, cols[3]))
		if err != nil {
			return nil, err
		}

		products = append(products, domain.Product{
			ProductID:         t.value(row, cols[0]),
			CategoryName:      t.value(row, cols[1]),
			NameLength:        nameLen,
			DescriptionLength: descLen,
		})
	}
	return products, nil
}

func (l *Loader) loadCustomers(ctx context.Context) ([]domain.Customer, error) {
	t, err := readTable(ctx, l.paths.DatasetFile(config.CustomersFile))
	if err != nil {
		return nil, err
	}

	cols, err := t.columns("customer_id", "customer_state", "customer_city")
	if err != nil {
		return nil, err
	}

	customers := make([]domain.Customer, 0, len(t.rows))
	for _, row := range t.rows {
		customers = append(customers, domain.Customer{
			CustomerID: t.value(row, cols[0]),
			State:      t.value(row, cols[1]),
			City:       t.value(row, cols[2]),
		})
	}
	return customers, nil
}

func (l *Loader) loadReviews(ctx context.Context) ([]domain.Review, error) {
	t, err := readTable(ctx, l.paths.DatasetFile(config.ReviewsFile))
	if err != nil {
		return nil, err
	}

	cols, err := t.columns("review_id", "order_id", "review_score", "review_creation_date")
	if err != nil {
		return nil, err
	}

	reviews := make([]domain.Review, 0, len(t.rows))
	for i, row := range t.rows {
		score, err := parseInt(t.file, i, "review_score", t.value(row, cols[2]))
		if err != nil {
			return nil, err
		}
		if score < 1 || score > 5 {
			return nil, parseError(t.file, i, "review_score",
				fmt.Errorf("score %d outside 1-5", score))
		}

		reviews = append(reviews, domain.Review{
			ReviewID:     t.value(row, cols[0]),
			OrderID:      t.value(row, cols[1]),
			Score:        score,
			CreationDate: t.value(row, cols[3]),
		})
	}
	return reviews, nil
}

// table is a raw CSV file split into a header index and data rows
type table struct {
	file   string
	header map[string]int
	rows   [][]string
}

// readTable reads a whole CSV file. The csv reader enforces a uniform field
// count per row, so ragged rows surface as parse errors rather than being
// silently coerced.
func readTable(ctx context.Context, path string) (*table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, apperrors.NewStorageError(fmt.Sprintf("failed to open %s", path), err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, apperrors.NewParsingError(fmt.Sprintf("failed to parse %s", path), err)
	}
	if len(records) == 0 {
		return nil, apperrors.NewParsingError(fmt.Sprintf("%s has no header row", path), nil)
	}

	header := make(map[string]int, len(records[0]))
	for i, name := range records[0] {
		header[strings.TrimSpace(strings.ToLower(name))] = i
	}

	return &table{
		file:   path,
		header: header,
		rows:   records[1:],
	}, nil
}

// columns resolves the given column names to indexes, erroring on any
// missing column. Column names are a contract of the source files.
func (t *table) columns(names ...string) ([]int, error) {
	indexes := make([]int, len(names))
	for i, name := range names {
		idx, ok := t.header[name]
		if !ok {
			return nil, apperrors.NewParsingError(
				fmt.Sprintf("%s is missing required column %q", t.file, name), nil)
		}
		indexes[i] = idx
	}
	return indexes, nil
}

func (t *table) value(row []string, idx int) string {
	if idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func parseInt(file string, row int, column, raw string) (int, error) {
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, parseError(file, row, column, err)
	}
	return v, nil
}

// parseOptionalInt treats a blank cell as zero. Source files leave integer
// columns empty rather than writing 0.
func parseOptionalInt(file string, row int, column, raw string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	// Some exports serialize integer columns as floats ("52.0").
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return int(f), nil
	}
	return parseInt(file, row, column, raw)
}

func parseFloat(file string, row int, column, raw string) (float64, error) {
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, parseError(file, row, column, err)
	}
	return v, nil
}

func parseError(file string, row int, column string, cause error) error {
	return apperrors.NewParsingError(
		fmt.Sprintf("invalid value in %s", file), cause).
		WithContext("file", file).
		WithContext("row", row+2). // 1-based, counting the header
		WithContext("column", column)
}
