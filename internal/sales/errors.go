package sales

import (
	"fmt"
	"strings"
)

// RowError reports one record whose temporal value could not be parsed.
// Surfacing these per row, instead of coercing or dropping silently, keeps
// date filtering honest: a bad timestamp would otherwise leak records into
// or out of the selected range.
type RowError struct {
	OrderID string
	Field   string
	Value   string
	Err     error
}

func (e RowError) Error() string {
	return fmt.Sprintf("order %s: %s %q: %v", e.OrderID, e.Field, e.Value, e.Err)
}

func (e RowError) Unwrap() error {
	return e.Err
}

// RowErrors aggregates every bad row found in a pipeline stage so callers
// see the full extent of the problem in one pass.
type RowErrors []RowError

func (e RowErrors) Error() string {
	if len(e) == 1 {
		return e[0].Error()
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%d rows failed:", len(e))
	limit := len(e)
	if limit > 5 {
		limit = 5
	}
	for _, re := range e[:limit] {
		b.WriteString("\n  ")
		b.WriteString(re.Error())
	}
	if len(e) > limit {
		fmt.Fprintf(&b, "\n  ... and %d more", len(e)-limit)
	}
	return b.String()
}
