package http

import (
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "shopmetrics/internal/errors"
	"shopmetrics/internal/metrics"
	"shopmetrics/internal/sales"
)

// AnalyticsHandler handles analytics HTTP requests with RFC 7807 compliance
type AnalyticsHandler struct {
	service      AnalyticsServiceInterface
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewAnalyticsHandler creates a new analytics handler
func NewAnalyticsHandler(service AnalyticsServiceInterface, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *AnalyticsHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &AnalyticsHandler{
		service:      service,
		logger:       logger.With(slog.String("component", "analytics_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the analytics routes
func (h *AnalyticsHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/summary", h.GetSummary)
	r.Get("/revenue/periods", h.GetRevenueByPeriod)
	r.Get("/revenue/categories", h.GetRevenueByCategory)
	r.Get("/revenue/states", h.GetRevenueByState)
	r.Get("/satisfaction/delivery", h.GetDeliverySatisfaction)

	return r
}

// GetSummary handles GET /api/analytics/summary
func (h *AnalyticsHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	params, err := parseParams(r.URL.Query())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	summary, err := h.service.Summary(r.Context(), params)
	if err != nil {
		h.logError(r, "summary failed", err)
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   summary,
	})
}

// GetRevenueByPeriod handles GET /api/analytics/revenue/periods
func (h *AnalyticsHandler) GetRevenueByPeriod(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	params, err := parseParams(query)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	granularity := metrics.GranularityMonth
	if raw := query.Get("granularity"); raw != "" {
		granularity = metrics.Granularity(raw)
		if !granularity.IsValid() {
			h.errorHandler.HandleError(w, r,
				apierrors.ErrValidation("granularity", fmt.Sprintf("unsupported granularity %q, use year or month", raw)))
			return
		}
	}

	periods, err := h.service.RevenueByPeriod(r.Context(), params, granularity)
	if err != nil {
		h.logError(r, "revenue by period failed", err)
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   periods,
		"count":  len(periods),
	})
}

// GetRevenueByCategory handles GET /api/analytics/revenue/categories
func (h *AnalyticsHandler) GetRevenueByCategory(w http.ResponseWriter, r *http.Request) {
	params, err := parseParams(r.URL.Query())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	categories, err := h.service.RevenueByCategory(r.Context(), params)
	if err != nil {
		h.logError(r, "revenue by category failed", err)
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   categories,
		"count":  len(categories),
	})
}

// GetRevenueByState handles GET /api/analytics/revenue/states
func (h *AnalyticsHandler) GetRevenueByState(w http.ResponseWriter, r *http.Request) {
	params, err := parseParams(r.URL.Query())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	states, err := h.service.RevenueByState(r.Context(), params)
	if err != nil {
		h.logError(r, "revenue by state failed", err)
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   states,
		"count":  len(states),
	})
}

// GetDeliverySatisfaction handles GET /api/analytics/satisfaction/delivery
func (h *AnalyticsHandler) GetDeliverySatisfaction(w http.ResponseWriter, r *http.Request) {
	params, err := parseParams(r.URL.Query())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	buckets, err := h.service.Satisfaction(r.Context(), params)
	if err != nil {
		h.logError(r, "delivery satisfaction failed", err)
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   buckets,
		"count":  len(buckets),
	})
}

func (h *AnalyticsHandler) logError(r *http.Request, msg string, err error) {
	h.logger.ErrorContext(r.Context(), msg,
		slog.String("error", err.Error()),
		slog.String("path", r.URL.Path),
	)
}

// parseParams builds analysis parameters from the shared date range query
// parameters. Range validation itself happens in the service layer; here
// only the numeric syntax is checked.
func parseParams(query url.Values) (sales.Params, error) {
	var params sales.Params

	fields := []struct {
		name string
		dst  **int
	}{
		{"start_year", &params.StartYear},
		{"start_month", &params.StartMonth},
		{"end_year", &params.EndYear},
		{"end_month", &params.EndMonth},
		{"comparison_year", &params.ComparisonYear},
	}

	for _, f := range fields {
		raw := query.Get(f.name)
		if raw == "" {
			continue
		}
		v, err := strconv.Atoi(raw)
		if err != nil {
			return sales.Params{}, apierrors.ErrValidation(f.name, fmt.Sprintf("%q is not a number", raw))
		}
		*f.dst = &v
	}

	return params, nil
}
