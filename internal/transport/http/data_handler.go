package http

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "techpulse/internal/errors"
	"techpulse/internal/exporter"
	"techpulse/internal/insights"
	"techpulse/internal/middleware"
	"techpulse/internal/services"
)

// DataHandler serves the dataset endpoints of the dashboard API
type DataHandler struct {
	service      *services.DataService
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewDataHandler creates a new data handler
func NewDataHandler(service *services.DataService, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *DataHandler {
	return &DataHandler{
		service:      service,
		logger:       logger.With(slog.String("component", "data_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the dataset routes
func (h *DataHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/summary", h.GetSummary)
	r.Get("/timeline", h.GetTimeline)
	r.Get("/quarterly", h.GetQuarterly)
	r.Get("/monthly", h.GetMonthlyPattern)
	r.Get("/heatmap", h.GetHeatmap)
	r.Get("/options", h.GetOptions)
	r.Get("/companies", h.GetCompanies)
	r.Get("/top-companies", h.GetTopCompanies)
	r.Get("/industries", h.GetIndustryTrends)

	r.Route("/company/{company}", func(r chi.Router) {
		r.Use(h.CompanyCtx)
		r.Get("/chart", h.GetCompanyChart)
	})

	r.Get("/export/csv", h.ExportCSV)
	r.Get("/export/xlsx", h.ExportExcel)

	r.Post("/reload", h.Reload)

	return r
}

// CompanyCtx validates the company URL parameter
func (h *DataHandler) CompanyCtx(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		company := chi.URLParam(r, "company")
		if company == "" {
			h.errorHandler.HandleError(w, r, apierrors.ErrValidation("company", "Company name is required"))
			return
		}
		if len(company) > 100 {
			h.errorHandler.HandleError(w, r, apierrors.ErrValidation("company", "Company name is too long"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetSummary handles GET /api/data/summary
func (h *DataHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	filter, apiErr := parseFilter(r)
	if apiErr != nil {
		h.errorHandler.HandleError(w, r, apiErr)
		return
	}

	stats, err := h.service.Summary(r.Context(), filter)
	if err != nil {
		h.handleDataError(w, r, err, "failed to get summary")
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   stats,
	})
}

// GetTimeline handles GET /api/data/timeline
func (h *DataHandler) GetTimeline(w http.ResponseWriter, r *http.Request) {
	filter, apiErr := parseFilter(r)
	if apiErr != nil {
		h.errorHandler.HandleError(w, r, apiErr)
		return
	}

	series, err := h.service.Timeline(r.Context(), filter)
	if err != nil {
		h.handleDataError(w, r, err, "failed to get timeline")
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   series,
		"count":  len(series),
	})
}

// GetQuarterly handles GET /api/data/quarterly
func (h *DataHandler) GetQuarterly(w http.ResponseWriter, r *http.Request) {
	filter, apiErr := parseFilter(r)
	if apiErr != nil {
		h.errorHandler.HandleError(w, r, apiErr)
		return
	}

	points, err := h.service.Quarterly(r.Context(), filter)
	if err != nil {
		h.handleDataError(w, r, err, "failed to get quarterly rollup")
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   points,
		"count":  len(points),
	})
}

// GetMonthlyPattern handles GET /api/data/monthly
func (h *DataHandler) GetMonthlyPattern(w http.ResponseWriter, r *http.Request) {
	filter, apiErr := parseFilter(r)
	if apiErr != nil {
		h.errorHandler.HandleError(w, r, apiErr)
		return
	}

	patterns, err := h.service.MonthlyPattern(r.Context(), filter)
	if err != nil {
		h.handleDataError(w, r, err, "failed to get monthly pattern")
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   patterns,
		"count":  len(patterns),
	})
}

// GetHeatmap handles GET /api/data/heatmap
func (h *DataHandler) GetHeatmap(w http.ResponseWriter, r *http.Request) {
	filter, apiErr := parseFilter(r)
	if apiErr != nil {
		h.errorHandler.HandleError(w, r, apiErr)
		return
	}

	cells, err := h.service.Heatmap(r.Context(), filter)
	if err != nil {
		h.handleDataError(w, r, err, "failed to get heatmap")
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   cells,
		"count":  len(cells),
	})
}

// GetOptions handles GET /api/data/options
func (h *DataHandler) GetOptions(w http.ResponseWriter, r *http.Request) {
	options, err := h.service.Options(r.Context())
	if err != nil {
		h.handleDataError(w, r, err, "failed to get filter options")
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   options,
	})
}

// GetCompanies handles GET /api/data/companies
func (h *DataHandler) GetCompanies(w http.ResponseWriter, r *http.Request) {
	companies, err := h.service.Companies(r.Context())
	if err != nil {
		h.handleDataError(w, r, err, "failed to get companies")
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   companies,
		"count":  len(companies),
	})
}

// GetTopCompanies handles GET /api/data/top-companies
func (h *DataHandler) GetTopCompanies(w http.ResponseWriter, r *http.Request) {
	filter, apiErr := parseFilter(r)
	if apiErr != nil {
		h.errorHandler.HandleError(w, r, apiErr)
		return
	}

	layoffs, hires, err := h.service.TopCompanies(r.Context(), filter)
	if err != nil {
		h.handleDataError(w, r, err, "failed to get top companies")
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data": map[string]interface{}{
			"layoffs": layoffs,
			"hiring":  hires,
		},
		"count": len(layoffs) + len(hires),
	})
}

// GetIndustryTrends handles GET /api/data/industries
func (h *DataHandler) GetIndustryTrends(w http.ResponseWriter, r *http.Request) {
	filter, apiErr := parseFilter(r)
	if apiErr != nil {
		h.errorHandler.HandleError(w, r, apiErr)
		return
	}

	trends, err := h.service.IndustryTrends(r.Context(), filter)
	if err != nil {
		h.handleDataError(w, r, err, "failed to get industry trends")
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   trends,
		"count":  len(trends),
	})
}

// GetCompanyChart handles GET /api/data/company/{company}/chart
func (h *DataHandler) GetCompanyChart(w http.ResponseWriter, r *http.Request) {
	company := chi.URLParam(r, "company")

	chart, err := h.service.CompanyChart(r.Context(), company)
	if err != nil {
		if errors.Is(err, services.ErrCompanyNotFound) {
			h.errorHandler.HandleError(w, r, apierrors.CompanyNotFoundError(company))
			return
		}
		h.handleDataError(w, r, err, "failed to get company chart")
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status":  "success",
		"data":    chart,
		"company": chart.Company,
	})
}

// ExportCSV handles GET /api/data/export/csv, streaming the filtered
// fused dataset as a CSV download.
func (h *DataHandler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	filter, apiErr := parseFilter(r)
	if apiErr != nil {
		h.errorHandler.HandleError(w, r, apiErr)
		return
	}

	records, err := h.service.Fused(r.Context(), filter)
	if err != nil {
		h.handleDataError(w, r, err, "failed to export csv")
		return
	}

	filename := fmt.Sprintf("fused_employment_%s.csv", time.Now().Format("2006-01-02"))
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	if err := exporter.EncodeFused(w, records); err != nil {
		h.logger.ErrorContext(r.Context(), "csv export write failed",
			slog.String("error", err.Error()),
			slog.String("request_id", middleware.GetReqID(r.Context())))
	}
}

// ExportExcel handles GET /api/data/export/xlsx, streaming the filtered
// dataset and a summary sheet as a workbook download.
func (h *DataHandler) ExportExcel(w http.ResponseWriter, r *http.Request) {
	filter, apiErr := parseFilter(r)
	if apiErr != nil {
		h.errorHandler.HandleError(w, r, apiErr)
		return
	}

	ctx := r.Context()
	records, err := h.service.Fused(ctx, filter)
	if err != nil {
		h.handleDataError(w, r, err, "failed to export workbook")
		return
	}
	stats, err := h.service.Summary(ctx, filter)
	if err != nil {
		h.handleDataError(w, r, err, "failed to export workbook")
		return
	}
	dataset, err := h.service.Dataset(ctx)
	if err != nil {
		h.handleDataError(w, r, err, "failed to export workbook")
		return
	}
	report := insights.GenerateReport(dataset.Layoffs, dataset.Hires, dataset.Fused)

	filename := fmt.Sprintf("employment_report_%s.xlsx", time.Now().Format("2006-01-02"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	if err := exporter.WriteWorkbook(w, records, stats, report.Health); err != nil {
		h.logger.ErrorContext(ctx, "workbook export write failed",
			slog.String("error", err.Error()),
			slog.String("request_id", middleware.GetReqID(ctx)))
	}
}

// Reload handles POST /api/data/reload, forcing a fresh load from disk
func (h *DataHandler) Reload(w http.ResponseWriter, r *http.Request) {
	h.logger.InfoContext(r.Context(), "manual dataset reload requested",
		slog.String("request_id", middleware.GetReqID(r.Context())))

	dataset, err := h.service.Reload(r.Context())
	if err != nil {
		h.handleDataError(w, r, err, "failed to reload dataset")
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data": map[string]interface{}{
			"layoff_events": len(dataset.Layoffs),
			"hiring_events": len(dataset.Hires),
			"fused_records": len(dataset.Fused),
			"loaded_at":     dataset.LoadedAt,
		},
	})
}

// handleDataError logs the failure and maps service errors to problem
// responses.
func (h *DataHandler) handleDataError(w http.ResponseWriter, r *http.Request, err error, msg string) {
	h.logger.ErrorContext(r.Context(), msg,
		slog.String("error", err.Error()),
		slog.String("request_id", middleware.GetReqID(r.Context())))

	if errors.Is(err, services.ErrSourceNotFound) {
		h.errorHandler.HandleError(w, r, apierrors.DataNotFoundError(err))
		return
	}
	h.errorHandler.HandleError(w, r, err)
}
