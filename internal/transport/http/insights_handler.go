package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "techpulse/internal/errors"
	"techpulse/internal/middleware"
	"techpulse/internal/services"
)

// InsightsHandler serves the generated analysis endpoints
type InsightsHandler struct {
	service      *services.InsightsService
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewInsightsHandler creates a new insights handler
func NewInsightsHandler(service *services.InsightsService, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *InsightsHandler {
	return &InsightsHandler{
		service:      service,
		logger:       logger.With(slog.String("component", "insights_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the insights routes
func (h *InsightsHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/", h.GetReport)
	r.Get("/latest", h.GetLatest)
	r.Post("/save", h.SaveReport)

	return r
}

// GetReport handles GET /api/insights, generating a fresh report for
// the filtered dataset.
func (h *InsightsHandler) GetReport(w http.ResponseWriter, r *http.Request) {
	filter, apiErr := parseFilter(r)
	if apiErr != nil {
		h.errorHandler.HandleError(w, r, apiErr)
		return
	}

	report, err := h.service.Report(r.Context(), filter)
	if err != nil {
		h.handleInsightsError(w, r, err, "failed to generate insights")
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   report,
		"count":  len(report.Insights),
	})
}

// GetLatest handles GET /api/insights/latest, returning the most recent
// persisted report.
func (h *InsightsHandler) GetLatest(w http.ResponseWriter, r *http.Request) {
	report, err := h.service.Latest(r.Context())
	if err != nil {
		if errors.Is(err, services.ErrNoReportsFound) {
			h.errorHandler.HandleError(w, r, apierrors.New(
				http.StatusNotFound,
				"NO_REPORTS_FOUND",
				"No saved insight reports available",
			))
			return
		}
		h.handleInsightsError(w, r, err, "failed to load latest report")
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   report,
		"count":  len(report.Insights),
	})
}

// SaveReport handles POST /api/insights/save, persisting a fresh report
// to the reports directory.
func (h *InsightsHandler) SaveReport(w http.ResponseWriter, r *http.Request) {
	path, err := h.service.Save(r.Context())
	if err != nil {
		h.handleInsightsError(w, r, err, "failed to save insights report")
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data": map[string]interface{}{
			"path": path,
		},
	})
}

func (h *InsightsHandler) handleInsightsError(w http.ResponseWriter, r *http.Request, err error, msg string) {
	h.logger.ErrorContext(r.Context(), msg,
		slog.String("error", err.Error()),
		slog.String("request_id", middleware.GetReqID(r.Context())))

	if errors.Is(err, services.ErrSourceNotFound) {
		h.errorHandler.HandleError(w, r, apierrors.DataNotFoundError(err))
		return
	}
	h.errorHandler.HandleError(w, r, err)
}
