package handler

import (
	"net/http"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"

	"github.com/vfg2006/sales-analytics-api/internal/usecases/aggregating"
	"github.com/vfg2006/sales-analytics-api/internal/usecases/loading"
	"github.com/vfg2006/sales-analytics-api/internal/usecases/reporting"
	"github.com/vfg2006/sales-analytics-api/internal/usecases/validating"
	"github.com/vfg2006/sales-analytics-api/pkg/apiErrors"
	"github.com/vfg2006/sales-analytics-api/pkg/log"
	"github.com/vfg2006/sales-analytics-api/pkg/utils"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// GetReport runs the full pipeline and returns the validated report bundle.
func GetReport(service reporting.ReportService) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		report, err := service.Generate(r.Context())
		if err != nil {
			logger.WithError(err).Error("report: generation failed")
			writePipelineError(w, err)
			return
		}

		writeJSON(w, r, report.Bundle())
	})
}

// GetLatestReport returns the most recent persisted snapshot without
// re-running the pipeline.
func GetLatestReport(service reporting.ReportService) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		snapshot, err := service.LatestSnapshot(r.Context())
		if err != nil {
			logger.WithError(err).Error("report: failed to fetch latest snapshot")
			apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "failed to fetch the latest snapshot", nil)
			return
		}
		if snapshot == nil {
			apiErrors.WriteError(w, apiErrors.ErrNotFound, "no report snapshot available yet", nil)
			return
		}

		writeJSON(w, r, snapshot)
	})
}

// GetReportByDate returns the snapshot persisted for one run date.
func GetReportByDate(service reporting.ReportService) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		dateParam := r.URL.Query().Get("date")
		if dateParam == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "date query parameter is required", nil)
			return
		}

		runDate, err := utils.ParseDate(dateParam)
		if err != nil {
			logger.WithField("date", dateParam).Warn("report: invalid date parameter")
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "date must be YYYY-MM-DD", nil)
			return
		}

		snapshot, err := service.SnapshotByDate(r.Context(), *runDate)
		if err != nil {
			logger.WithError(err).Error("report: failed to fetch snapshot by date")
			apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "failed to fetch the snapshot", nil)
			return
		}
		if snapshot == nil {
			apiErrors.WriteError(w, apiErrors.ErrNotFound, "no snapshot for that run date", nil)
			return
		}

		writeJSON(w, r, snapshot)
	})
}

// GetMonthlySeries returns only the month-by-month revenue series.
func GetMonthlySeries(service reporting.ReportService) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		report, err := service.Generate(r.Context())
		if err != nil {
			logger.WithError(err).Error("report: generation failed")
			writePipelineError(w, err)
			return
		}

		writeJSON(w, r, map[string]any{
			"monthly_series": report.Bundle().MonthlySeries,
			"generated_at":   report.Bundle().GeneratedAt,
		})
	})
}

// GetTopProducts returns only the product ranking.
func GetTopProducts(service reporting.ReportService) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		report, err := service.Generate(r.Context())
		if err != nil {
			logger.WithError(err).Error("report: generation failed")
			writePipelineError(w, err)
			return
		}

		writeJSON(w, r, map[string]any{
			"top_products": report.Bundle().TopProducts,
			"generated_at": report.Bundle().GeneratedAt,
		})
	})
}

// GetTopCustomers returns only the customer ranking.
func GetTopCustomers(service reporting.ReportService) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		report, err := service.Generate(r.Context())
		if err != nil {
			logger.WithError(err).Error("report: generation failed")
			writePipelineError(w, err)
			return
		}

		writeJSON(w, r, map[string]any{
			"top_customers": report.Bundle().TopCustomers,
			"generated_at":  report.Bundle().GeneratedAt,
		})
	})
}

// writePipelineError maps the pipeline's typed errors to their API codes.
func writePipelineError(w http.ResponseWriter, err error) {
	var sourceErr *loading.SourceError
	if errors.As(err, &sourceErr) {
		details := map[string]any{"details": sourceErr.Details}
		if sourceErr.SaleID != 0 {
			details["sale_id"] = sourceErr.SaleID
		}
		apiErrors.WriteError(w, apiErrors.ErrSourceRead, sourceErr.Error(), details)
		return
	}

	if errors.Is(err, aggregating.ErrEmptyDataset) {
		apiErrors.WriteError(w, apiErrors.ErrEmptyDataset, err.Error(), nil)
		return
	}

	var validationErr *validating.ValidationError
	if errors.As(err, &validationErr) {
		apiErrors.WriteError(w, apiErrors.ErrReportValidation, validationErr.Error(), map[string]any{
			"check": validationErr.Check,
		})
		return
	}

	apiErrors.WriteError(w, apiErrors.ErrInternalServer, "report generation failed", nil)
}

func writeJSON(w http.ResponseWriter, r *http.Request, payload any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.ForContext(r.Context()).WithError(err).Error("failed to encode response")
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
