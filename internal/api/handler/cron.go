package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/vfg2006/sales-analytics-api/internal/scheduler"
	"github.com/vfg2006/sales-analytics-api/pkg/apiErrors"
)

// RunReportSync triggers a report sync pass outside the cron schedule. The
// run happens in the background; concurrent triggers are collapsed by the
// sync service itself.
func RunReportSync(service *scheduler.ReportSyncService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if service == nil {
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "report sync service unavailable", nil)
			return
		}

		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
			defer cancel()

			if err := service.SyncReport(ctx); err != nil {
				logrus.WithError(err).Error("manual report sync failed")
			}
		}()

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusAccepted)
		if err := json.NewEncoder(w).Encode(map[string]string{
			"message": "report sync started",
		}); err != nil {
			logrus.WithError(err).Error("cron: failed to encode response")
		}
	}
}

// GetCronStatus reports whether a sync run is in flight and the last run
// timestamps.
func GetCronStatus(service *scheduler.ReportSyncService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if service == nil {
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "report sync service unavailable", nil)
			return
		}

		running, startedAt, completedAt := service.SyncStatus()

		status := map[string]any{
			"report-sync": map[string]any{
				"running":           running,
				"last_started_at":   formatSyncTime(startedAt),
				"last_completed_at": formatSyncTime(completedAt),
			},
		}

		writeJSON(w, r, status)
	}
}

func formatSyncTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t.Format(time.RFC3339)
}
