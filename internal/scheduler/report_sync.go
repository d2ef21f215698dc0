// Package scheduler contains the cron services that keep derived data fresh.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/sirupsen/logrus"

	"github.com/vfg2006/sales-analytics-api/internal/config"
	"github.com/vfg2006/sales-analytics-api/internal/usecases/reporting"
	"github.com/vfg2006/sales-analytics-api/internal/usecases/validating"
	"github.com/vfg2006/sales-analytics-api/pkg/utils"
)

// Renderer is any consumer that turns a validated report into files.
type Renderer interface {
	RenderReport(report validating.Validated) error
}

type ReportSyncConfig struct {
	CronSchedule  string
	Enabled       bool
	RetentionDays int
}

// ReportSyncService regenerates the sales report on a cron schedule: run the
// pipeline, persist the snapshot, render the output files, drop snapshots
// past retention.
type ReportSyncService struct {
	scheduler           *gocron.Scheduler
	reportService       reporting.ReportService
	renderers           []Renderer
	config              ReportSyncConfig
	syncRunning         bool
	syncMutex           sync.Mutex
	lastSyncStartedAt   time.Time
	lastSyncCompletedAt time.Time
}

func NewReportSyncService(
	reportService reporting.ReportService,
	renderers []Renderer,
	cfg *config.Config,
) *ReportSyncService {
	syncConfig := ReportSyncConfig{
		CronSchedule:  cfg.ReportSync.CronSchedule,
		Enabled:       cfg.ReportSync.Enabled,
		RetentionDays: cfg.ReportSync.RetentionDays,
	}

	scheduler := gocron.NewScheduler(time.Local)

	logrus.WithFields(logrus.Fields{
		"cron_schedule":  syncConfig.CronSchedule,
		"retention_days": syncConfig.RetentionDays,
	}).Info("report sync scheduler configuration loaded")

	return &ReportSyncService{
		scheduler:     scheduler,
		reportService: reportService,
		renderers:     renderers,
		config:        syncConfig,
	}
}

func (s *ReportSyncService) Start(ctx context.Context) error {
	if !s.config.Enabled {
		logrus.Info("report sync cron disabled by configuration")
		return nil
	}

	logrus.WithField("cron", s.config.CronSchedule).Info("starting report sync cron")

	_, err := s.scheduler.Cron(s.config.CronSchedule).Do(func() {
		if err := s.SyncReport(ctx); err != nil {
			logrus.WithError(err).Error("report sync run failed")
		}
	})
	if err != nil {
		return fmt.Errorf("failed to schedule report sync: %w", err)
	}

	s.scheduler.StartAsync()

	go func() {
		<-ctx.Done()
		logrus.Info("stopping report sync cron")
		s.scheduler.Stop()
	}()

	return nil
}

// SyncReport runs one full sync pass. Concurrent invocations are collapsed:
// a run that finds another in flight returns immediately.
func (s *ReportSyncService) SyncReport(ctx context.Context) error {
	s.syncMutex.Lock()
	if s.syncRunning {
		s.syncMutex.Unlock()
		logrus.Warn("report sync already running")
		return nil
	}
	s.syncRunning = true
	s.lastSyncStartedAt = time.Now()
	s.syncMutex.Unlock()

	defer func() {
		s.syncMutex.Lock()
		s.syncRunning = false
		s.lastSyncCompletedAt = time.Now()
		s.syncMutex.Unlock()
	}()

	logrus.Info("starting report sync")

	report, err := s.reportService.Generate(ctx)
	if err != nil {
		// Pipeline errors are final for this run: nothing is persisted and
		// nothing is rendered.
		return err
	}

	snapshot, err := s.reportService.SaveSnapshot(ctx, report)
	if err != nil {
		logrus.WithError(err).Error("failed to persist the report snapshot")
		return err
	}

	logrus.WithFields(logrus.Fields{
		"snapshot_id": snapshot.ID,
		"run_date":    snapshot.RunDate.Format(time.DateOnly),
	}).Info("report snapshot saved")

	if logrus.IsLevelEnabled(logrus.DebugLevel) {
		logrus.Debug("monthly series: ", utils.PrettyJson(report.Bundle().MonthlySeries))
	}

	for _, renderer := range s.renderers {
		if err := renderer.RenderReport(report); err != nil {
			return err
		}
	}

	if s.config.RetentionDays > 0 {
		deleted, err := s.reportService.CleanupSnapshots(ctx, s.config.RetentionDays)
		if err != nil {
			logrus.WithError(err).Warn("snapshot retention cleanup failed")
		} else if deleted > 0 {
			logrus.WithField("deleted", deleted).Info("old report snapshots removed")
		}
	}

	logrus.Info("report sync completed")

	return nil
}

// SyncStatus reports whether a run is in flight and the last run timestamps.
func (s *ReportSyncService) SyncStatus() (bool, time.Time, time.Time) {
	s.syncMutex.Lock()
	defer s.syncMutex.Unlock()
	return s.syncRunning, s.lastSyncStartedAt, s.lastSyncCompletedAt
}
