// Package reporting orchestrates the analysis pipeline: load, aggregate,
// validate, and persist snapshots of validated reports.
package reporting

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/vfg2006/sales-analytics-api/infrastructure/repository"
	"github.com/vfg2006/sales-analytics-api/internal/domain"
	"github.com/vfg2006/sales-analytics-api/internal/usecases/aggregating"
	"github.com/vfg2006/sales-analytics-api/internal/usecases/loading"
	"github.com/vfg2006/sales-analytics-api/internal/usecases/validating"
)

type ReportService interface {
	Generate(ctx context.Context) (validating.Validated, error)
	SaveSnapshot(ctx context.Context, report validating.Validated) (*domain.ReportSnapshot, error)
	LatestSnapshot(ctx context.Context) (*domain.ReportSnapshot, error)
	SnapshotByDate(ctx context.Context, runDate time.Time) (*domain.ReportSnapshot, error)
	CleanupSnapshots(ctx context.Context, retentionDays int) (int64, error)
}

type Service struct {
	loader       loading.Loader
	aggregator   aggregating.Aggregator
	validator    validating.Validator
	snapshotRepo repository.ReportSnapshotRepository
	now          func() time.Time
}

func NewService(
	loader loading.Loader,
	aggregator aggregating.Aggregator,
	validator validating.Validator,
	snapshotRepo repository.ReportSnapshotRepository,
) ReportService {
	return &Service{
		loader:       loader,
		aggregator:   aggregator,
		validator:    validator,
		snapshotRepo: snapshotRepo,
		now:          time.Now,
	}
}

// Generate runs one full pipeline pass. Every stage fails fast: the typed
// error of the failing stage is returned untouched and nothing downstream
// runs against a partial result.
func (s *Service) Generate(ctx context.Context) (validating.Validated, error) {
	rows, err := s.loader.Load(ctx)
	if err != nil {
		return validating.Validated{}, err
	}

	bundle, err := s.aggregator.Aggregate(rows)
	if err != nil {
		return validating.Validated{}, err
	}
	bundle.GeneratedAt = s.now().UTC()

	report, err := s.validator.Validate(bundle)
	if err != nil {
		return validating.Validated{}, err
	}

	logrus.WithFields(logrus.Fields{
		"rows":          len(bundle.Rows),
		"total_revenue": bundle.TotalRevenue.StringFixed(2),
		"top_products":  len(bundle.TopProducts),
		"top_customers": len(bundle.TopCustomers),
		"months":        len(bundle.MonthlySeries),
	}).Info("report generated and validated")

	return report, nil
}

func (s *Service) SaveSnapshot(ctx context.Context, report validating.Validated) (*domain.ReportSnapshot, error) {
	snapshot := &domain.ReportSnapshot{
		RunDate: s.now().UTC().Truncate(24 * time.Hour),
		Report:  report.Bundle(),
	}

	if err := s.snapshotRepo.SaveOrUpdate(ctx, snapshot); err != nil {
		return nil, err
	}

	return snapshot, nil
}

func (s *Service) LatestSnapshot(ctx context.Context) (*domain.ReportSnapshot, error) {
	return s.snapshotRepo.GetLatest(ctx)
}

func (s *Service) SnapshotByDate(ctx context.Context, runDate time.Time) (*domain.ReportSnapshot, error) {
	return s.snapshotRepo.GetByRunDate(ctx, runDate)
}

func (s *Service) CleanupSnapshots(ctx context.Context, retentionDays int) (int64, error) {
	return s.snapshotRepo.DeleteOlderThan(ctx, retentionDays)
}
