package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/vfg2006/sales-analytics-api/infrastructure/database"
	"github.com/vfg2006/sales-analytics-api/internal/domain"
	"github.com/vfg2006/sales-analytics-api/pkg/utils"
)

const (
	reportSnapshotsTable = "report_snapshots rs"
)

type ReportSnapshotRepository interface {
	SaveOrUpdate(ctx context.Context, snapshot *domain.ReportSnapshot) error
	GetLatest(ctx context.Context) (*domain.ReportSnapshot, error)
	GetByRunDate(ctx context.Context, runDate time.Time) (*domain.ReportSnapshot, error)
	DeleteOlderThan(ctx context.Context, days int) (int64, error)
}

type reportSnapshotRepository struct {
	conn *database.Connection
}

func NewReportSnapshotRepository(conn *database.Connection) ReportSnapshotRepository {
	return &reportSnapshotRepository{
		conn: conn,
	}
}

func (r *reportSnapshotRepository) SaveOrUpdate(ctx context.Context, snapshot *domain.ReportSnapshot) error {
	reportJSON, err := json.Marshal(snapshot.Report)
	if err != nil {
		return fmt.Errorf("failed to serialize report bundle to JSON: %w", err)
	}

	if snapshot.ID == "" {
		id, err := utils.GenerateID()
		if err != nil {
			return fmt.Errorf("failed to generate snapshot id: %w", err)
		}
		snapshot.ID = id
	}

	query, args, err := r.conn.Builder().
		Insert("report_snapshots").
		Columns("id", "run_date", "report").
		Values(
			snapshot.ID,
			snapshot.RunDate.Format(time.DateOnly),
			reportJSON,
		).
		Suffix(`
			ON CONFLICT (run_date) DO UPDATE SET
				report = EXCLUDED.report,
				updated_at = CURRENT_TIMESTAMP
		`).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build the upsert query: %w", err)
	}

	_, err = r.conn.ExecContext(ctx, query, args...)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			return fmt.Errorf("database error: %w (code: %s)", pqErr, pqErr.Code)
		}
		return fmt.Errorf("failed to execute the upsert query: %w", err)
	}

	return nil
}

func (r *reportSnapshotRepository) GetLatest(ctx context.Context) (*domain.ReportSnapshot, error) {
	query, args, err := r.conn.Builder().
		Select("rs.id", "rs.run_date", "rs.report", "rs.created_at", "rs.updated_at").
		From(reportSnapshotsTable).
		OrderBy("rs.run_date DESC").
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build the query: %w", err)
	}

	return r.scanSnapshot(r.conn.QueryRowContext(ctx, query, args...))
}

func (r *reportSnapshotRepository) GetByRunDate(ctx context.Context, runDate time.Time) (*domain.ReportSnapshot, error) {
	query, args, err := r.conn.Builder().
		Select("rs.id", "rs.run_date", "rs.report", "rs.created_at", "rs.updated_at").
		From(reportSnapshotsTable).
		Where("rs.run_date = ?", runDate.Format(time.DateOnly)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build the query: %w", err)
	}

	return r.scanSnapshot(r.conn.QueryRowContext(ctx, query, args...))
}

func (r *reportSnapshotRepository) DeleteOlderThan(ctx context.Context, days int) (int64, error) {
	cutoffDate := time.Now().AddDate(0, 0, -days).Format(time.DateOnly)

	query, args, err := r.conn.Builder().
		Delete("report_snapshots").
		Where("run_date < ?", cutoffDate).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build the delete query: %w", err)
	}

	result, err := r.conn.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to execute the delete query: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read affected row count: %w", err)
	}

	return rowsAffected, nil
}

func (r *reportSnapshotRepository) scanSnapshot(row *sql.Row) (*domain.ReportSnapshot, error) {
	snapshot := &domain.ReportSnapshot{}
	var reportJSON []byte
	var runDateStr string

	err := row.Scan(
		&snapshot.ID,
		&runDateStr,
		&reportJSON,
		&snapshot.CreatedAt,
		&snapshot.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to scan report snapshot: %w", err)
	}

	runDate, err := parseDBDate(runDateStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse run date: %w", err)
	}
	snapshot.RunDate = runDate

	if reportJSON != nil {
		report := &domain.ReportBundle{}
		if err := json.Unmarshal(reportJSON, report); err != nil {
			return nil, fmt.Errorf("failed to deserialize report JSON: %w", err)
		}
		snapshot.Report = report
	}

	return snapshot, nil
}

// parseDBDate tolerates both plain DATE text and driver timestamp text.
func parseDBDate(s string) (time.Time, error) {
	if len(s) >= len(time.DateOnly) {
		if t, err := time.Parse(time.DateOnly, s[:len(time.DateOnly)]); err == nil {
			return t, nil
		}
	}
	return time.Parse(time.RFC3339, s)
}
