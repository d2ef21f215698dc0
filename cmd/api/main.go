package main

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/vfg2006/sales-analytics-api/infrastructure/database"
	"github.com/vfg2006/sales-analytics-api/infrastructure/migration"
	"github.com/vfg2006/sales-analytics-api/infrastructure/repository"
	"github.com/vfg2006/sales-analytics-api/internal/api"
	"github.com/vfg2006/sales-analytics-api/internal/config"
	"github.com/vfg2006/sales-analytics-api/internal/render"
	"github.com/vfg2006/sales-analytics-api/internal/scheduler"
	"github.com/vfg2006/sales-analytics-api/internal/usecases/aggregating"
	"github.com/vfg2006/sales-analytics-api/internal/usecases/authenticating"
	"github.com/vfg2006/sales-analytics-api/internal/usecases/loading"
	"github.com/vfg2006/sales-analytics-api/internal/usecases/reporting"
	"github.com/vfg2006/sales-analytics-api/internal/usecases/validating"
)

func main() {
	configureLogger()

	cfg, err := config.NewConfig()
	if err != nil {
		logrus.Fatal(err)
	}

	logLevel, err := logrus.ParseLevel(cfg.App.LogLevel)
	if err != nil {
		logrus.Warnf("invalid log level %q, falling back to info", cfg.App.LogLevel)
		logLevel = logrus.InfoLevel
	}
	logrus.SetLevel(logLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	conn := dbconn(ctx, cfg.Database)
	defer conn.Close()

	if err := migration.Run(conn); err != nil {
		logrus.WithError(err).Fatal("failed to run database migrations")
	}

	transactionRepo := repository.NewTransactionRepository(conn)
	snapshotRepo := repository.NewReportSnapshotRepository(conn)
	userRepo := repository.NewUserRepository(conn)

	authenticator := authenticating.NewService(userRepo, cfg)

	loader := loading.NewService(transactionRepo)
	aggregator := aggregating.NewService()
	validator := validating.NewService(cfg.Report)
	reportService := reporting.NewService(loader, aggregator, validator, snapshotRepo)

	dashboardRenderer, err := render.NewDashboardRenderer(cfg.Report.OutputDir)
	if err != nil {
		logrus.WithError(err).Fatal("failed to initialize the dashboard renderer")
	}

	renderers := []scheduler.Renderer{
		render.NewStaticRenderer(cfg.Report.OutputDir),
		dashboardRenderer,
	}

	reportSyncService := scheduler.NewReportSyncService(reportService, renderers, cfg)

	if err := reportSyncService.Start(ctx); err != nil {
		logrus.WithError(err).Error("failed to start the report sync scheduler")
	} else {
		logrus.Info("report sync scheduler started")
	}

	server, err := api.New(
		cfg,
		reportService,
		authenticator,
		reportSyncService,
	)
	if err != nil {
		logrus.Fatal(err)
	}

	if err := server.Run(ctx); err != nil {
		logrus.Error(err)
	}
}

func configureLogger() {
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})
}

func dbconn(ctx context.Context, dbConfig config.Database) *database.Connection {
	conn, err := database.NewConnection(ctx, dbConfig)
	if err != nil {
		logrus.WithError(err).Fatal("failed to connect to the database")
	}

	logrus.WithField("driver", dbConfig.Driver).Info("database connection established")
	return conn
}
