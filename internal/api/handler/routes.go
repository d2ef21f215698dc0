package handler

import (
	"net/http"

	"github.com/vfg2006/sales-analytics-api/internal/api/handler/router"
	"github.com/vfg2006/sales-analytics-api/internal/scheduler"
	"github.com/vfg2006/sales-analytics-api/internal/usecases/authenticating"
	"github.com/vfg2006/sales-analytics-api/internal/usecases/reporting"
)

func Healthcheck() []router.Route {
	return []router.Route{
		{
			Path:    "/healthcheck",
			Method:  http.MethodGet,
			Handler: HealthcheckHandler(),
		},
	}
}

func Authentication(service authenticating.Authenticator) []router.Route {
	return []router.Route{
		{
			Path:    "/v1/login",
			Method:  http.MethodPost,
			Handler: Login(service),
		},
		{
			Path:    "/v1/register",
			Method:  http.MethodPost,
			Handler: CreateUser(service),
		},
	}
}

func Reports(service reporting.ReportService) []router.Route {
	return []router.Route{
		{
			Path:    "/v1/report",
			Method:  http.MethodGet,
			Handler: GetReport(service),
		},
		{
			Path:    "/v1/report/latest",
			Method:  http.MethodGet,
			Handler: GetLatestReport(service),
		},
		{
			Path:    "/v1/report/snapshot",
			Method:  http.MethodGet,
			Handler: GetReportByDate(service),
		},
		{
			Path:    "/v1/report/monthly",
			Method:  http.MethodGet,
			Handler: GetMonthlySeries(service),
		},
		{
			Path:    "/v1/report/top-products",
			Method:  http.MethodGet,
			Handler: GetTopProducts(service),
		},
		{
			Path:    "/v1/report/top-customers",
			Method:  http.MethodGet,
			Handler: GetTopCustomers(service),
		},
	}
}

func CronJobs(service *scheduler.ReportSyncService) []router.Route {
	return []router.Route{
		{
			Path:    "/v1/cron/report-sync/run",
			Method:  http.MethodPost,
			Handler: RunReportSync(service),
		},
		{
			Path:    "/v1/cron/status",
			Method:  http.MethodGet,
			Handler: GetCronStatus(service),
		},
	}
}
