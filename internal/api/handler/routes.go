package handler

import (
	"net/http"

	"github.com/vfg2006/ads-reporter/infrastructure/repository"
	"github.com/vfg2006/ads-reporter/internal/api/handler/router"
	"github.com/vfg2006/ads-reporter/pkg/middleware"
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

func ReportJobs(services ReportJobServices) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/reports/run/:type",
			Method:      http.MethodPost,
			Handler:     RunReportJob(services),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOnly()},
		},
		{
			Path:        "/v1/reports/status",
			Method:      http.MethodGet,
			Handler:     GetReportStatus(services),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOnly()},
		},
	}
}

func Alerts(alertRepo repository.AlertEventRepository) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/reports/alerts",
			Method:      http.MethodGet,
			Handler:     GetAlerts(alertRepo),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOnly()},
		},
	}
}
