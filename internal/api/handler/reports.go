package handler

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/ads-reporter/internal/scheduler"
	"github.com/vfg2006/ads-reporter/pkg/reportErrors"
)

// Tipos de relatório aceitos pela superfície de trigger manual
const (
	ReportJobTypeDaily      = "daily"
	ReportJobTypeWeekly     = "weekly"
	ReportJobTypeSpendCheck = "spend-check"
	ReportJobTypeAll        = "all"
)

// ReportJobServices contém os agendadores necessários para execução manual
type ReportJobServices struct {
	DailyReportService  *scheduler.ReportJobService
	WeeklyReportService *scheduler.ReportJobService
	SpendCheckService   *scheduler.ReportJobService
}

// RunReportJob executa manualmente o pipeline de um tipo de relatório
func RunReportJob(services ReportJobServices) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logrus.Info("INIT - RunReportJob")

		reportType := httprouter.ParamsFromContext(r.Context()).ByName("type")
		if reportType == "" {
			reportErrors.WriteError(w, reportErrors.ErrInvalidRequest, "Tipo de relatório não especificado", nil)
			return
		}

		switch reportType {
		case ReportJobTypeDaily:
			if services.DailyReportService == nil {
				reportErrors.WriteError(w, "SRV_001", "Serviço do relatório diário não disponível", nil)
				return
			}
			services.DailyReportService.TriggerManualSync()

		case ReportJobTypeWeekly:
			if services.WeeklyReportService == nil {
				reportErrors.WriteError(w, "SRV_001", "Serviço do relatório semanal não disponível", nil)
				return
			}
			services.WeeklyReportService.TriggerManualSync()

		case ReportJobTypeSpendCheck:
			if services.SpendCheckService == nil {
				reportErrors.WriteError(w, "SRV_001", "Serviço de verificação de gasto não disponível", nil)
				return
			}
			services.SpendCheckService.TriggerManualSync()

		case ReportJobTypeAll:
			if services.DailyReportService != nil {
				services.DailyReportService.TriggerManualSync()
			}
			if services.WeeklyReportService != nil {
				services.WeeklyReportService.TriggerManualSync()
			}
			if services.SpendCheckService != nil {
				services.SpendCheckService.TriggerManualSync()
			}

		default:
			reportErrors.WriteError(w, reportErrors.ErrInvalidRequest,
				"Tipo de relatório inválido. Valores aceitos: daily, weekly, spend-check, all", nil)
			return
		}

		response := map[string]any{
			"message": "Execução do relatório iniciada com sucesso",
			"type":    reportType,
		}
		json.NewEncoder(w).Encode(response)
	}
}

// GetReportStatus retorna o status dos agendadores de relatório
func GetReportStatus(services ReportJobServices) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logrus.Info("INIT - GetReportStatus")

		status := map[string]any{
			"daily":       services.DailyReportService.GetStatus(),
			"weekly":      services.WeeklyReportService.GetStatus(),
			"spend-check": services.SpendCheckService.GetStatus(),
		}

		json.NewEncoder(w).Encode(status)
	}
}
