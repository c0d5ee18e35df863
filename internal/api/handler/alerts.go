package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/ads-reporter/infrastructure/repository"
	"github.com/vfg2006/ads-reporter/pkg/reportErrors"
	"github.com/vfg2006/ads-reporter/pkg/utils"
)

// GetAlerts lista os eventos de alerta registrados em uma data. Sem o
// parâmetro "date" a consulta cobre o dia corrente
func GetAlerts(alertRepo repository.AlertEventRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logrus.Info("INIT - GetAlerts")

		date := time.Now()
		if raw := r.URL.Query().Get("date"); raw != "" {
			parsed, err := time.Parse(utils.DateLayout, raw)
			if err != nil {
				reportErrors.WriteError(w, reportErrors.ErrInvalidRequest,
					"Data inválida, formato esperado: AAAA-MM-DD", nil)
				return
			}
			date = parsed
		}

		events, err := alertRepo.ListByDate(date)
		if err != nil {
			reportErrors.WriteError(w, reportErrors.ErrPersistence,
				"Não foi possível consultar os eventos de alerta", nil)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"date":   date.Format(utils.DateLayout),
			"total":  len(events),
			"alerts": events,
		})
	}
}
