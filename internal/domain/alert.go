package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type AlertKind string

// Os tipos são avaliados sempre nesta ordem
const (
	AlertHighCPC         AlertKind = "HIGH_CPC"
	AlertLowCTR          AlertKind = "LOW_CTR"
	AlertBudgetDepleted  AlertKind = "BUDGET_DEPLETED"
	AlertCampaignStopped AlertKind = "CAMPAIGN_STOPPED"
)

// AlertEvent registra o cruzamento de um limiar por uma entidade
type AlertEvent struct {
	Kind             AlertKind       `json:"kind"`
	EntityID         string          `json:"entity_id"`
	EntityName       string          `json:"entity_name"`
	Observed         decimal.Decimal `json:"observed"`
	Threshold        decimal.Decimal `json:"threshold"`
	PercentDeviation float64         `json:"percent_deviation"`
	Message          string          `json:"message"`
	CreatedAt        time.Time       `json:"created_at"`
}

// AlertThresholds são os limiares configurados, constantes durante a execução
type AlertThresholds struct {
	HighCPC               decimal.Decimal
	LowCTR                float64
	BudgetDepletedPercent float64
	MinImpressions        int
	MinClicks             int
}
