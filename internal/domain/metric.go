package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// MetricRow é a linha de métricas de uma entidade em uma data, chave composta
// (entity_id, date). A API de origem não garante clicks <= impressions
type MetricRow struct {
	EntityID    string          `json:"entity_id"`
	EntityName  string          `json:"entity_name"`
	Date        time.Time       `json:"date"`
	Impressions int             `json:"impressions"`
	Clicks      int             `json:"clicks"`
	Spend       decimal.Decimal `json:"spend"`
	Conversions int             `json:"conversions"`
}

// CTR retorna clicks/impressions*100; 0 quando não há impressões
func (r *MetricRow) CTR() float64 {
	if r.Impressions == 0 {
		return 0
	}
	return float64(r.Clicks) / float64(r.Impressions) * 100
}

// CPC retorna spend/clicks; 0 quando não há cliques
func (r *MetricRow) CPC() decimal.Decimal {
	if r.Clicks == 0 {
		return decimal.Zero
	}
	return r.Spend.DivRound(decimal.NewFromInt(int64(r.Clicks)), 4)
}

// CostPerConversion retorna spend/conversions; 0 quando não há conversões
func (r *MetricRow) CostPerConversion() decimal.Decimal {
	if r.Conversions == 0 {
		return decimal.Zero
	}
	return r.Spend.DivRound(decimal.NewFromInt(int64(r.Conversions)), 4)
}

// MetricRowEntry é a linha persistida na tabela de fatos
type MetricRowEntry struct {
	ID         int64      `json:"id"`
	EntityID   string     `json:"entity_id"`
	EntityType EntityType `json:"entity_type"`
	Date       time.Time  `json:"date"`
	Row        *MetricRow `json:"row"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}
