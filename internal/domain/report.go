package domain

import (
	"github.com/shopspring/decimal"
)

// RankMetric define a métrica usada para ordenar entidades no relatório
type RankMetric string

const (
	RankBySpend       RankMetric = "spend"
	RankByImpressions RankMetric = "impressions"
	RankByClicks      RankMetric = "clicks"
	RankByConversions RankMetric = "conversions"
	RankByCTR         RankMetric = "ctr"
)

// ParseRankMetric converte a métrica configurada; valores desconhecidos caem em spend
func ParseRankMetric(raw string) RankMetric {
	switch RankMetric(raw) {
	case RankBySpend, RankByImpressions, RankByClicks, RankByConversions, RankByCTR:
		return RankMetric(raw)
	}
	return RankBySpend
}

// RankedEntry é a visão por entidade dentro de um relatório agregado
type RankedEntry struct {
	EntityID          string          `json:"entity_id"`
	EntityName        string          `json:"entity_name"`
	Impressions       int             `json:"impressions"`
	Clicks            int             `json:"clicks"`
	Spend             decimal.Decimal `json:"spend"`
	Conversions       int             `json:"conversions"`
	CTR               float64         `json:"ctr"`
	CPC               decimal.Decimal `json:"cpc"`
	CostPerConversion decimal.Decimal `json:"cost_per_conversion"`
}

// AggregateReport é o resultado da agregação de um período
type AggregateReport struct {
	Range            DateRange       `json:"date_range"`
	TotalImpressions int             `json:"total_impressions"`
	TotalClicks      int             `json:"total_clicks"`
	TotalSpend       decimal.Decimal `json:"total_spend"`
	TotalConversions int             `json:"total_conversions"`
	AverageCTR       float64         `json:"average_ctr"`
	AverageCPC       decimal.Decimal `json:"average_cpc"`
	RankedBy         RankMetric      `json:"ranked_by"`
	Entries          []*RankedEntry  `json:"entries"`
}
