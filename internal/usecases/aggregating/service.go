package aggregating

import (
	"sort"

	"github.com/shopspring/decimal"
	"github.com/vfg2006/ads-reporter/internal/domain"
	"github.com/vfg2006/ads-reporter/pkg/utils"
)

// Aggregate reduz a sequência de linhas de métricas no relatório do período.
// Função pura: somas exatas em decimal, divisões protegidas e ordenação
// determinística (métrica decrescente, empate por entity_id crescente)
func Aggregate(rows []*domain.MetricRow, dateRange domain.DateRange, rankBy domain.RankMetric) *domain.AggregateReport {
	report := &domain.AggregateReport{
		Range:      dateRange,
		TotalSpend: decimal.Zero,
		AverageCPC: decimal.Zero,
		RankedBy:   rankBy,
		Entries:    make([]*domain.RankedEntry, 0),
	}

	byEntity := make(map[string]*domain.RankedEntry)

	for _, row := range rows {
		report.TotalImpressions += row.Impressions
		report.TotalClicks += row.Clicks
		report.TotalSpend = report.TotalSpend.Add(row.Spend)
		report.TotalConversions += row.Conversions

		entry, ok := byEntity[row.EntityID]
		if !ok {
			entry = &domain.RankedEntry{
				EntityID: row.EntityID,
				Spend:    decimal.Zero,
			}
			byEntity[row.EntityID] = entry
			report.Entries = append(report.Entries, entry)
		}

		if row.EntityName != "" {
			entry.EntityName = row.EntityName
		}
		entry.Impressions += row.Impressions
		entry.Clicks += row.Clicks
		entry.Spend = entry.Spend.Add(row.Spend)
		entry.Conversions += row.Conversions
	}

	for _, entry := range report.Entries {
		entry.CTR = ctr(entry.Clicks, entry.Impressions)
		entry.CPC = guardedDiv(entry.Spend, entry.Clicks)
		entry.CostPerConversion = guardedDiv(entry.Spend, entry.Conversions)
	}

	report.AverageCTR = ctr(report.TotalClicks, report.TotalImpressions)
	report.AverageCPC = guardedDiv(report.TotalSpend, report.TotalClicks)

	rank(report.Entries, rankBy)

	return report
}

// ctr retorna clicks/impressions*100 com proteção de divisão por zero
func ctr(clicks, impressions int) float64 {
	if impressions == 0 {
		return 0
	}
	return utils.RoundWithTwoDecimalPlace(float64(clicks) / float64(impressions) * 100)
}

// guardedDiv retorna numerator/denominator; zero quando o denominador é zero
func guardedDiv(numerator decimal.Decimal, denominator int) decimal.Decimal {
	if denominator == 0 {
		return decimal.Zero
	}
	return numerator.DivRound(decimal.NewFromInt(int64(denominator)), 4)
}

// rank ordena de forma estável pela métrica configurada, decrescente, com
// desempate por entity_id crescente para saída determinística entre execuções
func rank(entries []*domain.RankedEntry, rankBy domain.RankMetric) {
	sort.SliceStable(entries, func(i, j int) bool {
		cmp := compareBy(entries[i], entries[j], rankBy)
		if cmp != 0 {
			return cmp > 0
		}
		return entries[i].EntityID < entries[j].EntityID
	})
}

func compareBy(a, b *domain.RankedEntry, rankBy domain.RankMetric) int {
	switch rankBy {
	case domain.RankByImpressions:
		return compareInt(a.Impressions, b.Impressions)
	case domain.RankByClicks:
		return compareInt(a.Clicks, b.Clicks)
	case domain.RankByConversions:
		return compareInt(a.Conversions, b.Conversions)
	case domain.RankByCTR:
		return compareFloat(a.CTR, b.CTR)
	default:
		return a.Spend.Cmp(b.Spend)
	}
}

func compareInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
