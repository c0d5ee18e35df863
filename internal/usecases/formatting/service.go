package formatting

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/vfg2006/ads-reporter/internal/domain"
	"github.com/vfg2006/ads-reporter/pkg/utils"
)

const (
	TemplateDaily       = "daily"
	TemplateWeekly      = "weekly"
	TemplatePerformance = "performance"

	// missingValue substitui campos ausentes em templates de texto
	missingValue = "n/a"
)

var placeholderPattern = regexp.MustCompile(`\{[a-zA-Z0-9_]+\}`)

// templates são layouts orientados a linha; a substituição é interpolação
// pura de campos nomeados, sem fluxo de controle
var templates = map[string][]string{
	TemplateDaily: {
		"<b>Relatório diário de anúncios</b>",
		"Período: {start_date} a {end_date}",
		"",
		"Impressões: {total_impressions}",
		"Cliques: {total_clicks}",
		"Investimento: {total_spend}",
		"Conversões: {total_conversions}",
		"CTR médio: {average_ctr}",
		"CPC médio: {average_cpc}",
		"",
		"<b>Ranking por {ranked_by}</b>",
		"{ranking}",
		"",
		"<b>Alertas</b>",
		"{alerts}",
	},
	TemplateWeekly: {
		"<b>Relatório semanal de anúncios</b>",
		"Período: {start_date} a {end_date}",
		"",
		"Impressões: {total_impressions}",
		"Cliques: {total_clicks}",
		"Investimento: {total_spend}",
		"Conversões: {total_conversions}",
		"CTR médio: {average_ctr}",
		"CPC médio: {average_cpc}",
		"Custo por conversão: {average_cost_per_conversion}",
		"",
		"<b>Ranking por {ranked_by}</b>",
		"{ranking}",
		"",
		"<b>Alertas</b>",
		"{alerts}",
	},
	TemplatePerformance: {
		"<b>Verificação de performance</b>",
		"Período: {start_date} a {end_date}",
		"",
		"Investimento: {total_spend}",
		"CPC médio: {average_cpc}",
		"",
		"<b>Alertas</b>",
		"{alerts}",
	},
}

// Input embala o relatório agregado e os alertas da mesma execução
type Input struct {
	Report *domain.AggregateReport
	Alerts []*domain.AlertEvent

	// RankingLimit limita o bloco de ranking; zero mantém todas as entidades
	RankingLimit int
}

// Format renderiza o template nomeado como texto. Campos sem dado recebem
// "n/a" para strings e zero formatado para numéricos; o texto final nunca
// contém um token {campo} literal
func Format(templateName string, input Input) (string, error) {
	layout, ok := templates[templateName]
	if !ok {
		return "", errors.Errorf("template desconhecido: %s", templateName)
	}

	fields := textFields(input)

	lines := make([]string, 0, len(layout))
	for _, line := range layout {
		lines = append(lines, substitute(line, fields))
	}

	return strings.Join(lines, "\n"), nil
}

// ToMap produz a representação serializável em JSON do relatório e alertas
func ToMap(input Input) map[string]interface{} {
	report := input.Report

	out := map[string]interface{}{
		"start_date":        missingValue,
		"end_date":          missingValue,
		"total_impressions": 0,
		"total_clicks":      0,
		"total_spend":       "0.00",
		"total_conversions": 0,
		"average_ctr":       "0.00",
		"average_cpc":       "0.00",
		"ranked_by":         "",
		"entries":           []map[string]interface{}{},
		"alerts":            []map[string]interface{}{},
	}

	if report != nil {
		out["start_date"] = report.Range.Start.Format(utils.DateLayout)
		out["end_date"] = report.Range.End.Format(utils.DateLayout)
		out["total_impressions"] = report.TotalImpressions
		out["total_clicks"] = report.TotalClicks
		out["total_spend"] = report.TotalSpend.StringFixed(2)
		out["total_conversions"] = report.TotalConversions
		out["average_ctr"] = fmt.Sprintf("%.2f", report.AverageCTR)
		out["average_cpc"] = report.AverageCPC.StringFixed(2)
		out["ranked_by"] = string(report.RankedBy)

		entries := make([]map[string]interface{}, 0, len(report.Entries))
		for _, entry := range limitEntries(report.Entries, input.RankingLimit) {
			entries = append(entries, map[string]interface{}{
				"entity_id":   entry.EntityID,
				"entity_name": entry.EntityName,
				"impressions": entry.Impressions,
				"clicks":      entry.Clicks,
				"spend":       entry.Spend.StringFixed(2),
				"conversions": entry.Conversions,
				"ctr":         fmt.Sprintf("%.2f", entry.CTR),
				"cpc":         entry.CPC.StringFixed(2),
			})
		}
		out["entries"] = entries
	}

	alerts := make([]map[string]interface{}, 0, len(input.Alerts))
	for _, alert := range input.Alerts {
		alerts = append(alerts, map[string]interface{}{
			"kind":              string(alert.Kind),
			"entity_id":         alert.EntityID,
			"entity_name":       alert.EntityName,
			"observed":          alert.Observed.StringFixed(2),
			"threshold":         alert.Threshold.StringFixed(2),
			"percent_deviation": fmt.Sprintf("%.2f", alert.PercentDeviation),
			"message":           alert.Message,
		})
	}
	out["alerts"] = alerts

	return out
}

// csvHeader é fixo para manter exports comparáveis entre execuções
var csvHeader = []string{
	"entity_id", "entity_name", "impressions", "clicks",
	"spend", "conversions", "ctr", "cpc",
}

// ToCSVRows produz cabeçalho e uma linha por entidade, na ordem do ranking
func ToCSVRows(input Input) [][]string {
	rows := [][]string{csvHeader}

	if input.Report == nil {
		return rows
	}

	for _, entry := range limitEntries(input.Report.Entries, input.RankingLimit) {
		rows = append(rows, []string{
			entry.EntityID,
			entry.EntityName,
			fmt.Sprintf("%d", entry.Impressions),
			fmt.Sprintf("%d", entry.Clicks),
			entry.Spend.StringFixed(2),
			fmt.Sprintf("%d", entry.Conversions),
			fmt.Sprintf("%.2f", entry.CTR),
			entry.CPC.StringFixed(2),
		})
	}

	return rows
}

func textFields(input Input) map[string]string {
	fields := map[string]string{
		"total_impressions":           utils.FormatThousands(0),
		"total_clicks":                utils.FormatThousands(0),
		"total_spend":                 "R$ 0.00",
		"total_conversions":           utils.FormatThousands(0),
		"average_ctr":                 utils.FormatPercent(0),
		"average_cpc":                 "R$ 0.00",
		"average_cost_per_conversion": "R$ 0.00",
		"ranking":                     missingValue,
		"alerts":                      "nenhum alerta no período",
	}

	report := input.Report
	if report != nil {
		fields["start_date"] = report.Range.Start.Format(utils.DateLayout)
		fields["end_date"] = report.Range.End.Format(utils.DateLayout)
		fields["total_impressions"] = utils.FormatThousands(report.TotalImpressions)
		fields["total_clicks"] = utils.FormatThousands(report.TotalClicks)
		fields["total_spend"] = "R$ " + utils.FormatCurrency(report.TotalSpend)
		fields["total_conversions"] = utils.FormatThousands(report.TotalConversions)
		fields["average_ctr"] = utils.FormatPercent(report.AverageCTR)
		fields["average_cpc"] = "R$ " + utils.FormatCurrency(report.AverageCPC)
		fields["ranked_by"] = rankMetricLabel(report.RankedBy)

		if report.TotalConversions > 0 {
			fields["average_cost_per_conversion"] = "R$ " + utils.FormatCurrency(
				report.TotalSpend.DivRound(decimalFromInt(report.TotalConversions), 2))
		}

		if ranking := rankingBlock(report, input.RankingLimit); ranking != "" {
			fields["ranking"] = ranking
		}
	}

	if len(input.Alerts) > 0 {
		fields["alerts"] = alertsBlock(input.Alerts)
	}

	return fields
}

func rankingBlock(report *domain.AggregateReport, limit int) string {
	entries := limitEntries(report.Entries, limit)
	if len(entries) == 0 {
		return ""
	}

	lines := make([]string, 0, len(entries))
	for i, entry := range entries {
		lines = append(lines, fmt.Sprintf(
			"%d. %s — %s impressões, %s cliques, R$ %s, CTR %s",
			i+1,
			entry.EntityName,
			utils.FormatThousands(entry.Impressions),
			utils.FormatThousands(entry.Clicks),
			utils.FormatCurrency(entry.Spend),
			utils.FormatPercent(entry.CTR),
		))
	}

	return strings.Join(lines, "\n")
}

func alertsBlock(alerts []*domain.AlertEvent) string {
	lines := make([]string, 0, len(alerts))
	for _, alert := range alerts {
		lines = append(lines, fmt.Sprintf("⚠️ [%s] %s: %s", alert.Kind, alert.EntityName, alert.Message))
	}
	return strings.Join(lines, "\n")
}

// substitute interpola os campos conhecidos e troca qualquer token
// remanescente pelo valor padrão
func substitute(line string, fields map[string]string) string {
	return placeholderPattern.ReplaceAllStringFunc(line, func(token string) string {
		key := strings.Trim(token, "{}")
		if value, ok := fields[key]; ok {
			return value
		}
		return missingValue
	})
}

func limitEntries(entries []*domain.RankedEntry, limit int) []*domain.RankedEntry {
	if limit <= 0 || limit >= len(entries) {
		return entries
	}
	return entries[:limit]
}

func rankMetricLabel(metric domain.RankMetric) string {
	switch metric {
	case domain.RankByImpressions:
		return "impressões"
	case domain.RankByClicks:
		return "cliques"
	case domain.RankByConversions:
		return "conversões"
	case domain.RankByCTR:
		return "CTR"
	default:
		return "investimento"
	}
}

func decimalFromInt(value int) decimal.Decimal {
	return decimal.NewFromInt(int64(value))
}
