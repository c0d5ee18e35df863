package alerting

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/vfg2006/ads-reporter/internal/domain"
	"github.com/vfg2006/ads-reporter/pkg/utils"
)

// Input reúne o que o avaliador precisa: a visão agregada por entidade, os
// metadados atuais e o status observado na execução anterior. O avaliador não
// mantém estado próprio
type Input struct {
	Report         *domain.AggregateReport
	Entities       map[string]*domain.Entity
	PreviousStatus map[string]domain.EntityStatus
}

// Evaluate compara as métricas com os limiares e produz os eventos de alerta.
// As regras são independentes entre si e avaliadas sempre na ordem HIGH_CPC,
// LOW_CTR, BUDGET_DEPLETED, CAMPAIGN_STOPPED; uma entidade pode disparar
// múltiplos alertas na mesma execução
func Evaluate(input Input, thresholds domain.AlertThresholds) []*domain.AlertEvent {
	events := make([]*domain.AlertEvent, 0)
	now := time.Now()

	if input.Report != nil {
		for _, entry := range input.Report.Entries {
			if event := evaluateHighCPC(entry, thresholds, now); event != nil {
				events = append(events, event)
			}
		}

		for _, entry := range input.Report.Entries {
			if event := evaluateLowCTR(entry, thresholds, now); event != nil {
				events = append(events, event)
			}
		}

		for _, entry := range input.Report.Entries {
			if event := evaluateBudgetDepleted(entry, input.Entities, thresholds, now); event != nil {
				events = append(events, event)
			}
		}
	}

	for _, entry := range stoppedCandidates(input) {
		events = append(events, entry)
	}

	return events
}

// evaluateHighCPC dispara quando cpc > limiar, nunca na igualdade
func evaluateHighCPC(entry *domain.RankedEntry, thresholds domain.AlertThresholds, now time.Time) *domain.AlertEvent {
	if entry.Clicks < thresholds.MinClicks {
		return nil
	}

	if entry.CPC.Cmp(thresholds.HighCPC) <= 0 {
		return nil
	}

	return &domain.AlertEvent{
		Kind:             domain.AlertHighCPC,
		EntityID:         entry.EntityID,
		EntityName:       entry.EntityName,
		Observed:         entry.CPC,
		Threshold:        thresholds.HighCPC,
		PercentDeviation: percentDeviation(entry.CPC, thresholds.HighCPC),
		Message: fmt.Sprintf("CPC %s acima do limiar %s",
			utils.FormatCurrency(entry.CPC), utils.FormatCurrency(thresholds.HighCPC)),
		CreatedAt: now,
	}
}

// evaluateLowCTR dispara quando ctr < limiar, apenas com volume de impressões
func evaluateLowCTR(entry *domain.RankedEntry, thresholds domain.AlertThresholds, now time.Time) *domain.AlertEvent {
	if entry.Impressions == 0 || entry.Impressions < thresholds.MinImpressions {
		return nil
	}

	if entry.CTR >= thresholds.LowCTR {
		return nil
	}

	observed := decimal.NewFromFloat(entry.CTR)
	threshold := decimal.NewFromFloat(thresholds.LowCTR)

	return &domain.AlertEvent{
		Kind:             domain.AlertLowCTR,
		EntityID:         entry.EntityID,
		EntityName:       entry.EntityName,
		Observed:         observed,
		Threshold:        threshold,
		PercentDeviation: percentDeviation(observed, threshold),
		Message: fmt.Sprintf("CTR %s abaixo do limiar %s",
			utils.FormatPercent(entry.CTR), utils.FormatPercent(thresholds.LowCTR)),
		CreatedAt: now,
	}
}

// evaluateBudgetDepleted dispara quando spend/budget*100 >= limiar, apenas
// para entidades com orçamento definido
func evaluateBudgetDepleted(
	entry *domain.RankedEntry,
	entities map[string]*domain.Entity,
	thresholds domain.AlertThresholds,
	now time.Time,
) *domain.AlertEvent {
	entity, ok := entities[entry.EntityID]
	if !ok {
		return nil
	}

	budget := entity.Budget()
	if budget == nil {
		return nil
	}

	usedPercent := entry.Spend.Div(*budget).Mul(decimal.NewFromInt(100))
	threshold := decimal.NewFromFloat(thresholds.BudgetDepletedPercent)

	if usedPercent.Cmp(threshold) < 0 {
		return nil
	}

	usedFloat, _ := usedPercent.Round(2).Float64()

	return &domain.AlertEvent{
		Kind:             domain.AlertBudgetDepleted,
		EntityID:         entry.EntityID,
		EntityName:       entry.EntityName,
		Observed:         usedPercent.Round(2),
		Threshold:        threshold,
		PercentDeviation: percentDeviation(usedPercent, threshold),
		Message: fmt.Sprintf("%.2f%% do orçamento consumido (limiar %.2f%%)",
			usedFloat, thresholds.BudgetDepletedPercent),
		CreatedAt: now,
	}
}

// stoppedCandidates dispara CAMPAIGN_STOPPED quando o status transiciona de
// não parado para parado entre duas observações; o status anterior é
// fornecido pelo chamador
func stoppedCandidates(input Input) []*domain.AlertEvent {
	events := make([]*domain.AlertEvent, 0)
	now := time.Now()

	if input.Report == nil {
		return events
	}

	for _, entry := range input.Report.Entries {
		entity, ok := input.Entities[entry.EntityID]
		if !ok {
			continue
		}

		previous, observed := input.PreviousStatus[entry.EntityID]
		if !observed {
			continue
		}

		if previous.IsStopped() || !entity.Status.IsStopped() {
			continue
		}

		events = append(events, &domain.AlertEvent{
			Kind:       domain.AlertCampaignStopped,
			EntityID:   entry.EntityID,
			EntityName: entry.EntityName,
			Observed:   decimal.Zero,
			Threshold:  decimal.Zero,
			Message:    fmt.Sprintf("status mudou de %s para %s", previous, entity.Status),
			CreatedAt:  now,
		})
	}

	return events
}

// percentDeviation calcula o desvio percentual do valor observado em relação
// ao limiar
func percentDeviation(observed, threshold decimal.Decimal) float64 {
	if threshold.IsZero() {
		return 0
	}

	deviation, _ := observed.Sub(threshold).
		Div(threshold).
		Mul(decimal.NewFromInt(100)).
		Round(2).
		Float64()

	return deviation
}
