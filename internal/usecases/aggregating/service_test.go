package aggregating

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/ads-reporter/internal/domain"
)

func testDateRange(t *testing.T) domain.DateRange {
	t.Helper()
	dateRange, err := domain.NewDateRange(
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	)
	require.NoError(t, err)
	return dateRange
}

func row(entityID string, impressions, clicks int, spend string, conversions int) *domain.MetricRow {
	return &domain.MetricRow{
		EntityID:    entityID,
		EntityName:  "Campanha " + entityID,
		Date:        time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Impressions: impressions,
		Clicks:      clicks,
		Spend:       decimal.RequireFromString(spend),
		Conversions: conversions,
	}
}

func TestAggregate_TwoCampaignsScenario(t *testing.T) {
	rows := []*domain.MetricRow{
		row("A", 1000, 50, "25.00", 5),
		row("B", 0, 0, "0", 0),
	}

	report := Aggregate(rows, testDateRange(t), domain.RankBySpend)

	assert.Equal(t, 1000, report.TotalImpressions)
	assert.Equal(t, 50, report.TotalClicks)
	assert.True(t, report.TotalSpend.Equal(decimal.RequireFromString("25.00")))
	assert.Equal(t, 5, report.TotalConversions)

	require.Len(t, report.Entries, 2)

	entryA := report.Entries[0]
	assert.Equal(t, "A", entryA.EntityID)
	assert.Equal(t, 5.00, entryA.CTR)
	assert.True(t, entryA.CPC.Equal(decimal.RequireFromString("0.5")))
	assert.True(t, entryA.CostPerConversion.Equal(decimal.RequireFromString("5")))

	entryB := report.Entries[1]
	assert.Equal(t, "B", entryB.EntityID)
	assert.Equal(t, 0.00, entryB.CTR)
	assert.True(t, entryB.CPC.IsZero())
	assert.True(t, entryB.CostPerConversion.IsZero())
}

func TestAggregate_TotalSpendIsExactSum(t *testing.T) {
	// Somas em ponto flutuante acumulariam erro aqui; a agregação precisa
	// reproduzir a soma exata
	rows := make([]*domain.MetricRow, 0, 100)
	for i := 0; i < 100; i++ {
		rows = append(rows, row("A", 1, 1, "0.10", 0))
	}

	report := Aggregate(rows, testDateRange(t), domain.RankBySpend)

	assert.True(t, report.TotalSpend.Equal(decimal.RequireFromString("10.00")),
		"esperado 10.00, obtido %s", report.TotalSpend)
}

func TestAggregate_MergesRowsOfSameEntity(t *testing.T) {
	rows := []*domain.MetricRow{
		row("A", 100, 10, "5.00", 1),
		row("A", 200, 20, "7.50", 2),
	}

	report := Aggregate(rows, testDateRange(t), domain.RankBySpend)

	require.Len(t, report.Entries, 1)
	entry := report.Entries[0]
	assert.Equal(t, 300, entry.Impressions)
	assert.Equal(t, 30, entry.Clicks)
	assert.True(t, entry.Spend.Equal(decimal.RequireFromString("12.50")))
	assert.Equal(t, 3, entry.Conversions)
}

func TestAggregate_RankingIsDeterministic(t *testing.T) {
	// Valores duplicados de métrica forçam o desempate por entity_id
	rows := []*domain.MetricRow{
		row("C", 100, 10, "5.00", 0),
		row("A", 100, 10, "5.00", 0),
		row("B", 100, 10, "5.00", 0),
		row("D", 100, 10, "9.00", 0),
	}

	first := Aggregate(rows, testDateRange(t), domain.RankBySpend)
	second := Aggregate(rows, testDateRange(t), domain.RankBySpend)

	ids := func(report *domain.AggregateReport) []string {
		out := make([]string, 0, len(report.Entries))
		for _, entry := range report.Entries {
			out = append(out, entry.EntityID)
		}
		return out
	}

	assert.Equal(t, []string{"D", "A", "B", "C"}, ids(first))
	assert.Equal(t, ids(first), ids(second))
}

func TestAggregate_RankByOtherMetrics(t *testing.T) {
	rows := []*domain.MetricRow{
		row("A", 100, 50, "1.00", 1),
		row("B", 1000, 10, "2.00", 9),
	}

	byClicks := Aggregate(rows, testDateRange(t), domain.RankByClicks)
	assert.Equal(t, "A", byClicks.Entries[0].EntityID)

	byConversions := Aggregate(rows, testDateRange(t), domain.RankByConversions)
	assert.Equal(t, "B", byConversions.Entries[0].EntityID)

	byCTR := Aggregate(rows, testDateRange(t), domain.RankByCTR)
	assert.Equal(t, "A", byCTR.Entries[0].EntityID)
}

func TestAggregate_EmptyInput(t *testing.T) {
	report := Aggregate(nil, testDateRange(t), domain.RankBySpend)

	assert.Equal(t, 0, report.TotalImpressions)
	assert.True(t, report.TotalSpend.IsZero())
	assert.Equal(t, 0.00, report.AverageCTR)
	assert.True(t, report.AverageCPC.IsZero())
	assert.Empty(t, report.Entries)
}

func TestAggregate_ClicksGreaterThanImpressions(t *testing.T) {
	// A fonte pode reportar mais cliques que impressões; a agregação não
	// assume a relação e apenas calcula
	rows := []*domain.MetricRow{row("A", 10, 20, "1.00", 0)}

	report := Aggregate(rows, testDateRange(t), domain.RankBySpend)

	assert.Equal(t, 200.00, report.Entries[0].CTR)
}
