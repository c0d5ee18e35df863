package exporting

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/ads-reporter/internal/domain"
	"github.com/vfg2006/ads-reporter/internal/usecases/formatting"
)

func exportInput() formatting.Input {
	return formatting.Input{
		Report: &domain.AggregateReport{
			Range: domain.DateRange{
				Start: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
				End:   time.Date(2024, 1, 7, 0, 0, 0, 0, time.UTC),
			},
			TotalImpressions: 1000,
			TotalClicks:      50,
			TotalSpend:       decimal.RequireFromString("25.00"),
			TotalConversions: 5,
			AverageCTR:       5,
			AverageCPC:       decimal.RequireFromString("0.50"),
			RankedBy:         domain.RankBySpend,
			Entries: []*domain.RankedEntry{{
				EntityID:    "c1",
				EntityName:  "Campanha Verão",
				Impressions: 1000,
				Clicks:      50,
				Spend:       decimal.RequireFromString("25.00"),
				Conversions: 5,
				CTR:         5,
				CPC:         decimal.RequireFromString("0.50"),
			}},
		},
	}
}

func TestExport_WritesThreeFormats(t *testing.T) {
	dir := t.TempDir()
	service := NewService(dir)

	results := service.Export("daily", exportInput(), "relatório em texto")

	require.Len(t, results, 3)
	for _, result := range results {
		require.NoError(t, result.Err, "export %s falhou", result.Format)
		assert.FileExists(t, result.Path)
	}

	expectedDir := filepath.Join(dir, "daily", "2024-01-07")
	for _, result := range results {
		assert.Equal(t, expectedDir, filepath.Dir(result.Path))
	}
	assert.Equal(t, "campaign_report.json", filepath.Base(results[0].Path))
	assert.Equal(t, "campaign_report.csv", filepath.Base(results[1].Path))
	assert.Equal(t, "campaign_report.txt", filepath.Base(results[2].Path))
}

func TestExport_JSONRoundTripsWithTotals(t *testing.T) {
	dir := t.TempDir()
	service := NewService(dir)

	results := service.Export("weekly", exportInput(), "texto")

	payload, err := os.ReadFile(results[0].Path)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, jsoniter.Unmarshal(payload, &decoded))
	assert.Equal(t, "25.00", decoded["total_spend"])
}

func TestExport_CSVHasHeaderAndRows(t *testing.T) {
	dir := t.TempDir()
	service := NewService(dir)

	results := service.Export("daily", exportInput(), "texto")

	file, err := os.Open(results[1].Path)
	require.NoError(t, err)
	defer file.Close()

	rows, err := csv.NewReader(file).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "entity_id", rows[0][0])
	assert.Equal(t, "c1", rows[1][0])
}

func TestExport_TextFileMatchesInput(t *testing.T) {
	dir := t.TempDir()
	service := NewService(dir)

	text := "📊 Relatório Diário\n\nCampanha Verão"
	results := service.Export("daily", exportInput(), text)

	content, err := os.ReadFile(results[2].Path)
	require.NoError(t, err)
	assert.Equal(t, text, string(content))
}

func TestExport_UnwritableDirReportsAllFormats(t *testing.T) {
	dir := t.TempDir()
	// Um arquivo no lugar do diretório de exports faz o MkdirAll falhar
	blocked := filepath.Join(dir, "reports")
	require.NoError(t, os.WriteFile(blocked, []byte("x"), 0o644))

	service := NewService(blocked)
	results := service.Export("daily", exportInput(), "texto")

	require.Len(t, results, 3)
	for _, result := range results {
		assert.Error(t, result.Err)
	}
}
