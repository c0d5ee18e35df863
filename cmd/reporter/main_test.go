package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vfg2006/ads-reporter/internal/usecases/exporting"
	"github.com/vfg2006/ads-reporter/pkg/reportErrors"
)

func TestReportExportFailures_PrintsFailedLegsWithCode(t *testing.T) {
	var out bytes.Buffer

	exports := []exporting.FileResult{
		{Path: "/tmp/daily/campaign_report.json", Format: "json"},
		{
			Format: "csv",
			Err:    reportErrors.New(reportErrors.ErrExportFailed, "disco cheio"),
		},
		{
			Format: "txt",
			Err:    reportErrors.New(reportErrors.ErrExportFailed, "sem permissão"),
		},
	}

	failures := reportExportFailures(&out, exports)

	assert.Equal(t, 2, failures)
	assert.Contains(t, out.String(), "DLV_002: export csv falhou")
	assert.Contains(t, out.String(), "DLV_002: export txt falhou")
	assert.NotContains(t, out.String(), "json")
}

func TestReportExportFailures_AllLegsOK(t *testing.T) {
	var out bytes.Buffer

	exports := []exporting.FileResult{
		{Path: "/tmp/daily/campaign_report.json", Format: "json"},
		{Path: "/tmp/daily/campaign_report.csv", Format: "csv"},
	}

	failures := reportExportFailures(&out, exports)

	assert.Equal(t, 0, failures)
	assert.Empty(t, out.String())
}
