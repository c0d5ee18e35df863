package exporting

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"github.com/vfg2006/ads-reporter/internal/usecases/formatting"
	"github.com/vfg2006/ads-reporter/pkg/log"
	"github.com/vfg2006/ads-reporter/pkg/reportErrors"
	"github.com/vfg2006/ads-reporter/pkg/utils"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const exportFileName = "campaign_report"

// FileResult descreve o resultado de gravação de um arquivo de export
type FileResult struct {
	Path   string
	Format string
	Err    error
}

// Exporter grava os exports de um relatório em disco
type Exporter interface {
	Export(reportType string, input formatting.Input, text string) []FileResult
}

type Service struct {
	reportsDir string
}

func NewService(reportsDir string) *Service {
	return &Service{reportsDir: reportsDir}
}

// Export grava as variantes JSON, CSV e texto em
// {reports_dir}/{tipo}/{AAAA-MM-DD}/campaign_report.{ext}. Cada arquivo tem
// resultado próprio; a falha de um não impede os demais
func (s *Service) Export(reportType string, input formatting.Input, text string) []FileResult {
	dir := s.exportDir(reportType, input)

	if err := os.MkdirAll(dir, 0o755); err != nil {
		wrapped := reportErrors.Wrap(err, reportErrors.ErrExportFailed, "não foi possível criar o diretório de export")
		return []FileResult{
			{Path: filepath.Join(dir, exportFileName+".json"), Format: "json", Err: wrapped},
			{Path: filepath.Join(dir, exportFileName+".csv"), Format: "csv", Err: wrapped},
			{Path: filepath.Join(dir, exportFileName+".txt"), Format: "txt", Err: wrapped},
		}
	}

	results := []FileResult{
		s.writeJSON(filepath.Join(dir, exportFileName+".json"), input),
		s.writeCSV(filepath.Join(dir, exportFileName+".csv"), input),
		s.writeText(filepath.Join(dir, exportFileName+".txt"), text),
	}

	for _, result := range results {
		if result.Err != nil {
			log.L.WithError(result.Err).Errorf("falha ao gravar export %s", result.Path)
			continue
		}
		log.L.Infof("export gravado em %s", result.Path)
	}

	return results
}

func (s *Service) exportDir(reportType string, input formatting.Input) string {
	day := time.Now()
	if input.Report != nil {
		day = input.Report.Range.End
	}
	return filepath.Join(s.reportsDir, reportType, day.Format(utils.DateLayout))
}

func (s *Service) writeJSON(path string, input formatting.Input) FileResult {
	payload, err := json.MarshalIndent(formatting.ToMap(input), "", "  ")
	if err != nil {
		return FileResult{Path: path, Format: "json", Err: exportErr("serialização JSON falhou", err)}
	}

	if err := os.WriteFile(path, payload, 0o644); err != nil {
		return FileResult{Path: path, Format: "json", Err: exportErr("gravação JSON falhou", err)}
	}

	return FileResult{Path: path, Format: "json"}
}

func (s *Service) writeCSV(path string, input formatting.Input) FileResult {
	file, err := os.Create(path)
	if err != nil {
		return FileResult{Path: path, Format: "csv", Err: exportErr("gravação CSV falhou", err)}
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.WriteAll(formatting.ToCSVRows(input)); err != nil {
		return FileResult{Path: path, Format: "csv", Err: exportErr("gravação CSV falhou", err)}
	}

	return FileResult{Path: path, Format: "csv"}
}

func (s *Service) writeText(path string, text string) FileResult {
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return FileResult{Path: path, Format: "txt", Err: exportErr("gravação de texto falhou", err)}
	}
	return FileResult{Path: path, Format: "txt"}
}

func exportErr(message string, cause error) error {
	return reportErrors.Wrap(errors.WithStack(cause), reportErrors.ErrExportFailed, message)
}
