package reporting

import (
	"context"
	"time"

	"github.com/vfg2006/ads-reporter/infrastructure/integrator/telegram"
	"github.com/vfg2006/ads-reporter/infrastructure/repository"
	"github.com/vfg2006/ads-reporter/internal/config"
	"github.com/vfg2006/ads-reporter/internal/domain"
	"github.com/vfg2006/ads-reporter/internal/usecases/aggregating"
	"github.com/vfg2006/ads-reporter/internal/usecases/alerting"
	"github.com/vfg2006/ads-reporter/internal/usecases/exporting"
	"github.com/vfg2006/ads-reporter/internal/usecases/formatting"
	"github.com/vfg2006/ads-reporter/internal/usecases/syncing"
	"github.com/vfg2006/ads-reporter/pkg/log"
	"github.com/vfg2006/ads-reporter/pkg/reportErrors"
)

const (
	ReportTypeDaily      = "daily"
	ReportTypeWeekly     = "weekly"
	ReportTypeSpendCheck = "spend-check"
)

// Os relatórios operam no nível de campanha
const reportEntityType = domain.EntityTypeCampaign

// RunOptions sobrepõe a janela e o limite de ranking configurados
type RunOptions struct {
	DateRange   *domain.DateRange
	EntityLimit int
}

// Summary reporta o resultado de cada etapa separadamente; uma falha de
// entrega não invalida os dados já computados e persistidos
type Summary struct {
	ReportType string
	Range      domain.DateRange
	Sync       *syncing.Result
	Report     *domain.AggregateReport
	Alerts     []*domain.AlertEvent
	Delivery   *telegram.DeliveryResult
	Exports    []exporting.FileResult

	// PersistenceErrs acumula falhas não fatais de gravação (eventos de alerta)
	PersistenceErrs []error
}

// Reporter orquestra o pipeline completo de cada tipo de relatório
type Reporter interface {
	RunDaily(ctx context.Context, opts RunOptions) (*Summary, error)
	RunWeekly(ctx context.Context, opts RunOptions) (*Summary, error)
	RunSpendCheck(ctx context.Context, opts RunOptions) (*Summary, error)
}

type Service struct {
	cfg        *config.Config
	syncer     syncing.Syncer
	entityRepo repository.EntityRepository
	metricRepo repository.MetricRowRepository
	alertRepo  repository.AlertEventRepository
	deliverer  telegram.Deliverer
	exporter   exporting.Exporter
}

func NewService(
	cfg *config.Config,
	syncer syncing.Syncer,
	entityRepo repository.EntityRepository,
	metricRepo repository.MetricRowRepository,
	alertRepo repository.AlertEventRepository,
	deliverer telegram.Deliverer,
	exporter exporting.Exporter,
) *Service {
	return &Service{
		cfg:        cfg,
		syncer:     syncer,
		entityRepo: entityRepo,
		metricRepo: metricRepo,
		alertRepo:  alertRepo,
		deliverer:  deliverer,
		exporter:   exporter,
	}
}

// RunDaily cobre o dia anterior completo
func (s *Service) RunDaily(ctx context.Context, opts RunOptions) (*Summary, error) {
	dateRange, err := s.resolveWindow(opts, domain.LastNDays(1, time.Now()))
	if err != nil {
		return nil, err
	}
	return s.run(ctx, ReportTypeDaily, formatting.TemplateDaily, dateRange, opts)
}

// RunWeekly cobre os sete dias anteriores completos
func (s *Service) RunWeekly(ctx context.Context, opts RunOptions) (*Summary, error) {
	dateRange, err := s.resolveWindow(opts, domain.LastNDays(7, time.Now()))
	if err != nil {
		return nil, err
	}
	return s.run(ctx, ReportTypeWeekly, formatting.TemplateWeekly, dateRange, opts)
}

// RunSpendCheck cobre o dia corrente, para alertas de orçamento em andamento
func (s *Service) RunSpendCheck(ctx context.Context, opts RunOptions) (*Summary, error) {
	dateRange, err := s.resolveWindow(opts, domain.Today(time.Now()))
	if err != nil {
		return nil, err
	}
	return s.run(ctx, ReportTypeSpendCheck, formatting.TemplatePerformance, dateRange, opts)
}

func (s *Service) run(
	ctx context.Context,
	reportType string,
	templateName string,
	dateRange domain.DateRange,
	opts RunOptions,
) (*Summary, error) {
	logger := log.ForContext(ctx).WithFields(log.Fields{
		"report_type": reportType,
		"date_range":  dateRange.String(),
	})
	logger.Info("pipeline de relatório iniciado")

	summary := &Summary{ReportType: reportType, Range: dateRange}

	// O status anterior das entidades precisa ser lido antes do upsert da
	// sincronização para detectar transições para parado
	previousStatus, err := s.loadStatuses()
	if err != nil {
		return summary, err
	}

	syncResult, err := s.syncer.Run(ctx, s.cfg.Meta.AccountID, reportEntityType, dateRange)
	summary.Sync = syncResult
	if err != nil {
		return summary, err
	}

	entries, err := s.metricRepo.GetByDateRange(reportEntityType, dateRange.Start, dateRange.End)
	if err != nil {
		return summary, reportErrors.Wrap(err, reportErrors.ErrPersistence,
			"não foi possível carregar as métricas do período")
	}

	rows := make([]*domain.MetricRow, 0, len(entries))
	for _, entry := range entries {
		if entry.Row != nil {
			rows = append(rows, entry.Row)
		}
	}

	rankBy := domain.ParseRankMetric(s.cfg.Report.RankMetric)
	summary.Report = aggregating.Aggregate(rows, dateRange, rankBy)

	entities, err := s.loadEntities()
	if err != nil {
		return summary, err
	}

	summary.Alerts = alerting.Evaluate(alerting.Input{
		Report:         summary.Report,
		Entities:       entities,
		PreviousStatus: previousStatus,
	}, s.thresholds())

	// Falha ao gravar eventos de alerta não bloqueia a entrega do relatório
	for _, event := range summary.Alerts {
		if err := s.alertRepo.Save(event); err != nil {
			wrapped := reportErrors.Wrap(err, reportErrors.ErrPersistence,
				"não foi possível gravar o evento de alerta")
			summary.PersistenceErrs = append(summary.PersistenceErrs, wrapped)
			logger.WithError(wrapped).Error("evento de alerta não persistido")
		}
	}

	input := formatting.Input{
		Report:       summary.Report,
		Alerts:       summary.Alerts,
		RankingLimit: s.entityLimit(opts),
	}

	text, err := formatting.Format(templateName, input)
	if err != nil {
		return summary, reportErrors.Wrap(err, reportErrors.ErrInvalidRequest,
			"não foi possível formatar o relatório")
	}

	summary.Delivery = s.deliverer.Deliver(text)
	summary.Exports = s.exporter.Export(reportType, input, text)

	if summary.Delivery.Err != nil {
		logger.WithError(summary.Delivery.Err).Errorf(
			"entrega incompleta: %d de %d mensagens enviadas",
			summary.Delivery.MessagesSent, summary.Delivery.MessagesTotal)
		return summary, summary.Delivery.Err
	}

	logger.Infof("pipeline concluído: %d entidades no ranking, %d alertas, %d mensagens entregues",
		len(summary.Report.Entries), len(summary.Alerts), summary.Delivery.MessagesSent)

	return summary, nil
}

// resolveWindow aplica a precedência: opções da invocação, depois variáveis
// de ambiente, depois a janela padrão do tipo de relatório
func (s *Service) resolveWindow(opts RunOptions, fallback domain.DateRange) (domain.DateRange, error) {
	if opts.DateRange != nil {
		return *opts.DateRange, nil
	}

	if s.cfg.Report.StartDate != "" && s.cfg.Report.EndDate != "" {
		start, err := time.Parse(time.DateOnly, s.cfg.Report.StartDate)
		if err != nil {
			return domain.DateRange{}, reportErrors.Wrap(err, reportErrors.ErrInvalidRequest,
				"REPORT_START_DATE inválido")
		}
		end, err := time.Parse(time.DateOnly, s.cfg.Report.EndDate)
		if err != nil {
			return domain.DateRange{}, reportErrors.Wrap(err, reportErrors.ErrInvalidRequest,
				"REPORT_END_DATE inválido")
		}

		dateRange, err := domain.NewDateRange(start, end)
		if err != nil {
			return domain.DateRange{}, reportErrors.Wrap(err, reportErrors.ErrInvalidRequest,
				"período configurado inválido")
		}
		return dateRange, nil
	}

	if s.cfg.Report.LookbackDays > 0 {
		return domain.LastNDays(s.cfg.Report.LookbackDays, time.Now()), nil
	}

	return fallback, nil
}

func (s *Service) loadStatuses() (map[string]domain.EntityStatus, error) {
	entities, err := s.entityRepo.ListByType(reportEntityType)
	if err != nil {
		return nil, reportErrors.Wrap(err, reportErrors.ErrPersistence,
			"não foi possível carregar os status anteriores")
	}

	statuses := make(map[string]domain.EntityStatus, len(entities))
	for _, entity := range entities {
		statuses[entity.ID] = entity.Status
	}
	return statuses, nil
}

func (s *Service) loadEntities() (map[string]*domain.Entity, error) {
	entities, err := s.entityRepo.ListByType(reportEntityType)
	if err != nil {
		return nil, reportErrors.Wrap(err, reportErrors.ErrPersistence,
			"não foi possível carregar as entidades")
	}

	byID := make(map[string]*domain.Entity, len(entities))
	for _, entity := range entities {
		byID[entity.ID] = entity
	}
	return byID, nil
}

func (s *Service) thresholds() domain.AlertThresholds {
	return domain.AlertThresholds{
		HighCPC:               s.cfg.Alerts.HighCPCValue(),
		LowCTR:                s.cfg.Alerts.LowCTR,
		BudgetDepletedPercent: s.cfg.Alerts.BudgetDepletedPercent,
		MinImpressions:        s.cfg.Alerts.MinImpressions,
		MinClicks:             s.cfg.Alerts.MinClicks,
	}
}

func (s *Service) entityLimit(opts RunOptions) int {
	if opts.EntityLimit > 0 {
		return opts.EntityLimit
	}
	return s.cfg.Report.EntityLimit
}
