package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/ads-reporter/internal/config"
	"github.com/vfg2006/ads-reporter/internal/usecases/reporting"
)

// ReportJobConfig representa a configuração do agendador de um tipo de relatório
type ReportJobConfig struct {
	ReportType   string
	CronSchedule string
	Enabled      bool
}

type runFunc func(ctx context.Context, opts reporting.RunOptions) (*reporting.Summary, error)

// ReportJobService gerencia o agendamento e execução de um tipo de relatório
type ReportJobService struct {
	scheduler          *gocron.Scheduler
	config             ReportJobConfig
	run                runFunc
	jobRunning         bool
	jobMutex           sync.Mutex
	lastRunStartedAt   time.Time
	lastRunCompletedAt time.Time
	lastRunError       string
}

// NewDailyReportService cria o agendador do relatório diário
func NewDailyReportService(reporter reporting.Reporter, appConfig *config.Config) *ReportJobService {
	return newReportJobService(ReportJobConfig{
		ReportType:   reporting.ReportTypeDaily,
		CronSchedule: appConfig.Scheduler.DailyCron,
		Enabled:      appConfig.Scheduler.DailyEnabled,
	}, reporter.RunDaily)
}

// NewWeeklyReportService cria o agendador do relatório semanal
func NewWeeklyReportService(reporter reporting.Reporter, appConfig *config.Config) *ReportJobService {
	return newReportJobService(ReportJobConfig{
		ReportType:   reporting.ReportTypeWeekly,
		CronSchedule: appConfig.Scheduler.WeeklyCron,
		Enabled:      appConfig.Scheduler.WeeklyEnabled,
	}, reporter.RunWeekly)
}

// NewSpendCheckService cria o agendador da verificação de gasto do dia corrente
func NewSpendCheckService(reporter reporting.Reporter, appConfig *config.Config) *ReportJobService {
	return newReportJobService(ReportJobConfig{
		ReportType:   reporting.ReportTypeSpendCheck,
		CronSchedule: appConfig.Scheduler.SpendCheckCron,
		Enabled:      appConfig.Scheduler.SpendCheckEnabled,
	}, reporter.RunSpendCheck)
}

func newReportJobService(jobConfig ReportJobConfig, run runFunc) *ReportJobService {
	logrus.WithFields(logrus.Fields{
		"report_type":   jobConfig.ReportType,
		"cron_schedule": jobConfig.CronSchedule,
		"enabled":       jobConfig.Enabled,
	}).Info("Configuração do agendador de relatório carregada")

	return &ReportJobService{
		scheduler:  gocron.NewScheduler(time.Local),
		config:     jobConfig,
		run:        run,
		jobRunning: false,
	}
}

// Start inicia o agendador
func (s *ReportJobService) Start(ctx context.Context) error {
	if !s.config.Enabled {
		logrus.Infof("Agendador do relatório %s desabilitado por configuração", s.config.ReportType)
		return nil
	}

	logrus.WithFields(logrus.Fields{
		"report_type": s.config.ReportType,
		"cron":        s.config.CronSchedule,
	}).Info("Iniciando agendador de relatório")

	_, err := s.scheduler.Cron(s.config.CronSchedule).Do(func() {
		s.runReport(ctx)
	})
	if err != nil {
		return fmt.Errorf("erro ao agendar relatório %s: %w", s.config.ReportType, err)
	}

	s.scheduler.StartAsync()

	go func() {
		<-ctx.Done()
		logrus.Infof("Parando agendador do relatório %s", s.config.ReportType)
		s.scheduler.Stop()
	}()

	return nil
}

// runReport executa o pipeline do relatório com guarda de execução única
func (s *ReportJobService) runReport(ctx context.Context) {
	s.jobMutex.Lock()
	if s.jobRunning {
		s.jobMutex.Unlock()
		logrus.Infof("Relatório %s já em andamento, ignorando", s.config.ReportType)
		return
	}
	s.jobRunning = true
	startTime := time.Now()
	s.lastRunStartedAt = startTime
	s.jobMutex.Unlock()

	defer func() {
		s.jobMutex.Lock()
		s.jobRunning = false
		s.jobMutex.Unlock()
	}()

	logrus.Infof("Iniciando execução agendada do relatório %s", s.config.ReportType)

	summary, err := s.run(ctx, reporting.RunOptions{})
	if err != nil {
		s.jobMutex.Lock()
		s.lastRunError = err.Error()
		s.jobMutex.Unlock()
		logrus.WithFields(logrus.Fields{
			"report_type": s.config.ReportType,
			"error":       err.Error(),
		}).Error("Execução agendada do relatório falhou")
		return
	}

	s.jobMutex.Lock()
	s.lastRunError = ""
	s.lastRunCompletedAt = time.Now()
	s.jobMutex.Unlock()

	logrus.WithFields(logrus.Fields{
		"report_type":   s.config.ReportType,
		"duration":      time.Since(startTime).String(),
		"alerts":        len(summary.Alerts),
		"messages_sent": summary.Delivery.MessagesSent,
	}).Info("Execução agendada do relatório concluída")
}

// TriggerManualSync inicia manualmente uma execução do relatório
func (s *ReportJobService) TriggerManualSync() {
	s.jobMutex.Lock()
	if s.jobRunning {
		s.jobMutex.Unlock()
		logrus.Infof("Relatório %s já em andamento, ignorando solicitação manual", s.config.ReportType)
		return
	}
	s.jobMutex.Unlock()

	logrus.Infof("Iniciando execução manual do relatório %s", s.config.ReportType)
	go s.runReport(context.Background())
}

// GetStatus retorna o status atual do agendador
func (s *ReportJobService) GetStatus() map[string]any {
	s.jobMutex.Lock()
	defer s.jobMutex.Unlock()

	return map[string]any{
		"report_type":           s.config.ReportType,
		"enabled":               s.config.Enabled,
		"cron":                  s.config.CronSchedule,
		"running":               s.jobRunning,
		"last_run_started_at":   s.lastRunStartedAt,
		"last_run_completed_at": s.lastRunCompletedAt,
		"last_run_error":        s.lastRunError,
	}
}
