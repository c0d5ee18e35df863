package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/ads-reporter/infrastructure/cache"
	"github.com/vfg2006/ads-reporter/infrastructure/database/postgres"
	"github.com/vfg2006/ads-reporter/infrastructure/integrator/meta"
	"github.com/vfg2006/ads-reporter/infrastructure/integrator/meta/metaclient"
	"github.com/vfg2006/ads-reporter/infrastructure/integrator/telegram"
	"github.com/vfg2006/ads-reporter/infrastructure/integrator/telegram/telegramclient"
	"github.com/vfg2006/ads-reporter/infrastructure/repository"
	"github.com/vfg2006/ads-reporter/internal/api"
	"github.com/vfg2006/ads-reporter/internal/config"
	"github.com/vfg2006/ads-reporter/internal/domain"
	"github.com/vfg2006/ads-reporter/internal/scheduler"
	"github.com/vfg2006/ads-reporter/internal/usecases/exporting"
	"github.com/vfg2006/ads-reporter/internal/usecases/reporting"
	"github.com/vfg2006/ads-reporter/internal/usecases/syncing"
	"github.com/vfg2006/ads-reporter/pkg/reportErrors"
)

func main() {
	configureLogger()

	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "uso: reporter <daily|weekly|spend-check|serve> [flags]")
		os.Exit(1)
	}

	cfg, err := config.NewConfig()
	if err != nil {
		logrus.Fatal(err)
	}

	logLevel, err := logrus.ParseLevel(cfg.App.LogLevel)
	if err != nil {
		logrus.Warnf("Nível de log inválido: %s, usando 'info'", cfg.App.LogLevel)
		logLevel = logrus.InfoLevel
	}
	logrus.SetLevel(logLevel)

	if err := cfg.Validate(); err != nil {
		fail(reportErrors.Wrap(err, reportErrors.ErrInvalidRequest, "configuração inválida"))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pgConn := pgconn(ctx, cfg.Database)
	defer pgConn.Close()

	entityRepo := repository.NewEntityRepository(pgConn)
	metricRowRepo := repository.NewMetricRowRepository(pgConn)
	checkpointRepo := repository.NewCheckpointRepository(pgConn)
	alertEventRepo := repository.NewAlertEventRepository(pgConn)

	metaClient := metaclient.NewClient(cfg)
	if cfg.Cache.Enabled {
		store, err := cache.NewDiskStore(cfg.Cache.Directory, cfg.Cache.TTL())
		if err != nil {
			logrus.WithError(err).Warn("Cache em disco indisponível, seguindo sem cache")
		} else {
			metaClient = metaClient.WithCache(store)
		}
	}
	metaIntegrator := meta.New(cfg, metaClient)

	telegramService := telegram.New(cfg, telegramclient.NewClient(cfg))
	exporter := exporting.NewService(cfg.Report.OutputDir)

	syncer := syncing.NewService(cfg, metaIntegrator, entityRepo, metricRowRepo, checkpointRepo)

	reporter := reporting.NewService(
		cfg,
		syncer,
		entityRepo,
		metricRowRepo,
		alertEventRepo,
		telegramService,
		exporter,
	)

	command := os.Args[1]
	switch command {
	case "daily":
		runOnce(ctx, reporter.RunDaily, os.Args[2:])
	case "weekly":
		runOnce(ctx, reporter.RunWeekly, os.Args[2:])
	case "spend-check":
		runOnce(ctx, reporter.RunSpendCheck, os.Args[2:])
	case "serve":
		serve(ctx, cfg, reporter, alertEventRepo)
	default:
		fmt.Fprintf(os.Stderr, "comando desconhecido: %s\n", command)
		os.Exit(1)
	}
}

type runFunc func(ctx context.Context, opts reporting.RunOptions) (*reporting.Summary, error)

// runOnce executa um relatório avulso e encerra o processo com o código de
// saída apropriado
func runOnce(ctx context.Context, run runFunc, args []string) {
	opts, err := parseRunOptions(args)
	if err != nil {
		fail(err)
	}

	summary, err := run(ctx, opts)
	if err != nil {
		fail(err)
	}

	for _, persistErr := range summary.PersistenceErrs {
		logrus.WithError(persistErr).Warn("Falha de persistência não fatal durante a execução")
	}

	exportFailures := reportExportFailures(os.Stderr, summary.Exports)

	logrus.WithFields(logrus.Fields{
		"report_type":   summary.ReportType,
		"date_range":    summary.Range.String(),
		"alerts":        len(summary.Alerts),
		"messages_sent": summary.Delivery.MessagesSent,
	}).Info("Relatório concluído")

	if exportFailures > 0 {
		os.Exit(1)
	}
}

// reportExportFailures escreve no destino as pernas de export que falharam,
// no formato CODE: mensagem, e devolve quantas foram
func reportExportFailures(w io.Writer, exports []exporting.FileResult) int {
	failures := 0
	for _, export := range exports {
		if export.Err != nil {
			failures++
			fmt.Fprintf(w, "%s: export %s falhou: %v\n",
				reportErrors.CodeOf(export.Err), export.Format, export.Err)
		}
	}
	return failures
}

// parseRunOptions interpreta as flags de janela e limite das execuções avulsas
func parseRunOptions(args []string) (reporting.RunOptions, error) {
	flags := flag.NewFlagSet("report", flag.ExitOnError)
	start := flags.String("start", "", "data inicial (AAAA-MM-DD)")
	end := flags.String("end", "", "data final (AAAA-MM-DD)")
	days := flags.Int("days", 0, "dias retroativos a partir de ontem")
	limit := flags.Int("limit", 0, "limite de entidades no ranking")

	if err := flags.Parse(args); err != nil {
		return reporting.RunOptions{}, reportErrors.Wrap(err, reportErrors.ErrInvalidRequest, "flags inválidas")
	}

	opts := reporting.RunOptions{EntityLimit: *limit}

	if *start != "" || *end != "" {
		if *start == "" || *end == "" {
			return opts, reportErrors.New(reportErrors.ErrInvalidRequest,
				"as flags -start e -end devem ser usadas juntas")
		}

		startDate, err := time.Parse(time.DateOnly, *start)
		if err != nil {
			return opts, reportErrors.Wrap(err, reportErrors.ErrInvalidRequest, "flag -start inválida")
		}
		endDate, err := time.Parse(time.DateOnly, *end)
		if err != nil {
			return opts, reportErrors.Wrap(err, reportErrors.ErrInvalidRequest, "flag -end inválida")
		}

		dateRange, err := domain.NewDateRange(startDate, endDate)
		if err != nil {
			return opts, reportErrors.Wrap(err, reportErrors.ErrInvalidRequest, "período inválido")
		}
		opts.DateRange = &dateRange
		return opts, nil
	}

	if *days > 0 {
		dateRange := domain.LastNDays(*days, time.Now())
		opts.DateRange = &dateRange
	}

	return opts, nil
}

// serve inicia os agendadores e a superfície HTTP de trigger manual
func serve(
	ctx context.Context,
	cfg *config.Config,
	reporter reporting.Reporter,
	alertRepo repository.AlertEventRepository,
) {
	dailyService := scheduler.NewDailyReportService(reporter, cfg)
	weeklyService := scheduler.NewWeeklyReportService(reporter, cfg)
	spendCheckService := scheduler.NewSpendCheckService(reporter, cfg)

	for name, service := range map[string]*scheduler.ReportJobService{
		"daily":       dailyService,
		"weekly":      weeklyService,
		"spend-check": spendCheckService,
	} {
		if err := service.Start(ctx); err != nil {
			logrus.WithError(err).Errorf("Erro ao iniciar o agendador do relatório %s", name)
		} else {
			logrus.Infof("Agendador do relatório %s iniciado com sucesso", name)
		}
	}

	server, err := api.New(cfg, dailyService, weeklyService, spendCheckService, alertRepo)
	if err != nil {
		logrus.Fatal(err)
	}

	if err := server.Run(ctx); err != nil {
		logrus.Error(err)
	}
}

// fail imprime o erro no formato CODE: mensagem e encerra com código 1
func fail(err error) {
	var pipeErr *reportErrors.PipelineError
	if errors.As(err, &pipeErr) {
		fmt.Fprintln(os.Stderr, pipeErr.Error())
	} else {
		fmt.Fprintf(os.Stderr, "%s: %v\n", reportErrors.CodeOf(err), err)
	}
	os.Exit(1)
}

func configureLogger() {
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})
}

func pgconn(ctx context.Context, dbConfig config.Database) *postgres.Connection {
	conn, err := postgres.NewConnection(ctx, dbConfig)
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao conectar ao PostgreSQL")
	}

	if err := conn.Ping(ctx); err != nil {
		logrus.WithError(err).Fatal("Erro ao testar conexão com PostgreSQL")
	}

	logrus.Info("Conexão com PostgreSQL estabelecida com sucesso")
	return conn
}
