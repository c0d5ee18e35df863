package syncing

import (
	"context"
	"fmt"
	"time"

	"github.com/vfg2006/ads-reporter/infrastructure/integrator/meta"
	"github.com/vfg2006/ads-reporter/infrastructure/repository"
	"github.com/vfg2006/ads-reporter/internal/config"
	"github.com/vfg2006/ads-reporter/internal/domain"
	"github.com/vfg2006/ads-reporter/pkg/log"
	"github.com/vfg2006/ads-reporter/pkg/reportErrors"
	"github.com/vfg2006/ads-reporter/pkg/utils"
)

// Result resume uma execução de sincronização
type Result struct {
	RunID          string
	EntitiesSynced int
	RowsSynced     int
	RowsTotal      int
	RowsMalformed  int
}

// Syncer executa o ciclo de sincronização de um tipo de entidade
type Syncer interface {
	Run(ctx context.Context, accountID string, entityType domain.EntityType, dateRange domain.DateRange) (*Result, error)
}

type Service struct {
	cfg            *config.Config
	integrator     meta.Integrator
	entityRepo     repository.EntityRepository
	metricRowRepo  repository.MetricRowRepository
	checkpointRepo repository.CheckpointRepository
}

func NewService(
	cfg *config.Config,
	integrator meta.Integrator,
	entityRepo repository.EntityRepository,
	metricRowRepo repository.MetricRowRepository,
	checkpointRepo repository.CheckpointRepository,
) *Service {
	return &Service{
		cfg:            cfg,
		integrator:     integrator,
		entityRepo:     entityRepo,
		metricRowRepo:  metricRowRepo,
		checkpointRepo: checkpointRepo,
	}
}

// Run executa o ciclo completo: adquire o checkpoint, sincroniza entidades e
// métricas do período com upserts idempotentes e fecha o checkpoint em
// COMPLETE ou FAILED. O progresso é gravado a cada página, então uma
// reexecução após falha reprocessa no máximo uma página já gravada
func (s *Service) Run(
	ctx context.Context,
	accountID string,
	entityType domain.EntityType,
	dateRange domain.DateRange,
) (*Result, error) {
	checkpoint, err := s.acquire(entityType)
	if err != nil {
		return nil, err
	}

	logger := log.ForContext(ctx).WithFields(log.Fields{
		"run_id":      checkpoint.RunID,
		"account_id":  accountID,
		"entity_type": entityType,
	})
	logger.Infof("sincronização iniciada para o período %s a %s",
		dateRange.Start.Format(utils.DateLayout), dateRange.End.Format(utils.DateLayout))

	result := &Result{RunID: checkpoint.RunID}

	if err := s.sync(ctx, accountID, entityType, dateRange, checkpoint, result); err != nil {
		s.fail(checkpoint, err)
		logger.WithError(err).Error("sincronização falhou")
		return result, err
	}

	checkpoint.Status = domain.CheckpointComplete
	checkpoint.ErrorMessage = ""
	checkpoint.UpdatedAt = time.Now()
	if err := s.checkpointRepo.SaveOrUpdate(checkpoint); err != nil {
		return result, reportErrors.Wrap(err, reportErrors.ErrPersistence, "não foi possível concluir o checkpoint")
	}

	logger.Infof("sincronização concluída: %d entidades, %d métricas (%d malformadas de %d)",
		result.EntitiesSynced, result.RowsSynced, result.RowsMalformed, result.RowsTotal)

	s.purgeOldRows(logger)

	return result, nil
}

// purgeOldRows aplica a retenção configurada sobre a tabela de métricas.
// Falha de expurgo não invalida a sincronização já concluída
func (s *Service) purgeOldRows(logger log.Logger) {
	days := s.cfg.Sync.RetentionDays
	if days <= 0 {
		return
	}

	purged, err := s.metricRowRepo.DeleteOlderThan(days)
	if err != nil {
		logger.WithError(err).Error("não foi possível expurgar métricas antigas")
		return
	}

	if purged > 0 {
		logger.Infof("%d métricas com mais de %d dias expurgadas", purged, days)
	}
}

// acquire aplica a semântica de escritor único: recusa iniciar enquanto
// existir um IN_PROGRESS recente e assume a posse de um IN_PROGRESS
// abandonado há mais que o timeout de execução
func (s *Service) acquire(entityType domain.EntityType) (*domain.Checkpoint, error) {
	current, err := s.checkpointRepo.GetByEntityType(entityType)
	if err != nil {
		return nil, reportErrors.Wrap(err, reportErrors.ErrPersistence, "não foi possível ler o checkpoint")
	}

	if current != nil && current.Status == domain.CheckpointInProgress {
		if !current.Stale(s.cfg.Sync.RunTimeout(), time.Now()) {
			return nil, reportErrors.New(reportErrors.ErrSyncInProgress,
				fmt.Sprintf("sincronização de %s já em andamento (run %s)", entityType, current.RunID))
		}
		log.L.Warnf("assumindo checkpoint abandonado de %s (run %s, sem progresso desde %s)",
			entityType, current.RunID, current.UpdatedAt.Format(time.RFC3339))
	}

	runID, err := utils.GenerateID()
	if err != nil {
		return nil, reportErrors.Wrap(err, reportErrors.ErrPersistence, "não foi possível gerar o run_id")
	}

	checkpoint := &domain.Checkpoint{
		EntityType: entityType,
		RunID:      runID,
		Status:     domain.CheckpointInProgress,
		UpdatedAt:  time.Now(),
	}

	if err := s.checkpointRepo.SaveOrUpdate(checkpoint); err != nil {
		return nil, reportErrors.Wrap(err, reportErrors.ErrPersistence, "não foi possível iniciar o checkpoint")
	}

	return checkpoint, nil
}

func (s *Service) sync(
	ctx context.Context,
	accountID string,
	entityType domain.EntityType,
	dateRange domain.DateRange,
	checkpoint *domain.Checkpoint,
	result *Result,
) error {
	err := s.integrator.FetchEntities(accountID, entityType, func(entities []*domain.Entity) error {
		if err := ctx.Err(); err != nil {
			return err
		}

		for _, entity := range entities {
			if err := s.entityRepo.SaveOrUpdate(entity); err != nil {
				return reportErrors.Wrap(err, reportErrors.ErrPersistence, "não foi possível gravar a entidade "+entity.ID)
			}
		}
		result.EntitiesSynced += len(entities)

		return nil
	})
	if err != nil {
		return err
	}

	stats, err := s.integrator.FetchMetricRows(accountID, entityType, dateRange, func(rows []*domain.MetricRow) error {
		if err := ctx.Err(); err != nil {
			return err
		}

		entries := make([]*domain.MetricRowEntry, 0, len(rows))
		for _, row := range rows {
			entries = append(entries, &domain.MetricRowEntry{
				EntityID:   row.EntityID,
				EntityType: entityType,
				Date:       row.Date,
				Row:        row,
			})
		}
		if err := s.metricRowRepo.SaveBatch(entries); err != nil {
			return reportErrors.Wrap(err, reportErrors.ErrPersistence, "não foi possível gravar a página de métricas")
		}

		// Progresso incremental: cada página é gravada em transação única e
		// uma retomada reprocessa no máximo a página corrente; os upserts
		// tornam o reprocessamento idempotente
		result.RowsSynced += len(rows)
		checkpoint.LastProcessedID = rows[len(rows)-1].EntityID
		checkpoint.ProcessedCount = result.RowsSynced
		checkpoint.TotalCount = result.RowsSynced
		checkpoint.UpdatedAt = time.Now()
		if err := s.checkpointRepo.SaveOrUpdate(checkpoint); err != nil {
			return reportErrors.Wrap(err, reportErrors.ErrPersistence, "não foi possível atualizar o progresso do checkpoint")
		}

		return nil
	})

	if stats != nil {
		result.RowsTotal = stats.Total
		result.RowsMalformed = stats.Malformed
	}
	if err != nil {
		return err
	}

	if stats != nil && stats.MalformedFraction() > s.cfg.Sync.MalformedTolerance {
		return reportErrors.New(reportErrors.ErrMalformedExceeded,
			fmt.Sprintf("%d de %d registros malformados excede a tolerância de %.0f%%",
				stats.Malformed, stats.Total, s.cfg.Sync.MalformedTolerance*100))
	}

	return nil
}

func (s *Service) fail(checkpoint *domain.Checkpoint, cause error) {
	checkpoint.Status = domain.CheckpointFailed
	checkpoint.ErrorMessage = cause.Error()
	checkpoint.UpdatedAt = time.Now()

	if err := s.checkpointRepo.SaveOrUpdate(checkpoint); err != nil {
		log.L.WithError(err).Error("não foi possível registrar a falha no checkpoint")
	}
}
