package syncing

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/ads-reporter/infrastructure/integrator/meta"
	metamocks "github.com/vfg2006/ads-reporter/infrastructure/integrator/meta/mocks"
	"github.com/vfg2006/ads-reporter/infrastructure/repository/mocks"
	"github.com/vfg2006/ads-reporter/internal/config"
	"github.com/vfg2006/ads-reporter/internal/domain"
	"github.com/vfg2006/ads-reporter/pkg/reportErrors"
	"go.uber.org/mock/gomock"
)

const testAccountID = "act_123"

type syncFixture struct {
	service        *Service
	integrator     *metamocks.MockIntegrator
	entityRepo     *mocks.MockEntityRepository
	metricRowRepo  *mocks.MockMetricRowRepository
	checkpointRepo *mocks.MockCheckpointRepository
}

func newSyncFixture(t *testing.T, tolerance float64) *syncFixture {
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	cfg := &config.Config{
		Sync: config.Sync{
			MalformedTolerance: tolerance,
			RunTimeoutMinutes:  30,
		},
	}

	f := &syncFixture{
		integrator:     metamocks.NewMockIntegrator(ctrl),
		entityRepo:     mocks.NewMockEntityRepository(ctrl),
		metricRowRepo:  mocks.NewMockMetricRowRepository(ctrl),
		checkpointRepo: mocks.NewMockCheckpointRepository(ctrl),
	}
	f.service = NewService(cfg, f.integrator, f.entityRepo, f.metricRowRepo, f.checkpointRepo)

	return f
}

func syncDateRange(t *testing.T) domain.DateRange {
	dr, err := domain.NewDateRange(
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 7, 0, 0, 0, 0, time.UTC),
	)
	require.NoError(t, err)
	return dr
}

func metricRow(entityID string, spend string) *domain.MetricRow {
	return &domain.MetricRow{
		EntityID:    entityID,
		EntityName:  "Campanha " + entityID,
		Date:        time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
		Impressions: 1000,
		Clicks:      50,
		Spend:       decimal.RequireFromString(spend),
		Conversions: 5,
	}
}

func TestRun_HappyPathClosesCheckpointComplete(t *testing.T) {
	f := newSyncFixture(t, 0.05)

	entities := []*domain.Entity{
		{ID: "c1", Name: "Campanha c1", EntityType: domain.EntityTypeCampaign, Status: domain.EntityStatusActive},
		{ID: "c2", Name: "Campanha c2", EntityType: domain.EntityTypeCampaign, Status: domain.EntityStatusPaused},
	}
	rows := []*domain.MetricRow{metricRow("c1", "25.00"), metricRow("c2", "10.00")}

	var saved []*domain.Checkpoint
	f.checkpointRepo.EXPECT().GetByEntityType(domain.EntityTypeCampaign).Return(nil, nil)
	f.checkpointRepo.EXPECT().
		SaveOrUpdate(gomock.Any()).
		DoAndReturn(func(c *domain.Checkpoint) error {
			copied := *c
			saved = append(saved, &copied)
			return nil
		}).
		Times(3) // abertura, progresso da página, conclusão

	f.integrator.EXPECT().
		FetchEntities(testAccountID, domain.EntityTypeCampaign, gomock.Any()).
		DoAndReturn(func(_ string, _ domain.EntityType, handler func([]*domain.Entity) error) error {
			return handler(entities)
		})
	f.entityRepo.EXPECT().SaveOrUpdate(entities[0]).Return(nil)
	f.entityRepo.EXPECT().SaveOrUpdate(entities[1]).Return(nil)

	f.integrator.EXPECT().
		FetchMetricRows(testAccountID, domain.EntityTypeCampaign, gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ string, _ domain.EntityType, _ domain.DateRange, handler func([]*domain.MetricRow) error) (*meta.FetchStats, error) {
			if err := handler(rows); err != nil {
				return nil, err
			}
			return &meta.FetchStats{Total: 2, Malformed: 0}, nil
		})
	f.metricRowRepo.EXPECT().
		SaveBatch(gomock.Any()).
		DoAndReturn(func(entries []*domain.MetricRowEntry) error {
			require.Len(t, entries, 2)
			for _, entry := range entries {
				assert.Equal(t, domain.EntityTypeCampaign, entry.EntityType)
				assert.NotNil(t, entry.Row)
			}
			return nil
		})

	result, err := f.service.Run(context.Background(), testAccountID, domain.EntityTypeCampaign, syncDateRange(t))

	require.NoError(t, err)
	assert.NotEmpty(t, result.RunID)
	assert.Equal(t, 2, result.EntitiesSynced)
	assert.Equal(t, 2, result.RowsSynced)
	assert.Equal(t, 2, result.RowsTotal)
	assert.Equal(t, 0, result.RowsMalformed)

	require.Len(t, saved, 3)
	assert.Equal(t, domain.CheckpointInProgress, saved[0].Status)
	assert.Equal(t, domain.CheckpointInProgress, saved[1].Status)
	assert.Equal(t, "c2", saved[1].LastProcessedID)
	assert.Equal(t, 2, saved[1].ProcessedCount)
	assert.Equal(t, domain.CheckpointComplete, saved[2].Status)
	assert.Empty(t, saved[2].ErrorMessage)
}

func TestRun_RefusesWhileAnotherRunIsInProgress(t *testing.T) {
	f := newSyncFixture(t, 0.05)

	f.checkpointRepo.EXPECT().
		GetByEntityType(domain.EntityTypeCampaign).
		Return(&domain.Checkpoint{
			EntityType: domain.EntityTypeCampaign,
			RunID:      "run-ativo",
			Status:     domain.CheckpointInProgress,
			UpdatedAt:  time.Now().Add(-time.Minute),
		}, nil)

	result, err := f.service.Run(context.Background(), testAccountID, domain.EntityTypeCampaign, syncDateRange(t))

	require.Error(t, err)
	assert.Nil(t, result)
	assert.True(t, reportErrors.IsSyncInProgress(err))
}

func TestRun_TakesOverStaleCheckpoint(t *testing.T) {
	f := newSyncFixture(t, 0.05)

	stale := &domain.Checkpoint{
		EntityType: domain.EntityTypeCampaign,
		RunID:      "run-morto",
		Status:     domain.CheckpointInProgress,
		UpdatedAt:  time.Now().Add(-2 * time.Hour),
	}
	f.checkpointRepo.EXPECT().GetByEntityType(domain.EntityTypeCampaign).Return(stale, nil)

	var runIDs []string
	f.checkpointRepo.EXPECT().
		SaveOrUpdate(gomock.Any()).
		DoAndReturn(func(c *domain.Checkpoint) error {
			runIDs = append(runIDs, c.RunID)
			return nil
		}).
		Times(2) // abertura e conclusão; nenhuma página de métricas

	f.integrator.EXPECT().
		FetchEntities(testAccountID, domain.EntityTypeCampaign, gomock.Any()).
		Return(nil)
	f.integrator.EXPECT().
		FetchMetricRows(testAccountID, domain.EntityTypeCampaign, gomock.Any(), gomock.Any()).
		Return(&meta.FetchStats{}, nil)

	result, err := f.service.Run(context.Background(), testAccountID, domain.EntityTypeCampaign, syncDateRange(t))

	require.NoError(t, err)
	assert.NotEqual(t, "run-morto", result.RunID, "a retomada deve criar um novo run")
	for _, id := range runIDs {
		assert.Equal(t, result.RunID, id)
	}
}

func TestRun_MalformedOverToleranceFailsCheckpoint(t *testing.T) {
	f := newSyncFixture(t, 0.05)

	var final *domain.Checkpoint
	f.checkpointRepo.EXPECT().GetByEntityType(domain.EntityTypeCampaign).Return(nil, nil)
	f.checkpointRepo.EXPECT().
		SaveOrUpdate(gomock.Any()).
		DoAndReturn(func(c *domain.Checkpoint) error {
			copied := *c
			final = &copied
			return nil
		}).
		AnyTimes()

	f.integrator.EXPECT().
		FetchEntities(testAccountID, domain.EntityTypeCampaign, gomock.Any()).
		Return(nil)
	f.integrator.EXPECT().
		FetchMetricRows(testAccountID, domain.EntityTypeCampaign, gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ string, _ domain.EntityType, _ domain.DateRange, handler func([]*domain.MetricRow) error) (*meta.FetchStats, error) {
			if err := handler([]*domain.MetricRow{metricRow("c1", "25.00")}); err != nil {
				return nil, err
			}
			// 10 de 100 malformados com tolerância de 5%
			return &meta.FetchStats{Total: 100, Malformed: 10}, nil
		})
	f.metricRowRepo.EXPECT().SaveBatch(gomock.Any()).Return(nil)

	result, err := f.service.Run(context.Background(), testAccountID, domain.EntityTypeCampaign, syncDateRange(t))

	require.Error(t, err)
	assert.Equal(t, reportErrors.ErrMalformedExceeded, reportErrors.CodeOf(err))
	assert.Equal(t, 100, result.RowsTotal)
	assert.Equal(t, 10, result.RowsMalformed)

	require.NotNil(t, final)
	assert.Equal(t, domain.CheckpointFailed, final.Status)
	assert.NotEmpty(t, final.ErrorMessage)
}

func TestRun_MalformedWithinToleranceCompletes(t *testing.T) {
	f := newSyncFixture(t, 0.05)

	f.checkpointRepo.EXPECT().GetByEntityType(domain.EntityTypeCampaign).Return(nil, nil)
	f.checkpointRepo.EXPECT().SaveOrUpdate(gomock.Any()).Return(nil).AnyTimes()

	f.integrator.EXPECT().
		FetchEntities(testAccountID, domain.EntityTypeCampaign, gomock.Any()).
		Return(nil)
	f.integrator.EXPECT().
		FetchMetricRows(testAccountID, domain.EntityTypeCampaign, gomock.Any(), gomock.Any()).
		Return(&meta.FetchStats{Total: 100, Malformed: 5}, nil)

	result, err := f.service.Run(context.Background(), testAccountID, domain.EntityTypeCampaign, syncDateRange(t))

	require.NoError(t, err)
	assert.Equal(t, 5, result.RowsMalformed)
}

func TestRun_FetchErrorFailsCheckpoint(t *testing.T) {
	f := newSyncFixture(t, 0.05)

	var final *domain.Checkpoint
	f.checkpointRepo.EXPECT().GetByEntityType(domain.EntityTypeCampaign).Return(nil, nil)
	f.checkpointRepo.EXPECT().
		SaveOrUpdate(gomock.Any()).
		DoAndReturn(func(c *domain.Checkpoint) error {
			copied := *c
			final = &copied
			return nil
		}).
		Times(2)

	f.integrator.EXPECT().
		FetchEntities(testAccountID, domain.EntityTypeCampaign, gomock.Any()).
		Return(errors.New("api fora do ar"))

	_, err := f.service.Run(context.Background(), testAccountID, domain.EntityTypeCampaign, syncDateRange(t))

	require.Error(t, err)
	require.NotNil(t, final)
	assert.Equal(t, domain.CheckpointFailed, final.Status)
	assert.Contains(t, final.ErrorMessage, "api fora do ar")
}

func TestRun_RetentionPurgeAfterCompletion(t *testing.T) {
	f := newSyncFixture(t, 0.05)
	f.service.cfg.Sync.RetentionDays = 90

	f.checkpointRepo.EXPECT().GetByEntityType(domain.EntityTypeCampaign).Return(nil, nil)
	f.checkpointRepo.EXPECT().SaveOrUpdate(gomock.Any()).Return(nil).AnyTimes()
	f.integrator.EXPECT().
		FetchEntities(testAccountID, domain.EntityTypeCampaign, gomock.Any()).
		Return(nil)
	f.integrator.EXPECT().
		FetchMetricRows(testAccountID, domain.EntityTypeCampaign, gomock.Any(), gomock.Any()).
		Return(&meta.FetchStats{}, nil)
	f.metricRowRepo.EXPECT().DeleteOlderThan(90).Return(int64(12), nil)

	_, err := f.service.Run(context.Background(), testAccountID, domain.EntityTypeCampaign, syncDateRange(t))

	require.NoError(t, err)
}

func TestRun_CancelledContextStopsSync(t *testing.T) {
	f := newSyncFixture(t, 0.05)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	f.checkpointRepo.EXPECT().GetByEntityType(domain.EntityTypeCampaign).Return(nil, nil)
	f.checkpointRepo.EXPECT().SaveOrUpdate(gomock.Any()).Return(nil).AnyTimes()

	f.integrator.EXPECT().
		FetchEntities(testAccountID, domain.EntityTypeCampaign, gomock.Any()).
		DoAndReturn(func(_ string, _ domain.EntityType, handler func([]*domain.Entity) error) error {
			return handler([]*domain.Entity{{ID: "c1", EntityType: domain.EntityTypeCampaign}})
		})

	_, err := f.service.Run(ctx, testAccountID, domain.EntityTypeCampaign, syncDateRange(t))

	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}
