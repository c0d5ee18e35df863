package reporting

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/ads-reporter/infrastructure/integrator/telegram"
	telegrammocks "github.com/vfg2006/ads-reporter/infrastructure/integrator/telegram/mocks"
	"github.com/vfg2006/ads-reporter/infrastructure/repository/mocks"
	"github.com/vfg2006/ads-reporter/internal/config"
	"github.com/vfg2006/ads-reporter/internal/domain"
	"github.com/vfg2006/ads-reporter/internal/usecases/exporting"
	exportingmocks "github.com/vfg2006/ads-reporter/internal/usecases/exporting/mocks"
	"github.com/vfg2006/ads-reporter/internal/usecases/syncing"
	syncingmocks "github.com/vfg2006/ads-reporter/internal/usecases/syncing/mocks"
	"github.com/vfg2006/ads-reporter/pkg/reportErrors"
	"go.uber.org/mock/gomock"
)

type pipelineFixture struct {
	service    *Service
	syncer     *syncingmocks.MockSyncer
	entityRepo *mocks.MockEntityRepository
	metricRepo *mocks.MockMetricRowRepository
	alertRepo  *mocks.MockAlertEventRepository
	deliverer  *telegrammocks.MockDeliverer
	exporter   *exportingmocks.MockExporter
}

func newPipelineFixture(t *testing.T) *pipelineFixture {
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	cfg := &config.Config{
		Meta: config.Meta{AccountID: "act_123"},
		Report: config.Report{
			RankMetric:  "spend",
			EntityLimit: 10,
		},
		Alerts: config.Alerts{
			HighCPC:               "2.00",
			LowCTR:                0.5,
			BudgetDepletedPercent: 90,
		},
	}

	f := &pipelineFixture{
		syncer:     syncingmocks.NewMockSyncer(ctrl),
		entityRepo: mocks.NewMockEntityRepository(ctrl),
		metricRepo: mocks.NewMockMetricRowRepository(ctrl),
		alertRepo:  mocks.NewMockAlertEventRepository(ctrl),
		deliverer:  telegrammocks.NewMockDeliverer(ctrl),
		exporter:   exportingmocks.NewMockExporter(ctrl),
	}
	f.service = NewService(cfg, f.syncer, f.entityRepo, f.metricRepo, f.alertRepo, f.deliverer, f.exporter)

	return f
}

func pipelineRange(t *testing.T) *domain.DateRange {
	dr, err := domain.NewDateRange(
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 7, 0, 0, 0, 0, time.UTC),
	)
	require.NoError(t, err)
	return &dr
}

func pipelineEntries() []*domain.MetricRowEntry {
	row := &domain.MetricRow{
		EntityID:    "c1",
		EntityName:  "Campanha Verão",
		Date:        time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
		Impressions: 1000,
		Clicks:      50,
		Spend:       decimal.RequireFromString("75.50"),
		Conversions: 5,
	}
	return []*domain.MetricRowEntry{{
		EntityID:   "c1",
		EntityType: domain.EntityTypeCampaign,
		Date:       row.Date,
		Row:        row,
	}}
}

func campaign(id string, status domain.EntityStatus) *domain.Entity {
	return &domain.Entity{
		ID:         id,
		EntityType: domain.EntityTypeCampaign,
		Name:       "Campanha " + id,
		Status:     status,
	}
}

func TestRunDaily_FullPipeline(t *testing.T) {
	f := newPipelineFixture(t)
	dr := pipelineRange(t)

	gomock.InOrder(
		// Status anterior é lido antes da sincronização sobrescrever
		f.entityRepo.EXPECT().
			ListByType(domain.EntityTypeCampaign).
			Return([]*domain.Entity{campaign("c1", domain.EntityStatusActive)}, nil),
		f.syncer.EXPECT().
			Run(gomock.Any(), "act_123", domain.EntityTypeCampaign, *dr).
			Return(&syncing.Result{RunID: "run-1", RowsSynced: 1}, nil),
		f.metricRepo.EXPECT().
			GetByDateRange(domain.EntityTypeCampaign, dr.Start, dr.End).
			Return(pipelineEntries(), nil),
		f.entityRepo.EXPECT().
			ListByType(domain.EntityTypeCampaign).
			Return([]*domain.Entity{campaign("c1", domain.EntityStatusActive)}, nil),
	)

	var delivered string
	f.deliverer.EXPECT().
		Deliver(gomock.Any()).
		DoAndReturn(func(text string) *telegram.DeliveryResult {
			delivered = text
			return &telegram.DeliveryResult{MessagesSent: 1, MessagesTotal: 1}
		})
	f.exporter.EXPECT().
		Export(ReportTypeDaily, gomock.Any(), gomock.Any()).
		Return([]exporting.FileResult{{Path: "/tmp/campaign_report.json", Format: "json"}})

	summary, err := f.service.RunDaily(context.Background(), RunOptions{DateRange: pipelineRange(t)})

	require.NoError(t, err)
	assert.Equal(t, ReportTypeDaily, summary.ReportType)
	assert.Equal(t, "run-1", summary.Sync.RunID)
	require.NotNil(t, summary.Report)
	require.Len(t, summary.Report.Entries, 1)
	assert.Empty(t, summary.Alerts)
	assert.Equal(t, 1, summary.Delivery.MessagesSent)
	require.Len(t, summary.Exports, 1)
	assert.Contains(t, delivered, "Campanha Verão")
}

func TestRun_CampaignStoppedUsesStatusBeforeSync(t *testing.T) {
	f := newPipelineFixture(t)
	dr := pipelineRange(t)

	gomock.InOrder(
		// Antes da sincronização a campanha estava ativa
		f.entityRepo.EXPECT().
			ListByType(domain.EntityTypeCampaign).
			Return([]*domain.Entity{campaign("c1", domain.EntityStatusActive)}, nil),
		f.syncer.EXPECT().
			Run(gomock.Any(), "act_123", domain.EntityTypeCampaign, *dr).
			Return(&syncing.Result{RunID: "run-1"}, nil),
		f.metricRepo.EXPECT().
			GetByDateRange(domain.EntityTypeCampaign, dr.Start, dr.End).
			Return(pipelineEntries(), nil),
		// Depois da sincronização aparece pausada
		f.entityRepo.EXPECT().
			ListByType(domain.EntityTypeCampaign).
			Return([]*domain.Entity{campaign("c1", domain.EntityStatusPaused)}, nil),
	)

	f.alertRepo.EXPECT().
		Save(gomock.Any()).
		DoAndReturn(func(event *domain.AlertEvent) error {
			assert.Equal(t, domain.AlertCampaignStopped, event.Kind)
			assert.Equal(t, "c1", event.EntityID)
			return nil
		})
	f.deliverer.EXPECT().
		Deliver(gomock.Any()).
		Return(&telegram.DeliveryResult{MessagesSent: 1, MessagesTotal: 1})
	f.exporter.EXPECT().
		Export(ReportTypeDaily, gomock.Any(), gomock.Any()).
		Return(nil)

	summary, err := f.service.RunDaily(context.Background(), RunOptions{DateRange: pipelineRange(t)})

	require.NoError(t, err)
	require.Len(t, summary.Alerts, 1)
	assert.Equal(t, domain.AlertCampaignStopped, summary.Alerts[0].Kind)
}

func TestRun_AlertPersistenceFailureDoesNotBlockDelivery(t *testing.T) {
	f := newPipelineFixture(t)
	dr := pipelineRange(t)

	gomock.InOrder(
		f.entityRepo.EXPECT().
			ListByType(domain.EntityTypeCampaign).
			Return([]*domain.Entity{campaign("c1", domain.EntityStatusActive)}, nil),
		f.syncer.EXPECT().
			Run(gomock.Any(), "act_123", domain.EntityTypeCampaign, *dr).
			Return(&syncing.Result{RunID: "run-1"}, nil),
		f.metricRepo.EXPECT().
			GetByDateRange(domain.EntityTypeCampaign, dr.Start, dr.End).
			Return(pipelineEntries(), nil),
		f.entityRepo.EXPECT().
			ListByType(domain.EntityTypeCampaign).
			Return([]*domain.Entity{campaign("c1", domain.EntityStatusPaused)}, nil),
	)

	f.alertRepo.EXPECT().Save(gomock.Any()).Return(errors.New("banco indisponível"))
	f.deliverer.EXPECT().
		Deliver(gomock.Any()).
		Return(&telegram.DeliveryResult{MessagesSent: 1, MessagesTotal: 1})
	f.exporter.EXPECT().Export(ReportTypeDaily, gomock.Any(), gomock.Any()).Return(nil)

	summary, err := f.service.RunDaily(context.Background(), RunOptions{DateRange: pipelineRange(t)})

	require.NoError(t, err, "falha de persistência de alerta não deve abortar o pipeline")
	require.Len(t, summary.PersistenceErrs, 1)
	assert.True(t, reportErrors.IsPersistenceError(summary.PersistenceErrs[0]))
}

func TestRun_DeliveryFailureIsReturnedWithSummary(t *testing.T) {
	f := newPipelineFixture(t)
	dr := pipelineRange(t)

	gomock.InOrder(
		f.entityRepo.EXPECT().
			ListByType(domain.EntityTypeCampaign).
			Return(nil, nil),
		f.syncer.EXPECT().
			Run(gomock.Any(), "act_123", domain.EntityTypeCampaign, *dr).
			Return(&syncing.Result{RunID: "run-1"}, nil),
		f.metricRepo.EXPECT().
			GetByDateRange(domain.EntityTypeCampaign, dr.Start, dr.End).
			Return(pipelineEntries(), nil),
		f.entityRepo.EXPECT().
			ListByType(domain.EntityTypeCampaign).
			Return([]*domain.Entity{campaign("c1", domain.EntityStatusActive)}, nil),
	)

	deliveryErr := reportErrors.New(reportErrors.ErrDeliveryFailed, "bot api indisponível")
	f.deliverer.EXPECT().
		Deliver(gomock.Any()).
		Return(&telegram.DeliveryResult{MessagesSent: 0, MessagesTotal: 1, Err: deliveryErr})
	// A exportação acontece mesmo com a entrega falhando
	f.exporter.EXPECT().
		Export(ReportTypeDaily, gomock.Any(), gomock.Any()).
		Return([]exporting.FileResult{{Path: "/tmp/campaign_report.txt", Format: "txt"}})

	summary, err := f.service.RunDaily(context.Background(), RunOptions{DateRange: pipelineRange(t)})

	require.Error(t, err)
	assert.True(t, reportErrors.IsDeliveryFailed(err))
	require.NotNil(t, summary.Report)
	require.Len(t, summary.Exports, 1)
}

func TestRun_SyncFailureAbortsPipeline(t *testing.T) {
	f := newPipelineFixture(t)
	dr := pipelineRange(t)

	gomock.InOrder(
		f.entityRepo.EXPECT().
			ListByType(domain.EntityTypeCampaign).
			Return(nil, nil),
		f.syncer.EXPECT().
			Run(gomock.Any(), "act_123", domain.EntityTypeCampaign, *dr).
			Return(&syncing.Result{RunID: "run-1"}, reportErrors.New(reportErrors.ErrSyncInProgress, "já em andamento")),
	)

	summary, err := f.service.RunDaily(context.Background(), RunOptions{DateRange: pipelineRange(t)})

	require.Error(t, err)
	assert.True(t, reportErrors.IsSyncInProgress(err))
	assert.Nil(t, summary.Report)
}

func TestRunWeekly_UsesSevenDayWindow(t *testing.T) {
	f := newPipelineFixture(t)

	var got domain.DateRange
	f.entityRepo.EXPECT().ListByType(domain.EntityTypeCampaign).Return(nil, nil).Times(2)
	f.syncer.EXPECT().
		Run(gomock.Any(), "act_123", domain.EntityTypeCampaign, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, _ domain.EntityType, dateRange domain.DateRange) (*syncing.Result, error) {
			got = dateRange
			return &syncing.Result{RunID: "run-1"}, nil
		})
	f.metricRepo.EXPECT().
		GetByDateRange(domain.EntityTypeCampaign, gomock.Any(), gomock.Any()).
		Return(nil, nil)
	f.deliverer.EXPECT().
		Deliver(gomock.Any()).
		Return(&telegram.DeliveryResult{MessagesSent: 1, MessagesTotal: 1})
	f.exporter.EXPECT().Export(ReportTypeWeekly, gomock.Any(), gomock.Any()).Return(nil)

	_, err := f.service.RunWeekly(context.Background(), RunOptions{})

	require.NoError(t, err)
	assert.Len(t, got.Days(), 7)
	yesterday := time.Now().AddDate(0, 0, -1)
	assert.Equal(t, yesterday.Format(time.DateOnly), got.End.Format(time.DateOnly))
}

func TestResolveWindow_OptionsTakePrecedenceOverConfig(t *testing.T) {
	f := newPipelineFixture(t)
	f.service.cfg.Report.StartDate = "2024-02-01"
	f.service.cfg.Report.EndDate = "2024-02-07"

	override := pipelineRange(t)
	dr, err := f.service.resolveWindow(RunOptions{DateRange: override}, domain.Today(time.Now()))

	require.NoError(t, err)
	assert.Equal(t, *override, dr)
}

func TestResolveWindow_ConfigDatesBeatFallback(t *testing.T) {
	f := newPipelineFixture(t)
	f.service.cfg.Report.StartDate = "2024-02-01"
	f.service.cfg.Report.EndDate = "2024-02-07"

	dr, err := f.service.resolveWindow(RunOptions{}, domain.Today(time.Now()))

	require.NoError(t, err)
	assert.Equal(t, "2024-02-01", dr.Start.Format(time.DateOnly))
	assert.Equal(t, "2024-02-07", dr.End.Format(time.DateOnly))
}

func TestResolveWindow_InvalidConfigDates(t *testing.T) {
	f := newPipelineFixture(t)
	f.service.cfg.Report.StartDate = "01/02/2024"
	f.service.cfg.Report.EndDate = "2024-02-07"

	_, err := f.service.resolveWindow(RunOptions{}, domain.Today(time.Now()))

	require.Error(t, err)
	assert.Equal(t, reportErrors.ErrInvalidRequest, reportErrors.CodeOf(err))
}
