package meta

import (
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	metadomain "github.com/vfg2006/ads-reporter/infrastructure/integrator/meta/domain"
	"github.com/vfg2006/ads-reporter/infrastructure/integrator/meta/metaclient"
	"github.com/vfg2006/ads-reporter/internal/config"
	"github.com/vfg2006/ads-reporter/internal/domain"
)

// FetchStats acumula os contadores de uma busca paginada
type FetchStats struct {
	Total     int
	Malformed int
}

// MalformedFraction retorna a fração de registros malformados da busca
func (s *FetchStats) MalformedFraction() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Malformed) / float64(s.Total)
}

// Integrator entrega sequências paginadas de entidades e métricas do Meta.
// Cada página é passada ao handler antes de buscar a próxima, permitindo
// checkpoint incremental pelo chamador
type Integrator interface {
	FetchEntities(accountID string, entityType domain.EntityType, handler func([]*domain.Entity) error) error
	FetchMetricRows(accountID string, entityType domain.EntityType, dateRange domain.DateRange, handler func([]*domain.MetricRow) error) (*FetchStats, error)
}

type MetaIntegrator struct {
	cfg    *config.Config
	Client metaclient.Client
}

func New(cfg *config.Config, client metaclient.Client) *MetaIntegrator {
	return &MetaIntegrator{
		cfg:    cfg,
		Client: client,
	}
}

// FetchEntities percorre todas as páginas de entidades da conta
func (s *MetaIntegrator) FetchEntities(accountID string, entityType domain.EntityType, handler func([]*domain.Entity) error) error {
	after := ""

	for {
		page, err := s.Client.ListEntities(accountID, entityType, after)
		if err != nil {
			return err
		}

		entities := make([]*domain.Entity, 0, len(page.Data))
		for i := range page.Data {
			entities = append(entities, factoryEntity(&page.Data[i], entityType))
		}

		if len(entities) > 0 {
			if err := handler(entities); err != nil {
				return err
			}
		}

		if !page.HasNext() {
			return nil
		}
		after = page.Paging.Cursors.After
	}
}

// FetchMetricRows percorre todas as páginas de insights do período. Registros
// malformados são pulados com warning e contados; a tolerância é decidida
// pelo chamador
func (s *MetaIntegrator) FetchMetricRows(
	accountID string,
	entityType domain.EntityType,
	dateRange domain.DateRange,
	handler func([]*domain.MetricRow) error,
) (*FetchStats, error) {
	after := ""
	stats := &FetchStats{}

	for {
		page, err := s.Client.GetInsights(accountID, entityType, dateRange, after)
		if err != nil {
			return stats, err
		}

		rows := make([]*domain.MetricRow, 0, len(page.Data))
		for i := range page.Data {
			stats.Total++

			row, err := factoryMetricRow(&page.Data[i], entityType)
			if err != nil {
				stats.Malformed++
				logrus.WithFields(logrus.Fields{
					"account_id":  accountID,
					"entity_type": entityType,
					"entity_id":   page.Data[i].EntityID(string(entityType)),
					"date":        page.Data[i].DateStart,
					"error":       err.Error(),
				}).Warn("Registro de insight malformado, pulando")
				continue
			}

			rows = append(rows, row)
		}

		if len(rows) > 0 {
			if err := handler(rows); err != nil {
				return stats, err
			}
		}

		if !page.HasNext() {
			return stats, nil
		}
		after = page.Paging.Cursors.After
	}
}

func factoryEntity(raw *metadomain.Entity, entityType domain.EntityType) *domain.Entity {
	entity := &domain.Entity{
		ID:         raw.ID,
		EntityType: entityType,
		Name:       raw.Name,
		Status:     domain.ParseEntityStatus(raw.Status),
	}

	// Orçamentos chegam em centavos no Graph API
	if raw.DailyBudget != "" {
		if cents, err := decimal.NewFromString(raw.DailyBudget); err == nil {
			budget := cents.Div(decimal.NewFromInt(100))
			entity.DailyBudget = &budget
		}
	}
	if raw.LifetimeBudget != "" {
		if cents, err := decimal.NewFromString(raw.LifetimeBudget); err == nil {
			budget := cents.Div(decimal.NewFromInt(100))
			entity.LifetimeBudget = &budget
		}
	}

	if raw.CreatedTime != "" {
		if t, err := time.Parse(time.RFC3339, raw.CreatedTime); err == nil {
			entity.CreatedAt = t
		}
	}
	if raw.UpdatedTime != "" {
		if t, err := time.Parse(time.RFC3339, raw.UpdatedTime); err == nil {
			entity.UpdatedAt = t
		}
	}

	return entity
}

func factoryMetricRow(raw *metadomain.Insight, entityType domain.EntityType) (*domain.MetricRow, error) {
	entityID := raw.EntityID(string(entityType))
	if entityID == "" {
		return nil, &malformedFieldError{field: "entity_id"}
	}

	date, err := time.Parse(time.DateOnly, raw.DateStart)
	if err != nil {
		return nil, &malformedFieldError{field: "date_start", cause: err}
	}

	impressions, err := strconv.Atoi(raw.Impressions)
	if err != nil || impressions < 0 {
		return nil, &malformedFieldError{field: "impressions", cause: err}
	}

	clicks, err := strconv.Atoi(raw.Clicks)
	if err != nil || clicks < 0 {
		return nil, &malformedFieldError{field: "clicks", cause: err}
	}

	spend, err := decimal.NewFromString(raw.Spend)
	if err != nil || spend.IsNegative() {
		return nil, &malformedFieldError{field: "spend", cause: err}
	}

	return &domain.MetricRow{
		EntityID:    entityID,
		EntityName:  raw.EntityName(string(entityType)),
		Date:        date,
		Impressions: impressions,
		Clicks:      clicks,
		Spend:       spend,
		Conversions: extractConversions(raw.Actions),
	}, nil
}

// extractConversions consolida as ações de conversão sob a métrica canônica
func extractConversions(actions []metadomain.Action) int {
	total := 0
	for _, action := range actions {
		if !metadomain.MetaActionToConversion[action.ActionType] {
			continue
		}

		value, err := strconv.Atoi(action.Value)
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"action_type": action.ActionType,
				"value":       action.Value,
			}).Warn("Valor de ação inválido, ignorando")
			continue
		}

		total += value
	}
	return total
}

type malformedFieldError struct {
	field string
	cause error
}

func (e *malformedFieldError) Error() string {
	if e.cause != nil {
		return "campo inválido: " + e.field + ": " + e.cause.Error()
	}
	return "campo ausente ou inválido: " + e.field
}

func (e *malformedFieldError) Unwrap() error {
	return e.cause
}
