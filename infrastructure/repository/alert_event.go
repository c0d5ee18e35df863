package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/vfg2006/ads-reporter/infrastructure/database/postgres"
	"github.com/vfg2006/ads-reporter/internal/domain"
)

const (
	alertEventsTable = "alert_events ae"
)

type AlertEventRepository interface {
	Save(event *domain.AlertEvent) error
	ListByDate(date time.Time) ([]*domain.AlertEvent, error)
}

type alertEventRepository struct {
	conn *postgres.Connection
}

func NewAlertEventRepository(conn *postgres.Connection) AlertEventRepository {
	return &alertEventRepository{
		conn: conn,
	}
}

func (r *alertEventRepository) Save(event *domain.AlertEvent) error {
	query := squirrel.StatementBuilder.
		Insert("alert_events").
		Columns("kind", "entity_id", "entity_name", "observed", "threshold", "percent_deviation", "message").
		Values(
			string(event.Kind),
			event.EntityID,
			event.EntityName,
			event.Observed.String(),
			event.Threshold.String(),
			event.PercentDeviation,
			event.Message,
		).
		PlaceholderFormat(squirrel.Dollar)

	sqlQuery, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("erro ao construir a query: %w", err)
	}

	_, err = r.conn.DB.Exec(sqlQuery, args...)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			return fmt.Errorf("erro no banco de dados: %w (código: %s)", pqErr, pqErr.Code)
		}
		return fmt.Errorf("erro ao executar a query: %w", err)
	}

	return nil
}

func (r *alertEventRepository) ListByDate(date time.Time) ([]*domain.AlertEvent, error) {
	query, args, err := squirrel.
		Select("ae.kind, ae.entity_id, ae.entity_name, ae.observed, ae.threshold, ae.percent_deviation, ae.message, ae.created_at").
		From(alertEventsTable).
		Where(squirrel.Expr("ae.created_at::date = ?", date.Format("2006-01-02"))).
		OrderBy("ae.created_at ASC").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	rows, err := r.conn.DB.Query(query, args...)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("erro ao executar a query: %w", err)
	}
	defer rows.Close()

	events := make([]*domain.AlertEvent, 0)
	for rows.Next() {
		event := &domain.AlertEvent{}
		var kind, observed, threshold string

		err := rows.Scan(
			&kind,
			&event.EntityID,
			&event.EntityName,
			&observed,
			&threshold,
			&event.PercentDeviation,
			&event.Message,
			&event.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("erro ao escanear eventos de alerta: %w", err)
		}

		event.Kind = domain.AlertKind(kind)

		if event.Observed, err = decimal.NewFromString(observed); err != nil {
			return nil, fmt.Errorf("erro ao converter valor observado: %w", err)
		}
		if event.Threshold, err = decimal.NewFromString(threshold); err != nil {
			return nil, fmt.Errorf("erro ao converter limiar: %w", err)
		}

		events = append(events, event)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("erro durante a iteração de linhas: %w", err)
	}

	return events, nil
}
