package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"
	"github.com/vfg2006/ads-reporter/infrastructure/database/postgres"
	"github.com/vfg2006/ads-reporter/internal/domain"
)

const (
	metricRowsTable = "metric_rows mr"
)

type MetricRowRepository interface {
	GetByEntityIDAndDate(entityID string, date time.Time) (*domain.MetricRowEntry, error)
	GetByDateRange(entityType domain.EntityType, startDate, endDate time.Time) ([]*domain.MetricRowEntry, error)
	SaveOrUpdate(entry *domain.MetricRowEntry) error
	SaveBatch(entries []*domain.MetricRowEntry) error
	DeleteOlderThan(days int) (int64, error)
}

type metricRowRepository struct {
	conn *postgres.Connection
}

func NewMetricRowRepository(conn *postgres.Connection) MetricRowRepository {
	return &metricRowRepository{
		conn: conn,
	}
}

func (r *metricRowRepository) GetByEntityIDAndDate(entityID string, date time.Time) (*domain.MetricRowEntry, error) {
	query, args, err := squirrel.
		Select("mr.id, mr.entity_id, mr.entity_type, mr.date, mr.metrics, mr.created_at, mr.updated_at").
		From(metricRowsTable).
		Where(squirrel.Eq{"mr.entity_id": entityID, "mr.date": date.Format("2006-01-02")}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	row := r.conn.DB.QueryRow(query, args...)
	entry, err := r.scanEntry(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("erro ao escanear métricas: %w", err)
	}

	return entry, nil
}

func (r *metricRowRepository) GetByDateRange(entityType domain.EntityType, startDate, endDate time.Time) ([]*domain.MetricRowEntry, error) {
	query, args, err := squirrel.
		Select("mr.id, mr.entity_id, mr.entity_type, mr.date, mr.metrics, mr.created_at, mr.updated_at").
		From(metricRowsTable).
		Where(squirrel.Eq{"mr.entity_type": string(entityType)}).
		Where(squirrel.GtOrEq{"mr.date": startDate.Format("2006-01-02")}).
		Where(squirrel.LtOrEq{"mr.date": endDate.Format("2006-01-02")}).
		OrderBy("mr.entity_id ASC, mr.date ASC").
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

	entries := make([]*domain.MetricRowEntry, 0)
	for rows.Next() {
		entry, err := r.scanEntryRows(rows)
		if err != nil {
			return nil, fmt.Errorf("erro ao escanear métricas: %w", err)
		}
		entries = append(entries, entry)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("erro durante a iteração de linhas: %w", err)
	}

	return entries, nil
}

// SaveOrUpdate grava a linha de métricas com semântica last-write-wins
// na chave (entity_id, date)
func (r *metricRowRepository) SaveOrUpdate(entry *domain.MetricRowEntry) error {
	return upsertEntry(r.conn.DB, entry)
}

// SaveBatch grava uma página de métricas em uma única transação, de forma
// que uma retomada nunca encontre uma página parcialmente gravada
func (r *metricRowRepository) SaveBatch(entries []*domain.MetricRowEntry) error {
	if len(entries) == 0 {
		return nil
	}

	return r.conn.RunInTransaction(context.Background(), func(tx *sql.Tx) error {
		for _, entry := range entries {
			if err := upsertEntry(tx, entry); err != nil {
				return err
			}
		}
		return nil
	})
}

func upsertEntry(q postgres.Queryer, entry *domain.MetricRowEntry) error {
	var metricsJSON []byte
	var err error

	if entry.Row != nil {
		metricsJSON, err = json.Marshal(entry.Row)
		if err != nil {
			return fmt.Errorf("erro ao serializar métricas para JSON: %w", err)
		}
	}

	query := squirrel.StatementBuilder.
		Insert("metric_rows").
		Columns("entity_id", "entity_type", "date", "metrics").
		Values(
			entry.EntityID,
			string(entry.EntityType),
			entry.Date.Format("2006-01-02"),
			metricsJSON,
		).
		Suffix(`
			ON CONFLICT (entity_id, date) DO UPDATE SET
				entity_type = EXCLUDED.entity_type,
				metrics = EXCLUDED.metrics,
				updated_at = NOW()
		`).
		PlaceholderFormat(squirrel.Dollar)

	sqlQuery, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("erro ao construir a query: %w", err)
	}

	_, err = q.Exec(sqlQuery, args...)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			return fmt.Errorf("erro no banco de dados: %w (código: %s)", pqErr, pqErr.Code)
		}
		return fmt.Errorf("erro ao executar a query: %w", err)
	}

	return nil
}

func (r *metricRowRepository) DeleteOlderThan(days int) (int64, error) {
	cutoffDate := time.Now().AddDate(0, 0, -days).Format("2006-01-02")

	query, args, err := squirrel.
		Delete("metric_rows").
		Where(squirrel.Lt{"date": cutoffDate}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("erro ao construir a query: %w", err)
	}

	result, err := r.conn.DB.Exec(query, args...)
	if err != nil {
		return 0, fmt.Errorf("erro ao executar a query: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("erro ao obter número de linhas afetadas: %w", err)
	}

	return rowsAffected, nil
}

func (r *metricRowRepository) scanEntry(row *sql.Row) (*domain.MetricRowEntry, error) {
	entry := &domain.MetricRowEntry{}
	var entityType string
	var metricsJSON []byte

	err := row.Scan(
		&entry.ID,
		&entry.EntityID,
		&entityType,
		&entry.Date,
		&metricsJSON,
		&entry.CreatedAt,
		&entry.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	entry.EntityType = domain.EntityType(entityType)

	if metricsJSON != nil {
		metricRow := &domain.MetricRow{}
		if err := json.Unmarshal(metricsJSON, metricRow); err != nil {
			return nil, fmt.Errorf("erro ao deserializar JSON de métricas: %w", err)
		}
		entry.Row = metricRow
	}

	return entry, nil
}

func (r *metricRowRepository) scanEntryRows(rows *sql.Rows) (*domain.MetricRowEntry, error) {
	entry := &domain.MetricRowEntry{}
	var entityType string
	var metricsJSON []byte

	err := rows.Scan(
		&entry.ID,
		&entry.EntityID,
		&entityType,
		&entry.Date,
		&metricsJSON,
		&entry.CreatedAt,
		&entry.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	entry.EntityType = domain.EntityType(entityType)

	if metricsJSON != nil {
		metricRow := &domain.MetricRow{}
		if err := json.Unmarshal(metricsJSON, metricRow); err != nil {
			return nil, fmt.Errorf("erro ao deserializar JSON de métricas: %w", err)
		}
		entry.Row = metricRow
	}

	return entry, nil
}
