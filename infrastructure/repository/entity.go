package repository

import (
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/vfg2006/ads-reporter/infrastructure/database/postgres"
	"github.com/vfg2006/ads-reporter/internal/domain"
)

const (
	entitiesTable = "entities e"
)

type EntityRepository interface {
	GetByExternalID(externalID string, entityType domain.EntityType) (*domain.Entity, error)
	ListByType(entityType domain.EntityType) ([]*domain.Entity, error)
	SaveOrUpdate(entity *domain.Entity) error
}

type entityRepository struct {
	conn *postgres.Connection
}

func NewEntityRepository(conn *postgres.Connection) EntityRepository {
	return &entityRepository{
		conn: conn,
	}
}

func (r *entityRepository) GetByExternalID(externalID string, entityType domain.EntityType) (*domain.Entity, error) {
	query, args, err := squirrel.
		Select("e.external_id, e.entity_type, e.name, e.status, e.daily_budget, e.lifetime_budget, e.created_at, e.updated_at").
		From(entitiesTable).
		Where(squirrel.Eq{"e.external_id": externalID, "e.entity_type": string(entityType)}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	row := r.conn.DB.QueryRow(query, args...)
	entity, err := r.scanEntity(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("erro ao escanear entidade: %w", err)
	}

	return entity, nil
}

func (r *entityRepository) ListByType(entityType domain.EntityType) ([]*domain.Entity, error) {
	query, args, err := squirrel.
		Select("e.external_id, e.entity_type, e.name, e.status, e.daily_budget, e.lifetime_budget, e.created_at, e.updated_at").
		From(entitiesTable).
		Where(squirrel.Eq{"e.entity_type": string(entityType)}).
		OrderBy("e.external_id ASC").
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

	entities := make([]*domain.Entity, 0)
	for rows.Next() {
		entity, err := r.scanEntityRows(rows)
		if err != nil {
			return nil, fmt.Errorf("erro ao escanear entidades: %w", err)
		}
		entities = append(entities, entity)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("erro durante a iteração de linhas: %w", err)
	}

	return entities, nil
}

func (r *entityRepository) SaveOrUpdate(entity *domain.Entity) error {
	var dailyBudget, lifetimeBudget *string
	if entity.DailyBudget != nil {
		s := entity.DailyBudget.String()
		dailyBudget = &s
	}
	if entity.LifetimeBudget != nil {
		s := entity.LifetimeBudget.String()
		lifetimeBudget = &s
	}

	query := squirrel.StatementBuilder.
		Insert("entities").
		Columns("external_id", "entity_type", "name", "status", "daily_budget", "lifetime_budget").
		Values(
			entity.ID,
			string(entity.EntityType),
			entity.Name,
			string(entity.Status),
			dailyBudget,
			lifetimeBudget,
		).
		Suffix(`
			ON CONFLICT (external_id, entity_type) DO UPDATE SET
				name = EXCLUDED.name,
				status = EXCLUDED.status,
				daily_budget = EXCLUDED.daily_budget,
				lifetime_budget = EXCLUDED.lifetime_budget,
				updated_at = NOW()
		`).
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

func (r *entityRepository) scanEntity(row *sql.Row) (*domain.Entity, error) {
	entity := &domain.Entity{}
	var entityType, status string
	var dailyBudget, lifetimeBudget sql.NullString

	err := row.Scan(
		&entity.ID,
		&entityType,
		&entity.Name,
		&status,
		&dailyBudget,
		&lifetimeBudget,
		&entity.CreatedAt,
		&entity.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	entity.EntityType = domain.EntityType(entityType)
	entity.Status = domain.ParseEntityStatus(status)

	if err := applyBudgets(entity, dailyBudget, lifetimeBudget); err != nil {
		return nil, err
	}

	return entity, nil
}

func (r *entityRepository) scanEntityRows(rows *sql.Rows) (*domain.Entity, error) {
	entity := &domain.Entity{}
	var entityType, status string
	var dailyBudget, lifetimeBudget sql.NullString

	err := rows.Scan(
		&entity.ID,
		&entityType,
		&entity.Name,
		&status,
		&dailyBudget,
		&lifetimeBudget,
		&entity.CreatedAt,
		&entity.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	entity.EntityType = domain.EntityType(entityType)
	entity.Status = domain.ParseEntityStatus(status)

	if err := applyBudgets(entity, dailyBudget, lifetimeBudget); err != nil {
		return nil, err
	}

	return entity, nil
}

func applyBudgets(entity *domain.Entity, dailyBudget, lifetimeBudget sql.NullString) error {
	if dailyBudget.Valid {
		value, err := decimal.NewFromString(dailyBudget.String)
		if err != nil {
			return fmt.Errorf("erro ao converter daily_budget: %w", err)
		}
		entity.DailyBudget = &value
	}

	if lifetimeBudget.Valid {
		value, err := decimal.NewFromString(lifetimeBudget.String)
		if err != nil {
			return fmt.Errorf("erro ao converter lifetime_budget: %w", err)
		}
		entity.LifetimeBudget = &value
	}

	return nil
}
