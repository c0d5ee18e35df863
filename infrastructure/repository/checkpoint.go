package repository

import (
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"
	"github.com/vfg2006/ads-reporter/infrastructure/database/postgres"
	"github.com/vfg2006/ads-reporter/internal/domain"
)

const (
	checkpointsTable = "checkpoints cp"
)

type CheckpointRepository interface {
	GetByEntityType(entityType domain.EntityType) (*domain.Checkpoint, error)
	SaveOrUpdate(checkpoint *domain.Checkpoint) error
}

type checkpointRepository struct {
	conn *postgres.Connection
}

func NewCheckpointRepository(conn *postgres.Connection) CheckpointRepository {
	return &checkpointRepository{
		conn: conn,
	}
}

func (r *checkpointRepository) GetByEntityType(entityType domain.EntityType) (*domain.Checkpoint, error) {
	query, args, err := squirrel.
		Select("cp.entity_type, cp.run_id, cp.last_processed_id, cp.processed_count, cp.total_count, cp.status, cp.error_message, cp.updated_at").
		From(checkpointsTable).
		Where(squirrel.Eq{"cp.entity_type": string(entityType)}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	checkpoint := &domain.Checkpoint{}
	var checkpointEntityType, status string
	var errorMessage sql.NullString

	row := r.conn.DB.QueryRow(query, args...)
	err = row.Scan(
		&checkpointEntityType,
		&checkpoint.RunID,
		&checkpoint.LastProcessedID,
		&checkpoint.ProcessedCount,
		&checkpoint.TotalCount,
		&status,
		&errorMessage,
		&checkpoint.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("erro ao escanear checkpoint: %w", err)
	}

	checkpoint.EntityType = domain.EntityType(checkpointEntityType)
	checkpoint.Status = domain.CheckpointStatus(status)
	if errorMessage.Valid {
		checkpoint.ErrorMessage = errorMessage.String
	}

	return checkpoint, nil
}

// SaveOrUpdate grava o checkpoint com semântica last-write-wins por entity_type
func (r *checkpointRepository) SaveOrUpdate(checkpoint *domain.Checkpoint) error {
	var errorMessage *string
	if checkpoint.ErrorMessage != "" {
		errorMessage = &checkpoint.ErrorMessage
	}

	query := squirrel.StatementBuilder.
		Insert("checkpoints").
		Columns("entity_type", "run_id", "last_processed_id", "processed_count", "total_count", "status", "error_message").
		Values(
			string(checkpoint.EntityType),
			checkpoint.RunID,
			checkpoint.LastProcessedID,
			checkpoint.ProcessedCount,
			checkpoint.TotalCount,
			string(checkpoint.Status),
			errorMessage,
		).
		Suffix(`
			ON CONFLICT (entity_type) DO UPDATE SET
				run_id = EXCLUDED.run_id,
				last_processed_id = EXCLUDED.last_processed_id,
				processed_count = EXCLUDED.processed_count,
				total_count = EXCLUDED.total_count,
				status = EXCLUDED.status,
				error_message = EXCLUDED.error_message,
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
