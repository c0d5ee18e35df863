package domain

import (
	"time"
)

type CheckpointStatus string

const (
	CheckpointPending    CheckpointStatus = "PENDING"
	CheckpointInProgress CheckpointStatus = "IN_PROGRESS"
	CheckpointComplete   CheckpointStatus = "COMPLETE"
	CheckpointFailed     CheckpointStatus = "FAILED"
)

// Checkpoint registra o progresso de sincronização por tipo de entidade.
// Pertence exclusivamente à execução que o criou (escritor único)
type Checkpoint struct {
	EntityType      EntityType       `json:"entity_type"`
	RunID           string           `json:"run_id"`
	LastProcessedID string           `json:"last_processed_id"`
	ProcessedCount  int              `json:"processed_count"`
	TotalCount      int              `json:"total_count"`
	Status          CheckpointStatus `json:"status"`
	ErrorMessage    string           `json:"error_message,omitempty"`
	UpdatedAt       time.Time        `json:"updated_at"`
}

// Stale indica se um checkpoint IN_PROGRESS foi abandonado por uma execução
// que morreu (timeout da plataforma); pode ser retomado por outra execução
func (c *Checkpoint) Stale(timeout time.Duration, now time.Time) bool {
	return c.Status == CheckpointInProgress && now.Sub(c.UpdatedAt) > timeout
}
