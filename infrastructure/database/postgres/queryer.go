package postgres

import (
	"database/sql"
)

// Queryer é a superfície comum de *sql.DB e *sql.Tx usada pelos repositórios,
// permitindo executar os mesmos upserts dentro ou fora de uma transação
type Queryer interface {
	Exec(query string, args ...any) (sql.Result, error)
	Query(query string, args ...any) (*sql.Rows, error)
	QueryRow(query string, args ...any) *sql.Row
}

var (
	_ Queryer = (*sql.DB)(nil)
	_ Queryer = (*sql.Tx)(nil)
)
