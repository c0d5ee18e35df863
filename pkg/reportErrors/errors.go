package reportErrors

import (
	"errors"
	"fmt"
	"time"
)

// Códigos de erro do pipeline
const (
	// Erros de autenticação com a API de anúncios (não são repetidos)
	ErrAuth = "AUTH_001" // Credencial inválida ou expirada

	// Erros de busca de métricas (2000-2999)
	ErrRateLimitExceeded = "FETCH_001" // Limite de requisições excedido após retries
	ErrFetchFailed       = "FETCH_002" // Falha de rede/transporte após retries
	ErrMalformedExceeded = "FETCH_003" // Fração de registros malformados acima da tolerância

	// Erros de entrega (3000-3999)
	ErrDeliveryFailed = "DLV_001" // Falha ao entregar o relatório após retries
	ErrExportFailed   = "DLV_002" // Falha ao gravar arquivo de exportação

	// Erros de persistência (4000-4999)
	ErrPersistence    = "DB_001" // Erro de operação no banco de dados
	ErrSyncInProgress = "DB_002" // Já existe uma sincronização em andamento para o tipo de entidade

	// Erros de validação (5000-5999)
	ErrInvalidRequest = "VAL_001" // Parâmetros de execução inválidos
)

// PipelineError é o erro etiquetado que propaga até a borda da invocação
// com contexto suficiente para diagnóstico sem reexecução
type PipelineError struct {
	Code       string
	Message    string
	EntityType string
	StartDate  time.Time
	EndDate    time.Time
	Cause      error
}

func (e *PipelineError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Code, e.Message)

	if e.EntityType != "" {
		msg = fmt.Sprintf("%s (entity_type=%s)", msg, e.EntityType)
	}

	if !e.StartDate.IsZero() {
		msg = fmt.Sprintf("%s (período=%s a %s)",
			msg,
			e.StartDate.Format(time.DateOnly),
			e.EndDate.Format(time.DateOnly),
		)
	}

	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Cause)
	}

	return msg
}

func (e *PipelineError) Unwrap() error {
	return e.Cause
}

// New cria um PipelineError com código e mensagem
func New(code, message string) *PipelineError {
	return &PipelineError{Code: code, Message: message}
}

// Wrap cria um PipelineError envolvendo a causa original
func Wrap(err error, code, message string) *PipelineError {
	return &PipelineError{Code: code, Message: message, Cause: err}
}

// WithEntityType anexa o tipo de entidade ao erro
func (e *PipelineError) WithEntityType(entityType string) *PipelineError {
	e.EntityType = entityType
	return e
}

// WithDateRange anexa o período processado ao erro
func (e *PipelineError) WithDateRange(start, end time.Time) *PipelineError {
	e.StartDate = start
	e.EndDate = end
	return e
}

// CodeOf extrai o código de um erro do pipeline; SRV_001 para erros desconhecidos
func CodeOf(err error) string {
	var pipeErr *PipelineError
	if errors.As(err, &pipeErr) {
		return pipeErr.Code
	}
	return "SRV_001"
}

func hasCode(err error, code string) bool {
	var pipeErr *PipelineError
	if errors.As(err, &pipeErr) {
		return pipeErr.Code == code
	}
	return false
}

// IsAuthError indica falha de credencial; não adianta repetir a operação
func IsAuthError(err error) bool {
	return hasCode(err, ErrAuth)
}

// IsRateLimitExceeded indica esgotamento dos retries por limite de requisições
func IsRateLimitExceeded(err error) bool {
	return hasCode(err, ErrRateLimitExceeded)
}

// IsFetchFailed indica falha de busca após os retries
func IsFetchFailed(err error) bool {
	return hasCode(err, ErrFetchFailed)
}

// IsDeliveryFailed indica falha de entrega; os dados já computados permanecem válidos
func IsDeliveryFailed(err error) bool {
	return hasCode(err, ErrDeliveryFailed)
}

// IsPersistenceError indica erro no banco; bloqueia o avanço do checkpoint
func IsPersistenceError(err error) bool {
	return hasCode(err, ErrPersistence)
}

// IsSyncInProgress indica que outra sincronização detém o checkpoint
func IsSyncInProgress(err error) bool {
	return hasCode(err, ErrSyncInProgress)
}
