package reportErrors

import (
	"encoding/json"
	"net/http"
)

// Mapeamento de códigos de erro para status HTTP (superfície de trigger manual)
var httpStatusMap = map[string]int{
	ErrAuth:              http.StatusBadGateway,
	ErrRateLimitExceeded: http.StatusBadGateway,
	ErrFetchFailed:       http.StatusBadGateway,
	ErrMalformedExceeded: http.StatusBadGateway,
	ErrDeliveryFailed:    http.StatusBadGateway,
	ErrExportFailed:      http.StatusInternalServerError,
	ErrPersistence:       http.StatusInternalServerError,
	ErrSyncInProgress:    http.StatusConflict,
	ErrInvalidRequest:    http.StatusBadRequest,
}

// APIError representa um erro de API padronizado
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message,omitempty"`
	Details any    `json:"details,omitempty"`
}

// WriteError escreve o erro padronizado para a resposta HTTP
func WriteError(w http.ResponseWriter, code string, message string, details any) {
	status, exists := httpStatusMap[code]
	if !exists {
		status = http.StatusInternalServerError
	}

	apiErr := APIError{
		Code:    code,
		Message: message,
		Details: details,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(apiErr)
}
