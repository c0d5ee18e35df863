package metaclient

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/ads-reporter/infrastructure/cache"
	metadomain "github.com/vfg2006/ads-reporter/infrastructure/integrator/meta/domain"
	"github.com/vfg2006/ads-reporter/internal/config"
	"github.com/vfg2006/ads-reporter/internal/domain"
	"github.com/vfg2006/ads-reporter/pkg/reportErrors"
)

type Client interface {
	ListEntities(accountID string, entityType domain.EntityType, after string) (*metadomain.EntityPage, error)
	GetInsights(accountID string, entityType domain.EntityType, dateRange domain.DateRange, after string) (*metadomain.InsightPage, error)
}

type MetaClient struct {
	Cfg        *config.Config
	httpClient *http.Client
	cache      cache.Store
}

func NewClient(cfg *config.Config) *MetaClient {
	return &MetaClient{
		Cfg:        cfg,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// WithCache habilita o cache de respostas por fingerprint de requisição
func (c *MetaClient) WithCache(store cache.Store) *MetaClient {
	c.cache = store
	return c
}

// doGet executa a requisição com retries limitados. Erros de limite de
// requisição e de rede usam backoff exponencial; erros de credencial falham
// imediatamente porque repetir não ajuda
func (c *MetaClient) doGet(url string) ([]byte, error) {
	fingerprint := requestFingerprint(url)

	if c.cache != nil {
		if payload, ok := c.cache.Get(fingerprint); ok {
			logrus.WithField("fingerprint", fingerprint).Debug("Resposta obtida do cache")
			return payload, nil
		}
	}

	maxRetries := c.Cfg.Meta.MaxRetries
	baseDelay := time.Duration(c.Cfg.Meta.RetryDelay) * time.Second

	var lastErr error
	rateLimited := false

	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			// Backoff exponencial: base, 2x, 4x...
			delay := baseDelay * time.Duration(1<<(attempt-1))
			logrus.WithFields(logrus.Fields{
				"attempt": attempt,
				"delay":   delay.String(),
			}).Warn("Repetindo requisição ao Graph API")
			time.Sleep(delay)
		}

		body, err := c.requestOnce(url)
		if err == nil {
			if c.cache != nil {
				c.cache.Set(fingerprint, body)
			}
			return body, nil
		}

		if reportErrors.IsAuthError(err) {
			return nil, err
		}

		rateLimited = reportErrors.IsRateLimitExceeded(err)
		lastErr = err
	}

	if rateLimited {
		return nil, reportErrors.Wrap(lastErr, reportErrors.ErrRateLimitExceeded,
			fmt.Sprintf("limite de requisições excedido após %d tentativas", maxRetries+1))
	}

	return nil, reportErrors.Wrap(lastErr, reportErrors.ErrFetchFailed,
		fmt.Sprintf("falha ao buscar dados após %d tentativas", maxRetries+1))
}

func (c *MetaClient) requestOnce(url string) ([]byte, error) {
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logrus.WithError(err).Error("Erro ao fazer a requisição")
		return nil, err
	}
	defer resp.Body.Close()

	return c.HandleResponse(resp)
}

// HandleResponse manipula a resposta HTTP classificando os erros do Graph API
func (c *MetaClient) HandleResponse(resp *http.Response) ([]byte, error) {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode == http.StatusOK {
		return body, nil
	}

	var errorResponse metadomain.ErrorResponse
	if err := json.Unmarshal(body, &errorResponse); err != nil {
		return nil, fmt.Errorf("resposta inesperada do Graph API (status %d): %s", resp.StatusCode, string(body))
	}

	logrus.WithFields(logrus.Fields{
		"code":       errorResponse.Error.Code,
		"subcode":    errorResponse.Error.ErrorSubcode,
		"type":       errorResponse.Error.Type,
		"fbtrace_id": errorResponse.Error.FBTraceID,
	}).Error("Erro retornado pelo Graph API")

	if errorResponse.IsTokenExpired() {
		return nil, reportErrors.New(reportErrors.ErrAuth, errorResponse.Error.Message)
	}

	if errorResponse.IsRateLimited() {
		return nil, reportErrors.New(reportErrors.ErrRateLimitExceeded, errorResponse.Error.Message)
	}

	return nil, fmt.Errorf("erro do Graph API (código %d): %s", errorResponse.Error.Code, errorResponse.Error.Message)
}

// requestFingerprint gera a chave de cache a partir da URL completa
func requestFingerprint(url string) string {
	sum := sha256.Sum256([]byte(url))
	return hex.EncodeToString(sum[:])
}
