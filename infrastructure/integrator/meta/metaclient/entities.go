package metaclient

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"github.com/sirupsen/logrus"
	metadomain "github.com/vfg2006/ads-reporter/infrastructure/integrator/meta/domain"
	"github.com/vfg2006/ads-reporter/internal/domain"
)

// ListEntities busca uma página de entidades do tipo informado. O cursor
// "after" vem da página anterior (vazio para a primeira)
func (c *MetaClient) ListEntities(accountID string, entityType domain.EntityType, after string) (*metadomain.EntityPage, error) {
	endpoint, ok := metadomain.EntityEndpoints[string(entityType)]
	if !ok {
		return nil, fmt.Errorf("tipo de entidade desconhecido: %s", entityType)
	}

	baseURL := fmt.Sprintf("%s/act_%s/%s", c.Cfg.Meta.URL, accountID, endpoint)

	params := url.Values{}
	params.Add("fields", "id,name,status,daily_budget,lifetime_budget,created_time,updated_time")
	params.Add("limit", strconv.Itoa(c.Cfg.Meta.PageSize))
	params.Add("access_token", c.Cfg.Meta.AccessToken)
	if after != "" {
		params.Add("after", after)
	}

	body, err := c.doGet(baseURL + "?" + params.Encode())
	if err != nil {
		return nil, err
	}

	var page metadomain.EntityPage
	if err := json.Unmarshal(body, &page); err != nil {
		logrus.WithError(err).Error("Erro ao decodificar JSON")
		return nil, err
	}

	return &page, nil
}
