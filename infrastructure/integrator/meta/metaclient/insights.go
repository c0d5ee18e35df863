package metaclient

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
	metadomain "github.com/vfg2006/ads-reporter/infrastructure/integrator/meta/domain"
	"github.com/vfg2006/ads-reporter/internal/domain"
)

// Campos de insight por nível de entidade
var insightFieldsByLevel = map[domain.EntityType]string{
	domain.EntityTypeCampaign: "account_id,campaign_id,campaign_name,impressions,clicks,spend,actions,cost_per_action_type",
	domain.EntityTypeAdSet:    "account_id,adset_id,adset_name,impressions,clicks,spend,actions,cost_per_action_type",
	domain.EntityTypeAd:       "account_id,ad_id,ad_name,impressions,clicks,spend,actions,cost_per_action_type",
}

// GetInsights busca uma página de insights diários da conta no nível do tipo
// de entidade, para o período inclusivo informado
func (c *MetaClient) GetInsights(accountID string, entityType domain.EntityType, dateRange domain.DateRange, after string) (*metadomain.InsightPage, error) {
	fields, ok := insightFieldsByLevel[entityType]
	if !ok {
		return nil, fmt.Errorf("tipo de entidade desconhecido: %s", entityType)
	}

	baseURL := fmt.Sprintf("%s/act_%s/insights", c.Cfg.Meta.URL, accountID)

	timeRange := fmt.Sprintf("{\"since\":\"%s\",\"until\":\"%s\"}",
		dateRange.Start.Format(time.DateOnly),
		dateRange.End.Format(time.DateOnly),
	)

	params := url.Values{}
	params.Add("fields", fields)
	params.Add("level", string(entityType))
	params.Add("time_range", timeRange)
	params.Add("time_increment", "1") // Uma linha por entidade por dia
	params.Add("limit", strconv.Itoa(c.Cfg.Meta.PageSize))
	params.Add("access_token", c.Cfg.Meta.AccessToken)
	if after != "" {
		params.Add("after", after)
	}

	body, err := c.doGet(baseURL + "?" + params.Encode())
	if err != nil {
		return nil, err
	}

	var page metadomain.InsightPage
	if err := json.Unmarshal(body, &page); err != nil {
		logrus.WithError(err).Error("Erro ao decodificar JSON")
		return nil, err
	}

	return &page, nil
}
