package metadomain

type Action struct {
	ActionType string `json:"action_type"`
	Value      string `json:"value"`
}

// Insight é a linha crua de métricas retornada pelo Graph API; os campos
// numéricos chegam como strings e são validados na conversão para o domínio
type Insight struct {
	AccountID      string   `json:"account_id"`
	CampaignID     string   `json:"campaign_id,omitempty"`
	CampaignName   string   `json:"campaign_name,omitempty"`
	AdsetID        string   `json:"adset_id,omitempty"`
	AdsetName      string   `json:"adset_name,omitempty"`
	AdID           string   `json:"ad_id,omitempty"`
	AdName         string   `json:"ad_name,omitempty"`
	Impressions    string   `json:"impressions"`
	Clicks         string   `json:"clicks"`
	Spend          string   `json:"spend"`
	Actions        []Action `json:"actions,omitempty"`
	CostPerActions []Action `json:"cost_per_action_type,omitempty"`
	DateStart      string   `json:"date_start"`
	DateStop       string   `json:"date_stop"`
}

// InsightPage é uma página de insights com o cursor de continuação
type InsightPage struct {
	Data   []Insight `json:"data"`
	Paging Paging    `json:"paging"`
}

func (p *InsightPage) HasNext() bool {
	return p.Paging.Next != ""
}

// EntityID retorna o identificador da entidade conforme o nível do insight
func (i *Insight) EntityID(entityType string) string {
	switch entityType {
	case "campaign":
		return i.CampaignID
	case "adset":
		return i.AdsetID
	case "ad":
		return i.AdID
	}
	return ""
}

// EntityName retorna o nome da entidade conforme o nível do insight
func (i *Insight) EntityName(entityType string) string {
	switch entityType {
	case "campaign":
		return i.CampaignName
	case "adset":
		return i.AdsetName
	case "ad":
		return i.AdName
	}
	return ""
}

// Mapeamento de "action_type" -> métrica canônica de conversão. A origem
// mistura "conversions" e "conversations" (métrica de mensagens); ambas são
// consolidadas aqui sob o termo canônico conversões
var MetaActionToConversion = map[string]bool{
	"offsite_conversion":                                  true,
	"offsite_conversion.fb_pixel_purchase":                true,
	"offsite_conversion.fb_pixel_add_to_cart":             true,
	"lead":                                                true,
	"app_install":                                         true,
	"onsite_conversion.messaging_conversation_started_7d": true,
	"onsite_conversion.messaging_first_reply":             true,
}
