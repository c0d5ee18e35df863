package metadomain

// Entity é a representação crua de campanha/adset/anúncio no Graph API
type Entity struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Status         string `json:"status"`
	DailyBudget    string `json:"daily_budget,omitempty"`
	LifetimeBudget string `json:"lifetime_budget,omitempty"`
	CreatedTime    string `json:"created_time,omitempty"`
	UpdatedTime    string `json:"updated_time,omitempty"`
}

type Cursors struct {
	Before string `json:"before"`
	After  string `json:"after"`
}

type Paging struct {
	Cursors Cursors `json:"cursors"`
	Next    string  `json:"next,omitempty"`
}

// EntityPage é uma página de entidades com o cursor de continuação
type EntityPage struct {
	Data   []Entity `json:"data"`
	Paging Paging   `json:"paging"`
}

// HasNext indica se existe próxima página
func (p *EntityPage) HasNext() bool {
	return p.Paging.Next != ""
}

// Endpoint do Graph API por tipo de entidade
var EntityEndpoints = map[string]string{
	"campaign": "campaigns",
	"adset":    "adsets",
	"ad":       "ads",
}
