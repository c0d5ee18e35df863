package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type EntityType string

const (
	EntityTypeCampaign EntityType = "campaign"
	EntityTypeAdSet    EntityType = "adset"
	EntityTypeAd       EntityType = "ad"
)

func (t EntityType) Valid() bool {
	switch t {
	case EntityTypeCampaign, EntityTypeAdSet, EntityTypeAd:
		return true
	}
	return false
}

type EntityStatus string

const (
	EntityStatusActive   EntityStatus = "ACTIVE"
	EntityStatusPaused   EntityStatus = "PAUSED"
	EntityStatusDeleted  EntityStatus = "DELETED"
	EntityStatusArchived EntityStatus = "ARCHIVED"
	EntityStatusUnknown  EntityStatus = "UNKNOWN"
)

// ParseEntityStatus converte o status vindo da API; valores desconhecidos viram UNKNOWN
func ParseEntityStatus(raw string) EntityStatus {
	switch EntityStatus(raw) {
	case EntityStatusActive, EntityStatusPaused, EntityStatusDeleted, EntityStatusArchived:
		return EntityStatus(raw)
	}
	return EntityStatusUnknown
}

// IsStopped indica se o status representa uma campanha parada
func (s EntityStatus) IsStopped() bool {
	return s == EntityStatusPaused || s == EntityStatusDeleted || s == EntityStatusArchived
}

// Entity representa uma campanha, conjunto de anúncios ou anúncio. O ID é
// atribuído externamente e as transições de status são apenas observadas
type Entity struct {
	ID             string           `json:"id"`
	EntityType     EntityType       `json:"entity_type"`
	Name           string           `json:"name"`
	Status         EntityStatus     `json:"status"`
	DailyBudget    *decimal.Decimal `json:"daily_budget,omitempty"`
	LifetimeBudget *decimal.Decimal `json:"lifetime_budget,omitempty"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
}

// Budget retorna o orçamento diário ou vitalício; nil se nenhum estiver definido
func (e *Entity) Budget() *decimal.Decimal {
	if e.DailyBudget != nil && e.DailyBudget.IsPositive() {
		return e.DailyBudget
	}
	if e.LifetimeBudget != nil && e.LifetimeBudget.IsPositive() {
		return e.LifetimeBudget
	}
	return nil
}
