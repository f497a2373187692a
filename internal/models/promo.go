package models

import (
	"time"

	"github.com/gocql/gocql"
)

const (
	PromoPercent = "percent"
	PromoFixed   = "fixed"
)

// PromoCode est un code de réduction global créé par le back-office.
// Le code est stocké normalisé en majuscules ; seuls les codes actifs sont
// résolvables au checkout.
type PromoCode struct {
	ID        gocql.UUID `json:"id"`
	Code      string     `json:"code"`
	Type      string     `json:"type"` // "percent" ou "fixed"
	Value     float64    `json:"value"`
	Active    bool       `json:"active"`
	SingleUse bool       `json:"singleUse"`
	CreatedAt time.Time  `json:"createdAt"`
}
