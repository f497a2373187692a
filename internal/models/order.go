package models

import (
	"time"

	"github.com/gocql/gocql"
)

// DeliveryMethod est le mode de remise choisi au checkout. Chaque mode
// impose son propre jeu de champs client (voir internal/order).
type DeliveryMethod string

const (
	DeliveryDomicile  DeliveryMethod = "domicile"  // livraison à domicile
	DeliveryMarseille DeliveryMethod = "marseille" // livraison en ville
	DeliveryClick     DeliveryMethod = "click"     // Click & Collect
)

func (d DeliveryMethod) Valid() bool {
	switch d {
	case DeliveryDomicile, DeliveryMarseille, DeliveryClick:
		return true
	}
	return false
}

// OrderStatus suit la vie d'une commande côté back-office.
// La transition est monotone : nouvelle → vue → prete.
type OrderStatus string

const (
	StatusNouvelle OrderStatus = "nouvelle"
	StatusVue      OrderStatus = "vue"
	StatusPrete    OrderStatus = "prete"
)

func (s OrderStatus) rank() int {
	switch s {
	case StatusNouvelle:
		return 0
	case StatusVue:
		return 1
	case StatusPrete:
		return 2
	}
	return -1
}

func (s OrderStatus) Valid() bool { return s.rank() >= 0 }

// CanAdvanceTo n'autorise que les transitions vers l'avant.
func (s OrderStatus) CanAdvanceTo(next OrderStatus) bool {
	return s.Valid() && next.Valid() && next.rank() > s.rank()
}

// CustomerForm regroupe les champs saisis au checkout. Le sous-ensemble
// requis dépend du mode de livraison ; seuls les champs présents sont
// vérifiés, jamais leur format.
type CustomerForm struct {
	Prenom     string `json:"prenom"`
	Nom        string `json:"nom"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Address    string `json:"address"`
	City       string `json:"city"`
	Zip        string `json:"zip"`
	PointRelay bool   `json:"pointRelay"`
}

// AppliedPromo est l'instantané du code promo appliqué à la commande.
type AppliedPromo struct {
	Code  string  `json:"code"`
	Type  string  `json:"type"`
	Value float64 `json:"value"`
}

// Order est l'instantané immuable créé au checkout. Seul le statut évolue
// ensuite, par le back-office.
type Order struct {
	ID        gocql.UUID     `json:"id"`
	Items     []CartItem     `json:"items"`
	Subtotal  float64        `json:"subtotal"`
	Discount  float64        `json:"discount"`
	Total     float64        `json:"total"`
	Promo     *AppliedPromo  `json:"promo,omitempty"`
	Delivery  DeliveryMethod `json:"delivery"`
	Customer  CustomerForm   `json:"customer"`
	Paid      bool           `json:"paid"`
	Status    OrderStatus    `json:"status"`
	CreatedAt time.Time      `json:"createdAt"`
}
