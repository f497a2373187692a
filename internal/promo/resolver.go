package promo

import (
	"context"
	"errors"
	"strings"

	"github.com/elosyboy/opochonmagique/internal/models"
)

// ErrInvalidCode signale un code inconnu ou inactif. L'appelant doit alors
// effacer toute réduction précédemment appliquée.
var ErrInvalidCode = errors.New("code promo invalide")

// Repository résout un code normalisé contre les codes promo actifs.
// Retourne (nil, nil) quand aucun code actif ne correspond.
type Repository interface {
	FindActive(ctx context.Context, code string) (*models.PromoCode, error)
}

// Discount est le descripteur de réduction retenu pour le panier.
type Discount struct {
	Code  string  `json:"code"`
	Type  string  `json:"type"`
	Value float64 `json:"value"`
}

// Amount calcule le montant de la réduction pour un sous-total donné :
// pourcentage du sous-total ou montant fixe.
func (d *Discount) Amount(subtotal float64) float64 {
	if d == nil {
		return 0
	}
	switch d.Type {
	case models.PromoPercent:
		return subtotal * d.Value / 100
	case models.PromoFixed:
		return d.Value
	}
	return 0
}

// Total applique la réduction au sous-total. Le total ne descend jamais
// sous zéro, quelle que soit la réduction.
func Total(subtotal, discount float64) float64 {
	total := subtotal - discount
	if total < 0 {
		return 0
	}
	return total
}

// Normalize prépare le code saisi pour la résolution : espaces retirés,
// majuscules.
func Normalize(input string) string {
	return strings.ToUpper(strings.TrimSpace(input))
}

type Resolver struct {
	repo Repository
}

func NewResolver(repo Repository) *Resolver {
	return &Resolver{repo: repo}
}

// Resolve valide un code saisi par le client.
//
// Une saisie vide après normalisation retourne (nil, nil) : l'état de
// réduction antérieur est laissé tel quel. Un code inconnu ou inactif
// retourne ErrInvalidCode sans aucune mutation.
func (r *Resolver) Resolve(ctx context.Context, input string) (*Discount, error) {
	code := Normalize(input)
	if code == "" {
		return nil, nil
	}

	found, err := r.repo.FindActive(ctx, code)
	if err != nil {
		return nil, err
	}
	if found == nil {
		return nil, ErrInvalidCode
	}

	return &Discount{Code: found.Code, Type: found.Type, Value: found.Value}, nil
}
