package models

import (
	"fmt"
	"time"

	"github.com/gocql/gocql"
)

// Category est l'énumération fermée des rayons de la boutique.
type Category string

const (
	CategoryFleur      Category = "fleur"
	CategoryResine     Category = "resine"
	CategoryPuff       Category = "puff"
	CategoryHuile      Category = "huile"
	CategoryAccessoire Category = "accessoire"
)

// Valid indique si la catégorie fait partie de l'énumération.
func (c Category) Valid() bool {
	switch c {
	case CategoryFleur, CategoryResine, CategoryPuff, CategoryHuile, CategoryAccessoire:
		return true
	}
	return false
}

// Weighed indique si la catégorie est vendue au poids (grille de prix par
// grammes) plutôt qu'à l'unité.
func (c Category) Weighed() bool {
	return c == CategoryFleur || c == CategoryResine
}

// GramPrice est une ligne de tarif au poids ("12.50€ les 3g").
type GramPrice struct {
	Price float64 `json:"price"`
	Grams string  `json:"grams"`
}

type Product struct {
	ID             gocql.UUID  `json:"id"`
	Name           string      `json:"name"`
	Category       Category    `json:"category"`
	Description    string      `json:"description,omitempty"`
	Price          *float64    `json:"price,omitempty"`
	PriceByGrams   []GramPrice `json:"priceByGrams,omitempty"`
	Flavors        []string    `json:"flavors,omitempty"`
	AccessoryType  string      `json:"accessoryType,omitempty"`
	Photos         []string    `json:"photos"`
	Promo          bool        `json:"promo"`
	PromoBasePrice *float64    `json:"promoBasePrice,omitempty"`
	PromoPrice     *float64    `json:"promoPrice,omitempty"`
	BestSeller     bool        `json:"bestSeller"`
	ShowOnHome     bool        `json:"showOnHome"`
	ShowOnPromo    bool        `json:"showOnPromo"`
	CreatedAt      time.Time   `json:"createdAt"`
}

// Validate vérifie la forme du produit selon sa catégorie : les catégories au
// poids portent une grille de grammes, les autres un prix unitaire, jamais
// les deux.
func (p *Product) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("nom du produit requis")
	}
	if !p.Category.Valid() {
		return fmt.Errorf("catégorie inconnue: %q", p.Category)
	}

	if p.Category.Weighed() {
		if len(p.PriceByGrams) == 0 {
			return fmt.Errorf("catégorie %s: grille de prix par grammes requise", p.Category)
		}
		if p.Price != nil {
			return fmt.Errorf("catégorie %s: prix unitaire interdit", p.Category)
		}
		for _, row := range p.PriceByGrams {
			if row.Price <= 0 || row.Grams == "" {
				return fmt.Errorf("ligne de grille invalide (%v / %q)", row.Price, row.Grams)
			}
		}
	} else {
		if p.Price == nil || *p.Price <= 0 {
			return fmt.Errorf("catégorie %s: prix unitaire requis", p.Category)
		}
		if len(p.PriceByGrams) > 0 {
			return fmt.Errorf("catégorie %s: grille de grammes interdite", p.Category)
		}
	}

	if p.Category == CategoryAccessoire && p.AccessoryType == "" {
		return fmt.Errorf("type d'accessoire requis")
	}

	if p.Promo {
		if p.PromoBasePrice == nil || p.PromoPrice == nil {
			return fmt.Errorf("promotion: prix de base et prix promo requis")
		}
		if *p.PromoPrice >= *p.PromoBasePrice {
			return fmt.Errorf("promotion: le prix promo doit être inférieur au prix de base")
		}
	}

	return nil
}
