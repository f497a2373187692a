package models

import "fmt"

// VariantUnit est le discriminant de variante des produits vendus à l'unité
// (puff, huile, accessoire), qui n'ont pas de poids.
const VariantUnit = "unit"

// LineKey identifie une ligne de panier : même produit + même variante =
// même ligne. La clé est une valeur comparable, utilisable directement comme
// clé de map, sans concaténation de chaînes ni collision possible entre
// catégories.
type LineKey struct {
	Category  Category `json:"category"`
	ProductID string   `json:"productId"`
	Variant   string   `json:"variant"`
}

func (k LineKey) String() string {
	return fmt.Sprintf("%s:%s:%s", k.Category, k.ProductID, k.Variant)
}

// CartItem est une ligne du panier. Le panier complet est sérialisé en JSON
// sous forme de liste plate de lignes.
type CartItem struct {
	Category  Category `json:"category"`
	ProductID string   `json:"productId"`
	Name      string   `json:"name"`
	Photo     string   `json:"photo,omitempty"`
	Variant   string   `json:"variant"`
	UnitPrice float64  `json:"unitPrice"`
	Quantity  int      `json:"quantity"`
	AddedAt   int64    `json:"addedAt"`
}

// Key dérive l'identité de ligne à partir des champs de l'article.
func (i CartItem) Key() LineKey {
	variant := i.Variant
	if variant == "" {
		variant = VariantUnit
	}
	return LineKey{Category: i.Category, ProductID: i.ProductID, Variant: variant}
}
