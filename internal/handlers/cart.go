package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/elosyboy/opochonmagique/internal/cart"
	"github.com/elosyboy/opochonmagique/internal/models"
)

func cartResponse(c *gin.Context, id string) {
	items := Cart.Items(c.Request.Context(), id)
	count := 0
	for _, it := range items {
		count += it.Quantity
	}
	c.JSON(http.StatusOK, gin.H{
		"items":    items,
		"subtotal": cart.Subtotal(items),
		"count":    count,
	})
}

// GetCart renvoie le contenu courant du panier.
func GetCart(c *gin.Context) {
	id, ok := cartID(c)
	if !ok {
		return
	}
	cartResponse(c, id)
}

// AddToCart ajoute une ligne, ou cumule la quantité si la même variante
// du même produit est déjà présente.
func AddToCart(c *gin.Context) {
	id, ok := cartID(c)
	if !ok {
		return
	}

	var item models.CartItem
	if err := c.ShouldBindJSON(&item); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}
	if !item.Category.Valid() || item.ProductID == "" || item.Name == "" || item.UnitPrice <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Article incomplet"})
		return
	}

	if err := Cart.Add(c.Request.Context(), id, item, item.Quantity); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur ajout panier"})
		return
	}
	cartResponse(c, id)
}

type quantityInput struct {
	Category  models.Category `json:"category"`
	ProductID string          `json:"productId"`
	Variant   string          `json:"variant"`
	Quantity  int             `json:"quantity"`
}

func (in quantityInput) key() models.LineKey {
	variant := in.Variant
	if variant == "" {
		variant = models.VariantUnit
	}
	return models.LineKey{Category: in.Category, ProductID: in.ProductID, Variant: variant}
}

// UpdateQuantity fixe la quantité d'une ligne existante.
func UpdateQuantity(c *gin.Context) {
	id, ok := cartID(c)
	if !ok {
		return
	}

	var in quantityInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}

	if err := Cart.SetQuantity(c.Request.Context(), id, in.key(), in.Quantity); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur mise à jour panier"})
		return
	}
	cartResponse(c, id)
}

// RemoveFromCart supprime une ligne identifiée par catégorie, produit et
// variante.
func RemoveFromCart(c *gin.Context) {
	id, ok := cartID(c)
	if !ok {
		return
	}

	in := quantityInput{
		Category:  models.Category(c.Query("category")),
		ProductID: c.Query("productId"),
		Variant:   c.Query("variant"),
	}
	if err := Cart.Remove(c.Request.Context(), id, in.key()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur suppression panier"})
		return
	}
	cartResponse(c, id)
}

// ClearCart vide entièrement le panier.
func ClearCart(c *gin.Context) {
	id, ok := cartID(c)
	if !ok {
		return
	}
	if err := Cart.Clear(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur vidage panier"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": []models.CartItem{}, "subtotal": 0.0, "count": 0})
}
