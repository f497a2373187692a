package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"

	"github.com/elosyboy/opochonmagique/internal/cart"
	"github.com/elosyboy/opochonmagique/internal/models"
	"github.com/elosyboy/opochonmagique/internal/promo"
)

// ApplyPromo vérifie un code et renvoie la remise applicable au panier
// courant.
func ApplyPromo(c *gin.Context) {
	id, ok := cartID(c)
	if !ok {
		return
	}

	var in struct {
		Code string `json:"code"`
	}
	if err := c.ShouldBindJSON(&in); err != nil || strings.TrimSpace(in.Code) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Code manquant"})
		return
	}

	discount, err := Promo.Resolve(c.Request.Context(), in.Code)
	if errors.Is(err, promo.ErrInvalidCode) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Code promo invalide"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur vérification code"})
		return
	}

	items := Cart.Items(c.Request.Context(), id)
	subtotal := cart.Subtotal(items)

	amount := discount.Amount(subtotal)
	c.JSON(http.StatusOK, gin.H{
		"code":     discount.Code,
		"type":     discount.Type,
		"value":    discount.Value,
		"discount": amount,
		"total":    promo.Total(subtotal, amount),
	})
}

// CreatePromoCode enregistre un nouveau code (admin).
func CreatePromoCode(c *gin.Context) {
	var in struct {
		Code      string  `json:"code"`
		Type      string  `json:"type"`
		Value     float64 `json:"value"`
		SingleUse bool    `json:"singleUse"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}
	if strings.TrimSpace(in.Code) == "" || in.Value <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Code ou valeur invalide"})
		return
	}
	if in.Type != models.PromoPercent && in.Type != models.PromoFixed {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Type de remise inconnu"})
		return
	}
	if in.Type == models.PromoPercent && in.Value > 100 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Pourcentage supérieur à 100"})
		return
	}

	code := promo.NewPromoCode(in.Code, in.Type, in.Value, in.SingleUse)
	if err := PromoRepo.Insert(c.Request.Context(), code); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur création code"})
		return
	}
	c.JSON(http.StatusCreated, code)
}

// ListPromoCodes renvoie tous les codes, actifs ou non (admin).
func ListPromoCodes(c *gin.Context) {
	codes, err := PromoRepo.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture codes"})
		return
	}
	c.JSON(http.StatusOK, codes)
}

// TogglePromoCode active ou désactive un code existant (admin).
func TogglePromoCode(c *gin.Context) {
	id, err := gocql.ParseUUID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Identifiant invalide"})
		return
	}

	var in struct {
		Active bool `json:"active"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}

	if err := PromoRepo.SetActive(c.Request.Context(), id, in.Active); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur mise à jour code"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id.String(), "active": in.Active})
}
