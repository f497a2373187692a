package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/elosyboy/opochonmagique/internal/models"
	"github.com/elosyboy/opochonmagique/internal/order"
	"github.com/elosyboy/opochonmagique/internal/promo"
)

type checkoutInput struct {
	Delivery  models.DeliveryMethod `json:"delivery"`
	Form      models.CustomerForm   `json:"form"`
	PromoCode string                `json:"promoCode"`
}

// resolveDiscount revalide le code promo côté serveur au moment de la
// commande. Un code devenu invalide entre l'application et la soumission
// est rejeté ici.
func resolveDiscount(c *gin.Context, code string) (*promo.Discount, bool) {
	if strings.TrimSpace(code) == "" {
		return nil, true
	}
	discount, err := Promo.Resolve(c.Request.Context(), code)
	if errors.Is(err, promo.ErrInvalidCode) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Code promo invalide"})
		return nil, false
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur vérification code"})
		return nil, false
	}
	return discount, true
}

func composeError(c *gin.Context, err error) {
	var verr *order.ValidationError
	switch {
	case errors.Is(err, order.ErrEmptyCart):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Panier vide"})
	case errors.Is(err, order.ErrInvalidDelivery):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Mode de livraison inconnu"})
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Informations manquantes",
			"missing": verr.Missing,
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors de la commande"})
	}
}

// SubmitOrder enregistre une commande à régler hors ligne (espèces au
// retrait, virement). Le panier est vidé immédiatement.
func SubmitOrder(c *gin.Context) {
	id, ok := cartID(c)
	if !ok {
		return
	}

	var in checkoutInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}

	discount, ok := resolveDiscount(c, in.PromoCode)
	if !ok {
		return
	}

	o, err := Composer.SubmitDirect(c.Request.Context(), id, discount, in.Delivery, in.Form)
	if err != nil {
		composeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, o)
}

// CreateCheckout compose la commande et renvoie l'URL de paiement. Le
// panier n'est ni vidé ni persisté tant que le paiement n'a pas abouti.
func CreateCheckout(c *gin.Context) {
	id, ok := cartID(c)
	if !ok {
		return
	}

	var in checkoutInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}

	discount, ok := resolveDiscount(c, in.PromoCode)
	if !ok {
		return
	}

	url, err := Composer.SubmitWithPayment(c.Request.Context(), id, discount, in.Delivery, in.Form)
	if err != nil {
		composeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": url})
}

// FinalizeCheckout est appelé par la page de succès avec l'identifiant de
// session de paiement : la commande en attente devient définitive.
func FinalizeCheckout(c *gin.Context) {
	id, ok := cartID(c)
	if !ok {
		return
	}

	var in struct {
		SessionID string `json:"sessionId"`
	}
	if err := c.ShouldBindJSON(&in); err != nil || in.SessionID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Identifiant de session manquant"})
		return
	}

	o, err := Composer.Finalize(c.Request.Context(), id, in.SessionID)
	if errors.Is(err, order.ErrNoPending) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Aucune commande en attente pour cette session"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur finalisation commande"})
		return
	}
	c.JSON(http.StatusOK, o)
}
