package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"

	"github.com/elosyboy/opochonmagique/internal/models"
	"github.com/elosyboy/opochonmagique/internal/order"
)

// ListOrders renvoie toutes les commandes pour le back-office.
func ListOrders(c *gin.Context) {
	orders, err := Orders.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture commandes"})
		return
	}
	c.JSON(http.StatusOK, orders)
}

// GetOrder renvoie le détail d'une commande.
func GetOrder(c *gin.Context) {
	id, err := gocql.ParseUUID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Identifiant invalide"})
		return
	}

	o, err := Orders.Get(c.Request.Context(), id)
	if err == gocql.ErrNotFound {
		c.JSON(http.StatusNotFound, gin.H{"error": "Commande introuvable"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture commande"})
		return
	}
	c.JSON(http.StatusOK, o)
}

// UpdateOrderStatus fait avancer le statut d'une commande. Les retours en
// arrière sont refusés.
func UpdateOrderStatus(c *gin.Context) {
	id, err := gocql.ParseUUID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Identifiant invalide"})
		return
	}

	var in struct {
		Status models.OrderStatus `json:"status"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}

	err = Composer.UpdateStatus(c.Request.Context(), id, in.Status)
	if errors.Is(err, order.ErrInvalidTransition) {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	if err == gocql.ErrNotFound {
		c.JSON(http.StatusNotFound, gin.H{"error": "Commande introuvable"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur mise à jour statut"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id.String(), "status": in.Status})
}
