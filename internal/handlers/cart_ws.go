package handlers

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/elosyboy/opochonmagique/internal/cart"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// Autoriser toutes les origines (à ajuster en production)
		return true
	},
}

// CartWebSocket pousse l'état du panier à chaque onglet connecté. Le
// signal Redis ne transporte pas le contenu : chaque abonné relit le
// panier, la dernière écriture gagne.
func CartWebSocket(c *gin.Context) {
	id := c.Query("cart")
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Paramètre cart manquant"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("❌ Erreur upgrade WebSocket: %v", err)
		return
	}
	defer conn.Close()

	ctx := context.Background()

	pubsub := CartBackend.Subscribe(ctx, id)
	defer pubsub.Close()

	ch := pubsub.Channel()

	conn.WriteJSON(map[string]interface{}{
		"type":    "connected",
		"message": "Synchronisation panier activée",
	})

	for {
		select {
		case msg := <-ch:
			if msg.Payload != cart.SignalUpdated && msg.Payload != cart.SignalCleared {
				continue
			}
			items := Cart.Items(ctx, id)
			count := 0
			for _, it := range items {
				count += it.Quantity
			}
			response := map[string]interface{}{
				"type":     "cart_updated",
				"items":    items,
				"subtotal": cart.Subtotal(items),
				"count":    count,
			}
			if err := conn.WriteJSON(response); err != nil {
				log.Printf("❌ Erreur envoi WebSocket: %v", err)
				return
			}
		case <-time.After(30 * time.Second):
			// Ping pour garder la connexion active
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
