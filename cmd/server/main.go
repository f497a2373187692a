package main

import (
	"log"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v83"

	"github.com/elosyboy/opochonmagique/internal/config"
	"github.com/elosyboy/opochonmagique/internal/database"
	"github.com/elosyboy/opochonmagique/internal/handlers"
	"github.com/elosyboy/opochonmagique/internal/routes"
)

func main() {
	config.Load()

	if os.Getenv("PAYMENT_PROVIDER") != "qonto" {
		stripe.Key = os.Getenv("STRIPE_SECRET_KEY")
		if stripe.Key == "" {
			log.Fatal("❌ Impossible d'initialiser Stripe : clé manquante")
		}
		log.Println("✅ Stripe initialisé")
	}

	database.ConnectDatabases()

	handlers.Init()

	r := gin.Default()

	siteURL := os.Getenv("SITE_URL")
	if siteURL == "" {
		siteURL = "http://localhost:3000"
	}
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{siteURL},
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Cart-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	routes.RegisterRoutes(r)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Println("🚀 Serveur Ô Pochon Magique lancé sur le port", port)
	r.Run(":" + port)
}
