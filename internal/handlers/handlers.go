package handlers

import (
	"log"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"

	"github.com/elosyboy/opochonmagique/internal/cart"
	"github.com/elosyboy/opochonmagique/internal/catalog"
	"github.com/elosyboy/opochonmagique/internal/database"
	"github.com/elosyboy/opochonmagique/internal/order"
	"github.com/elosyboy/opochonmagique/internal/payment"
	"github.com/elosyboy/opochonmagique/internal/promo"
	"github.com/elosyboy/opochonmagique/internal/utils"
)

// Services partagés par les handlers, construits une fois les bases
// connectées.
var (
	Cart        *cart.Store
	CartBackend *cart.RedisBackend
	Catalog     *catalog.ScyllaRepository
	PromoRepo   *promo.ScyllaRepository
	Promo       *promo.Resolver
	Orders      *order.ScyllaRepository
	Composer    *order.Composer
)

// Init câble les services sur les connexions globales. À appeler après
// database.ConnectDatabases().
func Init() {
	catalogSession, err := database.GetCatalogSession()
	if err != nil {
		log.Fatalf("❌ Session catalogue indisponible: %v", err)
	}
	ordersSession, err := database.GetOrdersSession()
	if err != nil {
		log.Fatalf("❌ Session commandes indisponible: %v", err)
	}

	CartBackend = cart.NewRedisBackend(database.Redis)
	Cart = cart.NewStore(CartBackend)

	Catalog = catalog.NewScyllaRepository(catalogSession)
	PromoRepo = promo.NewScyllaRepository(catalogSession)
	Promo = promo.NewResolver(PromoRepo)
	Orders = order.NewScyllaRepository(ordersSession)

	siteURL := os.Getenv("SITE_URL")
	if siteURL == "" {
		siteURL = "http://localhost:3000"
	}

	// Stripe Checkout par défaut ; liens de paiement Qonto en alternative
	var payClient order.PaymentClient = payment.NewStripeCheckout(siteURL)
	if os.Getenv("PAYMENT_PROVIDER") == "qonto" {
		payClient = payment.NewQontoClientFromEnv()
		log.Println("💳 Paiement via liens Qonto")
	}

	Composer = &order.Composer{
		Cart:     Cart,
		Repo:     Orders,
		Payment:  payClient,
		Pending:  order.NewRedisPendingStore(database.Redis),
		Notifier: utils.OrderMailer{},
	}
}

// cartID extrait l'identifiant de panier du header. Chaque navigateur en
// génère un et le rejoue sur toutes ses requêtes.
func cartID(c *gin.Context) (string, bool) {
	id := c.GetHeader("X-Cart-ID")
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Header X-Cart-ID manquant"})
		return "", false
	}
	return id, true
}
