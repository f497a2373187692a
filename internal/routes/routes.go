package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/elosyboy/opochonmagique/internal/handlers"
	"github.com/elosyboy/opochonmagique/internal/middleware"
)

func RegisterRoutes(r *gin.Engine) {
	api := r.Group("/api")

	// Catalogue
	api.GET("/products", handlers.ListProducts)
	api.GET("/products/best-sellers", handlers.ListBestSellers)
	api.GET("/products/promos", handlers.ListPromoProducts)
	api.GET("/products/home", handlers.ListHomeProducts)
	api.GET("/products/search", handlers.SearchProducts)
	api.GET("/products/:id", handlers.GetProduct)

	// Panier
	api.GET("/cart", handlers.GetCart)
	api.POST("/cart/add", handlers.AddToCart)
	api.POST("/cart/quantity", handlers.UpdateQuantity)
	api.DELETE("/cart/item", handlers.RemoveFromCart)
	api.POST("/cart/clear", handlers.ClearCart)
	api.GET("/cart/ws", handlers.CartWebSocket)

	// Codes promo
	api.POST("/promo/apply", handlers.ApplyPromo)

	// Commandes
	api.POST("/checkout/submit", handlers.SubmitOrder)
	api.POST("/checkout/session", handlers.CreateCheckout)
	api.POST("/checkout/finalize", handlers.FinalizeCheckout)

	// Back-office
	api.POST("/admin/login", handlers.AdminLogin)

	admin := api.Group("/admin", middleware.RequireAdmin())
	admin.POST("/products", handlers.CreateProduct)
	admin.PATCH("/products/:id", handlers.UpdateProduct)
	admin.POST("/products/:id/photos", handlers.AddProductPhotos)
	admin.DELETE("/products/:id", handlers.DeleteProduct)
	admin.GET("/promocodes", handlers.ListPromoCodes)
	admin.POST("/promocodes", handlers.CreatePromoCode)
	admin.PATCH("/promocodes/:id", handlers.TogglePromoCode)
	admin.GET("/orders", handlers.ListOrders)
	admin.GET("/orders/:id", handlers.GetOrder)
	admin.PATCH("/orders/:id/status", handlers.UpdateOrderStatus)
}
