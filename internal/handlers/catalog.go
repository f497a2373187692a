package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"

	"github.com/elosyboy/opochonmagique/internal/catalog"
	"github.com/elosyboy/opochonmagique/internal/models"
)

// ListProducts renvoie les produits d'un rayon (?category=fleur), ou tout
// le catalogue sans filtre.
func ListProducts(c *gin.Context) {
	raw := c.Query("category")
	if raw == "" {
		products, err := Catalog.ListAll(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture catalogue"})
			return
		}
		c.JSON(http.StatusOK, products)
		return
	}

	category := models.Category(raw)
	if !category.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Catégorie inconnue"})
		return
	}

	products, err := Catalog.ListByCategory(c.Request.Context(), category)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture catalogue"})
		return
	}
	c.JSON(http.StatusOK, products)
}

// GetProduct renvoie la fiche d'un produit.
func GetProduct(c *gin.Context) {
	id, err := gocql.ParseUUID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Identifiant invalide"})
		return
	}

	p, err := Catalog.Get(c.Request.Context(), id)
	if err == gocql.ErrNotFound {
		c.JSON(http.StatusNotFound, gin.H{"error": "Produit introuvable"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture produit"})
		return
	}
	c.JSON(http.StatusOK, p)
}

// ListBestSellers renvoie les produits mis en avant.
func ListBestSellers(c *gin.Context) {
	products, err := Catalog.ListBestSellers(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture catalogue"})
		return
	}
	c.JSON(http.StatusOK, products)
}

// ListPromoProducts renvoie les produits de la page promotions.
func ListPromoProducts(c *gin.Context) {
	products, err := Catalog.ListPromo(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture catalogue"})
		return
	}
	c.JSON(http.StatusOK, products)
}

// ListHomeProducts renvoie la sélection de la page d'accueil.
func ListHomeProducts(c *gin.Context) {
	products, err := Catalog.ListHome(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture catalogue"})
		return
	}
	c.JSON(http.StatusOK, products)
}

// SearchProducts interroge l'index Elasticsearch.
func SearchProducts(c *gin.Context) {
	q := c.Query("q")
	if q == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Paramètre q manquant"})
		return
	}

	results, err := catalog.SearchProducts(q)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur recherche"})
		return
	}
	c.JSON(http.StatusOK, results)
}
