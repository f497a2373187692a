package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"

	"github.com/elosyboy/opochonmagique/internal/catalog"
	"github.com/elosyboy/opochonmagique/internal/models"
	"github.com/elosyboy/opochonmagique/internal/services"
)

// CreateProduct crée un produit depuis un formulaire multipart : champ
// "product" en JSON, photos en pièces jointes facultatives. Une photo qui
// échoue à l'upload est ignorée, jamais bloquante pour la création.
func CreateProduct(c *gin.Context) {
	raw := c.PostForm("product")
	if raw == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Champ product manquant"})
		return
	}

	var p models.Product
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "JSON produit invalide"})
		return
	}

	p.ID = gocql.TimeUUID()
	p.CreatedAt = time.Now()
	p.Photos = []string{}

	if err := p.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if form, err := c.MultipartForm(); err == nil {
		for _, file := range form.File["photos"] {
			url, err := services.UploadProductPhoto(c.Request.Context(), file)
			if err != nil {
				log.Printf("⚠️ Photo %s ignorée: %v", file.Filename, err)
				continue
			}
			p.Photos = append(p.Photos, url)
		}
	}

	if err := Catalog.Insert(c.Request.Context(), p); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur création produit"})
		return
	}
	catalog.IndexProduct(p)

	log.Printf("✅ Produit %s créé (%s, %d photo(s))", p.Name, p.Category, len(p.Photos))
	c.JSON(http.StatusCreated, p)
}

// UpdateProduct applique une mise à jour partielle : seuls les champs
// présents dans le corps JSON sont modifiés.
func UpdateProduct(c *gin.Context) {
	id, err := gocql.ParseUUID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Identifiant invalide"})
		return
	}

	var in catalog.ProductUpdate
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}

	if err := Catalog.Update(c.Request.Context(), id, in); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur mise à jour produit"})
		return
	}

	p, err := Catalog.Get(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur relecture produit"})
		return
	}
	catalog.IndexProduct(p)

	c.JSON(http.StatusOK, p)
}

// AddProductPhotos ajoute des photos à un produit existant. Les uploads
// ratés sont ignorés, les URLs réussies s'ajoutent aux photos en place.
func AddProductPhotos(c *gin.Context) {
	id, err := gocql.ParseUUID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Identifiant invalide"})
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Formulaire multipart requis"})
		return
	}

	p, err := Catalog.Get(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Produit introuvable"})
		return
	}

	photos := p.Photos
	for _, file := range form.File["photos"] {
		url, uerr := services.UploadProductPhoto(c.Request.Context(), file)
		if uerr != nil {
			log.Printf("⚠️ Photo %s ignorée: %v", file.Filename, uerr)
			continue
		}
		photos = append(photos, url)
	}

	if err := Catalog.Update(c.Request.Context(), id, catalog.ProductUpdate{Photos: &photos}); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur mise à jour photos"})
		return
	}

	p.Photos = photos
	catalog.IndexProduct(p)
	c.JSON(http.StatusOK, gin.H{"photos": photos})
}

// DeleteProduct supprime définitivement un produit et le retire de l'index
// de recherche.
func DeleteProduct(c *gin.Context) {
	id, err := gocql.ParseUUID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Identifiant invalide"})
		return
	}

	if err := Catalog.Delete(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur suppression produit"})
		return
	}
	catalog.RemoveFromIndex(id.String())

	log.Printf("🗑️ Produit %s supprimé", id)
	c.JSON(http.StatusOK, gin.H{"deleted": id.String()})
}
