package handlers

import (
	"log"
	"net/http"
	"os"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/elosyboy/opochonmagique/internal/utils"
)

// AdminLogin authentifie l'unique compte back-office, configuré par
// ADMIN_EMAIL et ADMIN_PASSWORD_HASH (argon2id), et rend un JWT.
func AdminLogin(c *gin.Context) {
	var in struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}

	adminEmail := os.Getenv("ADMIN_EMAIL")
	adminHash := os.Getenv("ADMIN_PASSWORD_HASH")
	if adminEmail == "" || adminHash == "" {
		log.Println("⚠️ ADMIN_EMAIL / ADMIN_PASSWORD_HASH non configurés")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Back-office non configuré"})
		return
	}

	if !strings.EqualFold(strings.TrimSpace(in.Email), adminEmail) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Identifiants incorrects"})
		return
	}

	ok, err := utils.VerifyPassword(in.Password, adminHash)
	if err != nil || !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Identifiants incorrects"})
		return
	}

	token, err := utils.GenerateAdminJWT(adminEmail)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur génération token"})
		return
	}

	log.Printf("✅ Connexion back-office: %s", adminEmail)
	c.JSON(http.StatusOK, gin.H{"token": token})
}
