package handlers

import (
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"github.com/lanwatch-dev/lanwatch/internal/auth"
)

var adminPasswordHash []byte

// InitAdminPassword hashes the dashboard admin password from the
// environment. The plaintext is not retained.
func InitAdminPassword() error {
	password := os.Getenv("ADMIN_PASSWORD")

	if password == "" {
		return fmt.Errorf("ADMIN_PASSWORD environment variable is not set")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)

	if err != nil {
		return fmt.Errorf("failed to hash admin password: %v", err)
	}

	adminPasswordHash = hash

	return nil
}

type LoginRequest struct {
	Password string `json:"password" binding:"required"`
}

func Login(ctx *gin.Context) {
	var req LoginRequest

	if err := ctx.BindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	if err := bcrypt.CompareHashAndPassword(adminPasswordHash, []byte(req.Password)); err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid password"})
		return
	}

	token, err := auth.GenerateJWT()

	if err != nil {
		log.Printf("Failed to generate token: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"token": token})
}
