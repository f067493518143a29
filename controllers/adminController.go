package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/Hoshii/initializers"
	"github.com/Hoshii/middlewares"
	"github.com/Hoshii/models"
	"github.com/Hoshii/services"
)

// AdminLogin trades the admin password for a short-lived bearer token
func AdminLogin(c *gin.Context) {
	var body models.AdminLogin
	if err := c.ShouldBindJSON(&body); err != nil {
		respondWithError(c, models.NewValidationError("password is required"))
		return
	}

	cfg := initializers.Config
	if cfg == nil || cfg.AdminPasswordHash == "" {
		respondWithError(c, models.NewUnauthorizedError("admin login is disabled"))
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(cfg.AdminPasswordHash), []byte(body.Password)); err != nil {
		initializers.Logger.Warn("Admin login rejected", zap.String("clientIp", c.ClientIP()))
		respondWithError(c, models.NewUnauthorizedError("Invalid password"))
		return
	}

	token, err := middlewares.IssueAdminToken([]byte(cfg.Secret), "admin", time.Now())
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   "Admin logged in successfully.",
		"token":     token,
		"expiresIn": int(middlewares.AdminTokenTTL.Seconds()),
	})
}

// ImportPresets runs the preset seed and reports created/updated/skipped counts
func ImportPresets(c *gin.Context) {
	result, err := services.GetPresetImportService().Import(c.Request.Context())
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"ok":      true,
		"created": result.Created,
		"updated": result.Updated,
		"skipped": result.Skipped,
	})
}

// DeleteComments clears the comments of one sky, keeping its participations
func DeleteComments(c *gin.Context) {
	skyID := c.Query("skyId")
	if skyID == "" && initializers.Config != nil {
		skyID = initializers.Config.AdminPurgeSkyID
	}

	deleted, err := services.GetSkyService().PurgeComments(c.Request.Context(), skyID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	initializers.Logger.Info("Admin purge finished",
		zap.String("skyId", skyID),
		zap.String("subject", c.GetString("subject")),
		zap.Int64("deleted", deleted))
	c.JSON(http.StatusOK, gin.H{"ok": true, "deleted": deleted})
}
