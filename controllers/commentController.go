package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Hoshii/initializers"
	"github.com/Hoshii/models"
	"github.com/Hoshii/services"
)

// GetComments returns the newest non-empty comments of a sky
func GetComments(c *gin.Context) {
	skyID := c.Query("skyId")
	if skyID == "" && initializers.Config != nil {
		skyID = initializers.Config.DefaultSkyID
	}

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			respondWithError(c, models.NewValidationError("limit must be a non-negative integer"))
			return
		}
		limit = n
	}

	items, err := services.GetSkyService().RecentComments(c.Request.Context(), skyID, limit)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": items})
}
