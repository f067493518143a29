package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Hoshii/models"
	"github.com/Hoshii/services"
)

// CreateSupport records a participation and answers with the refreshed totals
func CreateSupport(c *gin.Context) {
	var body models.SupportCreate
	if err := c.ShouldBindJSON(&body); err != nil {
		respondWithError(c, models.NewValidationError("invalid request body: "+err.Error()))
		return
	}

	stats, err := services.GetSkyService().Submit(c.Request.Context(), body)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"ok":           true,
		"total":        stats.Total_Stars,
		"totalActions": stats.Total_Actions,
	})
}
