package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Hoshii/initializers"
	"github.com/Hoshii/services"
)

// GetActions returns the action catalog and density profile that apply to a sky
func GetActions(c *gin.Context) {
	skyID := c.Query("skyId")
	if skyID == "" && initializers.Config != nil {
		skyID = initializers.Config.DefaultSkyID
	}

	cat, err := services.GetSkyService().Catalog(skyID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, cat)
}

func Ping(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "pong"})
}
