package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Hoshii/catalog"
	"github.com/Hoshii/observability"
	"github.com/Hoshii/services"
)

const badgeLabel = "stars"

// GetStats returns the aggregate for one sky, or its SVG badge with type=badge
func GetStats(c *gin.Context) {
	stats, err := services.GetSkyService().Stats(c.Request.Context(), c.Query("skyId"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	namespace := catalog.NamespaceCampaign
	if strings.HasPrefix(stats.Sky_ID, catalog.MemberPrefix) {
		namespace = catalog.NamespaceMember
	}

	if c.Query("type") == "badge" {
		observability.StatsRequests.WithLabelValues(namespace, "badge").Inc()
		c.Header("Cache-Control", "no-cache, max-age=0")
		c.Data(http.StatusOK, "image/svg+xml; charset=utf-8", []byte(services.RenderBadge(stats.Total_Stars, badgeLabel)))
		return
	}

	observability.StatsRequests.WithLabelValues(namespace, "json").Inc()
	c.JSON(http.StatusOK, stats)
}
