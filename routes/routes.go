package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/Hoshii/controllers"
	"github.com/Hoshii/initializers"
	"github.com/Hoshii/middlewares"
)

// SetupRouter wires every endpoint onto a new engine. The services must be
// initialized before the router serves traffic. With rdb set, the support
// limit is shared across instances through Redis.
func SetupRouter(cfg *initializers.AppConfig, logger *zap.Logger, rdb *redis.Client) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middlewares.RequestLogger(logger))

	supportLimit := middlewares.RateLimitMiddleware("support", rate.Limit(cfg.SupportRatePerSec), cfg.SupportBurst, middlewares.ClientIPKey)
	if rdb != nil {
		supportLimit = middlewares.RedisRateLimitMiddleware(rdb, "support", cfg.SupportBurst, cfg.SupportWindow(), middlewares.ClientIPKey)
	}
	loginLimit := middlewares.RateLimitMiddleware("login", 2, 2, middlewares.ClientIPKey)

	router.GET("/ping", controllers.Ping)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	router.GET("/stats", controllers.GetStats)
	router.GET("/comments", controllers.GetComments)
	router.GET("/actions", controllers.GetActions)
	router.POST("/support", supportLimit, controllers.CreateSupport)

	router.POST("/admin/login", loginLimit, controllers.AdminLogin)

	admin := router.Group("/admin")
	admin.Use(middlewares.CheckAuth([]byte(cfg.Secret)))
	admin.Use(middlewares.CheckAdmin)
	{
		admin.POST("/presets/import", controllers.ImportPresets)
		admin.DELETE("/comments", controllers.DeleteComments)
	}

	return router
}
