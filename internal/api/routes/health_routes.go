package routes

import (
	"net/http"
	"time"

	"github.com/Daesol/touchgrass-sub000/internal/infrastructure/cache"
	"github.com/Daesol/touchgrass-sub000/internal/infrastructure/persistence/postgres/connection"
	"github.com/gin-gonic/gin"
)

type HealthRoutes struct {
	db    *connection.Database
	redis *cache.RedisClient
}

func NewHealthRoutes(db *connection.Database, redis *cache.RedisClient) *HealthRoutes {
	return &HealthRoutes{db: db, redis: redis}
}

func (r *HealthRoutes) RegisterRoutes(router *gin.Engine) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "time": time.Now().UTC()})
	})

	router.GET("/health/ready", func(c *gin.Context) {
		status := http.StatusOK
		checks := gin.H{}

		if sqlDB, err := r.db.DB.DB(); err != nil || sqlDB.Ping() != nil {
			checks["database"] = "down"
			status = http.StatusServiceUnavailable
		} else {
			checks["database"] = "up"
		}

		if r.redis != nil && r.redis.IsHealthy() {
			checks["redis"] = "up"
		} else {
			checks["redis"] = "down"
			status = http.StatusServiceUnavailable
		}

		c.JSON(status, checks)
	})
}
