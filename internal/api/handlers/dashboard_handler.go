package handlers

import (
	"time"

	"github.com/Daesol/touchgrass-sub000/internal/api/response"
	"github.com/Daesol/touchgrass-sub000/internal/domain/dashboard"
	"github.com/Daesol/touchgrass-sub000/internal/infrastructure/cache"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const overviewCacheTTL = 2 * time.Minute

type DashboardHandler struct {
	dashboards dashboard.Service
	redis      *cache.RedisClient
	logger     *zap.Logger
}

func NewDashboardHandler(dashboards dashboard.Service, redis *cache.RedisClient, logger *zap.Logger) *DashboardHandler {
	return &DashboardHandler{dashboards: dashboards, redis: redis, logger: logger}
}

// Overview returns the joined dashboard view-model, read-through cached in
// Redis. Entity writes publish invalidation events that clear the cache.
// @Summary Dashboard overview
// @Router /api/dashboard/overview [get]
func (h *DashboardHandler) Overview(c *gin.Context) (*response.Result, error) {
	userID, err := requireUser(c)
	if err != nil {
		return nil, err
	}

	if h.redis == nil {
		overview, err := h.dashboards.GetOverview(c.Request.Context(), userID)
		if err != nil {
			return nil, mapDomainError(err)
		}
		return response.OK(overview), nil
	}

	key := cache.GenerateCacheKey("dashboard", userID, "")
	data, err := h.redis.CacheResponse(c.Request.Context(), key, overviewCacheTTL, "dashboard", func() (interface{}, error) {
		return h.dashboards.GetOverview(c.Request.Context(), userID)
	})
	if err != nil {
		return nil, mapDomainError(err)
	}

	return response.OK(data), nil
}
