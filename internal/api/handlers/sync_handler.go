package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/Daesol/touchgrass-sub000/internal/domain/events"
	"github.com/Daesol/touchgrass-sub000/internal/infrastructure/cache"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	syncWriteWait  = 10 * time.Second
	syncPingPeriod = 30 * time.Second
)

type SyncHandler struct {
	redis    *cache.RedisClient
	logger   *zap.Logger
	upgrader websocket.Upgrader
}

func NewSyncHandler(redis *cache.RedisClient, logger *zap.Logger) *SyncHandler {
	return &SyncHandler{
		redis:  redis,
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Cookie auth already gates this endpoint; cross-origin pages
			// cannot read the session cookie.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Stream upgrades to a websocket and relays the caller's dashboard
// invalidation events so other tabs can refetch. Registered raw (not
// wrapped) because the connection is hijacked.
func (h *SyncHandler) Stream(c *gin.Context) {
	userID, err := requireUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error("Websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	// Drain reads so close frames and pongs are processed.
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	outbound := make(chan *events.DashboardEvent, 16)
	go func() {
		defer cancel()
		err := h.redis.SubscribeToDashboardEvents(ctx, func(event *events.DashboardEvent) error {
			if event.UserID != userID {
				return nil
			}
			select {
			case outbound <- event:
			default:
				// Slow consumer; drop rather than block the subscription.
			}
			return nil
		})
		if err != nil && ctx.Err() == nil {
			h.logger.Error("Dashboard event subscription ended", zap.Error(err))
		}
	}()

	ticker := time.NewTicker(syncPingPeriod)
	defer ticker.Stop()

	for {
		select {
		case event := <-outbound:
			conn.SetWriteDeadline(time.Now().Add(syncWriteWait))
			if err := conn.WriteJSON(event); err != nil {
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(syncWriteWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-ctx.Done():
			return
		}
	}
}
