package api

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/chaofengh/stock-price-analyze-Backend/internal/domain/models"
	"github.com/chaofengh/stock-price-analyze-Backend/internal/stream"
	"github.com/chaofengh/stock-price-analyze-Backend/internal/usecase"
	xhttp "github.com/chaofengh/stock-price-analyze-Backend/pkg/http"
	applogger "github.com/chaofengh/stock-price-analyze-Backend/pkg/logger"
)

const (
	writeWait  = 10 * time.Second
	pingPeriod = 30 * time.Second
)

// AlertsHandler exposes the latest snapshot and the push stream.
type AlertsHandler struct {
	logger   *applogger.Logger
	store    *usecase.SnapshotStore
	hub      *stream.Hub
	upgrader websocket.Upgrader
}

func NewAlertsHandler(logger *applogger.Logger, store *usecase.SnapshotStore, hub *stream.Hub) *AlertsHandler {
	return &AlertsHandler{
		logger: logger,
		store:  store,
		hub:    hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			// Browser clients connect cross-origin from the SPA.
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

func (h *AlertsHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api/alerts")
	g.GET("/latest", h.Latest)
	g.GET("/stream", h.Stream)
}

// Latest returns the current snapshot without blocking on an in-flight
// publish.
func (h *AlertsHandler) Latest(c echo.Context) error {
	snap, ok := h.store.Latest()
	if !ok {
		return xhttp.NotFoundResponse(c, "no scan has completed yet")
	}
	return xhttp.SuccessResponse(c, snap)
}

// streamMessage is the wire envelope on the websocket stream.
type streamMessage struct {
	Type     string           `json:"type"` // "snapshot" or "no_data"
	Snapshot *models.Snapshot `json:"snapshot,omitempty"`
}

// Stream upgrades to a websocket, sends the current snapshot (or the
// no-data marker) immediately, then every published snapshot in order.
// Slow consumers are dropped by the hub; disconnects are detected by
// the read pump and on the next write.
func (h *AlertsHandler) Stream(c echo.Context) error {
	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}
	defer conn.Close()

	sub := h.hub.Subscribe()
	defer sub.Close()

	// Read pump: we expect no client messages, only close frames.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ping := time.NewTicker(pingPeriod)
	defer ping.Stop()

	for {
		select {
		case <-done:
			return nil
		case <-ping.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return nil
			}
		case snap, ok := <-sub.Updates():
			if !ok {
				// Dropped as a slow consumer.
				h.logger.Warn("stream subscriber dropped",
					applogger.String("remote", c.Request().RemoteAddr),
				)
				return nil
			}
			msg := streamMessage{Type: "snapshot", Snapshot: snap}
			if snap == nil {
				msg = streamMessage{Type: "no_data"}
			}
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(msg); err != nil {
				return nil
			}
		}
	}
}
