package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"PriceBoard/internal/domain/models"
	xlogger "PriceBoard/pkg/logger"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

const (
	streamWriteWait = 10 * time.Second
	streamIdleWait  = 5 * time.Minute
	streamReadLimit = 4096
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 16 * 1024,
	CheckOrigin:     func(*http.Request) bool { return true },
}

// streamRequest is what the client sends whenever its selection changes.
type streamRequest struct {
	Period   string `json:"period"`
	Interval string `json:"interval"`
	Refresh  bool   `json:"refresh"`
}

type streamMessage struct {
	Type     string                    `json:"type"`
	Snapshot *models.DashboardSnapshot `json:"snapshot,omitempty"`
	Error    string                    `json:"error,omitempty"`
}

// Stream upgrades to a websocket session. The server sends the default
// dashboard on connect and a fresh snapshot for every client request.
func (h *DashboardHandler) Stream(c echo.Context) error {
	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		// Upgrade already replied to the client.
		h.logger.Debug("ws upgrade failed", xlogger.Error(err))
		return nil
	}
	defer conn.Close()
	conn.SetReadLimit(streamReadLimit)

	ctx := c.Request().Context()
	remote := c.RealIP()
	h.logger.Info("ws session opened", xlogger.String("remote", remote))

	if !h.send(conn, h.snapshotMessage(ctx, remote, streamRequest{})) {
		return nil
	}
	for {
		_ = conn.SetReadDeadline(time.Now().Add(streamIdleWait))
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Warn("ws session read error", xlogger.String("remote", remote), xlogger.Error(err))
			}
			h.logger.Info("ws session closed", xlogger.String("remote", remote))
			return nil
		}

		var req streamRequest
		msg := streamMessage{Type: "error", Error: "invalid request"}
		if json.Unmarshal(raw, &req) == nil {
			msg = h.snapshotMessage(ctx, remote, req)
		}
		if !h.send(conn, msg) {
			return nil
		}
	}
}

func (h *DashboardHandler) snapshotMessage(ctx context.Context, remote string, req streamRequest) streamMessage {
	start := time.Now()
	defer observe("ws_dashboard", start)

	if req.Refresh && !h.allowRefresh(remote) {
		return streamMessage{Type: "error", Error: "refresh rate limited"}
	}
	snap, err := h.dashboard.Build(ctx, req.Period, req.Interval, req.Refresh)
	if err != nil {
		h.logger.Warn("ws dashboard build failed", xlogger.Error(err))
		return streamMessage{Type: "error", Error: "dashboard unavailable"}
	}
	recordPanels(snap.Counts)
	return streamMessage{Type: "snapshot", Snapshot: snap}
}

func (h *DashboardHandler) send(conn *websocket.Conn, msg streamMessage) bool {
	_ = conn.SetWriteDeadline(time.Now().Add(streamWriteWait))
	if err := conn.WriteJSON(msg); err != nil {
		h.logger.Warn("ws write failed", xlogger.Error(err))
		return false
	}
	return true
}
