package message

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	model "github.com/zhouzirui/hello-fullstack/backend/internal/model/message"
)

const (
	writeWait  = 10 * time.Second
	pingPeriod = 30 * time.Second
)

// UpdateFrame 是推送给订阅者的消息帧
type UpdateFrame struct {
	Type      string    `json:"type"`
	Message   string    `json:"message"`
	Version   string    `json:"version"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func newUpdateFrame(m model.Message) UpdateFrame {
	return UpdateFrame{
		Type:      "message",
		Message:   m.Content,
		Version:   m.Version,
		UpdatedAt: m.UpdatedAt,
	}
}

// handleWebSocket 先推送当前消息，之后每次更新推送一帧
func (h *Handler) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	// 先订阅再读取，避免错过两者之间的更新。
	updates, cancel := h.svc.Subscribe()
	defer cancel()

	current, err := h.svc.Current(ctx)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.WarnContext(ctx, "websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.NextReader(); err != nil {
				return
			}
		}
	}()

	if err := writeFrame(conn, newUpdateFrame(current)); err != nil {
		slog.WarnContext(ctx, "websocket write failed", "error", err)
		return
	}

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-closed:
			return
		case <-ctx.Done():
			return
		case m, ok := <-updates:
			if !ok {
				return
			}
			if err := writeFrame(conn, newUpdateFrame(m)); err != nil {
				slog.WarnContext(ctx, "websocket write failed", "error", err)
				return
			}
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		}
	}
}

func writeFrame(conn *websocket.Conn, frame UpdateFrame) error {
	if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return conn.WriteJSON(frame)
}
