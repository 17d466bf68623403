package message

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	model "github.com/zhouzirui/hello-fullstack/backend/internal/model/message"
	messageService "github.com/zhouzirui/hello-fullstack/backend/internal/service/message"
	"github.com/zhouzirui/hello-fullstack/backend/pkg/utils"
)

// UpdatedMessageText 是更新成功时固定的提示文本。
const UpdatedMessageText = "Message updated successfully"

// Handler 消息服务的HTTP处理器
type Handler struct {
	svc           *messageService.Service
	allowedOrigin string
	upgrader      websocket.Upgrader
}

// New 创建消息处理器，allowedOrigin 为 "*" 时接受任意来源的 WebSocket 连接。
func New(svc *messageService.Service, allowedOrigin string) *Handler {
	h := &Handler{
		svc:           svc,
		allowedOrigin: allowedOrigin,
	}
	h.upgrader = websocket.Upgrader{
		CheckOrigin:     h.checkOrigin,
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
	}
	return h
}

// RegisterRoutes 注册消息读写路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/message", h.handleGetMessage)
	r.Post("/message", h.handleUpdateMessage)
}

// RegisterStreamRoutes 注册长连接路由，不受请求超时限制。
func (h *Handler) RegisterStreamRoutes(r chi.Router) {
	r.Get("/message/ws", h.handleWebSocket)
}

type getMessageResponse struct {
	Message string `json:"message"`
}

type updateMessageRequest struct {
	NewMessage json.RawMessage `json:"newMessage"`
}

type updateMessageResponse struct {
	Status         string `json:"status"`
	Message        string `json:"message"`
	UpdatedMessage string `json:"updatedMessage"`
}

// handleGetMessage 返回当前消息
func (h *Handler) handleGetMessage(w http.ResponseWriter, r *http.Request) {
	current, err := h.svc.Current(r.Context())
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}

	setETag(w, current.Version)
	utils.RespondJSON(w, http.StatusOK, getMessageResponse{Message: current.Content})
}

// handleUpdateMessage 覆盖当前消息
func (h *Handler) handleUpdateMessage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := h.svc.Ensure(ctx); err != nil {
		h.respondServiceError(w, r, err)
		return
	}

	content, details, ok := decodeNewMessage(r)
	if !ok {
		utils.RespondError(w, http.StatusBadRequest, details)
		return
	}

	updated, err := h.svc.Update(ctx, content, parseIfMatch(r.Header.Get("If-Match")))
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}

	setETag(w, updated.Version)
	utils.RespondJSON(w, http.StatusOK, updateMessageResponse{
		Status:         "success",
		Message:        UpdatedMessageText,
		UpdatedMessage: updated.Content,
	})
}

// decodeNewMessage 解析请求体中的 newMessage，失败时返回给客户端的说明。
func decodeNewMessage(r *http.Request) (string, string, bool) {
	var payload updateMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		return "", "request body must be a JSON object", false
	}

	raw := bytes.TrimSpace(payload.NewMessage)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", "newMessage is required", false
	}

	var content string
	if err := json.Unmarshal(raw, &content); err != nil {
		return "", "newMessage must be a string", false
	}
	return content, "", true
}

// respondServiceError 将服务层错误映射为HTTP状态码
func (h *Handler) respondServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, model.ErrValidation):
		utils.RespondError(w, http.StatusBadRequest, "newMessage must be a non-empty string")
	case errors.Is(err, model.ErrConflict):
		utils.RespondError(w, http.StatusPreconditionFailed, "message was modified since the supplied If-Match version")
	case errors.Is(err, model.ErrNotFound) && r.Method == http.MethodPost:
		utils.RespondError(w, http.StatusPreconditionFailed, "no stored message matches the supplied If-Match version")
	case errors.Is(err, model.ErrNotFound):
		utils.RespondError(w, http.StatusNotFound, "message row is missing from the store: "+err.Error())
	default:
		slog.ErrorContext(r.Context(), "message request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		utils.RespondError(w, http.StatusInternalServerError, err.Error())
	}
}

func setETag(w http.ResponseWriter, version string) {
	if version != "" {
		w.Header().Set("ETag", `"`+version+`"`)
	}
}

// parseIfMatch 提取 If-Match 中的版本号，"*" 或空值表示无条件写入。
func parseIfMatch(header string) string {
	value := strings.TrimSpace(header)
	if value == "" || value == "*" {
		return ""
	}
	value = strings.TrimPrefix(value, "W/")
	return strings.Trim(value, `"`)
}

func (h *Handler) checkOrigin(r *http.Request) bool {
	if h.allowedOrigin == "" || h.allowedOrigin == "*" {
		return true
	}
	origin := r.Header.Get("Origin")
	return origin == "" || origin == h.allowedOrigin
}
