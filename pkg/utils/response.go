package utils

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// ErrorResponse 是所有失败响应的统一结构。
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details"`
}

// RespondJSON 发送JSON响应
func RespondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// RespondError 发送错误响应，error 使用状态码的标准文本。
func RespondError(w http.ResponseWriter, status int, details string) {
	RespondJSON(w, status, ErrorResponse{
		Error:   http.StatusText(status),
		Details: details,
	})
}
