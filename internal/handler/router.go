package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/zhouzirui/hello-fullstack/backend/internal/config"
	"github.com/zhouzirui/hello-fullstack/backend/internal/handler/message"
	middlewarePkg "github.com/zhouzirui/hello-fullstack/backend/internal/middleware"
	messageService "github.com/zhouzirui/hello-fullstack/backend/internal/service/message"
	"github.com/zhouzirui/hello-fullstack/backend/pkg/utils"
)

// NewRouter wires HTTP routes to core services.
func NewRouter(messageSvc *messageService.Service, serverCfg config.ServerConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORSWithOrigin(serverCfg.AllowedOrigin))

	messageHandler := message.New(messageSvc, serverCfg.AllowedOrigin)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(api chi.Router) {
		// Long-lived connections are exempt from the request timeout.
		messageHandler.RegisterStreamRoutes(api)

		api.Group(func(rest chi.Router) {
			if serverCfg.RequestTimeout > 0 {
				rest.Use(middleware.Timeout(serverCfg.RequestTimeout))
			}
			messageHandler.RegisterRoutes(rest)
		})
	})

	return r
}
