package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/Aryan-B-Parikh/SoulSync-sub000/internal/handler/chat"
	"github.com/Aryan-B-Parikh/SoulSync-sub000/internal/handler/memory"
	"github.com/Aryan-B-Parikh/SoulSync-sub000/internal/handler/persona"
	"github.com/Aryan-B-Parikh/SoulSync-sub000/internal/handler/stream"
	middlewarePkg "github.com/Aryan-B-Parikh/SoulSync-sub000/internal/middleware"
	personaModel "github.com/Aryan-B-Parikh/SoulSync-sub000/internal/model/persona"
	chatService "github.com/Aryan-B-Parikh/SoulSync-sub000/internal/service/chat"
	"github.com/Aryan-B-Parikh/SoulSync-sub000/pkg/utils"
)

// RouterDeps groups what the HTTP layer needs from the service layer.
type RouterDeps struct {
	JWTSecret string
	Personas  personaModel.Store
	Store     chatService.Store
	Turns     stream.TurnRunner
	Memories  memory.Store
}

// NewRouter wires HTTP routes to core services.
func NewRouter(deps RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS)

	personaHandler := persona.New(deps.Personas)
	chatHandler := chat.New(deps.Store, deps.Personas)
	memoryHandler := memory.New(deps.Memories)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(api chi.Router) {
		// persona 列表无需登录
		personaHandler.RegisterRoutes(api)

		api.Group(func(authed chi.Router) {
			authed.Use(middlewarePkg.Authenticator(deps.JWTSecret))

			chatHandler.RegisterRoutes(authed)
			memoryHandler.RegisterRoutes(authed)

			if deps.Turns == nil {
				authed.Post("/conversations/{conversationID}/messages", func(w http.ResponseWriter, _ *http.Request) {
					utils.RespondError(w, http.StatusServiceUnavailable, "ai streaming unavailable")
				})
				return
			}
			stream.New(deps.Turns).RegisterRoutes(authed)
		})
	})

	return r
}
