package persona

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Aryan-B-Parikh/SoulSync-sub000/internal/model/persona"
	"github.com/Aryan-B-Parikh/SoulSync-sub000/pkg/utils"
)

// Handler persona服务的HTTP处理器
type Handler struct {
	personas persona.Store
}

// New 创建persona处理器
func New(personas persona.Store) *Handler {
	return &Handler{
		personas: personas,
	}
}

// RegisterRoutes 注册persona相关的路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/personas", h.handleListPersonas)
}

type personaView struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Title       string   `json:"title"`
	Tone        string   `json:"tone"`
	OpeningLine string   `json:"openingLine"`
	Description string   `json:"description,omitempty"`
	Traits      []string `json:"traits,omitempty"`
	Default     bool     `json:"default"`
}

// handleListPersonas lists personas without their prompt internals.
func (h *Handler) handleListPersonas(w http.ResponseWriter, r *http.Request) {
	items := h.personas.List()
	views := make([]personaView, 0, len(items))
	for _, p := range items {
		views = append(views, personaView{
			ID:          p.ID,
			Name:        p.Name,
			Title:       p.Title,
			Tone:        p.Tone,
			OpeningLine: p.OpeningLine,
			Description: p.Description,
			Traits:      p.Traits,
			Default:     p.ID == persona.DefaultID,
		})
	}
	utils.RespondJSON(w, http.StatusOK, views)
}
