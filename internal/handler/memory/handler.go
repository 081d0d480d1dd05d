package memory

import (
	"context"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Aryan-B-Parikh/SoulSync-sub000/internal/middleware"
	memorymodel "github.com/Aryan-B-Parikh/SoulSync-sub000/internal/model/memory"
	"github.com/Aryan-B-Parikh/SoulSync-sub000/pkg/utils"
)

// Store is the part of the memory service exposed over HTTP.
type Store interface {
	DeleteAll(ctx context.Context, ownerID string) (int64, error)
	Stats(ctx context.Context, ownerID string) (memorymodel.Stats, error)
}

// Handler exposes privacy operations on the caller's memories.
type Handler struct {
	store Store
}

func New(store Store) *Handler {
	return &Handler{store: store}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Delete("/memories", h.handleDeleteAll)
	r.Get("/memories/stats", h.handleStats)
}

func (h *Handler) handleDeleteAll(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := middleware.OwnerID(r.Context())
	if !ok {
		utils.RespondError(w, http.StatusUnauthorized, "unauthenticated")
		return
	}

	n, err := h.store.DeleteAll(r.Context(), ownerID)
	if err != nil {
		log.Printf("[memory] delete failed owner=%s: %v", ownerID, err)
		utils.RespondError(w, http.StatusInternalServerError, "failed to delete memories")
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]int64{"deleted": n})
}

func (h *Handler) handleStats(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := middleware.OwnerID(r.Context())
	if !ok {
		utils.RespondError(w, http.StatusUnauthorized, "unauthenticated")
		return
	}

	stats, err := h.store.Stats(r.Context(), ownerID)
	if err != nil {
		log.Printf("[memory] stats failed owner=%s: %v", ownerID, err)
		utils.RespondError(w, http.StatusInternalServerError, "failed to load memory stats")
		return
	}
	utils.RespondJSON(w, http.StatusOK, stats)
}
