package chat

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/Aryan-B-Parikh/SoulSync-sub000/internal/middleware"
	"github.com/Aryan-B-Parikh/SoulSync-sub000/internal/model/persona"
	chatService "github.com/Aryan-B-Parikh/SoulSync-sub000/internal/service/chat"
	"github.com/Aryan-B-Parikh/SoulSync-sub000/pkg/utils"
)

const (
	defaultListLimit = 50
	maxListLimit     = 200
)

// Handler 聊天服务的HTTP处理器
type Handler struct {
	store        chatService.Store
	personaStore persona.Store
}

// New 创建聊天处理器
func New(store chatService.Store, personaStore persona.Store) *Handler {
	return &Handler{
		store:        store,
		personaStore: personaStore,
	}
}

// RegisterRoutes 注册聊天相关的路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/conversations", h.handleCreateConversation)
	r.Get("/conversations/{conversationID}/messages", h.handleListMessages)
}

func (h *Handler) handleCreateConversation(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := middleware.OwnerID(r.Context())
	if !ok {
		utils.RespondError(w, http.StatusUnauthorized, "unauthenticated")
		return
	}

	var payload struct {
		PersonaID string `json:"personaId"`
	}
	if err := utils.DecodeJSON(w, r, &payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	personaID := payload.PersonaID
	if personaID == "" {
		personaID = persona.DefaultID
	}
	if _, ok := h.personaStore.FindByID(personaID); !ok {
		utils.RespondError(w, http.StatusBadRequest, "persona not found")
		return
	}

	conversation, err := h.store.CreateConversation(r.Context(), ownerID, personaID)
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "failed to create conversation")
		return
	}

	utils.RespondJSON(w, http.StatusCreated, conversation)
}

func (h *Handler) handleListMessages(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := middleware.OwnerID(r.Context())
	if !ok {
		utils.RespondError(w, http.StatusUnauthorized, "unauthenticated")
		return
	}

	limit := defaultListLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			utils.RespondError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = min(n, maxListLimit)
	}

	conversationID := chi.URLParam(r, "conversationID")
	conversation, err := h.store.GetConversation(r.Context(), conversationID)
	if errors.Is(err, chatService.ErrConversationNotFound) || (err == nil && conversation.OwnerID != ownerID) {
		utils.RespondError(w, http.StatusNotFound, "conversation not found")
		return
	}
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "failed to load conversation")
		return
	}

	messages, err := h.store.RecentHistory(r.Context(), conversation.ID, limit)
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "failed to load messages")
		return
	}

	utils.RespondJSON(w, http.StatusOK, messages)
}
