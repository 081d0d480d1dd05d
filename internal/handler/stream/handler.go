package stream

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Aryan-B-Parikh/SoulSync-sub000/internal/middleware"
	chatService "github.com/Aryan-B-Parikh/SoulSync-sub000/internal/service/chat"
	"github.com/Aryan-B-Parikh/SoulSync-sub000/internal/service/turn"
	"github.com/Aryan-B-Parikh/SoulSync-sub000/pkg/utils"
)

// TurnRunner executes one user turn against a sink.
type TurnRunner interface {
	SendUserTurn(ctx context.Context, req turn.Request, sink turn.Sink) error
}

// Handler manages streaming AI responses via Server-Sent Events
type Handler struct {
	turns TurnRunner
}

func New(turns TurnRunner) *Handler {
	return &Handler{turns: turns}
}

// RegisterRoutes mounts the streaming endpoint.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/conversations/{conversationID}/messages", h.handleSendMessage)
}

type sendMessageRequest struct {
	Content     string   `json:"content"`
	Attachments []string `json:"attachments,omitempty"`
}

func (h *Handler) handleSendMessage(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := middleware.OwnerID(r.Context())
	if !ok {
		utils.RespondError(w, http.StatusUnauthorized, "unauthenticated")
		return
	}

	var payload sendMessageRequest
	if err := utils.DecodeJSON(w, r, &payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	conversationID := chi.URLParam(r, "conversationID")
	sink := newSSESink(w)

	err := h.turns.SendUserTurn(r.Context(), turn.Request{
		ConversationID: conversationID,
		OwnerID:        ownerID,
		Content:        payload.Content,
		Attachments:    payload.Attachments,
	}, sink)
	if err == nil {
		return
	}

	log.Printf("[stream] turn rejected conversation=%s: %v", conversationID, err)
	if sink.opened {
		// The stream was opened by a sink that then failed; nothing more can be written as JSON.
		return
	}
	status, message := statusFor(err)
	utils.RespondError(w, status, message)
}

func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, turn.ErrEmptyContent), errors.Is(err, turn.ErrContentTooLong):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, chatService.ErrConversationNotFound):
		return http.StatusNotFound, "conversation not found"
	case errors.Is(err, turn.ErrStreamUnsupported):
		return http.StatusInternalServerError, "streaming unsupported"
	default:
		return http.StatusInternalServerError, "failed to process message"
	}
}

// sseSink writes turn events as text/event-stream frames.
type sseSink struct {
	w       http.ResponseWriter
	flusher http.Flusher
	opened  bool
	closed  bool
}

func newSSESink(w http.ResponseWriter) *sseSink {
	return &sseSink{w: w}
}

func (s *sseSink) Open() error {
	flusher, ok := s.w.(http.Flusher)
	if !ok {
		return turn.ErrStreamUnsupported
	}
	s.flusher = flusher

	utils.SetupSSEHeaders(s.w)
	s.w.WriteHeader(http.StatusOK)
	flusher.Flush()
	s.opened = true
	return nil
}

func (s *sseSink) Send(event any) error {
	if !s.opened || s.closed {
		return errors.New("sse stream is not open")
	}
	return utils.SendSSEChunk(s.w, s.flusher, event)
}

func (s *sseSink) Close() {
	if s.opened && !s.closed {
		s.flusher.Flush()
	}
	s.closed = true
}
