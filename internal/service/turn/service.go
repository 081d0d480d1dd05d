package turn

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	analysis "github.com/Aryan-B-Parikh/SoulSync-sub000/internal/analysis/sentiment"
	"github.com/Aryan-B-Parikh/SoulSync-sub000/internal/model/chat"
	memorymodel "github.com/Aryan-B-Parikh/SoulSync-sub000/internal/model/memory"
	"github.com/Aryan-B-Parikh/SoulSync-sub000/internal/model/persona"
	"github.com/Aryan-B-Parikh/SoulSync-sub000/internal/service/ai"
	chatservice "github.com/Aryan-B-Parikh/SoulSync-sub000/internal/service/chat"
	"github.com/Aryan-B-Parikh/SoulSync-sub000/internal/service/memory"
	"github.com/Aryan-B-Parikh/SoulSync-sub000/internal/service/sentiment"
)

const (
	MaxContentRunes = 4000
	titleRunes      = 50

	defaultHistoryLimit     = 10
	defaultReconcileTimeout = 30 * time.Second

	streamFailureMessage = "failed to generate a response"
)

var (
	ErrEmptyContent      = errors.New("message content is required")
	ErrContentTooLong    = fmt.Errorf("message content exceeds %d characters", MaxContentRunes)
	ErrStreamUnsupported = errors.New("streaming unsupported")
)

// Embedder turns text into a vector.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// MemoryStore is the owner-scoped vector memory.
type MemoryStore interface {
	Upsert(ctx context.Context, vectorID, ownerID, conversationID, text string, vector []float32, role string) error
	Query(ctx context.Context, ownerID string, vector []float32, topK int, opts ...memory.QueryOption) []memorymodel.Match
}

// Completer streams a completion.
type Completer interface {
	StreamComplete(ctx context.Context, history []chat.Message, systemPrompt string) (<-chan ai.Fragment, error)
}

// Reconciler records a second sentiment opinion for a user message.
type Reconciler interface {
	Reconcile(ctx context.Context, messageID, content string, lexiconMood chat.Mood) (sentiment.Outcome, bool)
}

// PromptBuilder renders the system prompt.
type PromptBuilder interface {
	SystemPrompt(p persona.Persona, memories []memorymodel.Match) string
}

// Config tunes the pipeline.
type Config struct {
	HistoryLimit     int
	TopK             int
	ReconcileTimeout time.Duration
}

// Deps are the collaborators of the pipeline. Embedder and Reconciler may be nil.
type Deps struct {
	Store      chatservice.Store
	Personas   persona.Store
	Embedder   Embedder
	Memory     MemoryStore
	Completer  Completer
	Prompts    PromptBuilder
	Reconciler Reconciler
}

// Request is one inbound user message.
type Request struct {
	ConversationID string
	OwnerID        string
	Content        string
	Attachments    []string
}

// Service runs user turns end to end.
type Service struct {
	deps Deps
	cfg  Config

	mu         sync.Mutex
	draining   bool
	background sync.WaitGroup
	now        func() time.Time
}

func NewService(deps Deps, cfg Config) *Service {
	if cfg.HistoryLimit <= 0 {
		cfg.HistoryLimit = defaultHistoryLimit
	}
	if cfg.TopK <= 0 {
		cfg.TopK = memory.DefaultTopK
	}
	if cfg.ReconcileTimeout <= 0 {
		cfg.ReconcileTimeout = defaultReconcileTimeout
	}
	return &Service{deps: deps, cfg: cfg, now: time.Now}
}

// SendUserTurn persists the user message, streams the reply into sink and
// schedules background reconciliation once sink is closed. A non-nil error
// means sink was never opened.
func (s *Service) SendUserTurn(ctx context.Context, req Request, sink Sink) error {
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return ErrEmptyContent
	}
	if utf8.RuneCountInString(content) > MaxContentRunes {
		return ErrContentTooLong
	}

	conversation, err := s.deps.Store.GetConversation(ctx, req.ConversationID)
	if err != nil {
		return err
	}
	if conversation.OwnerID != req.OwnerID {
		return chatservice.ErrConversationNotFound
	}

	scored := analysis.Score(content)
	userMsg := &chat.Message{
		ConversationID: conversation.ID,
		Role:           chat.RoleUser,
		Content:        content,
		Attachments:    req.Attachments,
		Sentiment:      scored.Sentiment(),
	}
	if err := s.deps.Store.CreateMessage(ctx, userMsg); err != nil {
		return fmt.Errorf("persist user message: %w", err)
	}

	memories := []memorymodel.Match{}
	if vector, ok := s.embed(ctx, content); ok {
		vectorID := s.remember(ctx, conversation, userMsg, vector)
		memories = s.deps.Memory.Query(ctx, conversation.OwnerID, vector, s.cfg.TopK, memory.ExcludeVector(vectorID))
	}

	p, _ := persona.Resolve(s.deps.Personas, conversation.PersonaID)
	systemPrompt := s.deps.Prompts.SystemPrompt(p, memories)

	history, err := s.deps.Store.RecentHistory(ctx, conversation.ID, s.cfg.HistoryLimit)
	if err != nil {
		return fmt.Errorf("load history: %w", err)
	}

	if err := sink.Open(); err != nil {
		return err
	}

	result := s.stream(ctx, history, systemPrompt, sink)
	text, streamErr, disconnected := result.text, result.err, result.disconnected

	// The client may already be gone; the rest of the turn must still land.
	persistCtx := context.WithoutCancel(ctx)

	// A completion error still leaves a (possibly empty) reply behind; a
	// disconnect only keeps what was already streamed.
	var assistantMsg *chat.Message
	if text != "" || !disconnected {
		assistantMsg = &chat.Message{
			ConversationID:   conversation.ID,
			Role:             chat.RoleAssistant,
			Content:          text,
			Attachments:      req.Attachments,
			RetrievedContext: snippets(memories),
		}
		if err := s.deps.Store.CreateMessage(persistCtx, assistantMsg); err != nil {
			log.Printf("[turn] failed to persist assistant message conversation=%s: %v", conversation.ID, err)
			assistantMsg = nil
			if streamErr == nil {
				streamErr = err
			}
		}
	}

	title, err := s.touchConversation(persistCtx, conversation, content)
	if err != nil {
		log.Printf("[turn] failed to update conversation=%s: %v", conversation.ID, err)
		if streamErr == nil {
			streamErr = err
		}
	}

	switch {
	case disconnected:
		log.Printf("[turn] client disconnected conversation=%s, kept %d chars", conversation.ID, len(text))
	case streamErr != nil:
		log.Printf("[turn] turn failed conversation=%s: %v", conversation.ID, streamErr)
		_ = sink.Send(ErrorEvent{Error: streamFailureMessage, Done: true})
	default:
		_ = sink.Send(DoneEvent{
			Done:               true,
			UserMessageID:      userMsg.ID,
			AssistantMessageID: assistantMsg.ID,
			ChatTitle:          title,
		})
	}
	sink.Close()

	s.afterTurn(conversation, userMsg, assistantMsg, scored.Mood)
	return nil
}

type streamResult struct {
	text         string
	err          error
	disconnected bool
}

// stream forwards fragments to sink in arrival order and accumulates them.
func (s *Service) stream(ctx context.Context, history []chat.Message, systemPrompt string, sink Sink) streamResult {
	streamCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	fragments, err := s.deps.Completer.StreamComplete(streamCtx, history, systemPrompt)
	if err != nil {
		return streamResult{err: err}
	}

	var acc strings.Builder
	for {
		select {
		case <-ctx.Done():
			return streamResult{text: acc.String(), disconnected: true}
		case frag, ok := <-fragments:
			if !ok {
				return streamResult{text: acc.String(), disconnected: ctx.Err() != nil}
			}
			if frag.Err != nil {
				return streamResult{text: acc.String(), err: frag.Err}
			}
			acc.WriteString(frag.Text)
			if err := sink.Send(ChunkEvent{Chunk: frag.Text}); err != nil {
				return streamResult{text: acc.String(), disconnected: true}
			}
		}
	}
}

func (s *Service) embed(ctx context.Context, text string) ([]float32, bool) {
	if s.deps.Embedder == nil {
		return nil, false
	}
	vector, err := s.deps.Embedder.Embed(ctx, text)
	if err != nil {
		log.Printf("[turn] embedding failed, continuing without memory: %v", err)
		return nil, false
	}
	return vector, true
}

// remember upserts msg into memory and links it back through vectorRef. It
// returns the vector id even when linking fails so retrieval can skip it.
func (s *Service) remember(ctx context.Context, conversation chat.Conversation, msg *chat.Message, vector []float32) string {
	vectorID := uuid.NewString()
	if err := s.deps.Memory.Upsert(ctx, vectorID, conversation.OwnerID, conversation.ID, msg.Content, vector, string(msg.Role)); err != nil {
		log.Printf("[turn] memory upsert failed message=%s: %v", msg.ID, err)
		return vectorID
	}
	if err := s.deps.Store.UpdateMessage(ctx, msg.ID, chat.MessageUpdate{VectorRef: &vectorID}); err != nil {
		log.Printf("[turn] failed to link vector message=%s: %v", msg.ID, err)
		return vectorID
	}
	msg.VectorRef = &vectorID
	return vectorID
}

func (s *Service) touchConversation(ctx context.Context, conversation chat.Conversation, content string) (string, error) {
	title := conversation.Title
	var newTitle *string
	if conversation.Untitled() {
		title = MakeTitle(content)
		newTitle = &title
	}
	if err := s.deps.Store.UpdateConversationTitleAndTimestamp(ctx, conversation.ID, newTitle, s.now().UTC()); err != nil {
		return conversation.Title, err
	}
	return title, nil
}

// afterTurn runs the post-close work on its own goroutine: the sentiment
// second opinion for the user message and the memory of the reply.
func (s *Service) afterTurn(conversation chat.Conversation, userMsg, assistantMsg *chat.Message, lexiconMood chat.Mood) {
	s.mu.Lock()
	if s.draining {
		s.mu.Unlock()
		log.Printf("[turn] shutting down, skipped background work message=%s", userMsg.ID)
		return
	}
	s.background.Add(1)
	s.mu.Unlock()
	go func() {
		defer s.background.Done()
		defer func() {
			if r := recover(); r != nil {
				log.Printf("[turn] background task panicked message=%s: %v", userMsg.ID, r)
			}
		}()

		ctx, cancel := context.WithTimeout(context.Background(), s.cfg.ReconcileTimeout)
		defer cancel()

		if s.deps.Reconciler != nil {
			s.deps.Reconciler.Reconcile(ctx, userMsg.ID, userMsg.Content, lexiconMood)
		}
		if assistantMsg != nil && assistantMsg.Content != "" {
			if vector, ok := s.embed(ctx, assistantMsg.Content); ok {
				s.remember(ctx, conversation, assistantMsg, vector)
			}
		}
	}()
}

// Shutdown stops accepting background work and waits for what is already
// running, or until ctx is done.
func (s *Service) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	s.draining = true
	s.mu.Unlock()
	return s.Wait(ctx)
}

// Wait blocks until background work has finished or ctx is done. Unlike
// Shutdown it keeps accepting new work.
func (s *Service) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.background.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// MakeTitle derives a conversation title from the first user message.
func MakeTitle(content string) string {
	runes := []rune(strings.TrimSpace(content))
	if len(runes) <= titleRunes {
		return string(runes)
	}
	return string(runes[:titleRunes]) + "..."
}

func snippets(memories []memorymodel.Match) []string {
	if len(memories) == 0 {
		return nil
	}
	out := make([]string, 0, len(memories))
	for _, m := range memories {
		out = append(out, m.Content)
	}
	return out
}
