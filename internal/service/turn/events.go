package turn

// Sink is the outbound event stream of one turn. Open is called once, after
// every step that can fail before streaming; Close is always called after
// the terminal frame (or after a disconnect).
type Sink interface {
	Open() error
	Send(event any) error
	Close()
}

// ChunkEvent carries one completion fragment.
type ChunkEvent struct {
	Chunk string `json:"chunk"`
	Done  bool   `json:"done"`
}

// DoneEvent terminates a successful turn.
type DoneEvent struct {
	Done               bool   `json:"done"`
	UserMessageID      string `json:"userMessageId"`
	AssistantMessageID string `json:"assistantMessageId"`
	ChatTitle          string `json:"chatTitle"`
}

// ErrorEvent terminates a turn that failed after the stream opened.
type ErrorEvent struct {
	Error string `json:"error"`
	Done  bool   `json:"done"`
}
