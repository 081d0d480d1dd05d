package ai

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Aryan-B-Parikh/SoulSync-sub000/internal/model/chat"
)

func TestOpenAIClientStreamComplete(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "text/event-stream")
		for _, part := range []string{"Paris", " is the", " capital."} {
			fmt.Fprintf(w, "data: {\"id\":\"1\",\"object\":\"chat.completion.chunk\",\"created\":1,\"model\":\"m\",\"choices\":[{\"index\":0,\"delta\":{\"content\":%q}}]}\n\n", part)
		}
		fmt.Fprint(w, "data: [DONE]\n\n")
	}))
	defer server.Close()

	client := NewOpenAIClient("key", server.URL+"/v1", "m")
	ch, err := client.StreamComplete(context.Background(), []chat.Message{
		{Role: chat.RoleUser, Content: "What is the capital of France?"},
	}, "system")
	if err != nil {
		t.Fatalf("StreamComplete err: %v", err)
	}

	text, err := drain(ch)
	if err != nil {
		t.Fatalf("stream err: %v", err)
	}
	if text != "Paris is the capital." {
		t.Fatalf("unexpected text %q", text)
	}
}

func TestOpenAIClientClassifySentiment(t *testing.T) {
	status := http.StatusOK
	content := `{\"mood\":\"positive\"}`
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if status != http.StatusOK {
			w.WriteHeader(status)
			_, _ = w.Write([]byte(`{"error":{"message":"unavailable","type":"server_error"}}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"id":"1","object":"chat.completion","created":1,"model":"m","choices":[{"index":0,"message":{"role":"assistant","content":"%s"},"finish_reason":"stop"}]}`, content)
	}))
	defer server.Close()

	client := NewOpenAIClient("key", server.URL+"/v1", "m")

	mood, ok := client.ClassifySentiment(context.Background(), "I had a lovely day")
	if !ok || mood != chat.MoodPositive {
		t.Fatalf("expected positive, got %q ok=%v", mood, ok)
	}

	content = `{\"mood\":\"thrilled\"}`
	if _, ok := client.ClassifySentiment(context.Background(), "hi"); ok {
		t.Fatalf("expected unknown mood to be rejected")
	}

	status = http.StatusServiceUnavailable
	if _, ok := client.ClassifySentiment(context.Background(), "hi"); ok {
		t.Fatalf("expected non-2xx to yield no mood")
	}
}
