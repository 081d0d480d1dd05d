package ai

import (
	"strings"
	"testing"
	"time"

	"github.com/Aryan-B-Parikh/SoulSync-sub000/internal/model/memory"
	"github.com/Aryan-B-Parikh/SoulSync-sub000/internal/model/persona"
)

func TestSystemPromptWithoutMemories(t *testing.T) {
	b := NewPromptBuilder()
	p, _ := persona.Resolve(persona.NewMemoryStore(persona.Seed()), "")

	prompt := b.SystemPrompt(p, nil)
	if !strings.Contains(prompt, "You are Soul") {
		t.Fatalf("persona missing from prompt: %s", prompt)
	}
	if strings.Contains(prompt, "Things you remember") {
		t.Fatalf("memory section rendered without memories: %s", prompt)
	}
}

func TestSystemPromptRendersMemoriesWithAge(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	b := &PromptBuilder{now: func() time.Time { return now }}

	prompt := b.SystemPrompt(persona.Persona{Name: "Soul", Title: "a companion", Tone: "warm"}, []memory.Match{
		{Content: "my favorite food is pizza", Role: "user", Timestamp: now.Add(-3 * 24 * time.Hour), Score: 0.4},
		{Content: "I suggested a walk", Role: "assistant", Timestamp: now.Add(-2 * time.Hour), Score: 0.3},
	})

	for _, want := range []string{
		`(3 days ago) The user said: "my favorite food is pizza"`,
		`(2 hours ago) You said: "I suggested a walk"`,
		"ignore them completely",
	} {
		if !strings.Contains(prompt, want) {
			t.Fatalf("prompt missing %q:\n%s", want, prompt)
		}
	}
}
