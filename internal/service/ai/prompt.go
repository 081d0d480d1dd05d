package ai

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/Aryan-B-Parikh/SoulSync-sub000/internal/model/memory"
	"github.com/Aryan-B-Parikh/SoulSync-sub000/internal/model/persona"
)

// PromptBuilder renders the system prompt for a persona and its retrieved memories.
type PromptBuilder struct {
	now func() time.Time
}

func NewPromptBuilder() *PromptBuilder {
	return &PromptBuilder{now: time.Now}
}

// SystemPrompt combines the personality template with memory snippets.
func (b *PromptBuilder) SystemPrompt(p persona.Persona, memories []memory.Match) string {
	var builder strings.Builder
	builder.WriteString(b.personality(p))

	if len(memories) == 0 {
		return builder.String()
	}

	now := b.now()
	builder.WriteString("\n\nThings you remember from earlier conversations with this user:\n")
	for _, m := range memories {
		who := "The user said"
		if m.Role == "assistant" {
			who = "You said"
		}
		fmt.Fprintf(&builder, "- (%s) %s: %q\n", humanize.RelTime(m.Timestamp, now, "ago", "from now"), who, m.Content)
	}
	builder.WriteString("\nUse a memory only if it is clearly relevant to the current message. " +
		"If none are relevant, ignore them completely and do not mention them. " +
		"Always answer factual questions correctly regardless of what is remembered.")

	return builder.String()
}

func (b *PromptBuilder) personality(p persona.Persona) string {
	if p.Name == "" {
		return "You are a friendly, supportive assistant. Answer clearly and kindly."
	}

	var builder strings.Builder
	fmt.Fprintf(&builder, "You are %s, %s.", p.Name, p.Title)
	if p.Description != "" {
		builder.WriteString(" ")
		builder.WriteString(p.Description)
	}
	fmt.Fprintf(&builder, "\n\nPersonality:\n- Tone: %s", p.Tone)
	if len(p.Traits) > 0 {
		fmt.Fprintf(&builder, "\n- Traits: %s", strings.Join(p.Traits, ", "))
	}
	if p.PromptHint != "" {
		fmt.Fprintf(&builder, "\n- Hint: %s", p.PromptHint)
	}
	if len(p.Rules) > 0 {
		builder.WriteString("\n\nConversation rules:\n- ")
		builder.WriteString(strings.Join(p.Rules, "\n- "))
	}
	fmt.Fprintf(&builder, "\n\nStay in character as %s throughout the conversation.", p.Name)
	return builder.String()
}
