package ai

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/invopop/jsonschema"

	"github.com/Aryan-B-Parikh/SoulSync-sub000/internal/model/chat"
)

// sentimentVerdict is the only shape a classification response may take.
type sentimentVerdict struct {
	Mood string `json:"mood" jsonschema:"required,enum=very_positive,enum=positive,enum=neutral,enum=negative,enum=very_negative"`
}

// The template engine treats braces as placeholders, so the JSON shape is
// described in words.
const sentimentSystemPrompt = "You are a sentiment classifier. Read the user's message and decide the overall mood of its author.\n" +
	"Reply with a JSON object that has exactly one field named mood. Its value must be one of: very_positive, positive, neutral, negative, very_negative.\n" +
	"Do not add any other field, explanation or text."

func moodLabels() []string {
	labels := make([]string, 0, len(chat.Moods))
	for _, m := range chat.Moods {
		labels = append(labels, string(m))
	}
	return labels
}

func verdictSchema() map[string]interface{} {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties:  false,
		DoNotReference:             true,
		RequiredFromJSONSchemaTags: true,
	}
	schema := reflector.Reflect(&sentimentVerdict{})

	b, err := schema.MarshalJSON()
	if err != nil {
		panic(err)
	}
	var m map[string]interface{}
	if err := json.Unmarshal(b, &m); err != nil {
		panic(err)
	}

	delete(m, "$schema")
	delete(m, "$id")
	m["additionalProperties"] = false
	return m
}

// parseVerdict accepts exactly one JSON object with a single known mood.
// Surrounding code fences are tolerated; anything else is rejected.
func parseVerdict(content string) (chat.Mood, error) {
	trimmed := strings.TrimSpace(content)
	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSuffix(trimmed, "```")
	trimmed = strings.TrimSpace(trimmed)
	if trimmed == "" {
		return "", errors.New("empty verdict")
	}

	dec := json.NewDecoder(bytes.NewReader([]byte(trimmed)))
	dec.DisallowUnknownFields()

	var verdict sentimentVerdict
	if err := dec.Decode(&verdict); err != nil {
		return "", fmt.Errorf("decode verdict: %w", err)
	}
	if dec.More() {
		return "", errors.New("trailing data after verdict")
	}

	mood, ok := chat.ParseMood(strings.TrimSpace(verdict.Mood))
	if !ok {
		return "", fmt.Errorf("unknown mood %q", verdict.Mood)
	}
	return mood, nil
}
