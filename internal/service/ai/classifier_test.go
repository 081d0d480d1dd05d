package ai

import (
	"testing"

	"github.com/Aryan-B-Parikh/SoulSync-sub000/internal/model/chat"
)

func TestParseVerdict(t *testing.T) {
	cases := []struct {
		name    string
		content string
		want    chat.Mood
		wantErr bool
	}{
		{name: "plain", content: `{"mood":"positive"}`, want: chat.MoodPositive},
		{name: "fenced", content: "```json\n{\"mood\": \"very_negative\"}\n```", want: chat.MoodVeryNegative},
		{name: "unknown mood", content: `{"mood":"ecstatic"}`, wantErr: true},
		{name: "extra field", content: `{"mood":"neutral","reason":"because"}`, wantErr: true},
		{name: "two objects", content: `{"mood":"neutral"}{"mood":"positive"}`, wantErr: true},
		{name: "prose", content: `The mood is positive.`, wantErr: true},
		{name: "empty", content: "   ", wantErr: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := parseVerdict(tc.content)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error, got mood %q", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected err: %v", err)
			}
			if got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestVerdictSchemaIsStrict(t *testing.T) {
	schema := verdictSchema()

	if schema["additionalProperties"] != false {
		t.Fatalf("expected additionalProperties=false, got %v", schema["additionalProperties"])
	}
	if _, ok := schema["$schema"]; ok {
		t.Fatalf("schema must not carry $schema")
	}

	props, ok := schema["properties"].(map[string]interface{})
	if !ok {
		t.Fatalf("missing properties: %v", schema)
	}
	mood, ok := props["mood"].(map[string]interface{})
	if !ok {
		t.Fatalf("missing mood property: %v", props)
	}
	enum, ok := mood["enum"].([]interface{})
	if !ok || len(enum) != len(chat.Moods) {
		t.Fatalf("unexpected enum: %v", mood["enum"])
	}

	required, ok := schema["required"].([]interface{})
	if !ok || len(required) != 1 || required[0] != "mood" {
		t.Fatalf("unexpected required: %v", schema["required"])
	}
}
