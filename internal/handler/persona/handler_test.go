package persona

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/Aryan-B-Parikh/SoulSync-sub000/internal/model/persona"
)

func TestListPersonasHidesPromptInternals(t *testing.T) {
	r := chi.NewRouter()
	New(persona.NewMemoryStore(persona.Seed())).RegisterRoutes(r)

	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/personas", nil))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if strings.Contains(resp.Body.String(), "promptHint") || strings.Contains(resp.Body.String(), "rules") {
		t.Fatalf("prompt internals exposed: %s", resp.Body.String())
	}

	var views []personaView
	if err := json.Unmarshal(resp.Body.Bytes(), &views); err != nil {
		t.Fatalf("decode err: %v", err)
	}
	if len(views) != len(persona.Seed()) {
		t.Fatalf("expected %d personas, got %d", len(persona.Seed()), len(views))
	}
	defaults := 0
	for _, v := range views {
		if v.Default {
			defaults++
			if v.ID != persona.DefaultID {
				t.Fatalf("unexpected default persona %s", v.ID)
			}
		}
	}
	if defaults != 1 {
		t.Fatalf("expected exactly one default persona, got %d", defaults)
	}
}
