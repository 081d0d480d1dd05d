package memory

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/Aryan-B-Parikh/SoulSync-sub000/internal/middleware"
	memorymodel "github.com/Aryan-B-Parikh/SoulSync-sub000/internal/model/memory"
	memoryservice "github.com/Aryan-B-Parikh/SoulSync-sub000/internal/service/memory"
)

func setup(t *testing.T) (*chi.Mux, *memoryservice.Service) {
	t.Helper()
	svc := memoryservice.NewService(memoryservice.NewInMemoryBackend(), 3, 0)
	ctx := context.Background()
	_ = svc.Upsert(ctx, "a1", "owner-a", "c", "first", []float32{1}, "user")
	_ = svc.Upsert(ctx, "a2", "owner-a", "c", "second", []float32{1}, "assistant")
	_ = svc.Upsert(ctx, "b1", "owner-b", "c", "other", []float32{1}, "user")

	r := chi.NewRouter()
	New(svc).RegisterRoutes(r)
	return r, svc
}

func do(r http.Handler, method, path, owner string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if owner != "" {
		req = req.WithContext(middleware.WithOwnerID(req.Context(), owner))
	}
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func TestStatsAndDeleteAreOwnerScoped(t *testing.T) {
	r, svc := setup(t)

	resp := do(r, http.MethodGet, "/memories/stats", "owner-a")
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	var stats memorymodel.Stats
	if err := json.Unmarshal(resp.Body.Bytes(), &stats); err != nil {
		t.Fatalf("decode err: %v", err)
	}
	if stats.TotalMemories != 2 {
		t.Fatalf("expected 2 memories, got %d", stats.TotalMemories)
	}

	resp = do(r, http.MethodDelete, "/memories", "owner-a")
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	var deleted map[string]int64
	if err := json.Unmarshal(resp.Body.Bytes(), &deleted); err != nil || deleted["deleted"] != 2 {
		t.Fatalf("unexpected delete response %s (%v)", resp.Body.String(), err)
	}

	other, _ := svc.Stats(context.Background(), "owner-b")
	if other.TotalMemories != 1 {
		t.Fatalf("other owner affected: %+v", other)
	}
}

func TestMemoryRoutesRequireOwner(t *testing.T) {
	r, _ := setup(t)
	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/memories/stats"},
		{http.MethodDelete, "/memories"},
	} {
		if resp := do(r, tc.method, tc.path, ""); resp.Code != http.StatusUnauthorized {
			t.Fatalf("%s %s: expected 401, got %d", tc.method, tc.path, resp.Code)
		}
	}
}
