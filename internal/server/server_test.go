package server

import (
	"context"
	"encoding/json"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/rcliao/nah-machine/internal/catalog"
	"github.com/rcliao/nah-machine/internal/gateway"
	"github.com/rcliao/nah-machine/internal/machine"
	"github.com/rcliao/nah-machine/internal/model"
	"github.com/rcliao/nah-machine/internal/store"
)

type echoGenerator struct{}

func (echoGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	return "AI says no.", nil
}

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cat := catalog.New(map[catalog.Category][]string{
		catalog.Lazy:      {"A", "B"},
		catalog.Sarcastic: {"C"},
	}).WithRand(rand.New(rand.NewSource(7)))

	s, err := store.Open(context.Background(), store.NewMemoryBackend())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	m := machine.New(s, gateway.New(gateway.CatalogSource{Catalog: cat}, echoGenerator{}, nil), nil)
	return NewRouter(RouterConfig{
		CatalogHandler: &CatalogHandler{Catalog: cat},
		StateHandler:   &StateHandler{Machine: m},
		HealthHandler:  &HealthHandler{},
		AllowOrigins:   []string{"http://localhost:3000"},
	})
}

func do(t *testing.T, r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %s: %v", rec.Body.String(), err)
	}
	return v
}

func TestHealthcheck(t *testing.T) {
	rec := do(t, newTestRouter(t), http.MethodGet, "/healthcheck", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", rec.Code)
	}
	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("expected a request id header")
	}
}

func TestCatalogEndpoints(t *testing.T) {
	r := newTestRouter(t)

	msg := decode[messageResponse](t, do(t, r, http.MethodGet, "/no", ""))
	if msg.Message == "" {
		t.Error("expected a message")
	}

	multi := decode[messagesResponse](t, do(t, r, http.MethodGet, "/no/multiple?count=50", ""))
	if len(multi.Messages) != 3 {
		t.Errorf("expected all 3 reasons, got %v", multi.Messages)
	}

	cat := decode[catalog.Categorized](t, do(t, r, http.MethodGet, "/no/category/sarcastic", ""))
	if cat.Message != "C" || cat.Category != "sarcastic" {
		t.Errorf("unexpected categorized %+v", cat)
	}

	cats := decode[categoriesResponse](t, do(t, r, http.MethodGet, "/no/categories", ""))
	if strings.Join(cats.Categories, ",") != "lazy,sarcastic,random" {
		t.Errorf("unexpected categories %v", cats.Categories)
	}

	stats := decode[statsResponse](t, do(t, r, http.MethodGet, "/no/stats", ""))
	if stats.Stats.Total != 3 {
		t.Errorf("unexpected stats %+v", stats.Stats)
	}

	if rec := do(t, r, http.MethodGet, "/no/multiple?count=lots", ""); rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for bad count, got %d", rec.Code)
	}
}

func TestRefreshLikeAndGenerate(t *testing.T) {
	r := newTestRouter(t)

	out := decode[machine.Outcome](t, do(t, r, http.MethodPost, "/api/reason/refresh", ""))
	if !out.Applied || out.State.CurrentReason == "" || len(out.State.Recent) != 1 {
		t.Fatalf("unexpected refresh outcome %+v", out)
	}

	gen := decode[machine.Outcome](t, do(t, r, http.MethodPost, "/api/reason/generate", ""))
	if gen.Applied || gen.Text != gateway.MsgNeedFavorites {
		t.Errorf("expected need-favorites without likes, got %+v", gen)
	}

	like := decode[toggleResponse](t, do(t, r, http.MethodPost, "/api/reason/like", ""))
	if !like.Active || len(like.State.Liked) != 1 {
		t.Fatalf("unexpected like %+v", like)
	}

	gen = decode[machine.Outcome](t, do(t, r, http.MethodPost, "/api/reason/generate", ""))
	if !gen.Applied || gen.State.CurrentReason != "AI says no." {
		t.Errorf("unexpected generate %+v", gen)
	}
}

func TestCollectionMutations(t *testing.T) {
	r := newTestRouter(t)

	st := decode[model.State](t, do(t, r, http.MethodPost, "/api/saved", `{"text":"keep it"}`))
	if len(st.Saved) != 1 || st.Saved[0].Text != "keep it" {
		t.Fatalf("unexpected saved %+v", st.Saved)
	}
	st = decode[model.State](t, do(t, r, http.MethodPost, "/api/saved", `{"text":"keep it"}`))
	if len(st.Saved) != 1 {
		t.Errorf("duplicate save added: %+v", st.Saved)
	}

	st = decode[model.State](t, do(t, r, http.MethodDelete, "/api/saved?text=keep+it", ""))
	if len(st.Saved) != 0 {
		t.Errorf("expected saved empty, got %+v", st.Saved)
	}

	do(t, r, http.MethodPost, "/api/reason/refresh", "")
	st = decode[model.State](t, do(t, r, http.MethodDelete, "/api/recent", ""))
	if len(st.Recent) != 0 {
		t.Errorf("expected recent cleared, got %+v", st.Recent)
	}

	fav := decode[favoritesResponse](t, do(t, r, http.MethodGet, "/api/favorites", ""))
	if len(fav.Favorites) != 0 || fav.CanGenerate {
		t.Errorf("unexpected favorites %+v", fav)
	}
}

func TestMutationValidation(t *testing.T) {
	r := newTestRouter(t)
	tests := []struct {
		method, path, body string
	}{
		{http.MethodPost, "/api/liked", `{"text":"   "}`},
		{http.MethodPost, "/api/liked", `not json`},
		{http.MethodDelete, "/api/liked", ""},
	}
	for _, tt := range tests {
		rec := do(t, r, tt.method, tt.path, tt.body)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s %s %q: expected 400, got %d", tt.method, tt.path, tt.body, rec.Code)
			continue
		}
		env := decode[ErrorEnvelope](t, rec)
		if env.Error.Code != "invalid_text" {
			t.Errorf("unexpected error code %q", env.Error.Code)
		}
	}
}

func TestCORSPreflight(t *testing.T) {
	r := newTestRouter(t)
	req := httptest.NewRequest(http.MethodOptions, "/api/liked", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
		t.Errorf("unexpected allow-origin %q", got)
	}
}
