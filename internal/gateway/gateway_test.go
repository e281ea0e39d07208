package gateway

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rcliao/nah-machine/internal/catalog"
)

type fakeGenerator struct {
	calls   int
	prompts []string
	reply   string
	err     error
}

func (f *fakeGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	f.calls++
	f.prompts = append(f.prompts, prompt)
	return f.reply, f.err
}

type sourceFunc func(ctx context.Context) (string, error)

func (f sourceFunc) Reason(ctx context.Context) (string, error) { return f(ctx) }

func TestFetchReasonFromCatalog(t *testing.T) {
	cat := catalog.New(map[catalog.Category][]string{catalog.Lazy: {"only one"}})
	g := New(CatalogSource{Catalog: cat}, nil, nil)
	if got := g.FetchReason(context.Background()); got != "only one" {
		t.Errorf("expected catalog reason, got %q", got)
	}
}

func TestFetchReasonFallbacks(t *testing.T) {
	tests := []struct {
		name string
		src  Source
		want string
	}{
		{"error", sourceFunc(func(context.Context) (string, error) { return "", errors.New("down") }), MsgFetchFailed},
		{"empty", sourceFunc(func(context.Context) (string, error) { return "", nil }), MsgNoReason},
		{"empty catalog", CatalogSource{Catalog: catalog.New(nil)}, MsgFetchFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := New(tt.src, nil, nil).FetchReason(context.Background()); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestRemoteSource(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Cache-Control") != "no-cache" {
			t.Errorf("expected no-cache request")
		}
		fmt.Fprint(w, `{"reason":"  Not today.  "}`)
	}))
	defer srv.Close()

	g := New(NewRemoteSource(srv.URL, 0), nil, nil)
	if got := g.FetchReason(context.Background()); got != "Not today." {
		t.Errorf("expected trimmed remote reason, got %q", got)
	}
}

func TestRemoteSourceFailures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		want    string
	}{
		{"status", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusBadGateway) }, MsgFetchFailed},
		{"bad json", func(w http.ResponseWriter, r *http.Request) { fmt.Fprint(w, "<html>") }, MsgFetchFailed},
		{"missing field", func(w http.ResponseWriter, r *http.Request) { fmt.Fprint(w, `{"other":"x"}`) }, MsgNoReason},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()
			if got := New(NewRemoteSource(srv.URL, 0), nil, nil).FetchReason(context.Background()); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestGenerateWithoutKey(t *testing.T) {
	g := New(CatalogSource{}, nil, nil)
	if got := g.GenerateSimilarReason(context.Background(), []string{"x"}); got != MsgAIUnavailable {
		t.Errorf("expected unavailable message, got %q", got)
	}
	if g.CanGenerate() {
		t.Error("expected CanGenerate false")
	}
}

func TestGenerateEmptyInputSkipsNetwork(t *testing.T) {
	gen := &fakeGenerator{reply: "unused"}
	g := New(CatalogSource{}, gen, nil)

	for _, in := range [][]string{nil, {}, {"  ", ""}} {
		if got := g.GenerateSimilarReason(context.Background(), in); got != MsgNeedFavorites {
			t.Errorf("expected need-favorites message, got %q", got)
		}
	}
	if gen.calls != 0 {
		t.Errorf("expected no generator calls, got %d", gen.calls)
	}
}

func TestGenerateUsesAtMostFiveExamples(t *testing.T) {
	gen := &fakeGenerator{reply: "  Nah, my calendar says no.\n"}
	g := New(CatalogSource{}, gen, nil)

	in := []string{"one", "two", "three", "four", "five", "six", "seven"}
	got := g.GenerateSimilarReason(context.Background(), in)
	if got != "Nah, my calendar says no." {
		t.Errorf("expected trimmed reply, got %q", got)
	}
	if gen.calls != 1 {
		t.Fatalf("expected exactly one call, got %d", gen.calls)
	}
	prompt := gen.prompts[0]
	if !strings.Contains(prompt, "- one\n- two\n- three\n- four\n- five") {
		t.Errorf("examples missing from prompt:\n%s", prompt)
	}
	if strings.Contains(prompt, "six") {
		t.Error("prompt should not include a sixth example")
	}
	if !strings.Contains(prompt, "5-20 words") {
		t.Error("prompt should carry the length instruction")
	}
}

func TestGenerateSkipsBlankExamplesBeforeLimit(t *testing.T) {
	gen := &fakeGenerator{reply: "No."}
	g := New(CatalogSource{}, gen, nil)

	g.GenerateSimilarReason(context.Background(), []string{"  ", "a", "b", "c", "d", "e"})
	if len(gen.prompts) != 1 {
		t.Fatalf("expected one prompt, got %d", len(gen.prompts))
	}
	prompt := gen.prompts[0]
	if !strings.Contains(prompt, "- a\n- b\n- c\n- d\n- e\n") {
		t.Errorf("expected five non-blank examples:\n%s", prompt)
	}
	if strings.Contains(prompt, "-   \n") || strings.Contains(prompt, "- \n") {
		t.Errorf("blank example leaked into prompt:\n%s", prompt)
	}
}

func TestGenerateFailureReturnsApology(t *testing.T) {
	for _, gen := range []*fakeGenerator{{err: errors.New("quota")}, {reply: "   "}} {
		g := New(CatalogSource{}, gen, nil)
		if got := g.GenerateSimilarReason(context.Background(), []string{"x"}); got != MsgGenerateFailed {
			t.Errorf("expected apology, got %q", got)
		}
		if gen.calls != 1 {
			t.Errorf("expected a single attempt, got %d", gen.calls)
		}
	}
}
