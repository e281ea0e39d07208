package gemini

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestNewRequiresKey(t *testing.T) {
	if _, err := New(Config{}); err == nil {
		t.Fatal("expected error without api key")
	}
	c, err := New(Config{APIKey: "k"})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if c.Model() != DefaultModel {
		t.Errorf("expected default model, got %s", c.Model())
	}
}

func TestGenerate(t *testing.T) {
	var got generateRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1beta/models/gemini-2.0-flash:generateContent" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("x-goog-api-key") != "secret" {
			t.Errorf("missing api key header")
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"No, "},{"text":"never.\n"}]}}]}`))
	}))
	defer srv.Close()

	c, _ := New(Config{APIKey: "secret", BaseURL: srv.URL})
	text, err := c.Generate(context.Background(), "say no")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if text != "No, never.\n" {
		t.Errorf("unexpected text %q", text)
	}

	if len(got.Contents) != 1 || got.Contents[0].Parts[0].Text != "say no" {
		t.Errorf("prompt not sent: %+v", got.Contents)
	}
	if len(got.SafetySettings) != 4 {
		t.Fatalf("expected 4 safety settings, got %d", len(got.SafetySettings))
	}
	cats := map[string]bool{}
	for _, s := range got.SafetySettings {
		if s.Threshold != BlockNone {
			t.Errorf("expected BLOCK_NONE for %s, got %s", s.Category, s.Threshold)
		}
		cats[s.Category] = true
	}
	for _, c := range []string{HarmDangerousContent, HarmHateSpeech, HarmHarassment, HarmSexuallyExplicit} {
		if !cats[c] {
			t.Errorf("missing safety category %s", c)
		}
	}
}

func TestGenerateErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   string
	}{
		{"http error", http.StatusTooManyRequests, `{"error":"quota"}`, "429"},
		{"blocked", http.StatusOK, `{"promptFeedback":{"blockReason":"OTHER"}}`, "blocked"},
		{"no candidates", http.StatusOK, `{"candidates":[]}`, "no candidates"},
		{"bad json", http.StatusOK, `nope`, "decode"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			c, _ := New(Config{APIKey: "k", BaseURL: srv.URL})
			_, err := c.Generate(context.Background(), "p")
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}
