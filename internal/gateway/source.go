package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rcliao/nah-machine/internal/catalog"
)

// DefaultRemoteURL is the public "no as a service" endpoint.
const DefaultRemoteURL = "https://naas.isalman.dev/no"

// Source produces a single reason. An empty string with a nil error means the
// source answered without a reason.
type Source interface {
	Reason(ctx context.Context) (string, error)
}

// CatalogSource draws reasons from the built-in catalog.
type CatalogSource struct {
	Catalog *catalog.Catalog
}

func (s CatalogSource) Reason(ctx context.Context) (string, error) {
	return s.Catalog.PickRandom()
}

// RemoteSource fetches a reason from an HTTP endpoint returning {"reason": "..."}.
type RemoteSource struct {
	url    string
	client *http.Client
}

type remoteResponse struct {
	Reason string `json:"reason"`
}

// NewRemoteSource creates a source for url. Empty url means DefaultRemoteURL.
func NewRemoteSource(url string, timeout time.Duration) *RemoteSource {
	if url == "" {
		url = DefaultRemoteURL
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &RemoteSource{url: url, client: &http.Client{Timeout: timeout}}
}

func (s *RemoteSource) Reason(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("reason request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("reason API responded with status %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
	}

	var result remoteResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("decode reason response: %w", err)
	}
	return strings.TrimSpace(result.Reason), nil
}
