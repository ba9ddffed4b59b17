// Package catalog reads the provider's model capability listing.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/bryanwahyu/satyacheck/internal/domain/ai"
)

const (
	pageSize = 1000
	maxPages = 5
)

type listResponse struct {
	Models        []ai.ModelInfo `json:"models"`
	NextPageToken string         `json:"nextPageToken"`
}

// Lister implements ai.ModelLister against GET {endpoint} with the key in x-goog-api-key.
type Lister struct {
	endpoint string
	client   *http.Client
}

func NewLister(endpoint string, client *http.Client) *Lister {
	if client == nil {
		client = http.DefaultClient
	}
	return &Lister{endpoint: endpoint, client: client}
}

// ListModels follows pagination up to a fixed page count. Any non-200 or
// undecodable page fails the whole listing.
func (l *Lister) ListModels(ctx context.Context, apiKey string) ([]ai.ModelInfo, error) {
	var (
		all   []ai.ModelInfo
		token string
	)
	for page := 0; page < maxPages; page++ {
		resp, err := l.page(ctx, apiKey, token)
		if err != nil {
			return nil, err
		}
		all = append(all, resp.Models...)
		if resp.NextPageToken == "" {
			break
		}
		token = resp.NextPageToken
	}
	return all, nil
}

func (l *Lister) page(ctx context.Context, apiKey, token string) (*listResponse, error) {
	u, err := url.Parse(l.endpoint)
	if err != nil {
		return nil, fmt.Errorf("catalog endpoint: %w", err)
	}
	q := u.Query()
	q.Set("pageSize", fmt.Sprint(pageSize))
	if token != "" {
		q.Set("pageToken", token)
	}
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	// kept out of the URL so transport errors never quote it
	req.Header.Set("x-goog-api-key", apiKey)
	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("list models: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("list models: status %d: %s", resp.StatusCode, body)
	}
	var out listResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("list models: decode: %w", err)
	}
	return &out, nil
}
