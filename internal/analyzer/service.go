package analyzer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ppiankov/morphcorp/internal/tagconv"
	"github.com/ppiankov/morphcorp/internal/util"
	"github.com/ppiankov/morphcorp/internal/worker"
)

// ServiceConfig configures the HTTP analyzer client.
type ServiceConfig struct {
	BaseURL           string
	Timeout           time.Duration
	RequestsPerSecond float64
	Burst             int
	BatchSize         int

	// Proxy overrides the environment proxy settings
	Proxy string
}

// Service calls a pymorphy-style HTTP analyzer that returns OpenCorpora tags.
type Service struct {
	baseURL    string
	httpClient *http.Client
	limiter    *worker.Limiter
	batchSize  int
}

type serviceRequest struct {
	Words []string `json:"words"`
}

type serviceResult struct {
	Text  string `json:"text"`
	Lemma string `json:"lemma"`
	Tag   string `json:"tag"`
}

type serviceResponse struct {
	Results []serviceResult `json:"results"`
}

type serviceError struct {
	Error string `json:"error"`
}

// NewService creates a new HTTP analyzer client
func NewService(config ServiceConfig) (*Service, error) {
	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = "http://localhost:8090"
	}

	timeout := config.Timeout
	if timeout == 0 {
		timeout = 60 * time.Second
	}

	proxy, err := util.ProxyFunc(config.Proxy)
	if err != nil {
		return nil, err
	}

	return &Service{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				Proxy: proxy,
			},
		},
		limiter:   worker.NewLimiter(config.RequestsPerSecond, config.Burst),
		batchSize: config.BatchSize,
	}, nil
}

// Name returns the analyzer name
func (s *Service) Name() string {
	return "service"
}

// Tagset returns the OpenCorpora tagset
func (s *Service) Tagset() tagconv.Tagset {
	return tagconv.TagsetOpenCorpora
}

// Available checks that the service answers its health endpoint
func (s *Service) Available(ctx context.Context) error {
	url := fmt.Sprintf("%s/health", s.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: connection to %s: %v", ErrUnavailable, s.baseURL, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: HTTP %d from %s", ErrUnavailable, resp.StatusCode, s.baseURL)
	}
	return nil
}

// Analyze sends words to the service in batches
func (s *Service) Analyze(ctx context.Context, words []string) ([]Analysis, error) {
	if len(words) == 0 {
		return []Analysis{}, nil
	}

	out := make([]Analysis, 0, len(words))
	for _, batch := range chunk(words, s.batchSize) {
		resp, err := s.makeRequest(ctx, batch)
		if err != nil {
			return nil, fmt.Errorf("analyzer service: %w", err)
		}
		if len(resp.Results) != len(batch) {
			return nil, fmt.Errorf("analyzer service: expected %d results, got %d", len(batch), len(resp.Results))
		}

		for i, r := range resp.Results {
			a := Analysis{Text: batch[i]}
			if r.Tag != "" {
				a.Lemma = r.Lemma
				a.Tag = tagconv.ParseOpenCorporaTag(r.Tag)
			}
			out = append(out, a)
		}
	}
	return out, nil
}

func (s *Service) makeRequest(ctx context.Context, words []string) (*serviceResponse, error) {
	body, err := json.Marshal(serviceRequest{Words: words})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/analyze", s.baseURL)
	if err := s.limiter.Wait(ctx, url); err != nil {
		return nil, fmt.Errorf("rate limit: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := s.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = httpResp.Body.Close() }()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if httpResp.StatusCode != http.StatusOK {
		var apiErr serviceError
		if err := json.Unmarshal(respBody, &apiErr); err == nil && apiErr.Error != "" {
			return nil, fmt.Errorf("API error (%d): %s", httpResp.StatusCode, apiErr.Error)
		}
		return nil, fmt.Errorf("API error (%d): %s", httpResp.StatusCode, string(respBody))
	}

	var resp serviceResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}

	return &resp, nil
}
