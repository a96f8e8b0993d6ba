package analyzer

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os/exec"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppiankov/morphcorp/internal/cache"
	"github.com/ppiankov/morphcorp/internal/model"
	"github.com/ppiankov/morphcorp/internal/tagconv"
)

func TestChunk(t *testing.T) {
	words := []string{"a", "b", "c", "d", "e"}

	assert.Equal(t, [][]string{words}, chunk(words, 0))
	assert.Equal(t, [][]string{words}, chunk(words, 10))
	assert.Equal(t, [][]string{{"a", "b"}, {"c", "d"}, {"e"}}, chunk(words, 2))
}

func TestDecodeMystem(t *testing.T) {
	output := strings.Join([]string{
		`{"analysis":[{"lex":"мама","gr":"S,жен,од=им,ед"}],"text":"мама"}`,
		`{"text":"\n"}`,
		`{"analysis":[{"lex":"мыть","gr":"V,несов,пе=прош,ед,изъяв,жен"}],"text":"мыла"}`,
		`{"text":"\n"}`,
		`{"analysis":[],"text":"qwzx"}`,
		`{"text":"\n"}`,
		`[{"analysis":[{"lex":"abc","gr":"NONLEX="}],"text":"abc"},{"text":"123"}]`,
		`{"text":"\n"}`,
	}, "\n")

	got, err := decodeMystem(strings.NewReader(output), []string{"мама", "мыла", "qwzx", "abc123"})
	require.NoError(t, err)
	require.Len(t, got, 4)

	assert.Equal(t, "мама", got[0].Lemma)
	assert.Equal(t, tagconv.MystemTag("S,жен,од=им,ед"), got[0].Tag)
	assert.Equal(t, "мыть", got[1].Lemma)
	assert.False(t, got[2].Found())
	assert.Equal(t, "qwzx", got[2].Text)
	assert.True(t, got[3].Found())
	assert.Equal(t, "abc123", got[3].Text)
}

func TestDecodeMystem_ShortOutput(t *testing.T) {
	got, err := decodeMystem(strings.NewReader(`{"analysis":[{"lex":"да","gr":"PART="}],"text":"да"}`), []string{"да", "нет"})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.True(t, got[0].Found())
	assert.False(t, got[1].Found())
}

func TestDecodeMystem_Malformed(t *testing.T) {
	_, err := decodeMystem(strings.NewReader(`{"text":`), []string{"x"})
	assert.Error(t, err)
}

func TestMystem_Binary(t *testing.T) {
	if _, err := exec.LookPath("mystem"); err != nil {
		t.Skip("mystem binary not installed")
	}

	m := NewMystem("mystem", 30*time.Second, 0)
	got, err := m.Analyze(context.Background(), []string{"мама", "мыла", "раму"})
	require.NoError(t, err)
	require.Len(t, got, 3)

	c := tagconv.NewMystemConverter()
	assert.Equal(t, "NOUN", c.ConvertPOS(got[0].Tag))
	assert.Equal(t, "VERB", c.ConvertPOS(got[1].Tag))
}

func TestMystem_Unavailable(t *testing.T) {
	m := NewMystem("/nonexistent/mystem", time.Second, 0)
	assert.True(t, errors.Is(m.Available(context.Background()), ErrUnavailable))

	_, err := m.Analyze(context.Background(), []string{"слово"})
	assert.Error(t, err)
}

func newTestService(t *testing.T, handler http.HandlerFunc) *Service {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	s, err := NewService(ServiceConfig{BaseURL: server.URL, Timeout: 5 * time.Second, RequestsPerSecond: 1000, Burst: 10})
	require.NoError(t, err)
	return s
}

func TestService_Analyze(t *testing.T) {
	s := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/analyze" {
			t.Errorf("expected path /analyze, got %s", r.URL.Path)
		}
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}

		var req serviceRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		resp := serviceResponse{}
		for _, w := range req.Words {
			switch w {
			case "мама":
				resp.Results = append(resp.Results, serviceResult{Text: w, Lemma: "мама", Tag: "NOUN,anim,femn sing,nomn"})
			default:
				resp.Results = append(resp.Results, serviceResult{Text: w})
			}
		}
		_ = json.NewEncoder(w).Encode(resp)
	})

	got, err := s.Analyze(context.Background(), []string{"мама", "zzz"})
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "мама", got[0].Lemma)
	q, ok := got[0].Tag.(tagconv.GrammemeQuerier)
	require.True(t, ok)
	assert.Equal(t, "femn", q.Grammeme("Gender"))
	assert.False(t, got[1].Found())
	assert.Equal(t, tagconv.TagsetOpenCorpora, s.Tagset())
}

func TestService_Batches(t *testing.T) {
	var requests int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&requests, 1)
		var req serviceRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		resp := serviceResponse{}
		for _, w := range req.Words {
			resp.Results = append(resp.Results, serviceResult{Text: w, Lemma: w, Tag: "NOUN"})
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	s, err := NewService(ServiceConfig{BaseURL: server.URL, BatchSize: 2, RequestsPerSecond: 1000, Burst: 10})
	require.NoError(t, err)
	got, err := s.Analyze(context.Background(), []string{"a", "b", "c", "d", "e"})
	require.NoError(t, err)
	assert.Len(t, got, 5)
	assert.Equal(t, int32(3), atomic.LoadInt32(&requests))
	assert.Equal(t, "e", got[4].Lemma)
}

func TestService_APIError(t *testing.T) {
	s := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error": "model not loaded"}`))
	})

	_, err := s.Analyze(context.Background(), []string{"мама"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "model not loaded")
}

func TestService_ResultCountMismatch(t *testing.T) {
	s := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"results":[]}`))
	})

	_, err := s.Analyze(context.Background(), []string{"мама"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected 1 results")
}

func TestService_MalformedJSON(t *testing.T) {
	s := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{malformed json`))
	})

	_, err := s.Analyze(context.Background(), []string{"мама"})
	assert.Error(t, err)
}

func TestService_Available(t *testing.T) {
	s := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	})
	assert.NoError(t, s.Available(context.Background()))

	down, err := NewService(ServiceConfig{BaseURL: "http://127.0.0.1:1", Timeout: time.Second})
	require.NoError(t, err)
	assert.True(t, errors.Is(down.Available(context.Background()), ErrUnavailable))
}

// countingAnalyzer returns a fixed Mystem noun for every word and counts words seen.
type countingAnalyzer struct {
	words int32
}

func (a *countingAnalyzer) Name() string                        { return "fake" }
func (a *countingAnalyzer) Tagset() tagconv.Tagset              { return tagconv.TagsetMystem }
func (a *countingAnalyzer) Available(ctx context.Context) error { return nil }

func (a *countingAnalyzer) Analyze(ctx context.Context, words []string) ([]Analysis, error) {
	atomic.AddInt32(&a.words, int32(len(words)))
	out := make([]Analysis, len(words))
	for i, w := range words {
		out[i] = Analysis{Text: w}
		if w != "zzz" {
			out[i].Lemma = w
			out[i].Tag = tagconv.MystemTag("S,жен,неод=им,ед")
		}
	}
	return out, nil
}

func TestCached(t *testing.T) {
	inner := &countingAnalyzer{}
	c := NewCached(inner, cache.NewMemoryCache(time.Minute, time.Minute), 0)

	first, err := c.Analyze(context.Background(), []string{"рама", "рама", "zzz"})
	require.NoError(t, err)
	require.Len(t, first, 3)
	assert.Equal(t, int32(2), atomic.LoadInt32(&inner.words), "duplicates are analyzed once")

	second, err := c.Analyze(context.Background(), []string{"zzz", "рама"})
	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&inner.words), "second call is served from cache")

	assert.False(t, second[0].Found())
	assert.True(t, second[1].Found())
	assert.Equal(t, "рама", second[1].Lemma)
	assert.Equal(t, tagconv.MystemTag("S,жен,неод=им,ед"), second[1].Tag)
	assert.Equal(t, first[0], second[1])
}

func TestNew(t *testing.T) {
	a, err := New(model.AnalyzerConfig{Kind: "mystem"})
	require.NoError(t, err)
	assert.Equal(t, "mystem", a.Name())

	a, err = New(model.AnalyzerConfig{Kind: "service", ServiceURL: "http://localhost:9999"})
	require.NoError(t, err)
	assert.Equal(t, "service", a.Name())

	_, err = New(model.AnalyzerConfig{Kind: "service", Proxy: "proxy-without-scheme"})
	assert.Error(t, err)

	_, err = New(model.AnalyzerConfig{Kind: "stanza"})
	assert.Error(t, err)
}

func TestNewFromConfig(t *testing.T) {
	cfg := model.DefaultConfig()
	cfg.Cache.Dir = t.TempDir()

	a, err := NewFromConfig(cfg)
	require.NoError(t, err)
	assert.IsType(t, &Cached{}, a)

	cfg.Cache.Enabled = false
	a, err = NewFromConfig(cfg)
	require.NoError(t, err)
	assert.IsType(t, &Mystem{}, a)
}
