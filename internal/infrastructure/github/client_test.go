package github

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"devconnector/internal/config"
)

type mapCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func (m *mapCache) GetJSON(_ context.Context, key string, out any) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, out)
}

func (m *mapCache) SetJSON(_ context.Context, key string, value any, _ time.Duration) error {
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = b
	return nil
}

func TestListRepos_FetchesAndCaches(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if r.URL.Path != "/users/octocat/repos" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.URL.Query().Get("per_page") != "5" {
			t.Errorf("unexpected query %s", r.URL.RawQuery)
		}
		if r.Header.Get("Authorization") != "Bearer tok" {
			t.Errorf("missing token header")
		}
		_ = json.NewEncoder(w).Encode([]Repo{{ID: 1, Name: "hello-world", HTMLURL: "https://github.com/octocat/hello-world"}})
	}))
	defer srv.Close()

	c := NewClient(config.GitHubConfig{APIURL: srv.URL + "/", Token: "tok", Timeout: time.Second}, &mapCache{data: map[string][]byte{}}, zerolog.Nop())

	for _, name := range []string{"Octocat", "octocat"} {
		repos, err := c.ListRepos(context.Background(), name)
		if err != nil {
			t.Fatalf("list repos: %v", err)
		}
		if len(repos) != 1 || repos[0].Name != "hello-world" {
			t.Fatalf("unexpected repos: %+v", repos)
		}
	}
	if hits.Load() != 1 {
		t.Fatalf("second call should come from cache, got %d upstream hits", hits.Load())
	}
}

func TestListRepos_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"Not Found"}`, http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewClient(config.GitHubConfig{APIURL: srv.URL}, nil, zerolog.Nop())

	// More misses than the breaker tolerates; none of them may open it.
	for i := 0; i < 8; i++ {
		if _, err := c.ListRepos(context.Background(), "ghost"); !errors.Is(err, ErrNotFound) {
			t.Fatalf("call %d: expected not found, got %v", i, err)
		}
	}
}

func TestListRepos_UpstreamFailureOpensBreaker(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient(config.GitHubConfig{APIURL: srv.URL}, nil, zerolog.Nop())

	var lastErr error
	for i := 0; i < 10; i++ {
		_, lastErr = c.ListRepos(context.Background(), "octocat")
		if lastErr == nil {
			t.Fatalf("expected failure")
		}
	}
	if int(hits.Load()) >= 10 {
		t.Fatalf("breaker should have stopped upstream calls, got %d hits", hits.Load())
	}
}
