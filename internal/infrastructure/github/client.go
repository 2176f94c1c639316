package github

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker"

	"devconnector/internal/config"
)

const (
	reposPerPage   = 5
	cacheKeyPrefix = "github:repos:"
)

var ErrNotFound = errors.New("github user not found")

type Repo struct {
	ID              int64     `json:"id"`
	Name            string    `json:"name"`
	FullName        string    `json:"full_name"`
	HTMLURL         string    `json:"html_url"`
	Description     string    `json:"description"`
	Language        string    `json:"language"`
	StargazersCount int       `json:"stargazers_count"`
	WatchersCount   int       `json:"watchers_count"`
	ForksCount      int       `json:"forks_count"`
	CreatedAt       time.Time `json:"created_at"`
}

// Cache is the subset of the redis cache the client needs.
type Cache interface {
	GetJSON(ctx context.Context, key string, out any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
}

type Client struct {
	baseURL string
	token   string
	http    *http.Client
	cb      *gobreaker.CircuitBreaker
	cache   Cache
	log     zerolog.Logger
}

func NewClient(cfg config.GitHubConfig, cache Cache, log zerolog.Logger) *Client {
	log = log.With().Str("component", "github").Logger()

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	settings := gobreaker.Settings{
		Name:        "github-api",
		MaxRequests: 3,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.ConsecutiveFailures > 5 ||
				(counts.Requests >= 10 && failureRatio >= 0.6)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("circuit breaker state changed")
		},
		// Unknown users do not count against the breaker.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrNotFound)
		},
	}

	return &Client{
		baseURL: strings.TrimRight(strings.TrimSpace(cfg.APIURL), "/"),
		token:   strings.TrimSpace(cfg.Token),
		http:    &http.Client{Timeout: timeout},
		cb:      gobreaker.NewCircuitBreaker(settings),
		cache:   cache,
		log:     log,
	}
}

// ListRepos returns the most recently created public repositories of
// username. GitHub logins are case-insensitive, so the name is lowercased
// for both the request and the cache key. Cache failures only cost a fetch.
func (c *Client) ListRepos(ctx context.Context, username string) ([]Repo, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	if username == "" {
		return nil, ErrNotFound
	}

	key := cacheKeyPrefix + username
	if c.cache != nil {
		var cached []Repo
		hit, err := c.cache.GetJSON(ctx, key, &cached)
		if err != nil {
			c.log.Debug().Err(err).Str("key", key).Msg("cache read failed")
		}
		if hit {
			return cached, nil
		}
	}

	out, err := c.cb.Execute(func() (any, error) {
		return c.fetch(ctx, username)
	})
	if err != nil {
		return nil, err
	}
	repos := out.([]Repo)

	if c.cache != nil {
		if err := c.cache.SetJSON(ctx, key, repos, 0); err != nil {
			c.log.Debug().Err(err).Str("key", key).Msg("cache write failed")
		}
	}
	return repos, nil
}

func (c *Client) fetch(ctx context.Context, username string) ([]Repo, error) {
	q := url.Values{}
	q.Set("per_page", fmt.Sprint(reposPerPage))
	q.Set("sort", "created")
	q.Set("direction", "desc")
	endpoint := c.baseURL + "/users/" + url.PathEscape(username) + "/repos?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("User-Agent", "devconnector")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		rb, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		bodyStr := strings.TrimSpace(string(rb))
		c.log.Error().Str("endpoint", endpoint).Int("status", resp.StatusCode).Str("body", bodyStr).Msg("github request failed")
		return nil, fmt.Errorf("github repos: status=%d", resp.StatusCode)
	}

	repos := []Repo{}
	if err := json.NewDecoder(resp.Body).Decode(&repos); err != nil {
		return nil, err
	}
	return repos, nil
}
