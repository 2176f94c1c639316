package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"devconnector/internal/app"
	"devconnector/internal/config"
)

type semanticResponse struct {
	Status  int             `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type profileData struct {
	Skills     []string `json:"skills"`
	Experience []struct {
		ID    string `json:"_id"`
		Title string `json:"title"`
	} `json:"experience"`
}

func TestIntegration_Postgres_ProfileAndPosts(t *testing.T) {
	runAggregateScenario(t, testConfig(t, config.StorePostgres))
}

func TestIntegration_Mongo_ProfileAndPosts(t *testing.T) {
	runAggregateScenario(t, testConfig(t, config.StoreMongo))
}

func runAggregateScenario(t *testing.T, cfg config.Config) {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	a, cleanup, err := app.Bootstrap(ctx, cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("bootstrap: %v", err)
	}
	defer func() { _ = cleanup() }()

	alice := registerUser(t, a, "Alice")
	bob := registerUser(t, a, "Bob")
	defer call(t, a, http.MethodDelete, "/api/profile", alice, nil)
	defer call(t, a, http.MethodDelete, "/api/profile", bob, nil)

	sr := call(t, a, http.MethodPost, "/api/profile", alice, map[string]string{"status": "Developer", "skills": "go, sql"})
	if sr.Status != http.StatusOK {
		t.Fatalf("create profile: %d %s", sr.Status, sr.Message)
	}

	const n = 10
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			call(t, a, http.MethodPut, "/api/profile/experience", alice, map[string]any{
				"title": fmt.Sprintf("job-%d", i), "company": "Acme", "from": "2020-01-01",
			})
		}(i)
	}
	wg.Wait()

	sr = call(t, a, http.MethodGet, "/api/profile/me", alice, nil)
	var p profileData
	mustDecode(t, sr.Data, &p)
	if len(p.Experience) != n {
		t.Fatalf("concurrent prepends lost entries: got %d, want %d", len(p.Experience), n)
	}
	if len(p.Skills) != 2 {
		t.Fatalf("unexpected skills: %v", p.Skills)
	}

	removed := p.Experience[0].ID
	sr = call(t, a, http.MethodDelete, "/api/profile/experience/"+removed, alice, nil)
	mustDecode(t, sr.Data, &p)
	if len(p.Experience) != n-1 {
		t.Fatalf("remove: got %d entries", len(p.Experience))
	}
	for _, e := range p.Experience {
		if e.ID == removed {
			t.Fatalf("entry %s still present", removed)
		}
	}

	sr = call(t, a, http.MethodPost, "/api/posts", alice, map[string]string{"text": "hello"})
	var post struct {
		ID string `json:"_id"`
	}
	mustDecode(t, sr.Data, &post)

	if sr = call(t, a, http.MethodDelete, "/api/posts/"+post.ID, bob, nil); sr.Status != http.StatusUnauthorized {
		t.Fatalf("non-owner delete: %d", sr.Status)
	}
	if sr = call(t, a, http.MethodGet, "/api/posts/"+post.ID, bob, nil); sr.Status != http.StatusOK {
		t.Fatalf("post should survive: %d", sr.Status)
	}

	if sr = call(t, a, http.MethodDelete, "/api/profile", alice, nil); sr.Status != http.StatusOK {
		t.Fatalf("delete self: %d", sr.Status)
	}
	if sr = call(t, a, http.MethodGet, "/api/posts/"+post.ID, bob, nil); sr.Status != http.StatusNotFound {
		t.Fatalf("posts should go with their author: %d", sr.Status)
	}
}

func testConfig(t *testing.T, store string) config.Config {
	t.Helper()

	host := os.Getenv("DEVCONNECTOR_TEST_DB_HOST")
	port := os.Getenv("DEVCONNECTOR_TEST_DB_PORT")
	name := os.Getenv("DEVCONNECTOR_TEST_DB_NAME")
	user := os.Getenv("DEVCONNECTOR_TEST_DB_USER")
	if host == "" || port == "" || name == "" || user == "" {
		t.Skip("missing test DB env vars: set DEVCONNECTOR_TEST_DB_HOST/PORT/NAME/USER/PASSWORD")
	}

	cfg := config.Config{
		App:   config.AppConfig{AppName: "devconnector-it", Environment: "test"},
		Store: config.StoreConfig{Aggregates: store},
		Database: config.DatabaseConfig{
			DBHost:         host,
			DBPort:         port,
			DBName:         name,
			DBUser:         user,
			DBPassword:     os.Getenv("DEVCONNECTOR_TEST_DB_PASSWORD"),
			DBSSLMode:      stringsOrDefault(os.Getenv("DEVCONNECTOR_TEST_DB_SSL_MODE"), "disable"),
			ConnectTimeout: 5 * time.Second,
			Migrate:        true,
		},
		JWT: config.JWTConfig{Secret: "integration-secret", ExpiresIn: time.Hour},
	}

	if store == config.StoreMongo {
		url := os.Getenv("DEVCONNECTOR_TEST_MONGO_URL")
		if url == "" {
			t.Skip("missing DEVCONNECTOR_TEST_MONGO_URL")
		}
		cfg.Mongo = config.MongoConfig{URL: url, Database: "devconnector_it"}
	}
	return cfg
}

func registerUser(t *testing.T, a *app.App, name string) string {
	t.Helper()

	email := fmt.Sprintf("%s-%s@example.com", name, uuid.NewString()[:8])
	sr := call(t, a, http.MethodPost, "/api/users", "", map[string]string{
		"name": name, "email": email, "password": "password",
	})
	if sr.Status != http.StatusOK {
		t.Fatalf("register %s: %d %s", email, sr.Status, sr.Message)
	}

	var data struct {
		Token string `json:"token"`
	}
	mustDecode(t, sr.Data, &data)
	return data.Token
}

func call(t *testing.T, a *app.App, method, path, token string, body any) semanticResponse {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("x-auth-token", token)
	}

	resp, err := a.Fiber.Test(req)
	if err != nil {
		t.Errorf("%s %s: %v", method, path, err)
		return semanticResponse{}
	}
	defer resp.Body.Close()

	var sr semanticResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		t.Errorf("%s %s: decode: %v", method, path, err)
	}
	return sr
}

func mustDecode(t *testing.T, raw json.RawMessage, out any) {
	t.Helper()
	if err := json.Unmarshal(raw, out); err != nil {
		t.Fatalf("decode %s: %v", string(raw), err)
	}
}

func stringsOrDefault(v, def string) string {
	if v != "" {
		return v
	}
	return def
}
