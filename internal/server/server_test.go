package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/encryptcookie"
	"github.com/volunteerhub/backend/internal/config"
	"github.com/volunteerhub/backend/internal/database"
	"github.com/volunteerhub/backend/internal/storage/storagetest"
	"github.com/volunteerhub/backend/pkg/logger"
	"github.com/volunteerhub/backend/pkg/utils"
	"gorm.io/gorm"
)

func newTestApp(t *testing.T, authPerMinute int) *fiber.App {
	t.Helper()

	logger.Init()
	utils.ConfigureJWT(utils.JWTSettings{AccessSecret: "server-access", RefreshSecret: "server-refresh"})

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed opening sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed getting sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := database.Migrate(db); err != nil {
		t.Fatalf("failed migrating: %v", err)
	}

	cfg := &config.Config{
		Server:    config.ServerConfig{FrontendURL: "http://localhost:5173", BodyLimitMB: 10},
		Cookie:    config.CookieConfig{EncryptionKey: encryptcookie.GenerateKey(), Secure: false},
		Upload:    config.UploadConfig{TempDir: t.TempDir(), MaxImageMB: 1, AllowedMIME: []string{"image/png"}},
		RateLimit: config.RateLimitConfig{AuthPerMinute: authPerMinute},
	}

	return New(Dependencies{Config: cfg, DB: db, Media: storagetest.New(), Version: "9.9.9"})
}

func do(t *testing.T, app *fiber.App, method, path string, payload any, cookies []*http.Cookie) *http.Response {
	t.Helper()

	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("failed encoding payload: %v", err)
		}
		body = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, body)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("request %s %s failed: %v", method, path, err)
	}
	return resp
}

func decode(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close()

	var body map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("failed decoding response: %v", err)
	}
	return body
}

func TestHealthAndVersion(t *testing.T) {
	app := newTestApp(t, 0)

	for _, path := range []string{"/health", APIPrefix + "/health"} {
		resp := do(t, app, http.MethodGet, path, nil, nil)
		body := decode(t, resp)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d", path, resp.StatusCode)
		}
		data, _ := body["data"].(map[string]any)
		if data["status"] != "ok" {
			t.Fatalf("%s: unexpected body %+v", path, body)
		}
	}

	resp := do(t, app, http.MethodGet, APIPrefix+"/version", nil, nil)
	body := decode(t, resp)
	data, _ := body["data"].(map[string]any)
	if data["version"] != "9.9.9" {
		t.Fatalf("unexpected version body %+v", body)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	app := newTestApp(t, 0)

	decode(t, do(t, app, http.MethodGet, "/health", nil, nil))

	resp := do(t, app, http.MethodGet, "/metrics", nil, nil)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	raw, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(raw), "volunteerhub_http_requests_total") {
		t.Fatalf("expected http request counter in exposition, got:\n%s", raw)
	}
}

func TestEventRoutesRequireAuth(t *testing.T) {
	app := newTestApp(t, 0)

	resp := do(t, app, http.MethodGet, APIPrefix+"/events", nil, nil)
	body := decode(t, resp)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
	if body["success"] != false {
		t.Fatalf("expected failure envelope, got %+v", body)
	}
}

func TestEncryptedSessionCookies(t *testing.T) {
	app := newTestApp(t, 0)

	resp := do(t, app, http.MethodPost, APIPrefix+"/users/register", map[string]any{
		"fullName":  "Ada Volunteer",
		"email":     "ada@example.com",
		"password":  "secret1",
		"contactNo": "555-0100",
	}, nil)
	decode(t, resp)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201 on register, got %d", resp.StatusCode)
	}

	resp = do(t, app, http.MethodPost, APIPrefix+"/users/login", map[string]any{
		"email":    "ada@example.com",
		"password": "secret1",
	}, nil)
	body := decode(t, resp)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 on login, got %d", resp.StatusCode)
	}
	data, _ := body["data"].(map[string]any)
	plainAccess, _ := data["accessToken"].(string)

	var session []*http.Cookie
	for _, cookie := range resp.Cookies() {
		if cookie.Name == "accessToken" || cookie.Name == "refreshToken" {
			session = append(session, cookie)
		}
	}
	if len(session) != 2 {
		t.Fatalf("expected both session cookies, got %d", len(session))
	}
	for _, cookie := range session {
		if cookie.Name == "accessToken" && cookie.Value == plainAccess {
			t.Fatal("expected access cookie to be encrypted on the wire")
		}
	}

	resp = do(t, app, http.MethodGet, APIPrefix+"/users/current-user", nil, session)
	body = decode(t, resp)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected encrypted cookie to authenticate, got %d: %+v", resp.StatusCode, body)
	}
	user, _ := body["data"].(map[string]any)
	if user["email"] != "ada@example.com" {
		t.Fatalf("unexpected current user %+v", user)
	}
}

func TestAuthRateLimit(t *testing.T) {
	app := newTestApp(t, 2)

	credentials := map[string]any{"email": "nobody@example.com", "password": "wrong-pass"}
	for i := 0; i < 2; i++ {
		resp := do(t, app, http.MethodPost, APIPrefix+"/users/login", credentials, nil)
		decode(t, resp)
		if resp.StatusCode != http.StatusUnauthorized {
			t.Fatalf("attempt %d: expected 401, got %d", i+1, resp.StatusCode)
		}
	}

	resp := do(t, app, http.MethodPost, APIPrefix+"/users/login", credentials, nil)
	decode(t, resp)
	if resp.StatusCode != http.StatusTooManyRequests {
		t.Fatalf("expected 429 once the limit is spent, got %d", resp.StatusCode)
	}
	if resp.Header.Get("Retry-After") == "" {
		t.Fatal("expected Retry-After header")
	}
}
