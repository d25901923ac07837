package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jmoiron/sqlx"

	"hospot/internal/apiclient"
	"hospot/internal/auth"
	"hospot/internal/config"
	applog "hospot/internal/log"
	"hospot/internal/notify"
	"hospot/internal/repos"
	"hospot/internal/server"
)

const adminToken = "test-admin-token"

func testConfig() config.Config {
	return config.Config{
		DBDSN:         ":memory:",
		AdminToken:    adminToken,
		SessionSecret: "test-secret",
		TemplatesDir:  "../../web/templates",
		StaticDir:     "../../web/static",
	}
}

// startAPI serves the REST backend on a loopback port and returns its /api base URL.
func startAPI(t *testing.T) (*sqlx.DB, string) {
	t.Helper()
	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	app := server.NewAPI(testConfig(), db, notify.LogNotifier{})
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	go func() { _ = app.Listener(ln) }()
	t.Cleanup(func() {
		_ = app.Shutdown()
		_ = db.Close()
	})
	return db, "http://" + ln.Addr().String() + "/api"
}

// newWebApp wires the web app against a fresh API with cookie sessions.
func newWebApp(t *testing.T, opts server.WebOptions) (*fiber.App, *sqlx.DB) {
	t.Helper()
	db, base := startAPI(t)
	cfg := testConfig()
	client := apiclient.New(base, 5*time.Second)
	app := server.NewWeb(cfg, client, auth.CookieFactory(cfg.SessionSecret, auth.CookieOptions{}), opts)
	return app, db
}

// browser keeps cookies between requests like a real user agent.
type browser struct {
	t       *testing.T
	app     *fiber.App
	cookies map[string]string
}

func newBrowser(t *testing.T, app *fiber.App) *browser {
	return &browser{t: t, app: app, cookies: map[string]string{}}
}

func (b *browser) do(req *http.Request) *http.Response {
	b.t.Helper()
	for name, v := range b.cookies {
		req.AddCookie(&http.Cookie{Name: name, Value: v})
	}
	resp, err := b.app.Test(req, -1)
	if err != nil {
		b.t.Fatalf("%s %s: %v", req.Method, req.URL, err)
	}
	for _, c := range resp.Cookies() {
		if c.Value == "" || c.MaxAge < 0 || (!c.Expires.IsZero() && c.Expires.Before(time.Now())) {
			delete(b.cookies, c.Name)
			continue
		}
		b.cookies[c.Name] = c.Value
	}
	return resp
}

func (b *browser) get(path string) *http.Response {
	return b.do(httptest.NewRequest("GET", path, nil))
}

// post submits form with the current CSRF token, fetching one first if needed.
func (b *browser) post(path string, form url.Values) *http.Response {
	b.t.Helper()
	if b.cookies["csrf_"] == "" {
		b.get("/login")
		if b.cookies["csrf_"] == "" {
			b.t.Fatal("csrf token missing")
		}
	}
	if form == nil {
		form = url.Values{}
	}
	form.Set("csrf", b.cookies["csrf_"])
	req := httptest.NewRequest("POST", path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return b.do(req)
}

func (b *browser) login(name, email string) {
	b.t.Helper()
	resp := b.post("/login", url.Values{"name": {name}, "email": {email}, "password": {"Passw0rd!"}})
	if resp.StatusCode != http.StatusFound {
		b.t.Fatalf("login: status %d body=%s", resp.StatusCode, body(resp))
	}
}

func body(resp *http.Response) string {
	b, _ := io.ReadAll(resp.Body)
	return string(b)
}

type logEntry struct {
	Level  string         `json:"level"`
	Action string         `json:"action"`
	User   string         `json:"user"`
	Fields map[string]any `json:"fields"`
}

type lockedBuf struct {
	mu sync.Mutex
	b  bytes.Buffer
}

func (l *lockedBuf) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.b.Write(p)
}

func (l *lockedBuf) String() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.b.String()
}

// captureLogs collects the JSON log lines written while fn runs.
func captureLogs(t *testing.T, fn func()) []logEntry {
	t.Helper()
	buf := &lockedBuf{}
	restore := applog.SetOutput(buf)
	defer restore()

	fn()

	var entries []logEntry
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		var e logEntry
		if err := json.Unmarshal([]byte(line), &e); err == nil {
			entries = append(entries, e)
		}
	}
	return entries
}

func findLog(entries []logEntry, action string) (logEntry, bool) {
	for _, e := range entries {
		if e.Action == action {
			return e, true
		}
	}
	return logEntry{}, false
}
