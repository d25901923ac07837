package auth_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cucumber/godog"
	"github.com/gofiber/fiber/v2"

	"hospot/internal/auth"
	"hospot/internal/domain"
)

type sessionTestContext struct {
	store *auth.MemoryStorage
	sess  *auth.Session
}

func (s *sessionTestContext) reset() {
	s.store = auth.NewMemoryStorage()
	s.sess = nil
}

func (s *sessionTestContext) session() (*auth.Session, error) {
	if s.sess == nil {
		return s.reload()
	}
	return s.sess, nil
}

func (s *sessionTestContext) reload() (*auth.Session, error) {
	sess, err := auth.Restore(s.store)
	if err != nil {
		return nil, err
	}
	s.sess = sess
	return sess, nil
}

func (s *sessionTestContext) anEmptySessionStore() error {
	s.reset()
	return nil
}

func (s *sessionTestContext) theStoreHoldsUnderTheUserKey(raw string) error {
	return s.store.Set(auth.UserKey, raw)
}

func (s *sessionTestContext) logsInWithEmail(name, email string) error {
	sess, err := s.session()
	if err != nil {
		return err
	}
	return sess.Login(domain.User{Name: name, Email: email})
}

func (s *sessionTestContext) theUserLogsOut() error {
	sess, err := s.session()
	if err != nil {
		return err
	}
	return sess.Logout()
}

func (s *sessionTestContext) theAppIsReloaded() error {
	_, err := s.reload()
	return err
}

func (s *sessionTestContext) theSessionIsAuthenticatedAs(email string) error {
	sess, err := s.session()
	if err != nil {
		return err
	}
	u, ok := sess.User()
	if !ok || !sess.IsAuthenticated() {
		return fmt.Errorf("expected an authenticated session")
	}
	if u.Email != email {
		return fmt.Errorf("expected user %q, got %q", email, u.Email)
	}
	return nil
}

func (s *sessionTestContext) theSessionIsNotAuthenticated() error {
	sess, err := s.session()
	if err != nil {
		return err
	}
	if sess.IsAuthenticated() {
		return fmt.Errorf("expected a logged-out session")
	}
	return nil
}

func (s *sessionTestContext) theStoredRecordNames(name string) error {
	raw, ok, err := s.store.Get(auth.UserKey)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("no stored record")
	}
	var rec struct {
		User domain.User `json:"user"`
	}
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		return fmt.Errorf("stored record is not json: %w", err)
	}
	if rec.User.Name != name {
		return fmt.Errorf("stored name %q, want %q", rec.User.Name, name)
	}
	return nil
}

func (s *sessionTestContext) theStoreHasNoUserRecord() error {
	if _, ok, _ := s.store.Get(auth.UserKey); ok {
		return fmt.Errorf("user record still stored")
	}
	return nil
}

func (s *sessionTestContext) app() *fiber.App {
	app := fiber.New()
	app.Use(auth.Middleware(func(*fiber.Ctx) auth.Storage { return s.store }))
	app.Get("/home", auth.RequireSession(), func(c *fiber.Ctx) error {
		return c.SendString("protected content")
	})
	return app
}

func (s *sessionTestContext) visitingRedirectsTo(path, target string) error {
	resp, err := s.app().Test(httptest.NewRequest(http.MethodGet, path, nil))
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusFound {
		return fmt.Errorf("expected 302, got %d", resp.StatusCode)
	}
	loc := resp.Header.Get("Location")
	if len(loc) < len(target) || loc[:len(target)] != target {
		return fmt.Errorf("redirected to %q, want %q", loc, target)
	}
	return nil
}

func (s *sessionTestContext) visitingRendersThePage(path string) error {
	resp, err := s.app().Test(httptest.NewRequest(http.MethodGet, path, nil))
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("expected 200, got %d", resp.StatusCode)
	}
	return nil
}

func InitializeScenario(ctx *godog.ScenarioContext) {
	tc := &sessionTestContext{}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		tc.reset()
		return ctx, nil
	})

	// Given steps
	ctx.Step(`^an empty session store$`, tc.anEmptySessionStore)
	ctx.Step(`^the store holds "([^"]*)" under the user key$`, tc.theStoreHoldsUnderTheUserKey)

	// When steps
	ctx.Step(`^"([^"]*)" logs in with email "([^"]*)"$`, tc.logsInWithEmail)
	ctx.Step(`^the user logs out$`, tc.theUserLogsOut)
	ctx.Step(`^the app is reloaded$`, tc.theAppIsReloaded)

	// Then steps
	ctx.Step(`^the session is authenticated as "([^"]*)"$`, tc.theSessionIsAuthenticatedAs)
	ctx.Step(`^the session is not authenticated$`, tc.theSessionIsNotAuthenticated)
	ctx.Step(`^the stored record names "([^"]*)"$`, tc.theStoredRecordNames)
	ctx.Step(`^the store has no user record$`, tc.theStoreHasNoUserRecord)
	ctx.Step(`^visiting "([^"]*)" redirects to "([^"]*)"$`, tc.visitingRedirectsTo)
	ctx.Step(`^visiting "([^"]*)" renders the page$`, tc.visitingRendersThePage)
}

func TestFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: InitializeScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"features"},
			TestingT: t,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}
