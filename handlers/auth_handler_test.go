package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	"careerhub/identity"
	"careerhub/middleware"
	"careerhub/services"
)

func newTestApp(t *testing.T) (*fiber.App, *identity.HMACProvider) {
	t.Helper()

	provider := identity.NewHMACProvider("test-secret", "test-issuer", identity.NewMemoryClaimStore())
	services.InitSessions(provider, services.NewMemoryProfileStore())
	SetSecureCookies(false)

	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	auth := app.Group("/auth")
	auth.Post("/session", EstablishSession)
	auth.Delete("/session", TerminateSession)
	auth.Get("/me", GetCurrentUser)

	api := app.Group("/api")
	api.Get("/profile", middleware.RequireAuth, GetProfile)
	api.Put("/profile", middleware.RequireAuth, UpdateProfile)

	return app, provider
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body interface{}, cookie string) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: services.SessionCookieName, Value: cookie})
	}

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, dst interface{}) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func sessionCookie(t *testing.T, resp *http.Response) *http.Cookie {
	t.Helper()
	for _, c := range resp.Cookies() {
		if c.Name == services.SessionCookieName {
			return c
		}
	}
	t.Fatal("session cookie not set")
	return nil
}

func TestEstablishSetsSessionCookie(t *testing.T) {
	app, provider := newTestApp(t)

	idToken, err := provider.IssueIDToken(context.Background(), "U1", "m@x.edu")
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	resp := doJSON(t, app, http.MethodPost, "/auth/session", fiber.Map{
		"idToken": idToken,
		"profile": fiber.Map{"role": "faculty-mentor", "email": "m@x.edu"},
	}, "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var body struct {
		OK bool `json:"ok"`
	}
	decodeBody(t, resp, &body)
	if !body.OK {
		t.Fatal("expected {ok: true}")
	}

	cookie := sessionCookie(t, resp)
	if cookie.Value == "" {
		t.Fatal("cookie value empty")
	}
	if !cookie.HttpOnly {
		t.Fatal("cookie must be HTTP-only")
	}
	if cookie.SameSite != http.SameSiteLaxMode {
		t.Fatalf("SameSite = %v, want Lax", cookie.SameSite)
	}
	if cookie.Path != "/" {
		t.Fatalf("Path = %q, want /", cookie.Path)
	}
	// Five-day window, allowing slack for slow test runs
	fiveDays := int((5 * 24 * time.Hour).Seconds())
	if cookie.MaxAge < fiveDays-120 || cookie.MaxAge > fiveDays {
		t.Fatalf("MaxAge = %d, want about %d", cookie.MaxAge, fiveDays)
	}
}

func TestEstablishThenCurrentUser(t *testing.T) {
	app, provider := newTestApp(t)

	idToken, err := provider.IssueIDToken(context.Background(), "U1", "m@x.edu")
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	resp := doJSON(t, app, http.MethodPost, "/auth/session", fiber.Map{
		"idToken": idToken,
		"profile": fiber.Map{"role": "faculty-mentor", "email": "m@x.edu"},
	}, "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("establish: expected 200, got %d", resp.StatusCode)
	}
	cookie := sessionCookie(t, resp)

	resp = doJSON(t, app, http.MethodGet, "/auth/me", nil, cookie.Value)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("me: expected 200, got %d", resp.StatusCode)
	}

	var body struct {
		User map[string]interface{} `json:"user"`
	}
	decodeBody(t, resp, &body)
	if body.User == nil {
		t.Fatal("expected a user")
	}
	if body.User["uid"] != "U1" {
		t.Fatalf("uid = %v", body.User["uid"])
	}
	if body.User["email"] != "m@x.edu" {
		t.Fatalf("email = %v", body.User["email"])
	}
	if body.User["role"] != "faculty-mentor" {
		t.Fatalf("role = %v", body.User["role"])
	}
	if _, ok := body.User["accountStatus"]; ok {
		t.Fatal("accountStatus must be absent until an admin decides")
	}
}

func TestEstablishInvalidTokenIsUnauthorized(t *testing.T) {
	app, _ := newTestApp(t)

	resp := doJSON(t, app, http.MethodPost, "/auth/session", fiber.Map{
		"idToken": "not-a-token",
	}, "")
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}

	var body struct {
		Error string `json:"error"`
	}
	decodeBody(t, resp, &body)
	if body.Error == "" {
		t.Fatal("expected an error message")
	}

	// No cookie on the failure path
	for _, c := range resp.Cookies() {
		if c.Name == services.SessionCookieName && c.Value != "" {
			t.Fatal("failed establish must not set a session cookie")
		}
	}
}

func TestCurrentUserNullPaths(t *testing.T) {
	app, _ := newTestApp(t)

	for name, cookie := range map[string]string{
		"missing cookie": "",
		"garbage cookie": "garbage",
	} {
		resp := doJSON(t, app, http.MethodGet, "/auth/me", nil, cookie)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d", name, resp.StatusCode)
		}
		var body struct {
			User *map[string]interface{} `json:"user"`
		}
		decodeBody(t, resp, &body)
		if body.User != nil {
			t.Fatalf("%s: expected null user", name)
		}
	}
}

func TestTerminateAlwaysClearsCookie(t *testing.T) {
	app, _ := newTestApp(t)

	// No prior session at all
	resp := doJSON(t, app, http.MethodDelete, "/auth/session", nil, "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var body struct {
		OK bool `json:"ok"`
	}
	decodeBody(t, resp, &body)
	if !body.OK {
		t.Fatal("expected {ok: true}")
	}

	cookie := sessionCookie(t, resp)
	if cookie.Value != "" {
		t.Fatalf("cookie value = %q, want empty", cookie.Value)
	}
	if cookie.Expires.After(time.Now()) {
		t.Fatal("cleared cookie must be expired")
	}
}

func TestRequireUserGate(t *testing.T) {
	app, provider := newTestApp(t)

	// Absent cookie
	resp := doJSON(t, app, http.MethodGet, "/api/profile", nil, "")
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("absent cookie: expected 401, got %d", resp.StatusCode)
	}

	// Invalid cookie
	resp = doJSON(t, app, http.MethodGet, "/api/profile", nil, "garbage")
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("invalid cookie: expected 401, got %d", resp.StatusCode)
	}

	// Valid session succeeds
	idToken, err := provider.IssueIDToken(context.Background(), "U1", "s@x.edu")
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	resp = doJSON(t, app, http.MethodPost, "/auth/session", fiber.Map{"idToken": idToken}, "")
	cookie := sessionCookie(t, resp)

	resp = doJSON(t, app, http.MethodGet, "/api/profile", nil, cookie.Value)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("valid cookie: expected 200, got %d", resp.StatusCode)
	}
}

func TestProfileUpdateStripsPrivilegedFields(t *testing.T) {
	app, provider := newTestApp(t)

	idToken, err := provider.IssueIDToken(context.Background(), "U1", "s@x.edu")
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	resp := doJSON(t, app, http.MethodPost, "/auth/session", fiber.Map{"idToken": idToken}, "")
	cookie := sessionCookie(t, resp)

	resp = doJSON(t, app, http.MethodPut, "/api/profile", fiber.Map{
		"role":          "admin",
		"accountStatus": "approved",
		"name":          "Sam",
	}, cookie.Value)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var updated map[string]interface{}
	decodeBody(t, resp, &updated)
	if updated["name"] != "Sam" {
		t.Fatalf("name not merged: %v", updated)
	}
	if updated["role"] == "admin" {
		t.Fatal("profile mutation must not grant roles")
	}
	if updated["accountStatus"] == "approved" {
		t.Fatal("profile mutation must not set account status")
	}
}

func TestEstablishRoleRoundTrip(t *testing.T) {
	app, provider := newTestApp(t)

	idToken, err := provider.IssueIDToken(context.Background(), "U2", "e@corp.com")
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	// First establish assigns employer via the payload
	resp := doJSON(t, app, http.MethodPost, "/auth/session", fiber.Map{
		"idToken": idToken,
		"profile": fiber.Map{"role": "employer", "company": "Acme"},
	}, "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("first establish: got %d", resp.StatusCode)
	}

	// Later tokens from the provider carry the synchronized claim
	idToken2, err := provider.IssueIDToken(context.Background(), "U2", "e@corp.com")
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	ident, err := provider.VerifyIDToken(context.Background(), idToken2)
	if err != nil {
		t.Fatalf("verify token: %v", err)
	}
	if ident.Role != "employer" {
		t.Fatalf("provider claim = %q, want employer", ident.Role)
	}

	// A second establish with no profile preserves the stored role
	resp = doJSON(t, app, http.MethodPost, "/auth/session", fiber.Map{"idToken": idToken2}, "")
	cookie := sessionCookie(t, resp)

	resp = doJSON(t, app, http.MethodGet, "/auth/me", nil, cookie.Value)
	var body struct {
		User map[string]interface{} `json:"user"`
	}
	decodeBody(t, resp, &body)
	if body.User["role"] != "employer" {
		t.Fatalf("role = %v, want employer", body.User["role"])
	}
	if body.User["company"] != "Acme" {
		t.Fatalf("profile field lost: %v", body.User)
	}
}
