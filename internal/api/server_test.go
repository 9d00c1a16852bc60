package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/balkashynov/worktime/internal/auth"
	"github.com/balkashynov/worktime/internal/config"
	"github.com/balkashynov/worktime/internal/db"
	"github.com/balkashynov/worktime/internal/logging"
)

const testSecret = "test-secret"

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	conn, err := db.Open(filepath.Join(t.TempDir(), "api.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	store := db.NewStore(conn)
	t.Cleanup(func() { _ = store.Close() })

	cfg := config.ServerConfig{JWTSecret: testSecret, TokenTTL: time.Hour}
	app := httptest.NewServer(NewServer(cfg, store, logging.Discard()).Router())
	t.Cleanup(app.Close)
	return app
}

func doReq(t *testing.T, method, url, token string, body interface{}) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode error: %v", err)
		}
	}
	req, err := http.NewRequest(method, url, &buf)
	if err != nil {
		t.Fatalf("request error: %v", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("http error: %v", err)
	}
	return resp
}

func decode(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		t.Fatalf("decode error: %v", err)
	}
}

func expectStatus(t *testing.T, resp *http.Response, want int) {
	t.Helper()
	if resp.StatusCode != want {
		var body bytes.Buffer
		_, _ = body.ReadFrom(resp.Body)
		resp.Body.Close()
		t.Fatalf("expected %d, got %d: %s", want, resp.StatusCode, body.String())
	}
}

type authBody struct {
	Token string       `json:"token"`
	User  userResponse `json:"user"`
}

func register(t *testing.T, app *httptest.Server, email string) authBody {
	t.Helper()
	resp := doReq(t, http.MethodPost, app.URL+"/api/auth/register", "", map[string]string{
		"email":    email,
		"password": "secret1",
		"name":     "Ada",
	})
	expectStatus(t, resp, http.StatusCreated)
	var out authBody
	decode(t, resp, &out)
	if out.Token == "" {
		t.Fatal("expected a token")
	}
	return out
}

func sessionBody(name, workType string, end time.Time, seconds int) map[string]interface{} {
	return map[string]interface{}{
		"name":             name,
		"work_type":        workType,
		"start_time":       end.Add(-time.Duration(seconds) * time.Second).Format(time.RFC3339),
		"end_time":         end.Format(time.RFC3339),
		"duration_seconds": seconds,
	}
}

func TestRegisterLoginAndMe(t *testing.T) {
	app := newTestServer(t)
	registered := register(t, app, "Ada@Example.com")

	// Duplicate email is rejected regardless of case
	resp := doReq(t, http.MethodPost, app.URL+"/api/auth/register", "", map[string]string{
		"email": "ada@example.com", "password": "secret1", "name": "Ada",
	})
	expectStatus(t, resp, http.StatusBadRequest)
	var dup map[string]string
	decode(t, resp, &dup)
	if dup["error"] != "Email already registered" {
		t.Fatalf("unexpected error %q", dup["error"])
	}

	resp = doReq(t, http.MethodPost, app.URL+"/api/auth/login", "", map[string]string{
		"email": "ada@example.com", "password": "wrong-pass",
	})
	expectStatus(t, resp, http.StatusUnauthorized)
	resp.Body.Close()

	resp = doReq(t, http.MethodPost, app.URL+"/api/auth/login", "", map[string]string{
		"email": "ada@example.com", "password": "secret1",
	})
	expectStatus(t, resp, http.StatusOK)
	var login authBody
	decode(t, resp, &login)

	resp = doReq(t, http.MethodGet, app.URL+"/api/auth/me", login.Token, nil)
	expectStatus(t, resp, http.StatusOK)
	var me struct {
		User userResponse `json:"user"`
	}
	decode(t, resp, &me)
	if me.User.ID != registered.User.ID {
		t.Fatalf("expected id %s, got %s", registered.User.ID, me.User.ID)
	}
	if me.User.LastLogin == nil {
		t.Fatal("expected lastLogin after login")
	}
}

func TestRegisterValidation(t *testing.T) {
	app := newTestServer(t)

	resp := doReq(t, http.MethodPost, app.URL+"/api/auth/register", "", map[string]string{
		"email": "not-an-email", "password": "123", "name": "  ",
	})
	expectStatus(t, resp, http.StatusBadRequest)
	var body struct {
		Errors []fieldError `json:"errors"`
	}
	decode(t, resp, &body)

	got := map[string]string{}
	for _, e := range body.Errors {
		got[e.Field] = e.Message
	}
	want := map[string]string{
		"email":    "Valid email is required",
		"password": "Password must be at least 6 characters",
		"name":     "Name is required",
	}
	for field, msg := range want {
		if got[field] != msg {
			t.Errorf("field %s: expected %q, got %q", field, msg, got[field])
		}
	}
}

func TestRegisterRejectsPasswordBcryptCannotHash(t *testing.T) {
	app := newTestServer(t)

	resp := doReq(t, http.MethodPost, app.URL+"/api/auth/register", "", map[string]string{
		"email": "long@example.com", "password": strings.Repeat("a1", 41), "name": "Long",
	})
	expectStatus(t, resp, http.StatusBadRequest)
	var body struct {
		Errors []fieldError `json:"errors"`
	}
	decode(t, resp, &body)
	if len(body.Errors) != 1 || body.Errors[0].Field != "password" || body.Errors[0].Message != "Password must be at most 72 characters" {
		t.Fatalf("unexpected errors %+v", body.Errors)
	}

	// 72 bytes is still accepted
	resp = doReq(t, http.MethodPost, app.URL+"/api/auth/register", "", map[string]string{
		"email": "long@example.com", "password": strings.Repeat("a1", 36), "name": "Long",
	})
	expectStatus(t, resp, http.StatusCreated)
	resp.Body.Close()
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	app := newTestServer(t)

	resp := doReq(t, http.MethodGet, app.URL+"/api/sessions", "", nil)
	expectStatus(t, resp, http.StatusUnauthorized)
	var body map[string]string
	decode(t, resp, &body)
	if body["error"] != "No token provided" {
		t.Fatalf("unexpected error %q", body["error"])
	}

	resp = doReq(t, http.MethodGet, app.URL+"/api/projects", "garbage", nil)
	expectStatus(t, resp, http.StatusUnauthorized)
	resp.Body.Close()

	expired, err := auth.NewToken(testSecret, -time.Minute, "someone", "a@b.com")
	if err != nil {
		t.Fatalf("token: %v", err)
	}
	resp = doReq(t, http.MethodGet, app.URL+"/api/auth/me", expired, nil)
	expectStatus(t, resp, http.StatusUnauthorized)
	resp.Body.Close()
}

func TestCreateAndListSessions(t *testing.T) {
	app := newTestServer(t)
	user := register(t, app, "ada@example.com")
	now := time.Now().UTC().Truncate(time.Second)

	resp := doReq(t, http.MethodPost, app.URL+"/api/sessions", user.Token, sessionBody("Older", "Study", now.Add(-2*time.Hour), 600))
	expectStatus(t, resp, http.StatusCreated)
	resp.Body.Close()

	resp = doReq(t, http.MethodPost, app.URL+"/api/sessions", user.Token, sessionBody("Write design doc", "Deep Work", now, 1500))
	expectStatus(t, resp, http.StatusCreated)
	var created struct {
		Session sessionResponse `json:"session"`
	}
	decode(t, resp, &created)
	if created.Session.ID == "" || created.Session.DurationSeconds != 1500 {
		t.Fatalf("unexpected created session %+v", created.Session)
	}

	resp = doReq(t, http.MethodGet, app.URL+"/api/sessions", user.Token, nil)
	expectStatus(t, resp, http.StatusOK)
	var list struct {
		Sessions []sessionResponse `json:"sessions"`
		Count    int               `json:"count"`
		Limit    int               `json:"limit"`
	}
	decode(t, resp, &list)
	if list.Count != 2 || list.Limit != db.DefaultSessionLimit {
		t.Fatalf("unexpected list meta count=%d limit=%d", list.Count, list.Limit)
	}
	first := list.Sessions[0]
	if first.Name != "Write design doc" || first.WorkType != "Deep Work" || first.DurationSeconds != 1500 {
		t.Fatalf("expected the newest session first, got %+v", first)
	}

	resp = doReq(t, http.MethodGet, app.URL+"/api/sessions/"+created.Session.ID, user.Token, nil)
	expectStatus(t, resp, http.StatusOK)
	resp.Body.Close()

	resp = doReq(t, http.MethodGet, app.URL+"/api/sessions?work_type=Study", user.Token, nil)
	expectStatus(t, resp, http.StatusOK)
	decode(t, resp, &list)
	if list.Count != 1 || list.Sessions[0].Name != "Older" {
		t.Fatalf("expected only the study session, got %+v", list.Sessions)
	}
}

func TestCreateSessionValidation(t *testing.T) {
	app := newTestServer(t)
	user := register(t, app, "ada@example.com")
	now := time.Now().UTC()

	tests := []struct {
		name  string
		body  map[string]interface{}
		field string
	}{
		{"missing name", sessionBody("  ", "Study", now, 60), "name"},
		{"zero duration", sessionBody("Read", "Study", now, 0), "duration_seconds"},
		{"bad project id", func() map[string]interface{} {
			b := sessionBody("Read", "Study", now, 60)
			b["project_id"] = "nope"
			return b
		}(), "project_id"},
		{"end before start", func() map[string]interface{} {
			b := sessionBody("Read", "Study", now, 60)
			b["end_time"] = now.Add(-time.Hour).Format(time.RFC3339)
			return b
		}(), "end_time"},
		{"duration mismatch", func() map[string]interface{} {
			b := sessionBody("Read", "Study", now, 60)
			b["duration_seconds"] = 600
			return b
		}(), "duration_seconds"},
		{"bad timestamp", func() map[string]interface{} {
			b := sessionBody("Read", "Study", now, 60)
			b["start_time"] = "yesterday"
			return b
		}(), "start_time"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := doReq(t, http.MethodPost, app.URL+"/api/sessions", user.Token, tt.body)
			expectStatus(t, resp, http.StatusBadRequest)
			var body struct {
				Errors []fieldError `json:"errors"`
			}
			decode(t, resp, &body)
			found := false
			for _, e := range body.Errors {
				if e.Field == tt.field {
					found = true
				}
			}
			if !found {
				t.Fatalf("expected an error on %s, got %+v", tt.field, body.Errors)
			}
		})
	}
}

func TestSessionPagingBounds(t *testing.T) {
	app := newTestServer(t)
	user := register(t, app, "ada@example.com")

	for _, query := range []string{"limit=0", "limit=101", "limit=abc", "offset=-1", "from=monday"} {
		resp := doReq(t, http.MethodGet, app.URL+"/api/sessions?"+query, user.Token, nil)
		expectStatus(t, resp, http.StatusBadRequest)
		resp.Body.Close()
	}

	resp := doReq(t, http.MethodGet, app.URL+"/api/sessions?limit=100&offset=5", user.Token, nil)
	expectStatus(t, resp, http.StatusOK)
	resp.Body.Close()
}

func TestCrossUserAccessIsNotFound(t *testing.T) {
	app := newTestServer(t)
	owner := register(t, app, "owner@example.com")
	other := register(t, app, "other@example.com")

	resp := doReq(t, http.MethodPost, app.URL+"/api/projects", owner.Token, map[string]string{"name": "Thesis"})
	expectStatus(t, resp, http.StatusCreated)
	var project struct {
		Project projectResponse `json:"project"`
	}
	decode(t, resp, &project)

	body := sessionBody("Chapter 1", "Deep Work", time.Now().UTC(), 1500)
	body["project_id"] = project.Project.ID
	resp = doReq(t, http.MethodPost, app.URL+"/api/sessions", owner.Token, body)
	expectStatus(t, resp, http.StatusCreated)
	var created struct {
		Session sessionResponse `json:"session"`
	}
	decode(t, resp, &created)
	if created.Session.Project == nil || created.Session.Project.Name != "Thesis" {
		t.Fatalf("expected the project summary on the session, got %+v", created.Session.Project)
	}

	// Another user's project cannot be used for a session
	resp = doReq(t, http.MethodPost, app.URL+"/api/sessions", other.Token, body)
	expectStatus(t, resp, http.StatusNotFound)
	resp.Body.Close()

	paths := []struct{ method, path string }{
		{http.MethodGet, "/api/sessions/" + created.Session.ID},
		{http.MethodDelete, "/api/sessions/" + created.Session.ID},
		{http.MethodDelete, "/api/projects/" + project.Project.ID},
	}
	for _, p := range paths {
		resp = doReq(t, p.method, app.URL+p.path, other.Token, nil)
		expectStatus(t, resp, http.StatusNotFound)
		resp.Body.Close()
	}

	resp = doReq(t, http.MethodPut, app.URL+"/api/projects/"+project.Project.ID, other.Token, map[string]string{"name": "Mine"})
	expectStatus(t, resp, http.StatusNotFound)
	resp.Body.Close()

	// The owner can still delete it
	resp = doReq(t, http.MethodDelete, app.URL+"/api/sessions/"+created.Session.ID, owner.Token, nil)
	expectStatus(t, resp, http.StatusOK)
	resp.Body.Close()
}

func TestProjectArchiveAndUpdate(t *testing.T) {
	app := newTestServer(t)
	user := register(t, app, "ada@example.com")

	resp := doReq(t, http.MethodPost, app.URL+"/api/projects", user.Token, map[string]string{"name": "Thesis", "color": "#zzzzzz"})
	expectStatus(t, resp, http.StatusBadRequest)
	resp.Body.Close()

	resp = doReq(t, http.MethodPost, app.URL+"/api/projects", user.Token, map[string]string{"name": "Thesis"})
	expectStatus(t, resp, http.StatusCreated)
	var created struct {
		Project projectResponse `json:"project"`
	}
	decode(t, resp, &created)
	if created.Project.Color != "#00E599" {
		t.Fatalf("expected default color, got %q", created.Project.Color)
	}
	url := app.URL + "/api/projects/" + created.Project.ID

	resp = doReq(t, http.MethodPut, url, user.Token, map[string]interface{}{})
	expectStatus(t, resp, http.StatusBadRequest)
	var noUpdates map[string]string
	decode(t, resp, &noUpdates)
	if noUpdates["error"] != "No updates provided" {
		t.Fatalf("unexpected error %q", noUpdates["error"])
	}

	resp = doReq(t, http.MethodPut, url, user.Token, map[string]string{"name": " "})
	expectStatus(t, resp, http.StatusBadRequest)
	resp.Body.Close()

	resp = doReq(t, http.MethodPut, url, user.Token, map[string]string{"name": "Dissertation", "color": "#112233"})
	expectStatus(t, resp, http.StatusOK)
	var updated struct {
		Project projectResponse `json:"project"`
	}
	decode(t, resp, &updated)
	if updated.Project.Name != "Dissertation" || updated.Project.Color != "#112233" {
		t.Fatalf("unexpected update result %+v", updated.Project)
	}

	resp = doReq(t, http.MethodDelete, url, user.Token, nil)
	expectStatus(t, resp, http.StatusOK)
	resp.Body.Close()

	var list struct {
		Projects []projectResponse `json:"projects"`
		Count    int               `json:"count"`
	}
	resp = doReq(t, http.MethodGet, app.URL+"/api/projects?include_archived=false", user.Token, nil)
	expectStatus(t, resp, http.StatusOK)
	decode(t, resp, &list)
	if list.Count != 0 {
		t.Fatalf("expected archived project hidden, got %+v", list.Projects)
	}

	resp = doReq(t, http.MethodGet, app.URL+"/api/projects", user.Token, nil)
	expectStatus(t, resp, http.StatusOK)
	decode(t, resp, &list)
	if list.Count != 1 || !list.Projects[0].IsArchived {
		t.Fatalf("expected the archived project by default, got %+v", list.Projects)
	}
}

func TestHealthInfoAndNotFound(t *testing.T) {
	app := newTestServer(t)

	resp := doReq(t, http.MethodGet, app.URL+"/health", "", nil)
	expectStatus(t, resp, http.StatusOK)
	var health map[string]string
	decode(t, resp, &health)
	if health["status"] != "healthy" || health["database"] != "connected" {
		t.Fatalf("unexpected health %+v", health)
	}

	resp = doReq(t, http.MethodGet, app.URL+"/api", "", nil)
	expectStatus(t, resp, http.StatusOK)
	resp.Body.Close()

	resp = doReq(t, http.MethodGet, app.URL+"/nope", "", nil)
	expectStatus(t, resp, http.StatusNotFound)
	var missing map[string]string
	decode(t, resp, &missing)
	if missing["error"] != "Endpoint not found" {
		t.Fatalf("unexpected error %q", missing["error"])
	}

	resp = doReq(t, http.MethodGet, app.URL+"/metrics", "", nil)
	expectStatus(t, resp, http.StatusOK)
	var metricsBody bytes.Buffer
	_, _ = metricsBody.ReadFrom(resp.Body)
	resp.Body.Close()
	if !strings.Contains(metricsBody.String(), "worktime_http_requests_total") {
		t.Fatal("expected request counter in metrics output")
	}
}
