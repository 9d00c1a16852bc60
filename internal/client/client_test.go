package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/balkashynov/worktime/internal/api"
	"github.com/balkashynov/worktime/internal/config"
	"github.com/balkashynov/worktime/internal/db"
	"github.com/balkashynov/worktime/internal/logging"
)

type fakeCreds struct {
	mu           sync.Mutex
	token        string
	epoch        uint64
	unauthorized []uint64
}

func (f *fakeCreds) Credential() (string, uint64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.token, f.epoch
}

func (f *fakeCreds) Unauthorized(epoch uint64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.unauthorized = append(f.unauthorized, epoch)
}

func (f *fakeCreds) calls() []uint64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]uint64(nil), f.unauthorized...)
}

func TestProtectedCallCarriesBearerToken(t *testing.T) {
	var got string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"user":{"id":"u1","email":"a@b.com","name":"Ada"}}`))
	}))
	defer srv.Close()

	c := New(srv.URL, time.Second)
	c.UseCredentials(&fakeCreds{token: "tok", epoch: 3})

	user, err := c.Me(context.Background())
	if err != nil {
		t.Fatalf("me: %v", err)
	}
	if got != "Bearer tok" {
		t.Fatalf("expected bearer header, got %q", got)
	}
	if user.ID != "u1" {
		t.Fatalf("unexpected user %+v", user)
	}
}

func TestUnauthorizedReportsEpoch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":"Invalid or expired token"}`))
	}))
	defer srv.Close()

	creds := &fakeCreds{token: "stale", epoch: 7}
	c := New(srv.URL, time.Second)
	c.UseCredentials(creds)

	_, err := c.ListSessions(context.Background(), SessionFilter{})
	if !IsKind(err, KindAuth) {
		t.Fatalf("expected auth error, got %v", err)
	}
	if err.Error() != "Invalid or expired token" {
		t.Fatalf("unexpected message %q", err.Error())
	}
	if calls := creds.calls(); len(calls) != 1 || calls[0] != 7 {
		t.Fatalf("expected one Unauthorized(7), got %v", calls)
	}

	// A failed login carries no token and must not log anyone out
	if _, err := c.Login(context.Background(), "a@b.com", "nope"); !IsKind(err, KindAuth) {
		t.Fatalf("expected auth error, got %v", err)
	}
	if calls := creds.calls(); len(calls) != 1 {
		t.Fatalf("login 401 should not report, got %v", calls)
	}
}

func TestCreateSessionWireFormat(t *testing.T) {
	var body map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/sessions" {
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"message":"Session created successfully","session":{
			"id":"s1","name":"Write design doc","workType":"Deep Work",
			"startTime":"2025-03-10T09:00:00Z","endTime":"2025-03-10T09:25:00Z",
			"durationSeconds":1500,"projectId":null,"project":null,"notes":null,
			"createdAt":"2025-03-10T09:25:00Z"}}`))
	}))
	defer srv.Close()

	c := New(srv.URL, time.Second)
	c.UseCredentials(&fakeCreds{token: "tok"})

	end := time.Date(2025, 3, 10, 9, 25, 0, 0, time.UTC)
	session, err := c.CreateSession(context.Background(), NewSession{
		Name:            "Write design doc",
		WorkType:        "Deep Work",
		StartTime:       end.Add(-1500 * time.Second),
		EndTime:         end,
		DurationSeconds: 1500,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	for _, key := range []string{"name", "work_type", "start_time", "end_time", "duration_seconds"} {
		if _, ok := body[key]; !ok {
			t.Errorf("expected %s in request body %v", key, body)
		}
	}
	for _, key := range []string{"project_id", "notes", "workType"} {
		if _, ok := body[key]; ok {
			t.Errorf("did not expect %s in request body", key)
		}
	}
	if session.WorkType != "Deep Work" || session.DurationSeconds != 1500 || !session.EndTime.Equal(end) {
		t.Fatalf("unexpected session %+v", session)
	}
}

func TestValidationErrorFields(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"errors":[{"field":"name","message":"Project name is required"}]}`))
	}))
	defer srv.Close()

	c := New(srv.URL, time.Second)
	_, err := c.CreateProject(context.Background(), NewProject{})

	var apiErr *Error
	if !IsKind(err, KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	apiErr = err.(*Error)
	if len(apiErr.Fields) != 1 || apiErr.Fields[0].Field != "name" {
		t.Fatalf("unexpected fields %+v", apiErr.Fields)
	}
	if apiErr.Message != "Project name is required" {
		t.Fatalf("unexpected message %q", apiErr.Message)
	}
}

func TestTimeoutIsTransient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(time.Second):
		}
	}))
	defer srv.Close()

	c := New(srv.URL, 50*time.Millisecond)
	c.UseCredentials(&fakeCreds{token: "tok"})

	err := c.DeleteSession(context.Background(), "s1")
	if !IsKind(err, KindTransient) {
		t.Fatalf("expected transient error, got %v", err)
	}
	if err.Error() != "Request timed out" {
		t.Fatalf("unexpected message %q", err.Error())
	}
}

func TestAgainstAPIServer(t *testing.T) {
	conn, err := db.Open(filepath.Join(t.TempDir(), "client.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	store := db.NewStore(conn)
	defer store.Close()

	cfg := config.ServerConfig{JWTSecret: "test-secret", TokenTTL: time.Hour}
	srv := httptest.NewServer(api.NewServer(cfg, store, logging.Discard()).Router())
	defer srv.Close()

	ctx := context.Background()
	c := New(srv.URL, time.Second)
	creds := &fakeCreds{}
	c.UseCredentials(creds)

	registered, err := c.Register(ctx, "ada@example.com", "secret1", "Ada")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	creds.token = registered.Token

	project, err := c.CreateProject(ctx, NewProject{Name: "Thesis", Color: "#112233"})
	if err != nil {
		t.Fatalf("create project: %v", err)
	}

	end := time.Now().UTC()
	created, err := c.CreateSession(ctx, NewSession{
		Name:            "Write design doc",
		WorkType:        "Deep Work",
		StartTime:       end.Add(-1500 * time.Second),
		EndTime:         end,
		DurationSeconds: 1500,
		ProjectID:       project.ID,
		Notes:           "chapter one",
	})
	if err != nil {
		t.Fatalf("create session: %v", err)
	}
	if created.Project == nil || created.Project.Name != "Thesis" {
		t.Fatalf("expected project on created session, got %+v", created.Project)
	}

	page, err := c.ListSessions(ctx, SessionFilter{Limit: 10})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if page.Count != 1 || page.Sessions[0].ID != created.ID {
		t.Fatalf("unexpected page %+v", page)
	}

	archived := true
	updated, err := c.UpdateProject(ctx, project.ID, ProjectUpdate{IsArchived: &archived})
	if err != nil || !updated.IsArchived {
		t.Fatalf("archive via update: %v %+v", err, updated)
	}
	active, err := c.ListProjects(ctx, false)
	if err != nil || len(active) != 0 {
		t.Fatalf("expected no active projects, got %v %+v", err, active)
	}

	if err := c.DeleteSession(ctx, created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := c.GetSession(ctx, created.ID); !IsKind(err, KindNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	me, err := c.Me(ctx)
	if err != nil || me.ID != registered.User.ID {
		t.Fatalf("me: %v %+v", err, me)
	}
	if len(creds.calls()) != 0 {
		t.Fatalf("no 401s expected, got %v", creds.calls())
	}
}
