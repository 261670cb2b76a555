package rest_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"taskboard/internal/backend/rest"
	"taskboard/internal/logging"
	"taskboard/internal/service"
	"taskboard/internal/session"
	"taskboard/internal/testutil"
)

type harness struct {
	api     *testutil.FakeAPI
	client  *rest.Client
	manager *session.Manager
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	api := testutil.NewFakeAPI(t)
	cred := session.NewCredential()
	client, err := rest.New(api.URL(),
		rest.WithHTTPClient(cred.Client(api.Server.Client())),
		rest.WithLogger(logging.Discard()),
	)
	if err != nil {
		t.Fatalf("rest.New: %v", err)
	}
	store := session.NewFileStore(t.TempDir() + "/token.json")
	mgr := session.NewManager(client, store, cred, logging.Discard())
	mgr.Init()
	return &harness{api: api, client: client, manager: mgr}
}

func (h *harness) signIn(t *testing.T) {
	t.Helper()
	if err := h.manager.Register(context.Background(), "ana", "ana@example.com", "secret"); err != nil {
		t.Fatalf("register: %v", err)
	}
}

func TestNew_InvalidURL(t *testing.T) {
	for _, u := range []string{"", "localhost:5000", "ftp://example.com", "http://"} {
		if _, err := rest.New(u); err == nil {
			t.Errorf("expected error for %q", u)
		}
	}
}

func TestNew_TrimsTrailingSlash(t *testing.T) {
	c, err := rest.New("http://example.com/")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.BaseURL() != "http://example.com" {
		t.Errorf("unexpected base url %q", c.BaseURL())
	}
}

func TestClient_CRUD(t *testing.T) {
	h := newHarness(t)
	h.signIn(t)
	ctx := context.Background()

	created, err := h.client.CreateTask(ctx, service.TaskInput{Title: "Buy milk", Priority: service.PriorityHigh})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID == 0 || created.Title != "Buy milk" || created.Priority != service.PriorityHigh || created.Completed {
		t.Errorf("unexpected created task %#v", created)
	}

	created.Completed = true
	updated, err := h.client.UpdateTask(ctx, created)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if !updated.Completed || updated.UpdatedAt == created.UpdatedAt {
		t.Errorf("expected server record with new updated_at, got %#v", updated)
	}

	tasks, err := h.client.ListTasks(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(tasks) != 1 || tasks[0].ID != created.ID {
		t.Fatalf("expected one task, got %#v", tasks)
	}

	if err := h.client.DeleteTask(ctx, created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	tasks, err = h.client.ListTasks(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if tasks == nil || len(tasks) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v", tasks)
	}
}

func TestClient_NotFound(t *testing.T) {
	h := newHarness(t)
	h.signIn(t)

	err := h.client.DeleteTask(context.Background(), 999)
	if !rest.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
	var apiErr *rest.APIError
	if !errors.As(err, &apiErr) || apiErr.Message != "Tarea no encontrada" {
		t.Errorf("expected server message, got %#v", apiErr)
	}
	if _, perr := uuid.Parse(apiErr.RequestID); perr != nil {
		t.Errorf("expected request id to be a uuid, got %q", apiErr.RequestID)
	}
}

func TestClient_UnauthorizedWithoutSession(t *testing.T) {
	h := newHarness(t)

	_, err := h.client.ListTasks(context.Background())
	if !rest.IsUnauthorized(err) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestClient_AuthHeaderLifecycle(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	_, _ = h.client.Health(ctx)
	h.signIn(t)
	tok, err := h.manager.Credential().Token()
	if err != nil {
		t.Fatalf("token: %v", err)
	}
	if _, err := h.client.ListTasks(ctx); err != nil {
		t.Fatalf("list: %v", err)
	}
	h.manager.Logout()
	_, _ = h.client.Health(ctx)

	headers := h.api.AuthHeaders()
	// health, register, login, list, health
	if len(headers) != 5 {
		t.Fatalf("expected 5 requests, got %d: %q", len(headers), headers)
	}
	for _, i := range []int{0, 1, 2, 4} {
		if headers[i] != "" {
			t.Errorf("request %d: expected no Authorization header, got %q", i, headers[i])
		}
	}
	if headers[3] != "Bearer "+tok.AccessToken {
		t.Errorf("expected bearer token on list, got %q", headers[3])
	}
}

func TestClient_LoginFailureMessage(t *testing.T) {
	h := newHarness(t)

	err := h.manager.Login(context.Background(), "nobody", "pw")
	if err == nil || err.Error() != "Credenciales inválidas" {
		t.Fatalf("expected server message, got %v", err)
	}
	if !errors.Is(err, session.ErrLoginFailed) {
		t.Error("expected ErrLoginFailed")
	}
}

func TestClient_RegisterDuplicate(t *testing.T) {
	h := newHarness(t)
	h.signIn(t)
	h.manager.Logout()

	err := h.manager.Register(context.Background(), "ana", "ana@example.com", "secret")
	if !errors.Is(err, session.ErrRegistrationFailed) {
		t.Fatalf("expected registration failure, got %v", err)
	}
	if err.Error() != "El usuario ya existe" {
		t.Errorf("unexpected message %q", err.Error())
	}
}

func TestClient_Health(t *testing.T) {
	h := newHarness(t)

	health, err := h.client.Health(context.Background())
	if err != nil {
		t.Fatalf("health: %v", err)
	}
	if health.Status != "healthy" || health.Database != "connected" {
		t.Errorf("unexpected health %#v", health)
	}
}

func TestClient_SendsRequestID(t *testing.T) {
	var got string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get(rest.RequestIDHeader)
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	c, err := rest.New(srv.URL, rest.WithHTTPClient(srv.Client()), rest.WithLogger(logging.Discard()))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := c.ListTasks(context.Background()); err != nil {
		t.Fatalf("list: %v", err)
	}
	if _, err := uuid.Parse(got); err != nil {
		t.Errorf("expected uuid request id, got %q", got)
	}
}

func TestClient_NullListIsEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`null`))
	}))
	defer srv.Close()

	c, _ := rest.New(srv.URL, rest.WithHTTPClient(srv.Client()), rest.WithLogger(logging.Discard()))
	tasks, err := c.ListTasks(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if tasks == nil {
		t.Error("expected empty slice, got nil")
	}
}

func TestClient_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	c, _ := rest.New(srv.URL,
		rest.WithHTTPClient(srv.Client()),
		rest.WithTimeout(20*time.Millisecond),
		rest.WithLogger(logging.Discard()),
	)
	_, err := c.ListTasks(context.Background())
	if err == nil || !strings.Contains(err.Error(), "request timed out") {
		t.Fatalf("expected timeout error, got %v", err)
	}
}

func TestClient_ErrorWithoutBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c, _ := rest.New(srv.URL, rest.WithHTTPClient(srv.Client()), rest.WithLogger(logging.Discard()))
	_, err := c.ListTasks(context.Background())
	if err == nil || err.Error() != "http 500: internal server error" {
		t.Fatalf("unexpected error %v", err)
	}
}
