package session

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"golang.org/x/oauth2"

	"taskboard/internal/logging"
	"taskboard/internal/service"
)

type serverErr string

func (e serverErr) Error() string         { return "http 400: " + string(e) }
func (e serverErr) ServerMessage() string { return string(e) }

type fakeAuth struct {
	token       string
	loginErr    error
	registerErr error
	logins      int
	registers   int
}

func (f *fakeAuth) Login(ctx context.Context, username, password string) (service.LoginResult, error) {
	f.logins++
	if f.loginErr != nil {
		return service.LoginResult{}, f.loginErr
	}
	return service.LoginResult{
		AccessToken: f.token,
		User:        service.User{ID: 7, Username: username, Email: username + "@example.com"},
	}, nil
}

func (f *fakeAuth) Register(ctx context.Context, username, email, password string) error {
	f.registers++
	return f.registerErr
}

type memStore struct {
	mu      sync.Mutex
	tok     *oauth2.Token
	loadErr error
	saveErr error
	saves   int
	removes int
}

func (s *memStore) Load() (*oauth2.Token, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tok, s.loadErr
}

func (s *memStore) Save(tok *oauth2.Token) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saveErr != nil {
		return s.saveErr
	}
	s.saves++
	s.tok = tok
	return nil
}

func (s *memStore) Remove() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.removes++
	s.tok = nil
	return nil
}

func newTestManager(auth *fakeAuth, store TokenStore) *Manager {
	return NewManager(auth, store, NewCredential(), logging.Discard())
}

func TestManager_InitRestoresToken(t *testing.T) {
	store := &memStore{tok: &oauth2.Token{AccessToken: "abc"}}
	m := newTestManager(&fakeAuth{}, store)

	if !m.Loading() {
		t.Fatal("expected manager to start loading")
	}
	m.Init()

	if m.Loading() {
		t.Error("expected loading to clear after Init")
	}
	if !m.Authenticated() {
		t.Error("expected restored session to be authenticated")
	}
	if m.User() != nil {
		t.Error("restored session should not have a profile")
	}
}

func TestManager_InitWithoutToken(t *testing.T) {
	m := newTestManager(&fakeAuth{}, &memStore{})
	m.Init()

	if m.Loading() {
		t.Error("expected loading to clear after Init")
	}
	if m.Authenticated() {
		t.Error("expected no session")
	}
}

func TestManager_InitCorruptToken(t *testing.T) {
	m := newTestManager(&fakeAuth{}, &memStore{loadErr: ErrCorruptToken})
	m.Init()

	if m.Loading() {
		t.Error("expected loading to clear even when the store fails")
	}
	if m.Authenticated() {
		t.Error("corrupt token must not start a session")
	}
}

func TestManager_LoginPersistsToken(t *testing.T) {
	store := &memStore{}
	m := newTestManager(&fakeAuth{token: "tok-1"}, store)
	m.Init()

	if err := m.Login(context.Background(), "ana", "secret"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !m.Authenticated() {
		t.Error("expected session after login")
	}
	if u := m.User(); u == nil || u.Username != "ana" {
		t.Errorf("expected user ana, got %#v", u)
	}
	if store.tok == nil || store.tok.AccessToken != "tok-1" {
		t.Errorf("expected token to be persisted, got %#v", store.tok)
	}
	tok, err := m.Credential().Token()
	if err != nil || tok.AccessToken != "tok-1" {
		t.Errorf("expected credential tok-1, got %v (%v)", tok, err)
	}
}

func TestManager_LoginFailureUsesServerMessage(t *testing.T) {
	store := &memStore{}
	m := newTestManager(&fakeAuth{loginErr: serverErr("Credenciales inválidas")}, store)
	m.Init()

	err := m.Login(context.Background(), "ana", "wrong")
	if err == nil {
		t.Fatal("expected error")
	}
	if err.Error() != "Credenciales inválidas" {
		t.Errorf("expected server message, got %q", err.Error())
	}
	if !errors.Is(err, ErrLoginFailed) {
		t.Error("expected errors.Is(err, ErrLoginFailed)")
	}
	if m.Authenticated() || store.saves != 0 {
		t.Error("failed login must not start or persist a session")
	}
}

func TestManager_LoginFailureGenericMessage(t *testing.T) {
	m := newTestManager(&fakeAuth{loginErr: errors.New("connection refused")}, &memStore{})

	err := m.Login(context.Background(), "ana", "pw")
	if err == nil || err.Error() != "login failed" {
		t.Errorf("expected generic message, got %v", err)
	}
}

func TestManager_LoginSaveFailureRollsBack(t *testing.T) {
	store := &memStore{saveErr: errors.New("disk full")}
	m := newTestManager(&fakeAuth{token: "tok"}, store)

	if err := m.Login(context.Background(), "ana", "pw"); err == nil {
		t.Fatal("expected error when the token cannot be saved")
	}
	if m.Authenticated() || m.User() != nil {
		t.Error("session must not be live when persistence fails")
	}
}

func TestManager_RegisterLogsIn(t *testing.T) {
	auth := &fakeAuth{token: "tok-2"}
	m := newTestManager(auth, &memStore{})

	if err := m.Register(context.Background(), "ben", "ben@example.com", "pw"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if auth.registers != 1 || auth.logins != 1 {
		t.Errorf("expected one register and one login, got %d/%d", auth.registers, auth.logins)
	}
	if !m.Authenticated() {
		t.Error("expected session after register")
	}
}

func TestManager_RegisterFailure(t *testing.T) {
	auth := &fakeAuth{registerErr: serverErr("El usuario ya existe")}
	m := newTestManager(auth, &memStore{})

	err := m.Register(context.Background(), "ben", "ben@example.com", "pw")
	if err == nil || err.Error() != "El usuario ya existe" {
		t.Fatalf("expected server message, got %v", err)
	}
	if !errors.Is(err, ErrRegistrationFailed) {
		t.Error("expected errors.Is(err, ErrRegistrationFailed)")
	}
	if auth.logins != 0 {
		t.Error("login must not be attempted after a failed registration")
	}
}

func TestManager_RegisterThenLoginFails(t *testing.T) {
	auth := &fakeAuth{loginErr: errors.New("boom")}
	store := &memStore{}
	m := newTestManager(auth, store)

	err := m.Register(context.Background(), "ben", "ben@example.com", "pw")
	if err == nil {
		t.Fatal("expected the login failure to propagate")
	}
	if !errors.Is(err, ErrLoginFailed) {
		t.Errorf("expected login failure, got %v", err)
	}
	if m.Authenticated() {
		t.Error("expected no session")
	}
	if store.tok != nil || store.saves != 0 {
		t.Error("no token may be persisted")
	}
}

func TestManager_Logout(t *testing.T) {
	store := &memStore{}
	m := newTestManager(&fakeAuth{token: "tok"}, store)
	if err := m.Login(context.Background(), "ana", "pw"); err != nil {
		t.Fatalf("login: %v", err)
	}

	m.Logout()

	if m.Authenticated() || m.User() != nil {
		t.Error("expected session to be cleared")
	}
	if store.tok != nil || store.removes != 1 {
		t.Error("expected persisted token to be removed")
	}
	if _, err := m.Credential().Token(); !errors.Is(err, ErrNoCredential) {
		t.Errorf("expected ErrNoCredential, got %v", err)
	}
}

func TestCredential_HeaderFollowsSession(t *testing.T) {
	var (
		mu      sync.Mutex
		headers []string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		headers = append(headers, r.Header.Get("Authorization"))
		mu.Unlock()
	}))
	defer srv.Close()

	m := newTestManager(&fakeAuth{token: "tok-xyz"}, &memStore{})
	m.Init()
	client := m.Credential().Client(srv.Client())

	get := func() {
		t.Helper()
		resp, err := client.Get(srv.URL)
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		resp.Body.Close()
	}

	get()
	if err := m.Login(context.Background(), "ana", "pw"); err != nil {
		t.Fatalf("login: %v", err)
	}
	get()
	m.Logout()
	get()

	want := []string{"", "Bearer tok-xyz", ""}
	if len(headers) != len(want) {
		t.Fatalf("expected %d requests, got %d", len(want), len(headers))
	}
	for i := range want {
		if headers[i] != want[i] {
			t.Errorf("request %d: expected Authorization %q, got %q", i, want[i], headers[i])
		}
	}
}

func TestCredential_RemovesStaleHeader(t *testing.T) {
	cred := NewCredential()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer stale")

	cred.Apply(req)

	if got := req.Header.Get("Authorization"); got != "" {
		t.Errorf("expected header to be removed, got %q", got)
	}
}

func TestFileStore_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "token.json")
	store := NewFileStore(path)

	tok, err := store.Load()
	if err != nil || tok != nil {
		t.Fatalf("expected empty store, got %v (%v)", tok, err)
	}

	if err := store.Save(&oauth2.Token{AccessToken: "abc", TokenType: "Bearer"}); err != nil {
		t.Fatalf("save: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("expected mode 0600, got %v", info.Mode().Perm())
	}

	tok, err = store.Load()
	if err != nil || tok.AccessToken != "abc" {
		t.Errorf("expected abc, got %v (%v)", tok, err)
	}

	if err := store.Remove(); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if err := store.Remove(); err != nil {
		t.Errorf("second remove should be a no-op, got %v", err)
	}
}

func TestFileStore_Corrupt(t *testing.T) {
	dir := t.TempDir()
	cases := map[string]string{
		"garbage": "not json",
		"empty":   `{"access_token":""}`,
	}
	for name, body := range cases {
		path := filepath.Join(dir, name+".json")
		if err := os.WriteFile(path, []byte(body), 0600); err != nil {
			t.Fatal(err)
		}
		_, err := NewFileStore(path).Load()
		if !errors.Is(err, ErrCorruptToken) {
			t.Errorf("%s: expected ErrCorruptToken, got %v", name, err)
		}
	}
}

func TestNewManager_NilLogger(t *testing.T) {
	m := NewManager(&fakeAuth{}, &memStore{}, nil, nil)
	if m.Credential() == nil {
		t.Fatal("expected a credential")
	}
	if m.logger == nil {
		t.Error("expected a default logger")
	}
}
