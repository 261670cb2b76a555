package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"

	"taskboard/internal/service"
)

// FakeAPI is an in-memory task server speaking the REST contract.
// It records the Authorization header of every request.
type FakeAPI struct {
	Server *httptest.Server

	mu      sync.Mutex
	users   map[string]fakeUser // username -> account
	tokens  map[string]string   // token -> username
	tasks   map[string][]service.Task
	nextID  int64
	headers []string
}

type fakeUser struct {
	id       int64
	email    string
	password string
}

// NewFakeAPI starts a FakeAPI that is closed when the test ends.
func NewFakeAPI(t *testing.T) *FakeAPI {
	t.Helper()
	api := &FakeAPI{
		users:  make(map[string]fakeUser),
		tokens: make(map[string]string),
		tasks:  make(map[string][]service.Task),
		nextID: 1,
	}
	api.Server = httptest.NewServer(api.routes())
	t.Cleanup(api.Server.Close)
	return api
}

// URL returns the server root.
func (a *FakeAPI) URL() string {
	return a.Server.URL
}

// AuthHeaders returns the Authorization header of each request, in order.
func (a *FakeAPI) AuthHeaders() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]string(nil), a.headers...)
}

// TasksFor returns a copy of a user's tasks.
func (a *FakeAPI) TasksFor(username string) []service.Task {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]service.Task(nil), a.tasks[username]...)
}

func (a *FakeAPI) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(a.recordAuth)
	r.Route("/api", func(r chi.Router) {
		r.Get("/health", a.health)
		r.Post("/register", a.register)
		r.Post("/login", a.login)
		r.Group(func(r chi.Router) {
			r.Use(a.requireToken)
			r.Get("/tasks", a.listTasks)
			r.Post("/tasks", a.createTask)
			r.Put("/tasks/{id}", a.updateTask)
			r.Delete("/tasks/{id}", a.deleteTask)
		})
	})
	return r
}

func (a *FakeAPI) recordAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		a.mu.Lock()
		a.headers = append(a.headers, r.Header.Get("Authorization"))
		a.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

func (a *FakeAPI) requireToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tok, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		a.mu.Lock()
		username, known := a.tokens[tok]
		a.mu.Unlock()
		if !ok || !known {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"msg": "Missing Authorization Header"})
			return
		}
		r.Header.Set("X-Fake-User", username)
		next.ServeHTTP(w, r)
	})
}

func (a *FakeAPI) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, service.Health{
		Status:    "healthy",
		Database:  "connected",
		Version:   "1.0.0",
		Timestamp: "2024-01-01T00:00:00",
		Uptime:    12.5,
	})
}

func (a *FakeAPI) register(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Username == "" || body.Email == "" || body.Password == "" {
		writeError(w, http.StatusBadRequest, "Faltan campos requeridos")
		return
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if _, ok := a.users[body.Username]; ok {
		writeError(w, http.StatusBadRequest, "El usuario ya existe")
		return
	}
	a.users[body.Username] = fakeUser{id: int64(len(a.users) + 1), email: body.Email, password: body.Password}
	writeJSON(w, http.StatusCreated, map[string]string{"message": "Usuario creado exitosamente"})
}

func (a *FakeAPI) login(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "Faltan credenciales")
		return
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	u, ok := a.users[body.Username]
	if !ok || u.password != body.Password {
		writeError(w, http.StatusUnauthorized, "Credenciales inválidas")
		return
	}
	tok := "tok-" + body.Username + "-" + strconv.Itoa(len(a.tokens)+1)
	a.tokens[tok] = body.Username
	writeJSON(w, http.StatusOK, service.LoginResult{
		AccessToken: tok,
		User:        service.User{ID: u.id, Username: body.Username, Email: u.email},
	})
}

func (a *FakeAPI) listTasks(w http.ResponseWriter, r *http.Request) {
	a.mu.Lock()
	tasks := append([]service.Task{}, a.tasks[r.Header.Get("X-Fake-User")]...)
	a.mu.Unlock()
	writeJSON(w, http.StatusOK, tasks)
}

func (a *FakeAPI) createTask(w http.ResponseWriter, r *http.Request) {
	var in service.TaskInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil || strings.TrimSpace(in.Title) == "" {
		writeError(w, http.StatusBadRequest, "El título es requerido")
		return
	}
	if in.Priority == "" {
		in.Priority = service.DefaultPriority
	}
	if !in.Priority.Valid() {
		writeError(w, http.StatusBadRequest, "Prioridad inválida")
		return
	}

	user := r.Header.Get("X-Fake-User")
	a.mu.Lock()
	task := service.Task{
		ID:          a.nextID,
		Title:       in.Title,
		Description: in.Description,
		Priority:    in.Priority,
		CreatedAt:   "2024-01-01T00:00:00",
		UpdatedAt:   "2024-01-01T00:00:00",
	}
	a.nextID++
	a.tasks[user] = append(a.tasks[user], task)
	a.mu.Unlock()
	writeJSON(w, http.StatusCreated, task)
}

func (a *FakeAPI) updateTask(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusNotFound, "Tarea no encontrada")
		return
	}
	var in service.Task
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "JSON inválido")
		return
	}
	if in.Priority != "" && !in.Priority.Valid() {
		writeError(w, http.StatusBadRequest, "Prioridad inválida")
		return
	}

	user := r.Header.Get("X-Fake-User")
	a.mu.Lock()
	defer a.mu.Unlock()
	for i, t := range a.tasks[user] {
		if t.ID != id {
			continue
		}
		t.Title = in.Title
		t.Description = in.Description
		t.Completed = in.Completed
		if in.Priority != "" {
			t.Priority = in.Priority
		}
		t.UpdatedAt = "2024-01-02T00:00:00"
		a.tasks[user][i] = t
		writeJSON(w, http.StatusOK, t)
		return
	}
	writeError(w, http.StatusNotFound, "Tarea no encontrada")
}

func (a *FakeAPI) deleteTask(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	user := r.Header.Get("X-Fake-User")

	a.mu.Lock()
	defer a.mu.Unlock()
	for i, t := range a.tasks[user] {
		if t.ID == id {
			a.tasks[user] = append(a.tasks[user][:i], a.tasks[user][i+1:]...)
			writeJSON(w, http.StatusOK, map[string]string{"message": "Tarea eliminada exitosamente"})
			return
		}
	}
	writeError(w, http.StatusNotFound, "Tarea no encontrada")
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
