package handler_test

// In-memory stores and a fully routed test server. The fakes mirror the
// MySQL repositories' semantics (email uniqueness, ErrNotFound sentinels)
// so handler tests exercise the same error paths as production.

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/iliyamo/task-management-system/internal/auth"
	"github.com/iliyamo/task-management-system/internal/config"
	"github.com/iliyamo/task-management-system/internal/handler"
	"github.com/iliyamo/task-management-system/internal/middleware"
	"github.com/iliyamo/task-management-system/internal/model"
	"github.com/iliyamo/task-management-system/internal/repository"
	"github.com/iliyamo/task-management-system/internal/router"
)

const testSecret = "handler-test-secret"

type memUserStore struct {
	mu   sync.Mutex
	seq  uint64
	rows map[uint64]model.User
}

func newMemUserStore() *memUserStore {
	return &memUserStore{rows: make(map[uint64]model.User)}
}

func (s *memUserStore) Create(ctx context.Context, name, email, passwordHash, role string) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	email = strings.ToLower(strings.TrimSpace(email))
	for _, u := range s.rows {
		if u.Email == email {
			return 0, repository.ErrEmailExists
		}
	}
	s.seq++
	s.rows[s.seq] = model.User{
		ID: s.seq, Name: name, Email: email,
		PasswordHash: passwordHash, Role: role, IsActive: true,
	}
	return s.seq, nil
}

func (s *memUserStore) GetByEmail(ctx context.Context, email string) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	email = strings.ToLower(strings.TrimSpace(email))
	for _, u := range s.rows {
		if u.Email == email {
			return u, nil
		}
	}
	return model.User{}, repository.ErrNotFound
}

func (s *memUserStore) GetByID(ctx context.Context, id uint64) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.rows[id]
	if !ok {
		return model.User{}, repository.ErrNotFound
	}
	return u, nil
}

func (s *memUserStore) ListAll(ctx context.Context) ([]model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.User, 0, len(s.rows))
	for i := uint64(1); i <= s.seq; i++ {
		if u, ok := s.rows[i]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

type memTaskStore struct {
	mu    sync.Mutex
	seq   uint64
	rows  map[uint64]model.Task
	users *memUserStore
}

func newMemTaskStore(users *memUserStore) *memTaskStore {
	return &memTaskStore{rows: make(map[uint64]model.Task), users: users}
}

func (s *memTaskStore) Create(ctx context.Context, t model.Task) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	t.ID = s.seq
	s.rows[t.ID] = t
	return t.ID, nil
}

func (s *memTaskStore) GetByID(ctx context.Context, id uint64) (model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.rows[id]
	if !ok {
		return model.Task{}, repository.ErrNotFound
	}
	return t, nil
}

func (s *memTaskStore) ListByOwner(ctx context.Context, ownerID uint64) ([]model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Task
	for i := s.seq; i >= 1; i-- {
		if t, ok := s.rows[i]; ok && t.OwnerID == ownerID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (s *memTaskStore) ListAllWithOwners(ctx context.Context) ([]model.TaskWithOwner, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.TaskWithOwner
	for i := s.seq; i >= 1; i-- {
		t, ok := s.rows[i]
		if !ok {
			continue
		}
		owner, err := s.users.GetByID(ctx, t.OwnerID)
		if err != nil {
			return nil, err
		}
		out = append(out, model.TaskWithOwner{Task: t, OwnerName: owner.Name, OwnerEmail: owner.Email})
	}
	return out, nil
}

func (s *memTaskStore) Update(ctx context.Context, t model.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rows[t.ID]; !ok {
		return repository.ErrNotFound
	}
	s.rows[t.ID] = t
	return nil
}

func (s *memTaskStore) Delete(ctx context.Context, id uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rows[id]; !ok {
		return repository.ErrNotFound
	}
	delete(s.rows, id)
	return nil
}

var (
	_ repository.UserStore = (*memUserStore)(nil)
	_ repository.TaskStore = (*memTaskStore)(nil)
)

// passthrough stands in for the Redis-backed limiter/cache middleware.
func passthrough(next echo.HandlerFunc) echo.HandlerFunc { return next }

type testEnv struct {
	e     *echo.Echo
	users *memUserStore
	tasks *memTaskStore
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	cfg := config.Config{JWTSecret: testSecret, AccessTTLMin: 60, BcryptCost: bcrypt.MinCost}
	users := newMemUserStore()
	tasks := newMemTaskStore(users)
	creds := auth.NewCredentialStore(users, cfg.BcryptCost)
	guard := middleware.Authenticate(cfg.JWTSecret, users)

	e := echo.New()
	router.RegisterRoutes(e)
	router.RegisterAuth(e, handler.NewAuthHandler(cfg, creds), passthrough, guard)
	router.RegisterTasks(e, handler.NewTaskHandler(tasks, users), guard, passthrough)
	router.RegisterAdmin(e, handler.NewAdminHandler(users, tasks), guard)

	return &testEnv{e: e, users: users, tasks: tasks}
}

// do sends a JSON request through the full router and returns the recorder.
func (env *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var rd *bytes.Reader
	if body != nil {
		bs, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request body: %v", err)
		}
		rd = bytes.NewReader(bs)
	} else {
		rd = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, rd)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	env.e.ServeHTTP(rec, req)
	return rec
}

// register creates an account through the API and returns nothing; login
// returns the issued token.
func (env *testEnv) register(t *testing.T, name, email, password string) {
	t.Helper()
	rec := env.do(t, "POST", "/v1/auth/register", "", map[string]string{
		"name": name, "email": email, "password": password,
	})
	if rec.Code != 201 {
		t.Fatalf("register %s: expected 201, got %d (%s)", email, rec.Code, rec.Body.String())
	}
}

func (env *testEnv) login(t *testing.T, email, password string) string {
	t.Helper()
	rec := env.do(t, "POST", "/v1/auth/login", "", map[string]string{
		"email": email, "password": password,
	})
	if rec.Code != 200 {
		t.Fatalf("login %s: expected 200, got %d (%s)", email, rec.Code, rec.Body.String())
	}
	var resp struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode login response: %v", err)
	}
	if resp.Token == "" {
		t.Fatal("login returned empty token")
	}
	return resp.Token
}

// seedAdmin inserts an admin account directly into the store (there is no
// registration path that yields ADMIN).
func (env *testEnv) seedAdmin(t *testing.T, email, password string) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash admin password: %v", err)
	}
	if _, err := env.users.Create(context.Background(), "Root", email, string(hash), model.RoleAdmin); err != nil {
		t.Fatalf("seed admin: %v", err)
	}
}
