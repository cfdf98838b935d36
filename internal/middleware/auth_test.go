package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/task-management-system/internal/model"
	"github.com/iliyamo/task-management-system/internal/repository"
	"github.com/iliyamo/task-management-system/internal/utils"
)

// stubUserStore serves a fixed set of users by id; the email/list methods
// are unused by the guard.
type stubUserStore struct {
	byID map[uint64]model.User
}

func (s *stubUserStore) Create(ctx context.Context, name, email, passwordHash, role string) (uint64, error) {
	return 0, repository.ErrEmailExists
}
func (s *stubUserStore) GetByEmail(ctx context.Context, email string) (model.User, error) {
	return model.User{}, repository.ErrNotFound
}
func (s *stubUserStore) GetByID(ctx context.Context, id uint64) (model.User, error) {
	u, ok := s.byID[id]
	if !ok {
		return model.User{}, repository.ErrNotFound
	}
	return u, nil
}
func (s *stubUserStore) ListAll(ctx context.Context) ([]model.User, error) { return nil, nil }

var _ repository.UserStore = (*stubUserStore)(nil)

const testSecret = "guard-test-secret"

func guardRequest(t *testing.T, users repository.UserStore, authHeader string) (*httptest.ResponseRecorder, *model.User) {
	t.Helper()

	e := echo.New()
	var seen *model.User
	h := Authenticate(testSecret, users)(func(c echo.Context) error {
		if u, ok := CurrentUser(c); ok {
			seen = &u
		}
		return c.String(http.StatusOK, "ok")
	})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	if err := h(e.NewContext(req, rec)); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	return rec, seen
}

func TestAuthenticate_MissingHeader(t *testing.T) {
	t.Parallel()

	rec, _ := guardRequest(t, &stubUserStore{}, "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestAuthenticate_ResolvesIdentity(t *testing.T) {
	t.Parallel()

	users := &stubUserStore{byID: map[uint64]model.User{
		7: {ID: 7, Name: "Ann", Email: "ann@x.com", Role: model.RoleUser, IsActive: true},
	}}
	tok, err := utils.NewAccessToken(testSecret, 7, 60)
	if err != nil {
		t.Fatalf("NewAccessToken error: %v", err)
	}

	rec, seen := guardRequest(t, users, "Bearer "+tok.Token)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}
	if seen == nil || seen.Name != "Ann" || seen.Role != model.RoleUser {
		t.Fatalf("identity not resolved from store: %+v", seen)
	}
}

func TestAuthenticate_DeletedUserFailsClosed(t *testing.T) {
	t.Parallel()

	// Token is valid but the subject no longer exists.
	tok, err := utils.NewAccessToken(testSecret, 99, 60)
	if err != nil {
		t.Fatalf("NewAccessToken error: %v", err)
	}
	rec, _ := guardRequest(t, &stubUserStore{byID: map[uint64]model.User{}}, "Bearer "+tok.Token)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for deleted user, got %d", rec.Code)
	}
}

func TestAuthenticate_InactiveUserFailsClosed(t *testing.T) {
	t.Parallel()

	users := &stubUserStore{byID: map[uint64]model.User{
		5: {ID: 5, Name: "Gone", Role: model.RoleUser, IsActive: false},
	}}
	tok, err := utils.NewAccessToken(testSecret, 5, 60)
	if err != nil {
		t.Fatalf("NewAccessToken error: %v", err)
	}
	rec, _ := guardRequest(t, users, "Bearer "+tok.Token)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for inactive user, got %d", rec.Code)
	}
}

func TestAuthenticate_BadTokens(t *testing.T) {
	t.Parallel()

	users := &stubUserStore{byID: map[uint64]model.User{
		7: {ID: 7, Name: "Ann", Role: model.RoleUser, IsActive: true},
	}}
	tok, err := utils.NewAccessToken(testSecret, 7, 60)
	if err != nil {
		t.Fatalf("NewAccessToken error: %v", err)
	}
	tampered := tok.Token[:len(tok.Token)-1]
	if tok.Token[len(tok.Token)-1] == 'a' {
		tampered += "b"
	} else {
		tampered += "a"
	}

	for name, header := range map[string]string{
		"no bearer prefix": tok.Token,
		"garbage":          "Bearer not.a.jwt",
		"tampered":         "Bearer " + tampered,
	} {
		rec, _ := guardRequest(t, users, header)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("%s: expected 401, got %d", name, rec.Code)
		}
	}
}
