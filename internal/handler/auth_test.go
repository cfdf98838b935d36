package handler_test

import (
	"encoding/json"
	"testing"
)

func TestRegisterLoginMe(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	env.register(t, "Ann", "ann@x.com", "secret1")
	token := env.login(t, "ann@x.com", "secret1")

	rec := env.do(t, "GET", "/v1/me", token, nil)
	if rec.Code != 200 {
		t.Fatalf("me: expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}
	var me struct {
		Name string `json:"name"`
		Role string `json:"role"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &me); err != nil {
		t.Fatalf("decode me response: %v", err)
	}
	if me.Name != "Ann" {
		t.Fatalf("expected identity Ann, got %q", me.Name)
	}
	if me.Role != "USER" {
		t.Fatalf("expected default USER role, got %q", me.Role)
	}
}

func TestMe_TamperedTokenRejected(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	env.register(t, "Ann", "ann@x.com", "secret1")
	token := env.login(t, "ann@x.com", "secret1")

	tampered := token[:len(token)-1]
	if token[len(token)-1] == 'a' {
		tampered += "b"
	} else {
		tampered += "a"
	}

	rec := env.do(t, "GET", "/v1/me", tampered, nil)
	if rec.Code != 401 {
		t.Fatalf("expected 401 for tampered token, got %d", rec.Code)
	}
}

func TestRegister_DuplicateEmailConflict(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	env.register(t, "Ann", "ann@x.com", "secret1")
	rec := env.do(t, "POST", "/v1/auth/register", "", map[string]string{
		"name": "Other Ann", "email": "Ann@X.com", "password": "secret2",
	})
	if rec.Code != 409 {
		t.Fatalf("expected 409 for duplicate email, got %d (%s)", rec.Code, rec.Body.String())
	}
}

func TestLogin_InvalidCredentialsUniform(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	env.register(t, "Ann", "ann@x.com", "secret1")

	wrongPass := env.do(t, "POST", "/v1/auth/login", "", map[string]string{
		"email": "ann@x.com", "password": "nope",
	})
	unknown := env.do(t, "POST", "/v1/auth/login", "", map[string]string{
		"email": "ghost@x.com", "password": "nope",
	})
	if wrongPass.Code != 401 || unknown.Code != 401 {
		t.Fatalf("expected 401/401, got %d/%d", wrongPass.Code, unknown.Code)
	}
	if wrongPass.Body.String() != unknown.Body.String() {
		t.Fatal("wrong-password and unknown-email responses must be identical")
	}
}

func TestProtectedRoutes_RequireToken(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	for _, path := range []string{"/v1/me", "/v1/dashboard", "/v1/admin/users", "/v1/admin/tasks"} {
		rec := env.do(t, "GET", path, "", nil)
		if rec.Code != 401 {
			t.Fatalf("%s without token: expected 401, got %d", path, rec.Code)
		}
	}
}
