package httpserver

import (
	"net/http"
	"strings"
	"testing"

	"smartband-store/internal/service/auth"
)

type authBody struct {
	Redirect string     `json:"redirect"`
	Error    string     `json:"error"`
	State    auth.State `json:"state"`
}

func TestLogin_Success(t *testing.T) {
	srv := newTestServer(t, nil)

	rec := srv.do(http.MethodPost, "/api/auth/login", `{"email":"test@example.com","password":"123456"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}
	var body authBody
	decodeBody(t, rec, &body)
	if body.Redirect != auth.DashboardPath {
		t.Fatalf("expected dashboard redirect, got %q", body.Redirect)
	}
	if body.State.User == nil || body.State.User.Name != "کاربر تست" {
		t.Fatalf("unexpected user: %+v", body.State.User)
	}

	decodeBody(t, srv.do(http.MethodGet, "/api/auth/me", ""), &body)
	if body.State.Phase != auth.PhaseLoggedIn {
		t.Fatalf("expected logged in, got %s", body.State.Phase)
	}
}

func TestLogin_WrongCredentials(t *testing.T) {
	srv := newTestServer(t, nil)

	rec := srv.do(http.MethodPost, "/api/auth/login", `{"email":"test@example.com","password":"654321"}`)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	var body authBody
	decodeBody(t, rec, &body)
	if body.Error != auth.MsgInvalidCredentials || body.State.User != nil {
		t.Fatalf("unexpected body: %+v", body)
	}

	decodeBody(t, srv.do(http.MethodPost, "/api/auth/clear-error", ""), &body)
	if body.State.Error != nil {
		t.Fatalf("error not cleared: %v", *body.State.Error)
	}
}

func TestLogin_FormValidation(t *testing.T) {
	srv := newTestServer(t, nil)

	rec := srv.do(http.MethodPost, "/api/auth/login", `{"email":"nope","password":"123"}`)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"email"`) || !strings.Contains(rec.Body.String(), `"password"`) {
		t.Fatalf("expected both fields reported: %s", rec.Body.String())
	}
}

func TestRegisterAndLogout(t *testing.T) {
	srv := newTestServer(t, nil)

	rec := srv.do(http.MethodPost, "/api/auth/register",
		`{"name":"مریم","email":"maryam@example.com","phone":"09351234567","password":"secret1","confirmPassword":"secret1"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}
	var body authBody
	decodeBody(t, rec, &body)
	if body.State.User == nil || body.State.User.Email != "maryam@example.com" {
		t.Fatalf("unexpected user: %+v", body.State.User)
	}

	rec = srv.do(http.MethodPost, "/api/auth/register",
		`{"name":"مریم","email":"maryam@example.com","password":"secret1","confirmPassword":"secret1"}`)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected duplicate email to be rejected, got %d", rec.Code)
	}
	decodeBody(t, rec, &body)
	if body.Error != auth.MsgEmailTaken {
		t.Fatalf("unexpected error %q", body.Error)
	}

	decodeBody(t, srv.do(http.MethodPost, "/api/auth/logout", ""), &body)
	if body.State.User != nil || body.State.Phase != auth.PhaseLoggedOut {
		t.Fatalf("expected logged out: %+v", body.State)
	}
}

func TestRegister_MismatchedPasswords(t *testing.T) {
	srv := newTestServer(t, nil)
	rec := srv.do(http.MethodPost, "/api/auth/register",
		`{"name":"م","email":"m@example.com","phone":"0912","password":"secret1","confirmPassword":"secret2"}`)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}
	for _, field := range []string{`"name"`, `"phone"`, `"confirmPassword"`} {
		if !strings.Contains(rec.Body.String(), field) {
			t.Fatalf("expected %s reported: %s", field, rec.Body.String())
		}
	}
}
