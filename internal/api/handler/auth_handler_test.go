package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/socialnet/friends-api/internal/core/domain"
	"github.com/socialnet/friends-api/internal/core/ports"
)

type stubAuthService struct {
	registerErr error
	loginErr    error
	refreshErr  error
}

func (s *stubAuthService) Register(_ context.Context, email, name, _ string) (*domain.User, error) {
	if s.registerErr != nil {
		return nil, s.registerErr
	}
	return &domain.User{ID: "user-1", Email: strings.ToLower(email), Name: name}, nil
}

func (s *stubAuthService) Login(_ context.Context, _, _ string) (*ports.TokenPair, error) {
	if s.loginErr != nil {
		return nil, s.loginErr
	}
	return &ports.TokenPair{Access: "access-token", Refresh: "refresh-token"}, nil
}

func (s *stubAuthService) Refresh(_ context.Context, _ string) (string, error) {
	if s.refreshErr != nil {
		return "", s.refreshErr
	}
	return "new-access-token", nil
}

func doJSON(t *testing.T, fn echo.HandlerFunc, target, body string) (*httptest.ResponseRecorder, error) {
	t.Helper()
	e := echo.New()
	e.Validator = NewValidator()
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	return rec, fn(c)
}

func TestAuthHandler_Register_Success(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{})

	rec, err := doJSON(t, h.Register, "/register/",
		`{"email":"Alice@Example.com","name":"Alice","password":"sw0rdf1sh42"}`)
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	var body userResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid body: %v", err)
	}
	if body.ID != "user-1" || body.Email != "alice@example.com" {
		t.Fatalf("unexpected body: %+v", body)
	}
}

func TestAuthHandler_Register_ValidationFailures(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{})

	cases := []struct {
		name string
		body string
	}{
		{"missing email", `{"name":"Alice","password":"sw0rdf1sh42"}`},
		{"bad email", `{"email":"not-an-email","name":"Alice","password":"sw0rdf1sh42"}`},
		{"short password", `{"email":"a@example.com","name":"Alice","password":"short"}`},
		{"missing name", `{"email":"a@example.com","password":"sw0rdf1sh42"}`},
	}
	for _, tc := range cases {
		_, err := doJSON(t, h.Register, "/register/", tc.body)
		he, ok := err.(*echo.HTTPError)
		if !ok || he.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %v", tc.name, err)
		}
	}
}

func TestAuthHandler_Register_ServiceErrorPropagates(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{registerErr: domain.ErrEmailTaken})

	_, err := doJSON(t, h.Register, "/register/",
		`{"email":"a@example.com","name":"Alice","password":"sw0rdf1sh42"}`)
	if err != domain.ErrEmailTaken {
		t.Fatalf("expected ErrEmailTaken to propagate, got %v", err)
	}
}

func TestAuthHandler_Login_ReturnsTokenPair(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{})

	rec, err := doJSON(t, h.Login, "/login/",
		`{"email":"a@example.com","password":"sw0rdf1sh42"}`)
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var body tokenPairResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid body: %v", err)
	}
	if body.Access != "access-token" || body.Refresh != "refresh-token" {
		t.Fatalf("unexpected body: %+v", body)
	}
}

func TestAuthHandler_Login_BadCredentialsPropagate(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{loginErr: domain.ErrInvalidCredentials})

	_, err := doJSON(t, h.Login, "/login/", `{"email":"a@example.com","password":"wrong"}`)
	if err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials to propagate, got %v", err)
	}
}

func TestAuthHandler_Refresh(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{})

	rec, err := doJSON(t, h.Refresh, "/login/refresh/", `{"refresh":"refresh-token"}`)
	if err != nil {
		t.Fatalf("Refresh returned error: %v", err)
	}
	var body accessTokenResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid body: %v", err)
	}
	if body.Access != "new-access-token" {
		t.Fatalf("unexpected body: %+v", body)
	}
}
