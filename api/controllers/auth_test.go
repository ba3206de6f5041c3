package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ajcastillo/gearmart-backend/internal/auth"
	"github.com/ajcastillo/gearmart-backend/internal/users"
	pkgerrors "github.com/ajcastillo/gearmart-backend/pkg/errors"
)

type fakeAuthService struct {
	registerResp *auth.RegisterResponse
	registerErr  error
	loginResp    *auth.LoginResponse
	loginErr     error
	refreshResp  *auth.TokenPair
	refreshErr   error
	logoutErr    error
	logoutCalled string
}

func (f *fakeAuthService) Register(ctx context.Context, req auth.RegisterRequest) (*auth.RegisterResponse, error) {
	return f.registerResp, f.registerErr
}

func (f *fakeAuthService) Login(ctx context.Context, req auth.LoginRequest) (*auth.LoginResponse, error) {
	return f.loginResp, f.loginErr
}

func (f *fakeAuthService) Refresh(ctx context.Context, req auth.RefreshRequest) (*auth.TokenPair, error) {
	return f.refreshResp, f.refreshErr
}

func (f *fakeAuthService) Logout(ctx context.Context, accessID string) error {
	f.logoutCalled = accessID
	return f.logoutErr
}

func TestAuthRegisterCreatesAccount(t *testing.T) {
	svc := &fakeAuthService{
		registerResp: &auth.RegisterResponse{User: &users.UserDTO{ID: 1, Username: "neo"}},
	}
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", strings.NewReader(`{"username":"neo","email":"neo@example.com","password":"longenough1"}`))
	rec := httptest.NewRecorder()

	AuthRegister(svc, nil)(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var payload struct {
		Data struct {
			User struct {
				Username string `json:"username"`
			} `json:"user"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload.Data.User.Username != "neo" {
		t.Fatalf("unexpected username %q", payload.Data.User.Username)
	}
}

func TestAuthRegisterRejectsInvalidBody(t *testing.T) {
	svc := &fakeAuthService{}
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", strings.NewReader(`{"username":"x"}`))
	rec := httptest.NewRecorder()

	AuthRegister(svc, nil)(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestAuthLoginPropagatesServiceError(t *testing.T) {
	svc := &fakeAuthService{loginErr: pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")}
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(`{"username":"neo","password":"wrong-pass"}`))
	rec := httptest.NewRecorder()

	AuthLogin(svc, nil)(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestAuthLoginReturnsTokens(t *testing.T) {
	svc := &fakeAuthService{
		loginResp: &auth.LoginResponse{
			TokenPair: auth.TokenPair{AccessToken: "token-a", RefreshToken: "token-r"},
			User:      &users.UserDTO{ID: 9, Username: "neo"},
		},
	}
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(`{"username":"neo","password":"correct-pass"}`))
	rec := httptest.NewRecorder()

	AuthLogin(svc, nil)(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"access_token":"token-a"`) {
		t.Fatalf("access token missing from body: %s", rec.Body.String())
	}
}
