package handler_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/parceldesk/postal-service/internal/entities"
	"github.com/parceldesk/postal-service/internal/handler"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
)

type stubUserService struct {
	loginFn   func(ctx context.Context, username, password string) (entities.User, error)
	listFn    func(ctx context.Context) ([]entities.User, error)
	byEmailFn func(ctx context.Context, email string) (entities.User, error)
}

func (s *stubUserService) Login(ctx context.Context, username, password string) (entities.User, error) {
	return s.loginFn(ctx, username, password)
}

func (s *stubUserService) ListUsers(ctx context.Context) ([]entities.User, error) {
	return s.listFn(ctx)
}

func (s *stubUserService) GetUserByEmail(ctx context.Context, email string) (entities.User, error) {
	return s.byEmailFn(ctx, email)
}

func TestAuthHandler_Login(t *testing.T) {
	testCases := []struct {
		name       string
		body       string
		svc        *stubUserService
		wantStatus int
		wantBody   string
	}{
		{
			name: "success",
			body: `{"username": "admin1", "password": "s3cret"}`,
			svc: &stubUserService{
				loginFn: func(_ context.Context, username, password string) (entities.User, error) {
					assert.Equal(t, "admin1", username)
					assert.Equal(t, "s3cret", password)
					return entities.User{ID: 2, Username: "admin1", Role: entities.RoleAdmin}, nil
				},
			},
			wantStatus: http.StatusOK,
			wantBody:   `"role":"admin"`,
		},
		{
			name: "invalid credentials",
			body: `{"username": "admin1", "password": "wrong"}`,
			svc: &stubUserService{
				loginFn: func(context.Context, string, string) (entities.User, error) {
					return entities.User{}, entities.ErrInvalidCredentials
				},
			},
			wantStatus: http.StatusUnauthorized,
			wantBody:   `"Invalid credentials"`,
		},
		{
			name:       "missing password",
			body:       `{"username": "admin1"}`,
			svc:        &stubUserService{},
			wantStatus: http.StatusBadRequest,
			wantBody:   `"Password":"required"`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			r := chi.NewRouter()
			handler.NewAuthHandler(discardLogger(), tc.svc).Init(r)

			req := httptest.NewRequest(http.MethodPost, "/api/user/login", strings.NewReader(tc.body))
			rr := httptest.NewRecorder()
			r.ServeHTTP(rr, req)

			assert.Equal(t, tc.wantStatus, rr.Code)
			assert.Contains(t, rr.Body.String(), tc.wantBody)
		})
	}
}
