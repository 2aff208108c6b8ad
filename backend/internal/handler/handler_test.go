package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/qmail-dev/qmail/shared/api"
	"github.com/qmail-dev/qmail/shared/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Mocks ---

type MockAuthService struct {
	RegisterFunc  func(ctx context.Context, data domain.UserCreationData) (domain.Email, error)
	LoginFunc     func(ctx context.Context, creds domain.Credentials) (domain.Email, error)
	PublicKeyFunc func(ctx context.Context, email domain.Email) (domain.PublicKey, error)
}

func (m *MockAuthService) Register(ctx context.Context, data domain.UserCreationData) (domain.Email, error) {
	if m.RegisterFunc != nil {
		return m.RegisterFunc(ctx, data)
	}
	return domain.DerivedEmail(data.Username, domain.MailDomain), nil
}

func (m *MockAuthService) Login(ctx context.Context, creds domain.Credentials) (domain.Email, error) {
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, creds)
	}
	return creds.Email, nil
}

func (m *MockAuthService) PublicKey(ctx context.Context, email domain.Email) (domain.PublicKey, error) {
	if m.PublicKeyFunc != nil {
		return m.PublicKeyFunc(ctx, email)
	}
	return "pk", nil
}

type MockMailService struct {
	SendFunc  func(ctx context.Context, data domain.MessageCreationData) (domain.Message, error)
	InboxFunc func(ctx context.Context, email domain.Email) ([]domain.Message, error)
	SentFunc  func(ctx context.Context, email domain.Email) ([]domain.Message, error)
}

func (m *MockMailService) Send(ctx context.Context, data domain.MessageCreationData) (domain.Message, error) {
	if m.SendFunc != nil {
		return m.SendFunc(ctx, data)
	}
	return domain.Message{Id: domain.NewID()}, nil
}

func (m *MockMailService) Inbox(ctx context.Context, email domain.Email) ([]domain.Message, error) {
	if m.InboxFunc != nil {
		return m.InboxFunc(ctx, email)
	}
	return nil, nil
}

func (m *MockMailService) Sent(ctx context.Context, email domain.Email) ([]domain.Message, error) {
	if m.SentFunc != nil {
		return m.SentFunc(ctx, email)
	}
	return nil, nil
}

// --- Helpers ---

func setupTestHandler(auth *MockAuthService, mail *MockMailService) (*Handler, *chi.Mux) {
	if auth == nil {
		auth = &MockAuthService{}
	}
	if mail == nil {
		mail = &MockMailService{}
	}
	h := New(auth, mail, &MockHealthChecker{})

	r := chi.NewRouter()
	r.Get("/", h.Root)
	r.Post("/register", h.Register)
	r.Post("/login", h.Login)
	r.Get("/users/{email}/key", h.PublicKey)
	r.Post("/send-email", h.SendEmail)
	r.Get("/inbox/{email}", h.Inbox)
	r.Get("/sent/{email}", h.Sent)
	return h, r
}

func createRequest(t *testing.T, method, url string, body []byte) *http.Request {
	t.Helper()
	req := httptest.NewRequest(method, url, bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func serve(router http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func decodeDetail(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	var resp api.ErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	return resp.Detail
}

// --- Tests ---

func TestRoot(t *testing.T) {
	_, router := setupTestHandler(nil, nil)

	rr := serve(router, createRequest(t, http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"Project":"QMail"}`, rr.Body.String())
}

func TestEmailParamDecodesPercentEscapes(t *testing.T) {
	var got domain.Email
	_, router := setupTestHandler(&MockAuthService{
		PublicKeyFunc: func(ctx context.Context, email domain.Email) (domain.PublicKey, error) {
			got = email
			return "pk", nil
		},
	}, nil)

	rr := serve(router, createRequest(t, http.MethodGet, "/users/alice%40qmail.co.in/key", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "alice@qmail.co.in", got)
}
