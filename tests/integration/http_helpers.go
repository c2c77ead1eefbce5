package integration

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/rfoster/userboard/internal/auth"
	"github.com/rfoster/userboard/internal/handlers"
	"github.com/rfoster/userboard/internal/outbox"
	"github.com/rfoster/userboard/internal/repositories"
	"github.com/rfoster/userboard/internal/routes"
	"github.com/rfoster/userboard/internal/services"
)

// recordingOutbox captures queued verification emails instead of sending them
type recordingOutbox struct {
	mu       sync.Mutex
	Messages []outbox.Message
}

func (o *recordingOutbox) Enqueue(msg outbox.Message) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.Messages = append(o.Messages, msg)
	return nil
}

func (o *recordingOutbox) Last() (outbox.Message, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if len(o.Messages) == 0 {
		return outbox.Message{}, false
	}
	return o.Messages[len(o.Messages)-1], true
}

// TestServer wires the full HTTP stack against a test database
type TestServer struct {
	Router chi.Router
	Outbox *recordingOutbox
}

// NewTestServer builds the router with real repositories and services
func NewTestServer(testDB *TestDB) *TestServer {
	logger := slog.Default()
	userRepo := repositories.NewUserRepository(testDB.DB)
	tokenManager := auth.NewTokenManager("integration-test-secret-key", time.Hour)
	mail := &recordingOutbox{}

	accountService := services.NewAccountService(userRepo, tokenManager, mail, logger)
	adminService := services.NewAdminService(userRepo, logger)

	router := chi.NewRouter()
	routes.RegisterRoutes(router,
		handlers.NewAuthHandler(accountService),
		handlers.NewUserHandler(adminService),
		tokenManager,
		userRepo,
	)

	return &TestServer{Router: router, Outbox: mail}
}

// DoJSON performs a request with an optional JSON body and bearer token
func (s *TestServer) DoJSON(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	s.Router.ServeHTTP(rec, req)
	return rec
}

// DecodeJSON unmarshals a recorded response body
func DecodeJSON[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}
