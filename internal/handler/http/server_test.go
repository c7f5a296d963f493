package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/Nguyen-Chi-Tam/trim-url/internal/analytics"
	"github.com/Nguyen-Chi-Tam/trim-url/internal/auth"
	"github.com/Nguyen-Chi-Tam/trim-url/internal/config"
	"github.com/Nguyen-Chi-Tam/trim-url/internal/repository/memory"
	"github.com/Nguyen-Chi-Tam/trim-url/internal/service"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// testEnv bundles everything the handler tests need
type testEnv struct {
	handler   http.Handler
	store     *memory.MemStorage
	jwt       *auth.JWTService
	processor *analytics.Processor
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	store := memory.New()
	log := zap.NewNop()

	shortener := service.NewURLShortener(store, nil, &config.URLShortener{
		CodeLength: 6,
		BaseURL:    "http://sho.rt",
	}, log)

	processor := analytics.NewProcessor(store, nil, log, analytics.ProcessorConfig{
		WorkerCount:     1,
		BufferSize:      16,
		RetryAttempts:   1,
		RetryDelay:      time.Millisecond,
		ShutdownTimeout: time.Second,
	})
	require.NoError(t, processor.Start())
	t.Cleanup(func() { _ = processor.Stop() })

	jwtService := auth.NewJWTService(&auth.JWTConfig{
		SecretKey:            []byte("test-secret"),
		AccessTokenDuration:  time.Hour,
		RefreshTokenDuration: 24 * time.Hour,
		Issuer:               "trim-url-test",
	})
	passwordService := auth.NewPasswordServiceWithCost(bcrypt.MinCost)
	authHandlers := auth.NewAuthHandlers(store, jwtService, passwordService, time.Hour, log)
	authMiddleware := auth.NewMiddleware(jwtService, store, log)

	server := NewServer(store, shortener, processor, authHandlers, authMiddleware, log)

	return &testEnv{
		handler:   server.SetupRoutes(),
		store:     store,
		jwt:       jwtService,
		processor: processor,
	}
}

// newUser registers an account directly in storage and returns its id and a
// bearer token
func (e *testEnv) newUser(t *testing.T, email string) (int64, string) {
	t.Helper()
	user, err := e.store.CreateUser(context.Background(), email, "hash")
	require.NoError(t, err)
	token, err := e.jwt.GenerateAccessToken(user.ID, user.Email)
	require.NoError(t, err)
	return user.ID, token
}

func (e *testEnv) newAdmin(t *testing.T, email string) string {
	t.Helper()
	user, err := e.store.CreateUser(context.Background(), email, "hash")
	require.NoError(t, err)
	user.IsAdmin = true
	require.NoError(t, e.store.UpdateUser(context.Background(), user))
	token, err := e.jwt.GenerateAccessToken(user.ID, user.Email)
	require.NoError(t, err)
	return token
}

func (e *testEnv) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.NewDecoder(rec.Body).Decode(out))
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
