package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"golang.org/x/crypto/bcrypt"

	"github.com/you/identitysvc/internal/app"
	"github.com/you/identitysvc/internal/config"
	"github.com/you/identitysvc/internal/http/handlers"
	"github.com/you/identitysvc/internal/infrastructure/database"
	"github.com/you/identitysvc/internal/mocks"
)

const (
	testJWTSecret = "test-jwt-secret-for-e2e"
	testIssuer    = "identitysvc-test"
	resendWindow  = time.Minute
)

// TestSuite is one fully wired service backed by in-memory sqlite and miniredis
type TestSuite struct {
	Container *app.Container
	Notifier  *mocks.MockNotificationService
	Redis     *miniredis.Miniredis
	Server    *httptest.Server
	Client    *http.Client
}

// NewTestSuite starts an isolated service for t
func NewTestSuite(t *testing.T) *TestSuite {
	t.Helper()
	gin.SetMode(gin.TestMode)

	mr := miniredis.RunT(t)
	cfg := &config.Config{
		Env:                      "test",
		DBDriver:                 database.DriverSQLite,
		DSN:                      ":memory:",
		RedisAddr:                mr.Addr(),
		JWTSecret:                testJWTSecret,
		JWTIssuer:                testIssuer,
		AccessTTL:                15 * time.Minute,
		BcryptCost:               bcrypt.MinCost,
		VerificationResendWindow: resendWindow,
	}

	notifier := mocks.NewMockNotificationService()
	c, err := app.NewContainer(context.Background(), cfg,
		app.WithLogger(zaptest.NewLogger(t)),
		app.WithNotificationService(notifier),
	)
	require.NoError(t, err)

	server := httptest.NewServer(c.Router)
	t.Cleanup(func() {
		server.Close()
		_ = c.Close()
	})

	return &TestSuite{
		Container: c,
		Notifier:  notifier,
		Redis:     mr,
		Server:    server,
		Client:    &http.Client{Timeout: 10 * time.Second},
	}
}

// Response is a decoded envelope plus the raw HTTP details
type Response struct {
	Code   int
	Header http.Header
	Body   handlers.APIResponse
	Raw    string
}

// Data returns the envelope data as a JSON object
func (r Response) Data(t *testing.T) map[string]interface{} {
	t.Helper()
	data, ok := r.Body.Data.(map[string]interface{})
	require.True(t, ok, "response has no data object: %s", r.Raw)
	return data
}

// Do sends body as JSON with an optional bearer token
func (s *TestSuite) Do(t *testing.T, method, path, token string, body interface{}) Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		switch b := body.(type) {
		case string:
			reader = bytes.NewBufferString(b)
		default:
			payload, err := json.Marshal(b)
			require.NoError(t, err)
			reader = bytes.NewReader(payload)
		}
	}

	req, err := http.NewRequest(method, s.Server.URL+path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := s.Client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	out := Response{Code: resp.StatusCode, Header: resp.Header, Raw: string(raw)}
	if len(raw) > 0 && resp.Header.Get("Content-Type") != "" && bytes.HasPrefix(bytes.TrimSpace(raw), []byte("{")) {
		require.NoError(t, json.Unmarshal(raw, &out.Body), string(raw))
	}
	return out
}

// SignUp registers a user and requires success
func (s *TestSuite) SignUp(t *testing.T, body map[string]interface{}) map[string]interface{} {
	t.Helper()
	resp := s.Do(t, http.MethodPost, "/users/signup", "", body)
	require.Equal(t, http.StatusCreated, resp.Code, resp.Raw)
	return resp.Data(t)
}

// SignIn authenticates and returns the access token
func (s *TestSuite) SignIn(t *testing.T, body map[string]interface{}) string {
	t.Helper()
	resp := s.Do(t, http.MethodPost, "/users/signin", "", body)
	require.Equal(t, http.StatusCreated, resp.Code, resp.Raw)
	token, ok := resp.Data(t)["accessToken"].(string)
	require.True(t, ok, resp.Raw)
	return token
}

// Me loads the profile for token
func (s *TestSuite) Me(t *testing.T, token string) map[string]interface{} {
	t.Helper()
	resp := s.Do(t, http.MethodGet, "/users/me", token, nil)
	require.Equal(t, http.StatusOK, resp.Code, resp.Raw)
	return resp.Data(t)
}
