package app

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"golang.org/x/crypto/bcrypt"

	"github.com/you/identitysvc/internal/config"
	"github.com/you/identitysvc/internal/infrastructure/database"
	"github.com/you/identitysvc/internal/services"
)

const startupDeadline = 10 * time.Second

func sqliteConfig() *config.Config {
	return &config.Config{
		Env:        "test",
		DBDriver:   database.DriverSQLite,
		DSN:        ":memory:",
		JWTSecret:  "container-test-secret",
		JWTIssuer:  "identitysvc",
		AccessTTL:  time.Minute,
		BcryptCost: bcrypt.MinCost,
	}
}

// startContainer fails the test instead of hanging when startup blocks
func startContainer(t *testing.T, cfg *config.Config, opts ...Option) *Container {
	t.Helper()

	type result struct {
		c   *Container
		err error
	}
	done := make(chan result, 1)
	go func() {
		c, err := NewContainer(context.Background(), cfg, opts...)
		done <- result{c, err}
	}()

	select {
	case r := <-done:
		require.NoError(t, r.err)
		return r.c
	case <-time.After(startupDeadline):
		t.Fatalf("container did not start within %s", startupDeadline)
		return nil
	}
}

func TestNewContainer_SQLite(t *testing.T) {
	gin.SetMode(gin.TestMode)

	c := startContainer(t, sqliteConfig(), WithLogger(zaptest.NewLogger(t)))
	t.Cleanup(func() { _ = c.Close() })

	assert.Nil(t, c.RedisClient)
	assert.Nil(t, c.VerificationStore)
	assert.Len(t, c.PolicySvc.GetPolicies(), len(services.DefaultRoutePolicies))

	// Seeded rules reach casbin_rule without an explicit save
	var rows int64
	require.NoError(t, c.DB.Table("casbin_rule").Count(&rows).Error)
	assert.Equal(t, int64(len(services.DefaultRoutePolicies)), rows)

	// A restart on the same database neither blocks nor duplicates rules
	again := startContainer(t, sqliteConfig(), WithDB(c.DB))
	assert.Len(t, again.PolicySvc.GetPolicies(), len(services.DefaultRoutePolicies))
	require.NoError(t, c.DB.Table("casbin_rule").Count(&rows).Error)
	assert.Equal(t, int64(len(services.DefaultRoutePolicies)), rows)
}

func TestNewContainer_VerificationWithoutTwilio(t *testing.T) {
	gin.SetMode(gin.TestMode)

	c := startContainer(t, sqliteConfig())
	t.Cleanup(func() { _ = c.Close() })

	serve := func(method, path, token string, body interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
		var payload []byte
		if body != nil {
			var err error
			payload, err = json.Marshal(body)
			require.NoError(t, err)
		}
		req := httptest.NewRequest(method, path, bytes.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		w := httptest.NewRecorder()
		c.Router.ServeHTTP(w, req)

		var decoded map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &decoded), w.Body.String())
		return w, decoded
	}

	credentials := map[string]interface{}{"email": "kim@example.com", "password": "secret"}
	w, _ := serve(http.MethodPost, "/users/signup", "", credentials)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w, signin := serve(http.MethodPost, "/users/signin", "", credentials)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	token := signin["data"].(map[string]interface{})["accessToken"].(string)

	w, _ = serve(http.MethodPost, "/verification/email", token, nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code, w.Body.String())

	w, _ = serve(http.MethodPost, "/verification/email/check", token, map[string]interface{}{"code": "123456"})
	assert.Equal(t, http.StatusServiceUnavailable, w.Code, w.Body.String())
}
