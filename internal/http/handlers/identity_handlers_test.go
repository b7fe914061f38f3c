package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/you/identitysvc/domain"
	"github.com/you/identitysvc/internal/http/middleware"
	"github.com/you/identitysvc/internal/mocks"
)

func newIdentityRouter(svc *mocks.MockIdentityService, userID uint) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewIdentityHandlers(svc, nil)

	r := gin.New()
	r.POST("/users/signup", h.SignUp)
	r.POST("/users/signin", h.SignIn)
	r.GET("/users/me", func(c *gin.Context) {
		if userID != 0 {
			c.Set(middleware.UserIDKey, userID)
		}
		c.Next()
	}, h.Me)
	return r
}

func doJSON(t *testing.T, r http.Handler, method, path, body string) (*httptest.ResponseRecorder, APIResponse) {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	var resp APIResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp), rr.Body.String())
	return rr, resp
}

func TestIdentityHandlers_SignUp(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		setupMocks     func(*mocks.MockIdentityService)
		expectedStatus int
		expectedMsg    string
		expectedError  interface{}
		validate       func(t *testing.T, svc *mocks.MockIdentityService, resp APIResponse)
	}{
		{
			name: "numbers and strings both decode",
			body: `{"username":"Alice","countryCode":1,"phoneNumber":"5551234567","password":"pw"}`,
			setupMocks: func(svc *mocks.MockIdentityService) {
				svc.SignUpFunc = func(ctx context.Context, req domain.SignUpRequest) (*domain.User, error) {
					return &domain.User{
						ID:       5,
						Email:    "alice@optional.com",
						Username: "alice",
						Phone:    &domain.PhonePair{CountryCode: "1", Number: "5551234567"},
					}, nil
				}
			},
			expectedStatus: http.StatusCreated,
			expectedMsg:    "successfully created user",
			validate: func(t *testing.T, svc *mocks.MockIdentityService, resp APIResponse) {
				require.NotNil(t, svc.LastSignUp)
				assert.Equal(t, "Alice", svc.LastSignUp.Username)
				assert.Equal(t, domain.PhonePair{CountryCode: "1", Number: "5551234567"}, svc.LastSignUp.Phone)
				assert.False(t, svc.LastSignUp.Whatsapp.Present())

				data := resp.Data.(map[string]interface{})
				assert.Equal(t, float64(5), data["userId"])
				assert.Equal(t, "alice@optional.com", data["email"])
				assert.Equal(t, "1", data["countryCode"])
				assert.Equal(t, "5551234567", data["phoneNumber"])
				assert.NotContains(t, data, "whatsappPhoneNumber")
				assert.NotContains(t, data, "password")
			},
		},
		{
			name:           "missing password",
			body:           `{"email":"a@b.com"}`,
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "invalid request body",
			validate: func(t *testing.T, svc *mocks.MockIdentityService, resp APIResponse) {
				assert.Nil(t, svc.LastSignUp)
			},
		},
		{
			name:           "malformed json",
			body:           `{"email":`,
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "invalid request body",
		},
		{
			name: "invalid phone carries the reason",
			body: `{"countryCode":1,"phoneNumber":555123,"password":"pw"}`,
			setupMocks: func(svc *mocks.MockIdentityService) {
				svc.SignUpFunc = func(ctx context.Context, req domain.SignUpRequest) (*domain.User, error) {
					return nil, &domain.PhoneError{Reason: "Expected 10 digits, got 6"}
				}
			},
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "invalid countryCode and/or phoneNumber provided",
			expectedError:  "Expected 10 digits, got 6",
		},
		{
			name: "identifier required",
			body: `{"password":"pw"}`,
			setupMocks: func(svc *mocks.MockIdentityService) {
				svc.SignUpFunc = func(ctx context.Context, req domain.SignUpRequest) (*domain.User, error) {
					return nil, domain.ErrIdentifierRequired
				}
			},
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    domain.ErrIdentifierRequired.Message,
			expectedError:  "Bad Request",
		},
		{
			name: "email conflict",
			body: `{"email":"alice@example.com","password":"pw"}`,
			setupMocks: func(svc *mocks.MockIdentityService) {
				svc.SignUpFunc = func(ctx context.Context, req domain.SignUpRequest) (*domain.User, error) {
					return nil, domain.ErrEmailExists
				}
			},
			expectedStatus: http.StatusConflict,
			expectedMsg:    "email already exists",
			expectedError:  "Conflict",
		},
		{
			name: "wrapped store failure is hidden",
			body: `{"email":"alice@example.com","password":"pw"}`,
			setupMocks: func(svc *mocks.MockIdentityService) {
				svc.SignUpFunc = func(ctx context.Context, req domain.SignUpRequest) (*domain.User, error) {
					return nil, fmt.Errorf("failed to create user: %w", errors.New("connection reset"))
				}
			},
			expectedStatus: http.StatusInternalServerError,
			expectedMsg:    "internal server error",
			expectedError:  "Internal Server Error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := mocks.NewMockIdentityService()
			if tt.setupMocks != nil {
				tt.setupMocks(svc)
			}

			rr, resp := doJSON(t, newIdentityRouter(svc, 0), http.MethodPost, "/users/signup", tt.body)

			assert.Equal(t, tt.expectedStatus, rr.Code)
			assert.Equal(t, tt.expectedStatus, resp.StatusCode)
			assert.Equal(t, tt.expectedMsg, resp.Message)
			if tt.expectedStatus < 400 {
				assert.Equal(t, "success", resp.Status)
			} else {
				assert.Equal(t, "error", resp.Status)
			}
			if tt.expectedError != nil {
				assert.Equal(t, tt.expectedError, resp.Error)
			}
			if tt.validate != nil {
				tt.validate(t, svc, resp)
			}
		})
	}
}

func TestIdentityHandlers_SignIn(t *testing.T) {
	t.Run("success answers 201 with the token", func(t *testing.T) {
		svc := mocks.NewMockIdentityService()
		rr, resp := doJSON(t, newIdentityRouter(svc, 0), http.MethodPost, "/users/signin",
			`{"whatsappCountryCode":"44","whatsappPhoneNumber":"7700900123","username":"bob","password":"pw"}`)

		assert.Equal(t, http.StatusCreated, rr.Code)
		assert.Equal(t, "successfully generated access token", resp.Message)
		assert.Equal(t, map[string]interface{}{"accessToken": "access_token_user_1"}, resp.Data)

		require.NotNil(t, svc.LastSignIn)
		assert.Equal(t, domain.PhonePair{CountryCode: "44", Number: "7700900123"}, svc.LastSignIn.Whatsapp)
		assert.Equal(t, "bob", svc.LastSignIn.Username)
	})

	t.Run("bad credentials", func(t *testing.T) {
		svc := mocks.NewMockIdentityService()
		svc.SignInFunc = func(ctx context.Context, req domain.SignInRequest) (*domain.AuthResult, error) {
			return nil, domain.ErrInvalidCredentials
		}
		rr, resp := doJSON(t, newIdentityRouter(svc, 0), http.MethodPost, "/users/signin",
			`{"email":"nobody@example.com","password":"pw"}`)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.Equal(t, "invalid credentials", resp.Message)
		assert.Equal(t, "Unauthorized", resp.Error)
	})
}

func TestIdentityHandlers_Me(t *testing.T) {
	t.Run("returns the profile", func(t *testing.T) {
		svc := mocks.NewMockIdentityService()
		svc.GetProfileFunc = func(ctx context.Context, userID uint) (*domain.User, error) {
			return &domain.User{
				ID:            userID,
				Email:         "carol@example.com",
				Username:      "carol",
				Whatsapp:      &domain.PhonePair{CountryCode: "55", Number: "11987654321"},
				EmailVerified: true,
			}, nil
		}

		rr, resp := doJSON(t, newIdentityRouter(svc, 9), http.MethodGet, "/users/me", "")
		assert.Equal(t, http.StatusOK, rr.Code)

		data := resp.Data.(map[string]interface{})
		assert.Equal(t, float64(9), data["userId"])
		assert.Equal(t, true, data["emailVerified"])
		assert.Equal(t, "55", data["whatsappCountryCode"])
		assert.NotContains(t, data, "countryCode")
	})

	t.Run("user removed", func(t *testing.T) {
		svc := mocks.NewMockIdentityService()
		svc.GetProfileFunc = func(ctx context.Context, userID uint) (*domain.User, error) {
			return nil, domain.ErrUserNotFound
		}
		rr, _ := doJSON(t, newIdentityRouter(svc, 9), http.MethodGet, "/users/me", "")
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("no authenticated user", func(t *testing.T) {
		rr, _ := doJSON(t, newIdentityRouter(mocks.NewMockIdentityService(), 0), http.MethodGet, "/users/me", "")
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}
