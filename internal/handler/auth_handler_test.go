package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/AlePlets/otasoft-auth/internal/cqrs"
	"github.com/AlePlets/otasoft-auth/internal/domain"
	"github.com/gin-gonic/gin"
)

// ---- mock implementations ----

type mockCommander struct {
	signUpFn         func(cqrs.SignUpCommand) (*domain.User, error)
	changePasswordFn func(cqrs.ChangePasswordCommand) (string, error)
	setNewPasswordFn func(cqrs.SetNewPasswordCommand) (string, error)
	confirmFn        func(cqrs.ConfirmAccountCommand) error
	deleteFn         func(cqrs.DeleteAccountCommand) (string, error)
	removeTokenFn    func(cqrs.RemoveRefreshTokenCommand) error
	forgotFn         func(cqrs.ForgotPasswordCommand) (string, error)
}

func (m *mockCommander) SignUp(cmd cqrs.SignUpCommand) (*domain.User, error) {
	if m.signUpFn != nil {
		return m.signUpFn(cmd)
	}
	return nil, fmt.Errorf("not configured")
}
func (m *mockCommander) ChangePassword(cmd cqrs.ChangePasswordCommand) (string, error) {
	if m.changePasswordFn != nil {
		return m.changePasswordFn(cmd)
	}
	return "", fmt.Errorf("not configured")
}
func (m *mockCommander) SetNewPassword(cmd cqrs.SetNewPasswordCommand) (string, error) {
	if m.setNewPasswordFn != nil {
		return m.setNewPasswordFn(cmd)
	}
	return "", fmt.Errorf("not configured")
}
func (m *mockCommander) ConfirmAccount(cmd cqrs.ConfirmAccountCommand) error {
	if m.confirmFn != nil {
		return m.confirmFn(cmd)
	}
	return fmt.Errorf("not configured")
}
func (m *mockCommander) DeleteAccount(cmd cqrs.DeleteAccountCommand) (string, error) {
	if m.deleteFn != nil {
		return m.deleteFn(cmd)
	}
	return "", fmt.Errorf("not configured")
}
func (m *mockCommander) RemoveRefreshToken(cmd cqrs.RemoveRefreshTokenCommand) error {
	if m.removeTokenFn != nil {
		return m.removeTokenFn(cmd)
	}
	return fmt.Errorf("not configured")
}
func (m *mockCommander) ForgotPassword(cmd cqrs.ForgotPasswordCommand) (string, error) {
	if m.forgotFn != nil {
		return m.forgotFn(cmd)
	}
	return "", fmt.Errorf("not configured")
}

type mockQuerier struct {
	getAuthIDFn      func(cqrs.GetAuthIDQuery) (int64, error)
	validateFn       func(cqrs.ValidateCredentialsQuery) (string, error)
	getRefreshUserFn func(cqrs.GetRefreshUserQuery) (*domain.User, error)
}

func (m *mockQuerier) GetAuthID(q cqrs.GetAuthIDQuery) (int64, error) {
	if m.getAuthIDFn != nil {
		return m.getAuthIDFn(q)
	}
	return 0, fmt.Errorf("not configured")
}
func (m *mockQuerier) ValidateCredentials(q cqrs.ValidateCredentialsQuery) (string, error) {
	if m.validateFn != nil {
		return m.validateFn(q)
	}
	return "", fmt.Errorf("not configured")
}
func (m *mockQuerier) GetRefreshUser(q cqrs.GetRefreshUserQuery) (*domain.User, error) {
	if m.getRefreshUserFn != nil {
		return m.getRefreshUserFn(q)
	}
	return nil, fmt.Errorf("not configured")
}

// ---- helpers ----

func newTestRouter(cmds AccountCommander, qrys AccountQuerier) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewAuthHandler(cmds, qrys)
	h.RegisterRoutes(r.Group("/v1/auth"))
	return r
}

func doRequest(router *gin.Engine, method, url string, body interface{}) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(method, url, nil)
	if body != nil {
		b, _ := json.Marshal(body)
		req, _ = http.NewRequest(method, url, strings.NewReader(string(b)))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

var testUser = &domain.User{
	ID: 1, Username: "alice", Email: "alice@example.com",
	CreatedAt: time.Now(), UpdatedAt: time.Now(),
}

// ---- tests ----

func TestSignUpHandler(t *testing.T) {
	tests := []struct {
		name           string
		body           interface{}
		signUpFn       func(cqrs.SignUpCommand) (*domain.User, error)
		expectedStatus int
	}{
		{
			name:           "success - creates new account",
			body:           map[string]string{"username": "alice", "email": "alice@example.com", "password": "securepass123"},
			signUpFn:       func(cmd cqrs.SignUpCommand) (*domain.User, error) { return testUser, nil },
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "conflict - duplicate username",
			body:           map[string]string{"username": "alice", "email": "alice@example.com", "password": "securepass123"},
			signUpFn:       func(cmd cqrs.SignUpCommand) (*domain.User, error) { return nil, domain.ErrDuplicateUser },
			expectedStatus: http.StatusConflict,
		},
		{
			name:           "bad request - missing password",
			body:           map[string]string{"username": "alice", "email": "alice@example.com"},
			signUpFn:       nil,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "bad request - invalid email format",
			body:           map[string]string{"username": "alice", "email": "not-valid", "password": "securepass123"},
			signUpFn:       nil,
			expectedStatus: http.StatusBadRequest,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newTestRouter(&mockCommander{signUpFn: tt.signUpFn}, &mockQuerier{})
			w := doRequest(router, http.MethodPost, "/v1/auth/signup", tt.body)
			if w.Code != tt.expectedStatus {
				t.Errorf("[%s] expected %d got %d; body: %s", tt.name, tt.expectedStatus, w.Code, w.Body.String())
			}
		})
	}
}

func TestValidateCredentialsHandler(t *testing.T) {
	tests := []struct {
		name             string
		body             interface{}
		validateFn       func(cqrs.ValidateCredentialsQuery) (string, error)
		expectedStatus   int
		expectedUsername string
	}{
		{
			name:             "success - valid pair returns username",
			body:             map[string]string{"username": "alice", "password": "securepass123"},
			validateFn:       func(q cqrs.ValidateCredentialsQuery) (string, error) { return "alice", nil },
			expectedStatus:   http.StatusOK,
			expectedUsername: `"username":"alice"`,
		},
		{
			name:             "soft fail - wrong password returns null username",
			body:             map[string]string{"username": "alice", "password": "wrongpass"},
			validateFn:       func(q cqrs.ValidateCredentialsQuery) (string, error) { return "", nil },
			expectedStatus:   http.StatusOK,
			expectedUsername: `"username":null`,
		},
		{
			name:           "bad request - missing password",
			body:           map[string]string{"username": "alice"},
			validateFn:     nil,
			expectedStatus: http.StatusBadRequest,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newTestRouter(&mockCommander{}, &mockQuerier{validateFn: tt.validateFn})
			w := doRequest(router, http.MethodPost, "/v1/auth/validate", tt.body)
			if w.Code != tt.expectedStatus {
				t.Errorf("[%s] expected %d got %d; body: %s", tt.name, tt.expectedStatus, w.Code, w.Body.String())
			}
			if tt.expectedUsername != "" && !strings.Contains(w.Body.String(), tt.expectedUsername) {
				t.Errorf("[%s] expected body to contain %s; got %s", tt.name, tt.expectedUsername, w.Body.String())
			}
		})
	}
}

func TestGetAuthIDHandler(t *testing.T) {
	tests := []struct {
		name           string
		body           interface{}
		getAuthIDFn    func(cqrs.GetAuthIDQuery) (int64, error)
		expectedStatus int
	}{
		{
			name:           "success - by email",
			body:           map[string]string{"email": "alice@example.com"},
			getAuthIDFn:    func(q cqrs.GetAuthIDQuery) (int64, error) { return 1, nil },
			expectedStatus: http.StatusOK,
		},
		{
			name:           "success - by username",
			body:           map[string]string{"username": "alice"},
			getAuthIDFn:    func(q cqrs.GetAuthIDQuery) (int64, error) { return 1, nil },
			expectedStatus: http.StatusOK,
		},
		{
			name:           "bad request - no lookup field",
			body:           map[string]string{},
			getAuthIDFn:    nil,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "not found - unknown user",
			body:           map[string]string{"email": "nobody@example.com"},
			getAuthIDFn:    func(q cqrs.GetAuthIDQuery) (int64, error) { return 0, domain.ErrUserNotFound },
			expectedStatus: http.StatusNotFound,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newTestRouter(&mockCommander{}, &mockQuerier{getAuthIDFn: tt.getAuthIDFn})
			w := doRequest(router, http.MethodPost, "/v1/auth/id", tt.body)
			if w.Code != tt.expectedStatus {
				t.Errorf("[%s] expected %d got %d; body: %s", tt.name, tt.expectedStatus, w.Code, w.Body.String())
			}
		})
	}
}

func TestChangePasswordHandler(t *testing.T) {
	tests := []struct {
		name             string
		body             interface{}
		changePasswordFn func(cqrs.ChangePasswordCommand) (string, error)
		expectedStatus   int
	}{
		{
			name:             "success",
			body:             map[string]interface{}{"userId": 1, "newPassword": "securepass123"},
			changePasswordFn: func(cmd cqrs.ChangePasswordCommand) (string, error) { return "Password changed successfully", nil },
			expectedStatus:   http.StatusOK,
		},
		{
			name:             "unauthorised - wrong old password",
			body:             map[string]interface{}{"userId": 1, "oldPassword": "wrongpass", "newPassword": "securepass123"},
			changePasswordFn: func(cmd cqrs.ChangePasswordCommand) (string, error) { return "", domain.ErrInvalidCredentials },
			expectedStatus:   http.StatusUnauthorized,
		},
		{
			name:             "not found - unknown user",
			body:             map[string]interface{}{"userId": 99, "newPassword": "securepass123"},
			changePasswordFn: func(cmd cqrs.ChangePasswordCommand) (string, error) { return "", domain.ErrUserNotFound },
			expectedStatus:   http.StatusNotFound,
		},
		{
			name:           "bad request - new password too short",
			body:           map[string]interface{}{"userId": 1, "newPassword": "short"},
			expectedStatus: http.StatusBadRequest,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newTestRouter(&mockCommander{changePasswordFn: tt.changePasswordFn}, &mockQuerier{})
			w := doRequest(router, http.MethodPatch, "/v1/auth/password", tt.body)
			if w.Code != tt.expectedStatus {
				t.Errorf("[%s] expected %d got %d; body: %s", tt.name, tt.expectedStatus, w.Code, w.Body.String())
			}
		})
	}
}

func TestDeleteAccountHandler(t *testing.T) {
	tests := []struct {
		name           string
		url            string
		deleteFn       func(cqrs.DeleteAccountCommand) (string, error)
		expectedStatus int
	}{
		{
			name:           "success",
			url:            "/v1/auth/account/1",
			deleteFn:       func(cmd cqrs.DeleteAccountCommand) (string, error) { return "Account 1 has been deleted", nil },
			expectedStatus: http.StatusOK,
		},
		{
			name:           "not found",
			url:            "/v1/auth/account/99",
			deleteFn:       func(cmd cqrs.DeleteAccountCommand) (string, error) { return "", domain.ErrUserNotFound },
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "bad request - non-numeric id",
			url:            "/v1/auth/account/abc",
			deleteFn:       nil,
			expectedStatus: http.StatusBadRequest,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newTestRouter(&mockCommander{deleteFn: tt.deleteFn}, &mockQuerier{})
			w := doRequest(router, http.MethodDelete, tt.url, nil)
			if w.Code != tt.expectedStatus {
				t.Errorf("[%s] expected %d got %d; body: %s", tt.name, tt.expectedStatus, w.Code, w.Body.String())
			}
		})
	}
}

func TestConfirmAccountHandler(t *testing.T) {
	tests := []struct {
		name           string
		body           interface{}
		confirmFn      func(cqrs.ConfirmAccountCommand) error
		expectedStatus int
	}{
		{
			name:           "success",
			body:           map[string]string{"email": "alice@example.com", "code": "some-code"},
			confirmFn:      func(cmd cqrs.ConfirmAccountCommand) error { return nil },
			expectedStatus: http.StatusNoContent,
		},
		{
			name:           "bad request - no matching confirmation",
			body:           map[string]string{"email": "alice@example.com", "code": "bogus"},
			confirmFn:      func(cmd cqrs.ConfirmAccountCommand) error { return domain.ErrConfirmationNotFound },
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "bad request - missing code",
			body:           map[string]string{"email": "alice@example.com"},
			confirmFn:      nil,
			expectedStatus: http.StatusBadRequest,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newTestRouter(&mockCommander{confirmFn: tt.confirmFn}, &mockQuerier{})
			w := doRequest(router, http.MethodPost, "/v1/auth/confirm", tt.body)
			if w.Code != tt.expectedStatus {
				t.Errorf("[%s] expected %d got %d; body: %s", tt.name, tt.expectedStatus, w.Code, w.Body.String())
			}
		})
	}
}

func TestForgotPasswordHandler(t *testing.T) {
	tests := []struct {
		name           string
		body           interface{}
		forgotFn       func(cqrs.ForgotPasswordCommand) (string, error)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:           "success - returns token",
			body:           map[string]string{"email": "alice@example.com"},
			forgotFn:       func(cmd cqrs.ForgotPasswordCommand) (string, error) { return "reset.jwt.token", nil },
			expectedStatus: http.StatusOK,
			expectedBody:   `"forgotPasswordToken":"reset.jwt.token"`,
		},
		{
			name:           "success - unknown email returns empty body, not an error",
			body:           map[string]string{"email": "nobody@example.com"},
			forgotFn:       func(cmd cqrs.ForgotPasswordCommand) (string, error) { return "", nil },
			expectedStatus: http.StatusOK,
			expectedBody:   `{}`,
		},
		{
			name:           "bad request - invalid email",
			body:           map[string]string{"email": "not-an-email"},
			forgotFn:       nil,
			expectedStatus: http.StatusBadRequest,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newTestRouter(&mockCommander{forgotFn: tt.forgotFn}, &mockQuerier{})
			w := doRequest(router, http.MethodPost, "/v1/auth/forgot-password", tt.body)
			if w.Code != tt.expectedStatus {
				t.Errorf("[%s] expected %d got %d; body: %s", tt.name, tt.expectedStatus, w.Code, w.Body.String())
			}
			if tt.expectedBody != "" && !strings.Contains(w.Body.String(), tt.expectedBody) {
				t.Errorf("[%s] expected body to contain %s; got %s", tt.name, tt.expectedBody, w.Body.String())
			}
		})
	}
}

func TestSetNewPasswordHandler(t *testing.T) {
	tests := []struct {
		name             string
		body             interface{}
		setNewPasswordFn func(cqrs.SetNewPasswordCommand) (string, error)
		expectedStatus   int
		expectedBody     string
	}{
		{
			name:             "success",
			body:             map[string]string{"forgotPasswordToken": "reset.jwt.token", "newPassword": "securepass123"},
			setNewPasswordFn: func(cmd cqrs.SetNewPasswordCommand) (string, error) { return "Password updated successfully", nil },
			expectedStatus:   http.StatusOK,
		},
		{
			name:             "unauthorised - expired or tampered token",
			body:             map[string]string{"forgotPasswordToken": "bad.token", "newPassword": "securepass123"},
			setNewPasswordFn: func(cmd cqrs.SetNewPasswordCommand) (string, error) { return "", domain.ErrInvalidResetToken },
			expectedStatus:   http.StatusUnauthorized,
			expectedBody:     "Token expired or broken",
		},
		{
			name:           "bad request - missing token",
			body:           map[string]string{"newPassword": "securepass123"},
			expectedStatus: http.StatusBadRequest,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newTestRouter(&mockCommander{setNewPasswordFn: tt.setNewPasswordFn}, &mockQuerier{})
			w := doRequest(router, http.MethodPost, "/v1/auth/password/reset", tt.body)
			if w.Code != tt.expectedStatus {
				t.Errorf("[%s] expected %d got %d; body: %s", tt.name, tt.expectedStatus, w.Code, w.Body.String())
			}
			if tt.expectedBody != "" && !strings.Contains(w.Body.String(), tt.expectedBody) {
				t.Errorf("[%s] expected body to contain %s; got %s", tt.name, tt.expectedBody, w.Body.String())
			}
		})
	}
}

func TestRemoveRefreshTokenHandler(t *testing.T) {
	router := newTestRouter(&mockCommander{
		removeTokenFn: func(cmd cqrs.RemoveRefreshTokenCommand) error { return nil },
	}, &mockQuerier{})
	w := doRequest(router, http.MethodDelete, "/v1/auth/refresh-token/1", nil)
	if w.Code != http.StatusNoContent {
		t.Errorf("expected %d got %d; body: %s", http.StatusNoContent, w.Code, w.Body.String())
	}
}

func TestGetRefreshUserHandler(t *testing.T) {
	tests := []struct {
		name             string
		body             interface{}
		getRefreshUserFn func(cqrs.GetRefreshUserQuery) (*domain.User, error)
		expectedStatus   int
	}{
		{
			name:             "success",
			body:             map[string]interface{}{"userId": 1, "refreshToken": "refresh-token-value"},
			getRefreshUserFn: func(q cqrs.GetRefreshUserQuery) (*domain.User, error) { return testUser, nil },
			expectedStatus:   http.StatusOK,
		},
		{
			name:             "unauthorised - token mismatch",
			body:             map[string]interface{}{"userId": 1, "refreshToken": "stolen"},
			getRefreshUserFn: func(q cqrs.GetRefreshUserQuery) (*domain.User, error) { return nil, domain.ErrInvalidCredentials },
			expectedStatus:   http.StatusUnauthorized,
		},
		{
			name:           "bad request - missing fields",
			body:           map[string]interface{}{},
			expectedStatus: http.StatusBadRequest,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newTestRouter(&mockCommander{}, &mockQuerier{getRefreshUserFn: tt.getRefreshUserFn})
			w := doRequest(router, http.MethodPost, "/v1/auth/refresh-user", tt.body)
			if w.Code != tt.expectedStatus {
				t.Errorf("[%s] expected %d got %d; body: %s", tt.name, tt.expectedStatus, w.Code, w.Body.String())
			}
		})
	}
}
