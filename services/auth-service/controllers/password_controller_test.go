package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	apperrors "github.com/shopswift/commerce-backend/services/common/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- Mock Service ---
type MockPasswordResetService struct {
	mock.Mock
}

func (m *MockPasswordResetService) RequestReset(ctx context.Context, email string) error {
	args := m.Called(ctx, email)
	return args.Error(0)
}

func (m *MockPasswordResetService) CompleteReset(ctx context.Context, email, token, newPassword string) error {
	args := m.Called(ctx, email, token, newPassword)
	return args.Error(0)
}

type errorBody struct {
	Code    int               `json:"code"`
	Message string            `json:"message"`
	Errors  []apperrors.Issue `json:"errors"`
}

func setupRouter(svc *MockPasswordResetService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(apperrors.ErrorMiddleware(nil))
	ctrl := NewPasswordController(svc)
	r.POST("/auth/forgot-password", ctrl.ForgotPassword)
	r.POST("/auth/reset-password", ctrl.ResetPassword)
	return r
}

func post(r *gin.Engine, path, payload string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(http.MethodPost, path, bytes.NewBufferString(payload))
	req.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()
	r.ServeHTTP(recorder, req)
	return recorder
}

func TestForgotPasswordController(t *testing.T) {
	t.Run("Success - 200 OK", func(t *testing.T) {
		mockService := new(MockPasswordResetService)
		mockService.On("RequestReset", mock.Anything, "buyer@example.com").Return(nil).Once()

		recorder := post(setupRouter(mockService), "/auth/forgot-password", `{"email": "buyer@example.com"}`)

		assert.Equal(t, http.StatusOK, recorder.Code)
		assert.JSONEq(t, `{"message":"Password reset code sent to your email."}`, recorder.Body.String())
		mockService.AssertExpectations(t)
	})

	t.Run("Failure - Unknown Email - 404 Not Found", func(t *testing.T) {
		mockService := new(MockPasswordResetService)
		mockService.On("RequestReset", mock.Anything, "ghost@example.com").
			Return(apperrors.NotFound("User not found with this email.")).Once()

		recorder := post(setupRouter(mockService), "/auth/forgot-password", `{"email": "ghost@example.com"}`)

		assert.Equal(t, http.StatusNotFound, recorder.Code)
		assert.JSONEq(t, `{"code":404,"message":"User not found with this email."}`, recorder.Body.String())
	})

	t.Run("Failure - Malformed Email - 400 with issues", func(t *testing.T) {
		mockService := new(MockPasswordResetService)

		recorder := post(setupRouter(mockService), "/auth/forgot-password", `{"email": "not-an-email"}`)

		require.Equal(t, http.StatusBadRequest, recorder.Code)
		var body errorBody
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
		assert.Equal(t, "Validation error", body.Message)
		require.Len(t, body.Errors, 1)
		assert.Equal(t, "email", body.Errors[0].Field)
		mockService.AssertNotCalled(t, "RequestReset")
	})

	t.Run("Failure - Missing Email - 400 Bad Request", func(t *testing.T) {
		mockService := new(MockPasswordResetService)

		recorder := post(setupRouter(mockService), "/auth/forgot-password", `{}`)

		assert.Equal(t, http.StatusBadRequest, recorder.Code)
		assert.Contains(t, recorder.Body.String(), "is required")
		mockService.AssertNotCalled(t, "RequestReset")
	})

	t.Run("Failure - Empty Body - 400 with issues", func(t *testing.T) {
		mockService := new(MockPasswordResetService)

		recorder := post(setupRouter(mockService), "/auth/forgot-password", "")

		require.Equal(t, http.StatusBadRequest, recorder.Code)
		var body errorBody
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
		assert.Equal(t, "Validation error", body.Message)
		require.Len(t, body.Errors, 1)
		assert.Equal(t, apperrors.Issue{Field: "email", Message: "is required"}, body.Errors[0])
		mockService.AssertNotCalled(t, "RequestReset")
	})

	t.Run("Failure - Mail Outage - 500", func(t *testing.T) {
		mockService := new(MockPasswordResetService)
		mockService.On("RequestReset", mock.Anything, "buyer@example.com").
			Return(apperrors.Internal(assert.AnError)).Once()

		recorder := post(setupRouter(mockService), "/auth/forgot-password", `{"email": "buyer@example.com"}`)

		assert.Equal(t, http.StatusInternalServerError, recorder.Code)
		assert.NotContains(t, recorder.Body.String(), assert.AnError.Error())
	})
}

func TestResetPasswordController(t *testing.T) {
	token := strings.Repeat("ab", 32)

	t.Run("Success - 200 OK", func(t *testing.T) {
		mockService := new(MockPasswordResetService)
		mockService.On("CompleteReset", mock.Anything, "buyer@example.com", token, "Gr8!Kx#Pm").Return(nil).Once()

		payload := `{"email":"buyer@example.com","token":"` + token + `","password":"Gr8!Kx#Pm"}`
		recorder := post(setupRouter(mockService), "/auth/reset-password", payload)

		assert.Equal(t, http.StatusOK, recorder.Code)
		assert.JSONEq(t, `{"message":"Password has been reset successfully."}`, recorder.Body.String())
		mockService.AssertExpectations(t)
	})

	t.Run("Failure - Short Token - 400", func(t *testing.T) {
		mockService := new(MockPasswordResetService)

		payload := `{"email":"buyer@example.com","token":"abc","password":"Gr8!Kx#Pm"}`
		recorder := post(setupRouter(mockService), "/auth/reset-password", payload)

		require.Equal(t, http.StatusBadRequest, recorder.Code)
		var body errorBody
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
		require.Len(t, body.Errors, 1)
		assert.Equal(t, "token", body.Errors[0].Field)
		mockService.AssertNotCalled(t, "CompleteReset")
	})

	t.Run("Failure - Expired Token - 400", func(t *testing.T) {
		mockService := new(MockPasswordResetService)
		mockService.On("CompleteReset", mock.Anything, "buyer@example.com", token, "Gr8!Kx#Pm").
			Return(apperrors.BadRequest("Invalid or expired reset token")).Once()

		payload := `{"email":"buyer@example.com","token":"` + token + `","password":"Gr8!Kx#Pm"}`
		recorder := post(setupRouter(mockService), "/auth/reset-password", payload)

		assert.Equal(t, http.StatusBadRequest, recorder.Code)
		assert.JSONEq(t, `{"code":400,"message":"Invalid or expired reset token"}`, recorder.Body.String())
	})
}
