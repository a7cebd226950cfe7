package controllers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"meeting-room-backend/services"
)

func respondWith(t *testing.T, err error) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	writeServiceError(c, err)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w, body
}

func TestWriteServiceErrorStatusMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"validation", fmt.Errorf("%w: bad input", services.ErrValidation), http.StatusBadRequest},
		{"policy", fmt.Errorf("%w: too late", services.ErrPolicy), http.StatusUnprocessableEntity},
		{"conflict", fmt.Errorf("%w: taken", services.ErrConflict), http.StatusConflict},
		{"not found", fmt.Errorf("%w: room 9", services.ErrNotFound), http.StatusNotFound},
		{"forbidden", fmt.Errorf("%w: not yours", services.ErrForbidden), http.StatusForbidden},
		{"dependency", fmt.Errorf("%w: room service", services.ErrDependencyUnavailable), http.StatusServiceUnavailable},
		{"persistence", fmt.Errorf("%w: deadlock", services.ErrPersistence), http.StatusInternalServerError},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, body := respondWith(t, tt.err)
			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, false, body["success"])
		})
	}
}

func TestWriteServiceErrorCarriesReasonCode(t *testing.T) {
	err := &services.Rejection{
		Class:   services.ErrConflict,
		Code:    services.ReasonReservationOverlap,
		Message: "room 1 is already reserved",
	}
	w, body := respondWith(t, err)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, services.ReasonReservationOverlap, body["reason"])
	assert.Equal(t, "room 1 is already reserved", body["error"])
}

func TestWriteServiceErrorHidesInternalDetail(t *testing.T) {
	_, body := respondWith(t, fmt.Errorf("%w: dsn user:pass@host", services.ErrPersistence))
	assert.Equal(t, "internal error", body["error"])
}
