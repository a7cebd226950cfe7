package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"meeting-room-backend/services"
	"meeting-room-backend/utils"
)

// writeServiceError maps a service failure class onto an HTTP response.
// Rejections keep their reason code in the body; infrastructure failures
// deliberately leak no detail to the client.
func writeServiceError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, services.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, services.ErrPolicy):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, services.ErrConflict):
		status = http.StatusConflict
	case errors.Is(err, services.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, services.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, services.ErrDependencyUnavailable):
		status = http.StatusServiceUnavailable
	}

	if status == http.StatusInternalServerError {
		_ = c.Error(err)
		utils.JSONError(c, status, "internal error")
		return
	}
	if code := services.RejectionCode(err); code != "" {
		utils.JSONRejection(c, status, code, err.Error())
		return
	}
	utils.JSONError(c, status, err.Error())
}
