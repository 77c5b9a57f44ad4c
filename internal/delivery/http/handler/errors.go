package handler

import (
	"errors"
	"net/http"

	"ecommerce-backend/internal/logger"
	appErrors "ecommerce-backend/pkg/errors"
	"ecommerce-backend/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const msgInternalServerError = "Internal server error"

var kindStatus = map[appErrors.Kind]int{
	appErrors.KindValidation:   http.StatusBadRequest,
	appErrors.KindUnauthorized: http.StatusUnauthorized,
	appErrors.KindForbidden:    http.StatusForbidden,
	appErrors.KindNotFound:     http.StatusNotFound,
	appErrors.KindConflict:     http.StatusConflict,
}

func respondWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}

	kind := appErrors.KindOf(err)
	status, ok := kindStatus[kind]
	if !ok {
		logger.FromContext(c.Request.Context()).Error("Internal server error",
			zap.String("path", c.Request.URL.Path),
			zap.Error(err),
		)
		_ = c.Error(err)
		utils.ErrorResponse(c, http.StatusInternalServerError, msgInternalServerError)
		return
	}

	message := err.Error()
	var appErr *appErrors.AppError
	if errors.As(err, &appErr) {
		message = appErr.Message
	}
	utils.ErrorResponse(c, status, message)
}

func parseIDParam(c *gin.Context, name, message string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, message)
		return uuid.Nil, false
	}
	return id, true
}
