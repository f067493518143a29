package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Hoshii/initializers"
	"github.com/Hoshii/models"
)

// respondWithError maps an error onto a status code and the JSON error body.
// Store failures keep their cause out of the response and in the log.
func respondWithError(c *gin.Context, err error) {
	var appErr *models.AppError
	if !errors.As(err, &appErr) {
		initializers.Logger.Error("Unhandled error",
			zap.String("path", c.Request.URL.Path),
			zap.String("requestId", c.GetString("requestId")),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "internal server error"})
		return
	}

	switch appErr.Code {
	case models.CodeValidation:
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: appErr.Message, Code: appErr.Code})
	case models.CodeNotFound:
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: appErr.Message, Code: appErr.Code})
	case models.CodeUnauthorized:
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{Error: appErr.Message, Code: appErr.Code})
	default:
		initializers.Logger.Error(appErr.Message,
			zap.String("code", appErr.Code),
			zap.String("path", c.Request.URL.Path),
			zap.String("requestId", c.GetString("requestId")),
			zap.Error(appErr.Err))
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "internal server error", Code: appErr.Code})
	}
}
