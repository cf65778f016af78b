package api

import (
	"errors"
	"github.com/gin-gonic/gin"
	"github.com/maxaizer/hiring-board/internal/domain/models"
	"github.com/maxaizer/hiring-board/internal/logger"
	log "github.com/sirupsen/logrus"
	"net/http"
)

type errorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

func statusOf(err error) int {
	switch {
	case errors.Is(err, models.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrUnauthenticated), errors.Is(err, models.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, models.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrEmailTaken), errors.Is(err, models.ErrJobNotAcceptingApplications):
		return http.StatusConflict
	case errors.Is(err, models.ErrStoreUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func abortWithError(c *gin.Context, err error) {
	status := statusOf(err)
	response := errorResponse{Error: err.Error()}

	var verr *models.ValidationError
	if errors.As(err, &verr) {
		response = errorResponse{Error: models.ErrValidation.Error(), Fields: verr.Fields}
	}

	switch {
	case errors.Is(err, models.ErrStoreRead), errors.Is(err, models.ErrStoreWrite),
		errors.Is(err, models.ErrStoreUnavailable):
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeDb).Errorf("%s %s: %v", c.Request.Method, c.FullPath(), err)
		response.Error = http.StatusText(status)
	case status == http.StatusInternalServerError:
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeHttp).Errorf("%s %s: %v", c.Request.Method, c.FullPath(), err)
		response.Error = http.StatusText(status)
	case status == http.StatusForbidden:
		response.Error = models.ErrForbidden.Error()
	}

	c.AbortWithStatusJSON(status, response)
}

func bindError(c *gin.Context, err error) {
	verr := models.NewValidationError()
	verr.Add("_", "malformed request body")
	log.Debugf("malformed request body: %v", err)
	abortWithError(c, verr)
}
