package httpserver

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"retail-customers/internal/domain"
	"retail-customers/internal/logger"
)

type errorResponse struct {
	Timestamp time.Time `json:"timestamp"`
	Status    int       `json:"status"`
	Error     string    `json:"error"`
	Message   string    `json:"message"`
	Path      string    `json:"path"`
}

func writeError(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, errorResponse{
		Timestamp: time.Now().UTC(),
		Status:    status,
		Error:     http.StatusText(status),
		Message:   message,
		Path:      c.Request.URL.Path,
	})
}

// respondError maps domain errors onto HTTP statuses. Anything outside the
// domain taxonomy is logged and reported as a generic 500.
func respondError(c *gin.Context, err error) {
	var (
		verr *domain.ValidationError
		nf   *domain.NotFoundError
	)
	switch {
	case errors.As(err, &verr):
		writeError(c, http.StatusBadRequest, verr.Message)
	case errors.As(err, &nf):
		writeError(c, http.StatusNotFound, nf.Error())
	default:
		_ = c.Error(err)
		logger.FromContext(c.Request.Context(), nil).Error("customer request failed", zap.Error(err))
		writeError(c, http.StatusInternalServerError, "internal server error")
	}
}

// bindingMessage renders request binding failures without leaking Go types.
func bindingMessage(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		parts := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			parts = append(parts, fmt.Sprintf("%s failed on %s", strings.ToLower(fe.Field()), fe.Tag()))
		}
		return strings.Join(parts, "; ")
	}
	return "malformed request body"
}
