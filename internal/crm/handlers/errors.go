package handlers

import (
	"errors"
	"net/http"

	e "github.com/gartstein/crm/internal/crm/errors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Error codes of APIError.
const (
	CodeInvalidInput  = "INVALID_INPUT"
	CodeAlreadyExists = "ALREADY_EXISTS"
	CodeNotFound      = "NOT_FOUND"
	CodeUnauthorized  = "UNAUTHORIZED"
	CodeInternal      = "INTERNAL_ERROR"
)

// APIError is the body of every error response.
type APIError struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
}

// mapServiceError maps domain or repository errors to an HTTP status and
// body. Unclassified errors are logged and hidden from the client.
func (h *Handler) mapServiceError(err error) (int, APIError) {
	var details map[string]string
	var verr *e.ValidationError
	if errors.As(err, &verr) {
		details = verr.Fields
	}

	switch {
	case errors.Is(err, e.ErrNotFound):
		return http.StatusNotFound, APIError{Code: CodeNotFound, Message: "Not found."}
	case errors.Is(err, e.ErrDuplicateName), errors.Is(err, e.ErrDuplicatePartnership):
		return http.StatusBadRequest, APIError{Code: CodeAlreadyExists, Message: err.Error(), Details: details}
	case errors.Is(err, e.ErrInvalidInput):
		return http.StatusBadRequest, APIError{Code: CodeInvalidInput, Message: err.Error(), Details: details}
	case errors.Is(err, e.ErrUnauthorized):
		return http.StatusUnauthorized, APIError{Code: CodeUnauthorized, Message: err.Error()}
	default:
		h.logger.Error("Internal server error", zap.Error(err))
		return http.StatusInternalServerError, APIError{Code: CodeInternal, Message: "internal server error"}
	}
}

// abortWithError writes the error response and stops the handler chain.
func (h *Handler) abortWithError(c *gin.Context, err error) {
	status, body := h.mapServiceError(err)
	_ = c.Error(err)
	c.AbortWithStatusJSON(status, body)
}
