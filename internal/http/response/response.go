package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	domainerrors "github.com/yungbote/recipe-backend/internal/pkg/errors"
)

type APIError struct {
	Message string            `json:"message"`
	Code    string            `json:"code,omitempty"`
	Fields  map[string]string `json:"fields,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

func RespondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	apiErr := APIError{Message: msg, Code: code}
	var verr *domainerrors.ValidationError
	if errors.As(err, &verr) && len(verr.Fields) > 0 {
		apiErr.Message = "validation failed"
		apiErr.Fields = verr.Fields
	}
	c.JSON(status, ErrorEnvelope{Error: apiErr})
}

// RespondServiceError maps a service error onto a status. Unknown errors are logged by
// the request logger through c.Error and answered with a generic 500.
func RespondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domainerrors.ErrInvalidArgument):
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
	case errors.Is(err, domainerrors.ErrNotFound):
		RespondError(c, http.StatusNotFound, "not_found", domainerrors.ErrNotFound)
	case errors.Is(err, domainerrors.ErrUnauthorized):
		RespondError(c, http.StatusUnauthorized, "unauthorized", errors.New("authentication credentials were not provided or are invalid"))
	default:
		_ = c.Error(err)
		RespondError(c, http.StatusInternalServerError, "internal_error", errors.New("internal server error"))
	}
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

func RespondCreated(c *gin.Context, payload any) {
	c.JSON(http.StatusCreated, payload)
}

func RespondNoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}
