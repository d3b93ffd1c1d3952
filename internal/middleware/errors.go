package middleware

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
	apierrors "github.com/yukikurage/project-management-api/internal/errors"
	"github.com/yukikurage/project-management-api/internal/response"
)

var errBodyTooLarge = apierrors.InvalidInput("Request body too large")

// ErrorHandler renders the last error recorded with c.Error as an error
// envelope. Errors that are not *APIError become a generic Internal error.
// In development the stack of a recovered panic is included.
func ErrorHandler(log logrus.FieldLogger, development bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		apiErr := Normalize(err)

		entry := log.WithFields(logrus.Fields{
			"request_id": c.GetString(ContextKeyRequestID),
			"status":     apiErr.Status(),
		}).WithError(err)
		if apiErr.Kind == apierrors.KindInternal {
			entry.Error("request failed")
		} else {
			entry.Debug("request rejected")
		}

		var stack string
		var panicErr *PanicError
		if development && errors.As(err, &panicErr) {
			stack = string(panicErr.Stack)
		}
		response.Error(c, apiErr.Status(), apiErr.Message, apiErr.Details, stack)
	}
}

// Normalize maps any error to an *APIError.
func Normalize(err error) *apierrors.APIError {
	if apiErr, ok := apierrors.As(err); ok {
		return apiErr
	}

	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		details := make([]string, 0, len(validationErrs))
		for _, fe := range validationErrs {
			details = append(details, fmt.Sprintf("%s failed on '%s'", strings.ToLower(fe.Field()), fe.Tag()))
		}
		return apierrors.InvalidInput(apierrors.ErrInvalidBody.Message, details...)
	}

	var maxBytesErr *http.MaxBytesError
	if errors.As(err, &maxBytesErr) {
		return errBodyTooLarge
	}

	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.As(err, &syntaxErr), errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		return apierrors.ErrInvalidBody
	case errors.As(err, &typeErr):
		return apierrors.InvalidInput(apierrors.ErrInvalidBody.Message, fmt.Sprintf("%s has the wrong type", typeErr.Field))
	}

	return apierrors.ErrInternalError.WithCause(err)
}
