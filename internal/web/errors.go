package web

// errors.go provides unified error responses for the web layer.
//
// Every failure goes through respondError: the technical error is logged with
// the request id, and the client gets the user-facing message and support
// code from core.MapError. Status codes come from statusFor so a handler
// never has to know which sentinel a store call can return.

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/JonMunkholm/roster/internal/core"
	"github.com/JonMunkholm/roster/internal/logging"
)

// Request-level failures. The texts are matched by core.MapError.
var (
	errNoFile               = errors.New("no file provided")
	errFileTooLarge         = errors.New("file too large")
	errNotText              = errors.New("not a text file")
	errConfirmationRequired = errors.New("confirmation required: repeat the request with confirm=true")
	errInvalidBody          = errors.New("invalid request body")
	errRateLimited          = errors.New("rate limit exceeded")
)

// ErrorResponse is the JSON body of every error response.
// Code and Message are for people; Error repeats Message for older clients.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Action  string `json:"action,omitempty"`
	Code    string `json:"code"`
}

// statusFor maps an error to the HTTP status it is reported with.
func statusFor(err error) int {
	switch {
	case errors.Is(err, core.ErrMissingField),
		errors.Is(err, core.ErrMissingImage),
		errors.Is(err, core.ErrMalformedImport),
		errors.Is(err, errNoFile),
		errors.Is(err, errInvalidBody),
		errors.Is(err, errConfirmationRequired):
		return http.StatusBadRequest
	case errors.Is(err, core.ErrDuplicateIdentity):
		return http.StatusConflict
	case errors.Is(err, core.ErrUnknownIdentity):
		return http.StatusUnprocessableEntity
	case errors.Is(err, core.ErrNothingToExport):
		return http.StatusNotFound
	case errors.Is(err, errFileTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, errNotText):
		return http.StatusUnsupportedMediaType
	case errors.Is(err, core.ErrTooManyImports),
		errors.Is(err, errRateLimited):
		return http.StatusTooManyRequests
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// fail reports err with the status statusFor picks.
func fail(w http.ResponseWriter, r *http.Request, err error) {
	respondError(w, r, err, statusFor(err))
}

// respondError logs the technical error and writes the user-facing one.
// Client errors are logged at WARN, server errors at ERROR.
func respondError(w http.ResponseWriter, r *http.Request, err error, status int) {
	msg := core.MapError(err)

	logger := logging.FromContext(r.Context())
	log := logger.Warn
	if status >= http.StatusInternalServerError {
		log = logger.Error
	}
	log("request error",
		"path", r.URL.Path,
		"method", r.Method,
		"status", status,
		"error", err.Error(),
		"code", msg.Code,
	)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if encErr := json.NewEncoder(w).Encode(ErrorResponse{
		Error:   msg.Message,
		Message: msg.Message,
		Action:  msg.Action,
		Code:    msg.Code,
	}); encErr != nil {
		logger.Error("json encode error", "error", encErr, "request_id", middleware.GetReqID(r.Context()))
	}
}
