package apiutil

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/a-h/templ"
	"github.com/rs/zerolog/log"
)

type FieldError struct {
	Field  string
	Reason string
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}

type HandlerError struct {
	Status  int
	Message string
	Err     error
}

func (e HandlerError) Error() string {
	return e.Message
}

func (e HandlerError) Unwrap() error {
	return e.Err
}

func BadRequest(message string) HandlerError {
	return HandlerError{Status: http.StatusBadRequest, Message: message}
}

func NotFound(message string) HandlerError {
	return HandlerError{Status: http.StatusNotFound, Message: message}
}

func Conflict(message string) HandlerError {
	return HandlerError{Status: http.StatusConflict, Message: message}
}

func DecodeJSON(r *http.Request, dst any) error {
	if r.Body == nil {
		return fmt.Errorf("missing request body")
	}
	defer r.Body.Close()

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(dst); err != nil {
		return err
	}
	if err := decoder.Decode(&struct{}{}); err != io.EOF {
		return fmt.Errorf("invalid JSON body")
	}
	return nil
}

func WriteJSON(w http.ResponseWriter, status int, payload any) error {
	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	if err := encoder.Encode(payload); err != nil {
		return err
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, err := w.Write(buf.Bytes())
	return err
}

type errorResponse struct {
	Error       string            `json:"error"`
	FieldErrors map[string]string `json:"fieldErrors,omitempty"`
}

// WriteError renders {"error": message} with status.
func WriteError(w http.ResponseWriter, status int, message string) {
	_ = WriteJSON(w, status, errorResponse{Error: message})
}

// WriteFieldErrors renders a 400 carrying the first message plus every
// message keyed by field.
func WriteFieldErrors(w http.ResponseWriter, message string, fields map[string]string) {
	_ = WriteJSON(w, http.StatusBadRequest, errorResponse{Error: message, FieldErrors: fields})
}

// WriteHandlerError maps err to a JSON error response. HandlerError and
// FieldError keep their status and message; anything else is logged and
// reported as a 500 carrying the error text.
func WriteHandlerError(w http.ResponseWriter, r *http.Request, err error, logMsg string) {
	var handlerErr HandlerError
	if errors.As(err, &handlerErr) {
		if handlerErr.Status >= http.StatusInternalServerError {
			log.Ctx(r.Context()).Error().Err(err).Msg(logMsg)
		}
		WriteError(w, handlerErr.Status, handlerErr.Message)
		return
	}
	var fieldErr FieldError
	if errors.As(err, &fieldErr) {
		WriteError(w, http.StatusBadRequest, fieldErr.Error())
		return
	}
	log.Ctx(r.Context()).Error().Err(err).Msg(logMsg)
	WriteError(w, http.StatusInternalServerError, err.Error())
}

// ClientErrorMessage returns the message of a 4xx HandlerError or FieldError,
// the errors a form page shows back to the user instead of failing.
func ClientErrorMessage(err error) (string, bool) {
	var handlerErr HandlerError
	if errors.As(err, &handlerErr) && handlerErr.Status < http.StatusInternalServerError {
		return handlerErr.Message, true
	}
	var fieldErr FieldError
	if errors.As(err, &fieldErr) {
		return fieldErr.Error(), true
	}
	return "", false
}

// ErrorStatus returns the HTTP status WriteHandlerError would use for err.
func ErrorStatus(err error) int {
	var handlerErr HandlerError
	if errors.As(err, &handlerErr) {
		return handlerErr.Status
	}
	var fieldErr FieldError
	if errors.As(err, &fieldErr) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// IsJSONRequest reports whether the request body is JSON.
func IsJSONRequest(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		return false
	}
	return mediaType == "application/json"
}

// RenderHTMLComponent renders component with the given extra headers. It logs
// and writes a 500 on failure and reports whether rendering succeeded.
func RenderHTMLComponent(ctx context.Context, w http.ResponseWriter, component templ.Component, headers map[string]string, logMsg, errMsg string) bool {
	var buf bytes.Buffer
	if err := component.Render(ctx, &buf); err != nil {
		log.Ctx(ctx).Error().Err(err).Msg(logMsg)
		http.Error(w, errMsg, http.StatusInternalServerError)
		return false
	}
	for key, value := range headers {
		w.Header().Set(key, value)
	}
	if w.Header().Get("Content-Type") == "" {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
	}
	if _, err := w.Write(buf.Bytes()); err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("Failed to write response")
		return false
	}
	return true
}

// RenderHTMLComponentStatus is RenderHTMLComponent with an explicit status code.
func RenderHTMLComponentStatus(ctx context.Context, w http.ResponseWriter, status int, component templ.Component, logMsg string) bool {
	var buf bytes.Buffer
	if err := component.Render(ctx, &buf); err != nil {
		log.Ctx(ctx).Error().Err(err).Msg(logMsg)
		http.Error(w, "Failed to render page", http.StatusInternalServerError)
		return false
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
	return true
}

func FirstNonEmpty(values ...string) string {
	for _, value := range values {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			return trimmed
		}
	}
	return ""
}

// ParseBool accepts the values HTML checkboxes and JSON-ish forms send.
func ParseBool(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "1", "true", "on", "yes":
		return true
	default:
		return false
	}
}
