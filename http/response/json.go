package response

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/bookverse/bookverse/http/request"
	"github.com/bookverse/bookverse/log"
	"go.uber.org/zap"
)

const contentTypeHeader = `application/json`

// Envelope is the uniform response wrapper: data on success, message on
// failure or message-only success (deletions).
type Envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
}

// OK creates a new JSON response with a 200 status code.
func OK(w http.ResponseWriter, r *http.Request, body interface{}) {
	builder := New(w, r)
	builder.WithHeader("Content-Type", contentTypeHeader)
	builder.WithBody(toJSON(Envelope{Success: true, Data: body}))
	builder.Write()
}

// Created sends a created response to the client.
func Created(w http.ResponseWriter, r *http.Request, body interface{}) {
	builder := New(w, r)
	builder.WithStatus(http.StatusCreated)
	builder.WithHeader("Content-Type", contentTypeHeader)
	builder.WithBody(toJSON(Envelope{Success: true, Data: body}))
	builder.Write()
}

// Message sends a message-only success envelope, used for deletions.
func Message(w http.ResponseWriter, r *http.Request, message string) {
	builder := New(w, r)
	builder.WithHeader("Content-Type", contentTypeHeader)
	builder.WithBody(toJSON(Envelope{Success: true, Message: message}))
	builder.Write()
}

// ServerError sends an internal error to the client.
func ServerError(w http.ResponseWriter, r *http.Request, err error) {
	log.Error(http.StatusText(http.StatusInternalServerError),
		zap.Error(err),
		zap.String("client_ip", request.FindClientIP(r)),
		zap.String("request.method", r.Method),
		zap.String("request.uri", r.RequestURI),
		zap.String("request.user_agent", r.UserAgent()),
		zap.Int("response.status_code", http.StatusInternalServerError),
	)

	// Internal details never leak to the client.
	writeError(w, r, http.StatusInternalServerError, errors.New("internal server error"))
}

// BadRequest sends a bad request error to the client, surfacing the first
// violation message.
func BadRequest(w http.ResponseWriter, r *http.Request, err error) {
	log.Warn(http.StatusText(http.StatusBadRequest),
		zap.Any("error", err),
		zap.String("client_ip", request.FindClientIP(r)),
		zap.String("request.method", r.Method),
		zap.String("request.uri", r.RequestURI),
		zap.String("request.user_agent", r.UserAgent()),
		zap.Int("response.status_code", http.StatusBadRequest),
	)

	writeError(w, r, http.StatusBadRequest, err)
}

// Unauthorized sends a not authorized error to the client.
func Unauthorized(w http.ResponseWriter, r *http.Request, err error) {
	log.Warn(http.StatusText(http.StatusUnauthorized),
		zap.Any("error", err),
		zap.String("client_ip", request.FindClientIP(r)),
		zap.String("request.method", r.Method),
		zap.String("request.uri", r.RequestURI),
		zap.String("request.user_agent", r.UserAgent()),
		zap.Int("response.status_code", http.StatusUnauthorized),
	)

	if err == nil {
		err = errors.New("access unauthorized")
	}
	writeError(w, r, http.StatusUnauthorized, err)
}

// Forbidden sends a forbidden error to the client.
func Forbidden(w http.ResponseWriter, r *http.Request, err error) {
	log.Warn(http.StatusText(http.StatusForbidden),
		zap.Any("error", err),
		zap.String("client_ip", request.FindClientIP(r)),
		zap.String("request.method", r.Method),
		zap.String("request.uri", r.RequestURI),
		zap.String("request.user_agent", r.UserAgent()),
		zap.Int("response.status_code", http.StatusForbidden),
	)

	if err == nil {
		err = errors.New("access forbidden")
	}
	writeError(w, r, http.StatusForbidden, err)
}

// NotFound sends a resource not found error to the client.
func NotFound(w http.ResponseWriter, r *http.Request, err error) {
	log.Warn(http.StatusText(http.StatusNotFound),
		zap.Any("error", err),
		zap.String("client_ip", request.FindClientIP(r)),
		zap.String("request.method", r.Method),
		zap.String("request.uri", r.RequestURI),
		zap.String("request.user_agent", r.UserAgent()),
		zap.Int("response.status_code", http.StatusNotFound),
	)

	if err == nil {
		err = errors.New("resource not found")
	}
	writeError(w, r, http.StatusNotFound, err)
}

func writeError(w http.ResponseWriter, r *http.Request, statusCode int, err error) {
	builder := New(w, r)
	builder.WithStatus(statusCode)
	builder.WithHeader("Content-Type", contentTypeHeader)
	builder.WithBody(toJSON(Envelope{Success: false, Message: err.Error()}))
	builder.Write()
}

func toJSON(v interface{}) []byte {
	b, err := json.Marshal(v)
	if err != nil {
		log.Error("Unable to marshal JSON response", zap.Any("error", err))
		return []byte("")
	}

	return b
}
