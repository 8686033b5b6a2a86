package helpers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	log "github.com/sirupsen/logrus"
	"github.com/taskflow/taskflow/db"
)

type contextKey string

func SetContextValue(r *http.Request, key string, value any) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), contextKey(key), value))
}

func GetFromContext(r *http.Request, key string) any {
	return r.Context().Value(contextKey(key))
}

func SetUser(r *http.Request, user db.User) *http.Request {
	return SetContextValue(r, "user", user)
}

// UserFromContext returns the caller loaded by the authentication middleware.
func UserFromContext(r *http.Request) db.User {
	user, _ := GetFromContext(r, "user").(db.User)
	return user
}

func SetRequestID(r *http.Request, id string) *http.Request {
	return SetContextValue(r, "request_id", id)
}

func RequestID(r *http.Request) string {
	id, _ := GetFromContext(r, "request_id").(string)
	return id
}

// Bind decodes the JSON body into out. It writes 400 and returns false on failure.
func Bind(w http.ResponseWriter, r *http.Request, out any) bool {
	err := json.NewDecoder(r.Body).Decode(out)
	if err != nil {
		WriteErrorStatus(w, "invalid request body", http.StatusBadRequest)
		return false
	}
	return true
}

func WriteJSON(w http.ResponseWriter, code int, out any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)

	if out == nil {
		return
	}

	if err := json.NewEncoder(w).Encode(out); err != nil {
		log.WithError(err).Error("cannot encode response")
	}
}

func WriteErrorStatus(w http.ResponseWriter, err string, code int) {
	WriteJSON(w, code, map[string]string{
		"error": err,
	})
}

// ErrorStatus maps a domain error to the HTTP status it is reported with.
func ErrorStatus(err error) int {
	var validationErr *db.ValidationError

	switch {
	case errors.Is(err, db.ErrNotFound):
		return http.StatusNotFound
	case errors.As(err, &validationErr):
		return http.StatusBadRequest
	case errors.Is(err, db.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, db.ErrUnauthorized):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// WriteError reports err to the client. Unclassified errors are logged and
// hidden behind a generic message.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	code := ErrorStatus(err)

	if code == http.StatusInternalServerError {
		log.WithError(err).WithFields(log.Fields{
			"request_id": RequestID(r),
			"method":     r.Method,
			"path":       r.URL.Path,
		}).Error("request failed")

		WriteErrorStatus(w, "internal server error", code)
		return
	}

	WriteErrorStatus(w, err.Error(), code)
}
