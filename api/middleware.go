package api

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"github.com/taskflow/taskflow/api/helpers"
	"github.com/taskflow/taskflow/db"
)

const (
	userIDHeader    = "X-User-ID"
	requestIDHeader = "X-Request-ID"
)

// RequestIDMiddleware propagates X-Request-ID, generating one when the client did not send it.
func RequestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(r.Header.Get(requestIDHeader))
		if id == "" {
			id = uuid.NewString()
		}

		w.Header().Set(requestIDHeader, id)
		next.ServeHTTP(w, helpers.SetRequestID(r, id))
	})
}

// authenticationMiddleware loads the user named by the X-User-ID header set by the gateway.
func authenticationMiddleware(users db.UserRepository) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := strings.TrimSpace(r.Header.Get(userIDHeader))

			userID, err := strconv.Atoi(raw)
			if raw == "" || err != nil {
				helpers.WriteError(w, r, fmt.Errorf("missing or invalid %s header: %w", userIDHeader, db.ErrUnauthorized))
				return
			}

			user, err := users.GetUser(userID)
			if err != nil {
				if helpers.ErrorStatus(err) == http.StatusNotFound {
					log.WithFields(log.Fields{
						"user_id":    userID,
						"request_id": helpers.RequestID(r),
					}).Warn("request from unknown user")
					err = fmt.Errorf("unknown user %d: %w", userID, db.ErrUnauthorized)
				}
				helpers.WriteError(w, r, err)
				return
			}

			next.ServeHTTP(w, helpers.SetUser(r, user))
		})
	}
}

// JSONMiddleware marks every API response as JSON
func JSONMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		next.ServeHTTP(w, r)
	})
}
