package httpapi

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/fitadmin/diary_service/internal/apperror"
	"github.com/fitadmin/diary_service/internal/model"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Identity headers set by the upstream auth gateway.
const (
	headerUserID    = "X-User-ID"
	headerGender    = "X-User-Gender"
	headerRequestID = "X-Request-ID"
)

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// requestLogger tags every request with an id and logs method, path, status
// and duration.
func (a *API) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(headerRequestID)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set(headerRequestID, requestID)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(rec, r)

		a.logger.Info("http request",
			zap.String("request_id", requestID),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("duration", time.Since(start)),
		)
	})
}

// recoverer turns panics into 500s instead of dropping the connection.
func (a *API) recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if v := recover(); v != nil {
				a.logger.Error("panic in handler",
					zap.String("path", r.URL.Path),
					zap.Any("panic", v),
				)
				a.writeError(w, fmt.Errorf("panic: %v", v))
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// identity is the authenticated caller, as asserted by the upstream gateway.
type identity struct {
	UserID int64
	Gender model.Gender
}

// identityFrom extracts the caller identity from the trusted headers.
// A missing or malformed user id means no valid session.
func identityFrom(r *http.Request) (identity, error) {
	raw := r.Header.Get(headerUserID)
	if raw == "" {
		return identity{}, apperror.ErrUnauthorized
	}
	userID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || userID <= 0 {
		return identity{}, apperror.ErrUnauthorized
	}

	return identity{
		UserID: userID,
		Gender: model.Gender(r.Header.Get(headerGender)),
	}, nil
}
