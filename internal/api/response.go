package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/julianstephens/habitlit/internal/gateway"
	"github.com/julianstephens/habitlit/internal/logger"
	"github.com/julianstephens/habitlit/internal/models"
	"github.com/julianstephens/habitlit/internal/session"
	"github.com/julianstephens/habitlit/internal/storage"
	"github.com/julianstephens/habitlit/internal/tracker"
)

const maxBodyBytes = 1 << 20

// errBadRequest marks malformed input
var errBadRequest = errors.New("bad request")

func badRequest(format string, args ...any) error {
	return fmt.Errorf("%w: %s", errBadRequest, fmt.Sprintf(format, args...))
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// writeResult writes v inside the {data, error} envelope
func writeResult[T any](w http.ResponseWriter, status int, v T) {
	writeJSON(w, status, gateway.NewResult(v, nil))
}

// writeError writes a null-data envelope with the status err maps to
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		logger.Error("Request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	}
	writeJSON(w, status, gateway.NewResult[struct{}](struct{}{}, err))
}

func statusFor(err error) int {
	var verr *tracker.ValidationError
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, session.ErrUserNotFound), errors.Is(err, tracker.ErrNoSession):
		return http.StatusUnauthorized
	case errors.As(err, &verr), errors.Is(err, errBadRequest),
		errors.Is(err, tracker.ErrInvalidRange), errors.Is(err, models.ErrInvalidDate):
		return http.StatusBadRequest
	case errors.Is(err, storage.ErrConflict), errors.Is(err, tracker.ErrInvalidTransition):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return badRequest("invalid JSON body: %v", err)
	}
	return nil
}
