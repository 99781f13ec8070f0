package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"assetgen/internal/raster"
	"assetgen/internal/session"
	"assetgen/internal/source"

	"go.uber.org/zap"
)

var errBadRequest = errors.New("bad request")

func badRequest(err error) error {
	return fmt.Errorf("%w: %w", errBadRequest, err)
}

func statusFor(err error) int {
	var tooBig *http.MaxBytesError
	switch {
	case errors.Is(err, errNotFound):
		return http.StatusNotFound
	case errors.Is(err, source.ErrUnsupportedFormat):
		return http.StatusUnsupportedMediaType
	case errors.As(err, &tooBig), errors.Is(err, source.ErrTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, errBadRequest),
		errors.Is(err, source.ErrMalformed),
		errors.Is(err, raster.ErrInvalidDimensions),
		errors.Is(err, session.ErrUnknownCommand):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", zap.String("path", r.URL.Path), zap.Error(err))
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
