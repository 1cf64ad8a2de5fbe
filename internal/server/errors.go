package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	cerrors "github.com/matzehuels/conceptmap/pkg/errors"
)

// errorResponse is the JSON body of every failed request.
type errorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

// statusFor maps an error code to an HTTP status.
func statusFor(err error) int {
	var mbe *http.MaxBytesError
	if errors.As(err, &mbe) {
		return http.StatusRequestEntityTooLarge
	}
	code := cerrors.GetCode(err)
	switch {
	case cerrors.Has(err, cerrors.ErrCodeInvalidTerm):
		return http.StatusBadRequest
	case code == cerrors.ErrCodeNotFound:
		return http.StatusNotFound
	case code == cerrors.ErrCodeLexiconUnavailable, code == cerrors.ErrCodeOracleFailure:
		return http.StatusServiceUnavailable
	case code == cerrors.ErrCodeUnsupported:
		return http.StatusNotImplemented
	case strings.HasPrefix(string(code), "INVALID_"):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= 500 {
		s.logger.Error("request failed", "path", r.URL.Path, "err", err)
	}
	msg := cerrors.UserMessage(err)
	if status == http.StatusInternalServerError {
		msg = "internal error"
	}
	writeJSON(w, status, errorResponse{
		Error:     msg,
		Code:      string(cerrors.GetCode(err)),
		RequestID: requestID(r.Context()),
	})
}

func statusLabel(status int) string {
	return strconv.Itoa(status)
}
