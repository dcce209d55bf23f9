package api

import (
	"encoding/json"
	"net/http"

	apperrors "funnelscope/internal/errors"
)

type errorBody struct {
	Code  string `json:"code"`
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError maps an AppError code to a status. Anything else is a 500.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	code := apperrors.GetCode(err)
	if code == "UNKNOWN" {
		code = apperrors.CodeInternalError
	}
	status := apperrors.HTTPStatus(code)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed: %v", err)
	} else {
		s.logger.Debug("request rejected (%s): %v", code, err)
	}
	writeJSON(w, status, errorBody{Code: code, Error: err.Error()})
}
