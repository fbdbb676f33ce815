package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/Kamal-Bhagchandani/jira-lite/apperrors"
	"github.com/Kamal-Bhagchandani/jira-lite/logging"
)

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		json.NewEncoder(w).Encode(payload)
	}
}

// writeError maps a service error to its status code. Internal detail goes to
// the log, never on the wire.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := apperrors.HTTPStatus(err)
	if status == http.StatusInternalServerError {
		logging.Logger.Errorf("%s %s failed: %v", r.Method, r.URL.Path, err)
	}
	writeJSON(w, status, map[string]string{"message": apperrors.ClientMessage(err)})
}
