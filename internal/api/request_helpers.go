package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/graph-ingest/internal/api/shared"
	"github.com/phrazzld/graph-ingest/internal/platform/logger"
)

// getPathParam extracts a required path parameter, writing a 400 response
// and returning false when it is missing.
func getPathParam(w http.ResponseWriter, r *http.Request, name string) (string, bool) {
	value := chi.URLParam(r, name)
	if value == "" {
		logger.FromContext(r.Context()).Warn("missing path parameter", "param_name", name)
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid "+name+": required field")
		return "", false
	}
	return value, true
}

// decodeAndValidate decodes the JSON body into req and validates it,
// writing a 400 response and returning false on failure.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, req interface{}) bool {
	if err := shared.DecodeJSON(r, req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid request format", err)
		return false
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return false
	}
	return true
}
