package httpadapter

import (
	"encoding/json"
	"net/http"

	"github.com/kirillkom/docuvault/internal/core/domain"
)

func (rt *Router) runActions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	var req domain.ActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}

	result, err := rt.actions.Run(r.Context(), userIDFromContext(r.Context()), req)
	if err != nil {
		writeError(w, err)
		return
	}
	if rt.metrics != nil {
		for _, action := range req.Actions {
			rt.metrics.RecordActionRun("api", action)
		}
	}
	writeJSON(w, http.StatusOK, result)
}
