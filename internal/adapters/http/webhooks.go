package httpadapter

import (
	"encoding/json"
	"net/http"

	"github.com/kirillkom/docuvault/internal/core/domain"
)

func (rt *Router) processOCRWebhook(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	var event domain.OCREvent
	if err := json.NewDecoder(r.Body).Decode(&event); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}

	result, err := rt.webhooks.ProcessOCR(r.Context(), userIDFromContext(r.Context()), event)
	if err != nil {
		writeError(w, err)
		return
	}
	if rt.metrics != nil {
		rt.metrics.RecordWebhook("api", string(result.Classification))
		if result.Processed {
			rt.metrics.RecordTaskCreated("api", event.Source)
		} else if result.Reason != "" {
			rt.metrics.RecordTaskRateLimited("api", event.Source)
		}
	}
	writeJSON(w, http.StatusOK, result)
}
