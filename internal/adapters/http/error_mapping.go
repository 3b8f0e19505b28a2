package httpadapter

import (
	"net/http"

	"github.com/kirillkom/docuvault/internal/core/domain"
)

// Checked in order; the first matching kind wins. ErrInvariantViolation
// and anything unclassified fall through to 500.
var errorStatuses = []struct {
	kind   error
	status int
}{
	{domain.ErrInvalidInput, http.StatusBadRequest},
	{domain.ErrUnauthorized, http.StatusUnauthorized},
	{domain.ErrNotFound, http.StatusNotFound},
	{domain.ErrTemporary, http.StatusServiceUnavailable},
}

func mapErrorToHTTPStatus(err error) int {
	for _, entry := range errorStatuses {
		if domain.IsKind(err, entry.kind) {
			return entry.status
		}
	}
	return http.StatusInternalServerError
}
