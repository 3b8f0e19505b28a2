package httpadapter

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/kirillkom/docuvault/internal/core/domain"
)

func (rt *Router) uploadDocument(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	var upload domain.DocumentUpload
	if err := json.NewDecoder(r.Body).Decode(&upload); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}

	doc, err := rt.docs.Upload(r.Context(), userIDFromContext(r.Context()), upload)
	if rt.metrics != nil {
		rt.metrics.RecordUpload("api", err)
	}
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, doc)
}

func (rt *Router) getDocumentByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/v1/docs/")
	if id == "" || strings.Contains(id, "/") {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "document id is required"})
		return
	}

	doc, err := rt.docs.GetByID(r.Context(), userIDFromContext(r.Context()), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (rt *Router) listFolders(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	folders, err := rt.docs.ListFolders(r.Context(), userIDFromContext(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, folders)
}

func (rt *Router) listFolderDocuments(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	rest := strings.TrimPrefix(r.URL.Path, "/v1/folders/")
	identifier, ok := strings.CutSuffix(rest, "/documents")
	if !ok || identifier == "" || strings.Contains(identifier, "/") {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
		return
	}

	docs, err := rt.docs.ListFolderDocuments(r.Context(), userIDFromContext(r.Context()), identifier)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, docs)
}

func (rt *Router) searchDocuments(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	query := r.URL.Query().Get("q")
	scope, err := scopeFromQuery(r.URL.Query().Get("folder"), r.URL.Query()["id"])
	if err != nil {
		writeError(w, err)
		return
	}

	docs, err := rt.docs.Search(r.Context(), userIDFromContext(r.Context()), query, scope)
	if err != nil {
		writeError(w, err)
		return
	}
	if rt.metrics != nil {
		rt.metrics.RecordSearchResults("api", len(docs))
	}
	writeJSON(w, http.StatusOK, docs)
}

// scopeFromQuery builds the optional search scope from ?folder= and
// repeated ?id= params. Both at once is the mixed-scope error the
// domain validation reports.
func scopeFromQuery(folder string, ids []string) (*domain.Scope, error) {
	if folder == "" && len(ids) == 0 {
		return nil, nil
	}
	scope := &domain.Scope{}
	if folder != "" {
		scope.Type = domain.ScopeFolder
		scope.Name = folder
		scope.IDs = ids
	} else {
		scope.Type = domain.ScopeFiles
		scope.IDs = ids
	}
	if err := scope.Validate(); err != nil {
		return nil, err
	}
	return scope, nil
}
