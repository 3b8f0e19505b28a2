package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/kirillkom/docuvault/internal/core/domain"
	"github.com/kirillkom/docuvault/internal/core/ports"
)

// SearchDocumentsUseCase runs owner-scoped full-text search, optionally
// narrowed through a scope. The index itself lives in the store.
type SearchDocumentsUseCase struct {
	docs   ports.DocumentRepository
	scopes *ScopeResolver
}

func NewSearchDocumentsUseCase(docs ports.DocumentRepository, scopes *ScopeResolver) *SearchDocumentsUseCase {
	return &SearchDocumentsUseCase{docs: docs, scopes: scopes}
}

func (uc *SearchDocumentsUseCase) Search(
	ctx context.Context,
	ownerID, query string,
	scope *domain.Scope,
) ([]domain.Document, error) {
	if strings.TrimSpace(query) == "" {
		return nil, domain.WrapError(domain.ErrInvalidInput, "search", fmt.Errorf("query is required"))
	}

	if scope == nil {
		docs, err := uc.docs.Search(ctx, ownerID, query, nil)
		if err != nil {
			return nil, fmt.Errorf("search documents: %w", err)
		}
		return docs, nil
	}

	inScope, err := uc.scopes.ResolveForSearch(ctx, ownerID, *scope)
	if err != nil {
		return nil, err
	}
	if len(inScope) == 0 {
		return []domain.Document{}, nil
	}

	ids := make([]string, 0, len(inScope))
	for _, doc := range inScope {
		ids = append(ids, doc.ID)
	}
	docs, err := uc.docs.Search(ctx, ownerID, query, ids)
	if err != nil {
		return nil, fmt.Errorf("search scoped documents: %w", err)
	}
	return docs, nil
}
