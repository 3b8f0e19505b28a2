package usecase

import (
	"context"
	"fmt"

	"github.com/kirillkom/docuvault/internal/core/domain"
	"github.com/kirillkom/docuvault/internal/core/ports"
)

// ScopeResolver turns a validated scope into a concrete document set.
// The two call sites differ only in how they treat an empty result:
// actions require at least one document, search treats zero matches as
// a legitimate outcome. Both policies live here so neither caller can
// drift.
type ScopeResolver struct {
	folders *FolderService
	docs    ports.DocumentRepository
}

func NewScopeResolver(folders *FolderService, docs ports.DocumentRepository) *ScopeResolver {
	return &ScopeResolver{folders: folders, docs: docs}
}

// ResolveForAction fails with ErrNotFound when the scope matches no
// documents.
func (r *ScopeResolver) ResolveForAction(ctx context.Context, ownerID string, scope domain.Scope) ([]domain.Document, error) {
	docs, err := r.resolve(ctx, ownerID, scope)
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, domain.WrapError(domain.ErrNotFound, "resolve scope", fmt.Errorf("no documents found in scope"))
	}
	return docs, nil
}

// ResolveForSearch returns an empty set as-is.
func (r *ScopeResolver) ResolveForSearch(ctx context.Context, ownerID string, scope domain.Scope) ([]domain.Document, error) {
	return r.resolve(ctx, ownerID, scope)
}

func (r *ScopeResolver) resolve(ctx context.Context, ownerID string, scope domain.Scope) ([]domain.Document, error) {
	if err := scope.Validate(); err != nil {
		return nil, err
	}

	switch scope.Type {
	case domain.ScopeFolder:
		return r.folders.ListFolderDocuments(ctx, ownerID, scope.Name)
	case domain.ScopeFiles:
		docs, err := r.docs.FindByIDs(ctx, ownerID, scope.IDs)
		if err != nil {
			return nil, fmt.Errorf("load scoped documents: %w", err)
		}
		return docs, nil
	default:
		// Validate rejects anything else.
		return nil, domain.WrapError(domain.ErrInvalidInput, "resolve scope", fmt.Errorf("unknown scope type %q", scope.Type))
	}
}
