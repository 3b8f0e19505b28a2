package usecase

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/kirillkom/docuvault/internal/core/domain"
	"github.com/kirillkom/docuvault/internal/core/ports"
)

// FolderService derives the virtual folder listing from primary tag
// associations. Nothing here is persisted; every read recomputes.
type FolderService struct {
	tags  ports.TagRepository
	docs  ports.DocumentRepository
	assoc ports.AssociationRepository
}

func NewFolderService(
	tags ports.TagRepository,
	docs ports.DocumentRepository,
	assoc ports.AssociationRepository,
) *FolderService {
	return &FolderService{tags: tags, docs: docs, assoc: assoc}
}

// ListFolders groups the owner's primary tags by name with document
// counts, sorted by name with locale-aware collation. An owner without
// documents gets an empty listing, not an error.
func (s *FolderService) ListFolders(ctx context.Context, ownerID string) ([]domain.Folder, error) {
	docIDs, err := s.docs.ListIDsByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list owner documents: %w", err)
	}
	if len(docIDs) == 0 {
		return []domain.Folder{}, nil
	}

	primary, err := s.assoc.PrimaryTagIDs(ctx, docIDs)
	if err != nil {
		return nil, fmt.Errorf("list primary associations: %w", err)
	}
	if len(primary) == 0 {
		return []domain.Folder{}, nil
	}

	tagIDs := make([]string, 0, len(primary))
	seen := make(map[string]struct{}, len(primary))
	for _, tagID := range primary {
		if _, ok := seen[tagID]; ok {
			continue
		}
		seen[tagID] = struct{}{}
		tagIDs = append(tagIDs, tagID)
	}

	tags, err := s.tags.FindByIDs(ctx, tagIDs)
	if err != nil {
		return nil, fmt.Errorf("resolve tags: %w", err)
	}
	nameByID := make(map[string]string, len(tags))
	for _, tag := range tags {
		nameByID[tag.ID] = tag.Name
	}

	byName := make(map[string]*domain.Folder)
	for _, tagID := range primary {
		name, ok := nameByID[tagID]
		if !ok {
			continue
		}
		if folder, ok := byName[name]; ok {
			folder.Count++
			continue
		}
		byName[name] = &domain.Folder{TagID: tagID, Name: name, Count: 1}
	}

	folders := make([]domain.Folder, 0, len(byName))
	for _, folder := range byName {
		folders = append(folders, *folder)
	}

	coll := collate.New(language.Und)
	sort.Slice(folders, func(i, j int) bool {
		return coll.CompareString(folders[i].Name, folders[j].Name) < 0
	})
	return folders, nil
}

// ListFolderDocuments resolves identifier first as a tag id, then as a
// tag name, both restricted to the owner, and returns the documents
// carrying that tag as primary, newest first.
func (s *FolderService) ListFolderDocuments(ctx context.Context, ownerID, identifier string) ([]domain.Document, error) {
	tag, err := s.resolveTag(ctx, ownerID, identifier)
	if err != nil {
		return nil, err
	}

	docIDs, err := s.assoc.DocumentIDsWithPrimaryTag(ctx, tag.ID)
	if err != nil {
		return nil, fmt.Errorf("list folder members: %w", err)
	}
	if len(docIDs) == 0 {
		return []domain.Document{}, nil
	}

	docs, err := s.docs.FindByIDs(ctx, ownerID, docIDs)
	if err != nil {
		return nil, fmt.Errorf("load folder documents: %w", err)
	}
	return docs, nil
}

func (s *FolderService) resolveTag(ctx context.Context, ownerID, identifier string) (*domain.Tag, error) {
	if uuid.Validate(identifier) == nil {
		tag, err := s.tags.GetByID(ctx, ownerID, identifier)
		if err == nil {
			return tag, nil
		}
		if !domain.IsKind(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("look up tag by id: %w", err)
		}
	}

	tag, err := s.tags.GetByName(ctx, ownerID, identifier)
	if err != nil {
		if domain.IsKind(err, domain.ErrNotFound) {
			return nil, domain.WrapError(domain.ErrNotFound, "resolve folder", fmt.Errorf("tag %q not found", identifier))
		}
		return nil, fmt.Errorf("look up tag by name: %w", err)
	}
	return tag, nil
}
