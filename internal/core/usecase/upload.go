package usecase

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/kirillkom/docuvault/internal/core/domain"
	"github.com/kirillkom/docuvault/internal/core/ports"
)

type UploadDocumentUseCase struct {
	tags      ports.TagRepository
	docs      ports.DocumentRepository
	assoc     ports.AssociationRepository
	extractor ports.TextExtractor
	audit     ports.AuditLogger
	clock     ports.Clock
}

func NewUploadDocumentUseCase(
	tags ports.TagRepository,
	docs ports.DocumentRepository,
	assoc ports.AssociationRepository,
	extractor ports.TextExtractor,
	audit ports.AuditLogger,
	clock ports.Clock,
) *UploadDocumentUseCase {
	return &UploadDocumentUseCase{
		tags:      tags,
		docs:      docs,
		assoc:     assoc,
		extractor: extractor,
		audit:     audit,
		clock:     clock,
	}
}

// Upload creates the document and its tag associations: find-or-create
// the primary tag, create the document, attach the primary association,
// then the secondaries. A failed primary attachment triggers a
// compensating delete so no document is left without a primary tag.
func (uc *UploadDocumentUseCase) Upload(
	ctx context.Context,
	ownerID string,
	upload domain.DocumentUpload,
) (*domain.Document, error) {
	if err := upload.Validate(); err != nil {
		return nil, err
	}

	text := upload.TextContent
	if text == "" {
		extracted, err := uc.extractUploadedText(ctx, upload)
		if err != nil {
			return nil, err
		}
		text = extracted
	}

	primaryTag, err := uc.findOrCreateTag(ctx, ownerID, upload.PrimaryTag)
	if err != nil {
		return nil, err
	}

	doc := &domain.Document{
		ID:          uuid.NewString(),
		OwnerID:     ownerID,
		Filename:    upload.Filename,
		Mime:        upload.Mime,
		TextContent: text,
		CreatedAt:   uc.clock.Now().UTC(),
	}
	if err := uc.docs.Create(ctx, doc); err != nil {
		return nil, fmt.Errorf("create document: %w", err)
	}

	if err := uc.assoc.AttachPrimary(ctx, doc.ID, primaryTag.ID); err != nil {
		if delErr := uc.docs.Delete(ctx, doc.ID); delErr != nil {
			slog.Error("orphan document left after failed primary attach",
				"document_id", doc.ID, "error", delErr)
		}
		return nil, fmt.Errorf("attach primary tag: %w", err)
	}

	for _, name := range upload.SecondaryTags {
		if name == "" {
			continue
		}
		tag, err := uc.findOrCreateTag(ctx, ownerID, name)
		if err != nil {
			return nil, err
		}
		if err := uc.assoc.AttachSecondary(ctx, doc.ID, tag.ID); err != nil {
			return nil, fmt.Errorf("attach secondary tag %q: %w", name, err)
		}
	}

	uc.auditLog(ctx, domain.AuditEntry{
		UserID:     ownerID,
		Action:     "document_uploaded",
		EntityType: domain.EntityDocument,
		EntityID:   doc.ID,
		Metadata: map[string]any{
			"filename":    upload.Filename,
			"primary_tag": upload.PrimaryTag,
		},
	})

	return doc, nil
}

func (uc *UploadDocumentUseCase) GetByID(ctx context.Context, ownerID, id string) (*domain.Document, error) {
	return uc.docs.GetByID(ctx, ownerID, id)
}

func (uc *UploadDocumentUseCase) extractUploadedText(ctx context.Context, upload domain.DocumentUpload) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(upload.ContentBase64)
	if err != nil {
		return "", domain.WrapError(domain.ErrInvalidInput, "decode content", err)
	}
	text, err := uc.extractor.Extract(ctx, upload.Mime, raw)
	if err != nil {
		return "", fmt.Errorf("extract text: %w", err)
	}
	if text == "" {
		return "", domain.WrapError(domain.ErrInvalidInput, "extract text", fmt.Errorf("empty extracted text"))
	}
	return text, nil
}

func (uc *UploadDocumentUseCase) findOrCreateTag(ctx context.Context, ownerID, name string) (*domain.Tag, error) {
	tag, created, err := uc.tags.FindOrCreate(ctx, ownerID, name)
	if err != nil {
		return nil, fmt.Errorf("find or create tag %q: %w", name, err)
	}
	if created {
		uc.auditLog(ctx, domain.AuditEntry{
			UserID:     ownerID,
			Action:     "tag_created",
			EntityType: domain.EntityTag,
			EntityID:   tag.ID,
		})
	}
	return tag, nil
}

func (uc *UploadDocumentUseCase) auditLog(ctx context.Context, entry domain.AuditEntry) {
	if uc.audit == nil {
		return
	}
	if err := uc.audit.Record(ctx, entry); err != nil {
		slog.Warn("audit record failed", "action", entry.Action, "error", err)
	}
}
