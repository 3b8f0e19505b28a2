package usecase

import (
	"context"

	"github.com/kirillkom/docuvault/internal/core/domain"
)

// DocumentService stitches the upload, folder and search use cases into
// the single inbound surface the HTTP adapter consumes.
type DocumentService struct {
	upload  *UploadDocumentUseCase
	folders *FolderService
	search  *SearchDocumentsUseCase
}

func NewDocumentService(
	upload *UploadDocumentUseCase,
	folders *FolderService,
	search *SearchDocumentsUseCase,
) *DocumentService {
	return &DocumentService{upload: upload, folders: folders, search: search}
}

func (s *DocumentService) Upload(ctx context.Context, ownerID string, upload domain.DocumentUpload) (*domain.Document, error) {
	return s.upload.Upload(ctx, ownerID, upload)
}

func (s *DocumentService) GetByID(ctx context.Context, ownerID, id string) (*domain.Document, error) {
	return s.upload.GetByID(ctx, ownerID, id)
}

func (s *DocumentService) ListFolders(ctx context.Context, ownerID string) ([]domain.Folder, error) {
	return s.folders.ListFolders(ctx, ownerID)
}

func (s *DocumentService) ListFolderDocuments(ctx context.Context, ownerID, identifier string) ([]domain.Document, error) {
	return s.folders.ListFolderDocuments(ctx, ownerID, identifier)
}

func (s *DocumentService) Search(ctx context.Context, ownerID, query string, scope *domain.Scope) ([]domain.Document, error) {
	return s.search.Search(ctx, ownerID, query, scope)
}
