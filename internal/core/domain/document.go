package domain

import "time"

// Tag is an owner-scoped label. The (OwnerID, Name) pair is unique and
// tags are created lazily on first use during upload.
type Tag struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"owner_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// Document is immutable once created. Every document carries exactly
// one primary tag association, established atomically at upload time.
type Document struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"owner_id"`
	Filename    string    `json:"filename"`
	Mime        string    `json:"mime"`
	TextContent string    `json:"text_content"`
	CreatedAt   time.Time `json:"created_at"`
}

// Association links a document to a tag. At most one association per
// document has IsPrimary set; the pair (DocumentID, TagID) is unique.
type Association struct {
	DocumentID string `json:"document_id"`
	TagID      string `json:"tag_id"`
	IsPrimary  bool   `json:"is_primary"`
}

// Folder is virtual: the set of documents sharing a primary tag name,
// derived on every read and never persisted.
type Folder struct {
	TagID string `json:"id"`
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// DocumentUpload is the upload request payload. When TextContent is
// empty and ContentBase64 carries a PDF body, text is extracted before
// the document is stored.
type DocumentUpload struct {
	Filename      string   `json:"filename"`
	Mime          string   `json:"mime"`
	TextContent   string   `json:"textContent"`
	ContentBase64 string   `json:"contentBase64,omitempty"`
	PrimaryTag    string   `json:"primaryTag"`
	SecondaryTags []string `json:"secondaryTags,omitempty"`
}

func (u DocumentUpload) Validate() error {
	switch {
	case u.Filename == "":
		return WrapError(ErrInvalidInput, "validate upload", errRequired("filename"))
	case u.Mime == "":
		return WrapError(ErrInvalidInput, "validate upload", errRequired("mime"))
	case u.TextContent == "" && u.ContentBase64 == "":
		return WrapError(ErrInvalidInput, "validate upload", errRequired("textContent"))
	case u.PrimaryTag == "":
		return WrapError(ErrInvalidInput, "validate upload", errRequired("primaryTag"))
	}
	return nil
}
