package postgres

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/kirillkom/docuvault/internal/core/domain"
)

func newAssocRepoWithMock(t *testing.T) (*AssociationRepository, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	return &AssociationRepository{db: db}, mock, func() { _ = db.Close() }
}

func TestAttachPrimaryMapsUniqueViolationToInvariant(t *testing.T) {
	repo, mock, done := newAssocRepoWithMock(t)
	defer done()

	mock.ExpectExec("INSERT INTO associations").
		WithArgs("doc-1", "tag-2").
		WillReturnError(&pgconn.PgError{Code: pgUniqueViolation})

	err := repo.AttachPrimary(context.Background(), "doc-1", "tag-2")
	if err == nil {
		t.Fatalf("expected error")
	}
	if !domain.IsKind(err, domain.ErrInvariantViolation) {
		t.Fatalf("expected ErrInvariantViolation, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestAttachSecondaryIsIdempotent(t *testing.T) {
	repo, mock, done := newAssocRepoWithMock(t)
	defer done()

	mock.ExpectExec("INSERT INTO associations").
		WithArgs("doc-1", "tag-2").
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.AttachSecondary(context.Background(), "doc-1", "tag-2"); err != nil {
		t.Fatalf("AttachSecondary() error = %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestPrimaryTagIDsGroupsByDocument(t *testing.T) {
	repo, mock, done := newAssocRepoWithMock(t)
	defer done()

	mock.ExpectQuery("FROM associations").
		WithArgs("doc-1", "doc-2").
		WillReturnRows(sqlmock.NewRows([]string{"document_id", "tag_id"}).
			AddRow("doc-1", "tag-a").
			AddRow("doc-2", "tag-b"))

	got, err := repo.PrimaryTagIDs(context.Background(), []string{"doc-1", "doc-2"})
	if err != nil {
		t.Fatalf("PrimaryTagIDs() error = %v", err)
	}
	if got["doc-1"] != "tag-a" || got["doc-2"] != "tag-b" {
		t.Fatalf("unexpected mapping %v", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}
