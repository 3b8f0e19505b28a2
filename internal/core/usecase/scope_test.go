package usecase

import (
	"context"
	"testing"

	"github.com/kirillkom/docuvault/internal/core/domain"
)

func newScopeFixture(t *testing.T) (*ScopeResolver, *fakeDocRepo) {
	t.Helper()
	tags := newFakeTagRepo()
	docs := newFakeDocRepo()
	assoc := newFakeAssocRepo()
	uc := newUploadUC(tags, docs, assoc, &fakeExtractor{}, &fakeAuditLogger{})
	if _, err := uc.Upload(context.Background(), "u-1", domain.DocumentUpload{
		Filename: "a.txt", Mime: "text/plain", TextContent: "a", PrimaryTag: "Invoices",
	}); err != nil {
		t.Fatalf("seed upload: %v", err)
	}
	return NewScopeResolver(NewFolderService(tags, docs, assoc), docs), docs
}

func TestResolveForActionRejectsInvalidScope(t *testing.T) {
	resolver, _ := newScopeFixture(t)

	cases := []struct {
		name  string
		scope domain.Scope
	}{
		{"mixed folder and ids", domain.Scope{Type: domain.ScopeFolder, Name: "Invoices", IDs: []string{"d-1"}}},
		{"folder without name", domain.Scope{Type: domain.ScopeFolder}},
		{"files without ids", domain.Scope{Type: domain.ScopeFiles}},
		{"unknown type", domain.Scope{Type: "everything"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := resolver.ResolveForAction(context.Background(), "u-1", tc.scope)
			if !domain.IsKind(err, domain.ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestResolveForActionEmptyScopeIsNotFound(t *testing.T) {
	resolver, _ := newScopeFixture(t)

	_, err := resolver.ResolveForAction(context.Background(), "u-1",
		domain.Scope{Type: domain.ScopeFiles, IDs: []string{"missing-doc"}})
	if !domain.IsKind(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for empty action scope, got %v", err)
	}
}

func TestResolveForSearchEmptyScopeIsFine(t *testing.T) {
	resolver, _ := newScopeFixture(t)

	docs, err := resolver.ResolveForSearch(context.Background(), "u-1",
		domain.Scope{Type: domain.ScopeFiles, IDs: []string{"missing-doc"}})
	if err != nil {
		t.Fatalf("ResolveForSearch() error = %v", err)
	}
	if len(docs) != 0 {
		t.Fatalf("expected empty result, got %d", len(docs))
	}
}

func TestResolveForActionByFolder(t *testing.T) {
	resolver, _ := newScopeFixture(t)

	docs, err := resolver.ResolveForAction(context.Background(), "u-1",
		domain.Scope{Type: domain.ScopeFolder, Name: "Invoices"})
	if err != nil {
		t.Fatalf("ResolveForAction() error = %v", err)
	}
	if len(docs) != 1 {
		t.Fatalf("expected 1 document in folder scope, got %d", len(docs))
	}
}

func TestResolveForActionDropsForeignIDs(t *testing.T) {
	resolver, repo := newScopeFixture(t)

	var ownedID string
	for id := range repo.docs {
		ownedID = id
	}

	_, err := resolver.ResolveForAction(context.Background(), "u-2",
		domain.Scope{Type: domain.ScopeFiles, IDs: []string{ownedID}})
	if !domain.IsKind(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound when all ids belong to another owner, got %v", err)
	}
}
