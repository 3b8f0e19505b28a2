package domain

import "testing"

func TestScopeValidate(t *testing.T) {
	cases := []struct {
		name    string
		scope   Scope
		wantErr bool
	}{
		{"folder by name", Scope{Type: ScopeFolder, Name: "Invoices"}, false},
		{"files by ids", Scope{Type: ScopeFiles, IDs: []string{"d-1"}}, false},
		{"folder with ids", Scope{Type: ScopeFolder, Name: "Invoices", IDs: []string{"d-1"}}, true},
		{"folder without name", Scope{Type: ScopeFolder}, true},
		{"files without ids", Scope{Type: ScopeFiles}, true},
		{"unknown type", Scope{Type: "both"}, true},
		{"zero value", Scope{}, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.scope.Validate()
			if tc.wantErr && !IsKind(err, ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestDocumentUploadValidate(t *testing.T) {
	valid := DocumentUpload{
		Filename:    "a.txt",
		Mime:        "text/plain",
		TextContent: "text",
		PrimaryTag:  "Invoices",
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	base64Only := valid
	base64Only.TextContent = ""
	base64Only.ContentBase64 = "YQ=="
	if err := base64Only.Validate(); err != nil {
		t.Fatalf("base64 content must satisfy the content requirement: %v", err)
	}

	for name, mutate := range map[string]func(*DocumentUpload){
		"missing filename": func(u *DocumentUpload) { u.Filename = "" },
		"missing mime":     func(u *DocumentUpload) { u.Mime = "" },
		"missing content":  func(u *DocumentUpload) { u.TextContent = "" },
		"missing primary":  func(u *DocumentUpload) { u.PrimaryTag = "" },
	} {
		t.Run(name, func(t *testing.T) {
			upload := valid
			mutate(&upload)
			if !IsKind(upload.Validate(), ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput")
			}
		})
	}
}
