package usecase

import (
	"context"
	"encoding/base64"
	"encoding/csv"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/kirillkom/docuvault/internal/core/domain"
	"github.com/kirillkom/docuvault/internal/core/ports"
)

// ActionCreditCost is charged per action run, regardless of how many
// actions the request carries.
const ActionCreditCost = 5

// actionContextPreview bounds how much of each document feeds the
// processor context.
const actionContextPreview = 200

type RunActionUseCase struct {
	docs        ports.DocumentRepository
	scopes      *ScopeResolver
	usage       ports.UsageRecorder
	audit       ports.AuditLogger
	spreadsheet ports.SpreadsheetEncoder
	clock       ports.Clock
}

func NewRunActionUseCase(
	docs ports.DocumentRepository,
	scopes *ScopeResolver,
	usage ports.UsageRecorder,
	audit ports.AuditLogger,
	spreadsheet ports.SpreadsheetEncoder,
	clock ports.Clock,
) *RunActionUseCase {
	return &RunActionUseCase{
		docs:        docs,
		scopes:      scopes,
		usage:       usage,
		audit:       audit,
		spreadsheet: spreadsheet,
		clock:       clock,
	}
}

// Run resolves the scope (at least one document required), builds a
// processing context from the scoped documents, and materializes one
// generated artifact document per recognized action.
func (uc *RunActionUseCase) Run(ctx context.Context, ownerID string, req domain.ActionRequest) (*domain.ActionResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	scoped, err := uc.scopes.ResolveForAction(ctx, ownerID, req.Scope)
	if err != nil {
		return nil, err
	}

	results := uc.process(req.Messages, scoped)

	created := make([]domain.Document, 0, len(req.Actions))
	for _, action := range req.Actions {
		var doc *domain.Document
		var err error

		switch action {
		case domain.ActionMakeDocument:
			doc, err = uc.createArtifact(ctx, ownerID, "txt", "text/plain", results.documentText())
		case domain.ActionMakeCSV:
			doc, err = uc.createArtifact(ctx, ownerID, "csv", "text/csv", renderCSV(results.Rows))
		case domain.ActionMakeSpreadsheet:
			doc, err = uc.createSpreadsheet(ctx, ownerID, results.Rows)
		default:
			continue
		}
		if err != nil {
			return nil, err
		}
		created = append(created, *doc)
	}

	if err := uc.usage.Record(ctx, ownerID, "run_action", ActionCreditCost); err != nil {
		return nil, fmt.Errorf("record usage: %w", err)
	}

	uc.auditLog(ctx, domain.AuditEntry{
		UserID:     ownerID,
		Action:     "action_run",
		EntityType: domain.EntityAction,
		Metadata: map[string]any{
			"scope":   req.Scope,
			"actions": req.Actions,
		},
	})

	return &domain.ActionResult{
		Success:          true,
		CreatedDocuments: created,
		CreditsUsed:      ActionCreditCost,
	}, nil
}

type actionOutput struct {
	Summary   string
	Message   string
	Timestamp string
	Rows      []ports.ActionRow
}

func (o actionOutput) documentText() string {
	return fmt.Sprintf("Generated Document\n\n%s\n\n%s\n\nGenerated at: %s", o.Summary, o.Message, o.Timestamp)
}

// process is a deterministic local stand-in for a model call: the row
// value is derived from the document text length so reruns over the
// same scope produce the same artifact.
func (uc *RunActionUseCase) process(messages []domain.ActionMessage, docs []domain.Document) actionOutput {
	titles := make([]string, 0, len(docs))
	rows := make([]ports.ActionRow, 0, len(docs))
	for i, doc := range docs {
		titles = append(titles, doc.Filename)
		rows = append(rows, ports.ActionRow{
			ID:    i + 1,
			Title: doc.Filename,
			Value: len(truncateRunes(doc.TextContent, actionContextPreview)),
		})
	}

	contents := make([]string, 0, len(messages))
	for _, msg := range messages {
		contents = append(contents, msg.Content)
	}

	return actionOutput{
		Summary:   fmt.Sprintf("Processed %d documents: %s", len(docs), strings.Join(titles, ", ")),
		Message:   strings.Join(contents, " "),
		Timestamp: uc.clock.Now().UTC().Format("2006-01-02T15:04:05.000Z"),
		Rows:      rows,
	}
}

func (uc *RunActionUseCase) createArtifact(ctx context.Context, ownerID, ext, mime, content string) (*domain.Document, error) {
	now := uc.clock.Now()
	doc := &domain.Document{
		ID:          uuid.NewString(),
		OwnerID:     ownerID,
		Filename:    fmt.Sprintf("generated-%d.%s", now.UnixMilli(), ext),
		Mime:        mime,
		TextContent: content,
		CreatedAt:   now.UTC(),
	}
	if err := uc.docs.Create(ctx, doc); err != nil {
		return nil, fmt.Errorf("create generated document: %w", err)
	}
	return doc, nil
}

// createSpreadsheet stores the workbook base64-encoded; the document
// store is text-content based.
func (uc *RunActionUseCase) createSpreadsheet(ctx context.Context, ownerID string, rows []ports.ActionRow) (*domain.Document, error) {
	raw, err := uc.spreadsheet.Encode(rows)
	if err != nil {
		return nil, fmt.Errorf("encode spreadsheet: %w", err)
	}
	return uc.createArtifact(
		ctx,
		ownerID,
		"xlsx",
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		base64.StdEncoding.EncodeToString(raw),
	)
}

func renderCSV(rows []ports.ActionRow) string {
	var sb strings.Builder
	w := csv.NewWriter(&sb)
	_ = w.Write([]string{"id", "title", "value"})
	for _, row := range rows {
		_ = w.Write([]string{strconv.Itoa(row.ID), row.Title, strconv.Itoa(row.Value)})
	}
	w.Flush()
	return sb.String()
}

func (uc *RunActionUseCase) auditLog(ctx context.Context, entry domain.AuditEntry) {
	if uc.audit == nil {
		return
	}
	if err := uc.audit.Record(ctx, entry); err != nil {
		slog.Warn("audit record failed", "action", entry.Action, "error", err)
	}
}
