package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/kirillkom/docuvault/internal/core/domain"
	"github.com/kirillkom/docuvault/internal/core/ports"
)

type fakeClock struct {
	now time.Time
}

func (c fakeClock) Now() time.Time {
	return c.now
}

type fakeTagRepo struct {
	tags             map[string]*domain.Tag
	nextID           int
	failFindOrCreate error
}

func newFakeTagRepo() *fakeTagRepo {
	return &fakeTagRepo{tags: make(map[string]*domain.Tag)}
}

func (f *fakeTagRepo) FindOrCreate(_ context.Context, ownerID, name string) (*domain.Tag, bool, error) {
	if f.failFindOrCreate != nil {
		return nil, false, f.failFindOrCreate
	}
	key := ownerID + "/" + name
	if tag, ok := f.tags[key]; ok {
		return tag, false, nil
	}
	f.nextID++
	tag := &domain.Tag{
		ID:      fmt.Sprintf("tag-%d", f.nextID),
		OwnerID: ownerID,
		Name:    name,
	}
	f.tags[key] = tag
	return tag, true, nil
}

func (f *fakeTagRepo) GetByID(_ context.Context, ownerID, id string) (*domain.Tag, error) {
	for _, tag := range f.tags {
		if tag.OwnerID == ownerID && tag.ID == id {
			return tag, nil
		}
	}
	return nil, domain.WrapError(domain.ErrNotFound, "get tag", fmt.Errorf("tag id=%s", id))
}

func (f *fakeTagRepo) GetByName(_ context.Context, ownerID, name string) (*domain.Tag, error) {
	if tag, ok := f.tags[ownerID+"/"+name]; ok {
		return tag, nil
	}
	return nil, domain.WrapError(domain.ErrNotFound, "get tag", fmt.Errorf("tag name=%s", name))
}

func (f *fakeTagRepo) FindByIDs(_ context.Context, ids []string) ([]domain.Tag, error) {
	out := make([]domain.Tag, 0, len(ids))
	for _, id := range ids {
		for _, tag := range f.tags {
			if tag.ID == id {
				out = append(out, *tag)
			}
		}
	}
	return out, nil
}

type fakeDocRepo struct {
	docs       map[string]*domain.Document
	order      []string
	deleted    []string
	failCreate error

	searchResult []domain.Document
	searchQuery  string
	searchIDs    []string
}

func newFakeDocRepo() *fakeDocRepo {
	return &fakeDocRepo{docs: make(map[string]*domain.Document)}
}

func (f *fakeDocRepo) Create(_ context.Context, doc *domain.Document) error {
	if f.failCreate != nil {
		return f.failCreate
	}
	copied := *doc
	f.docs[doc.ID] = &copied
	f.order = append(f.order, doc.ID)
	return nil
}

func (f *fakeDocRepo) Delete(_ context.Context, id string) error {
	delete(f.docs, id)
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeDocRepo) GetByID(_ context.Context, ownerID, id string) (*domain.Document, error) {
	doc, ok := f.docs[id]
	if !ok || doc.OwnerID != ownerID {
		return nil, domain.WrapError(domain.ErrNotFound, "get document", fmt.Errorf("document id=%s", id))
	}
	return doc, nil
}

func (f *fakeDocRepo) FindByIDs(_ context.Context, ownerID string, ids []string) ([]domain.Document, error) {
	out := make([]domain.Document, 0, len(ids))
	for _, id := range ids {
		if doc, ok := f.docs[id]; ok && doc.OwnerID == ownerID {
			out = append(out, *doc)
		}
	}
	return out, nil
}

func (f *fakeDocRepo) ListIDsByOwner(_ context.Context, ownerID string) ([]string, error) {
	out := make([]string, 0)
	for _, id := range f.order {
		if doc, ok := f.docs[id]; ok && doc.OwnerID == ownerID {
			out = append(out, id)
		}
	}
	return out, nil
}

func (f *fakeDocRepo) Search(_ context.Context, _ string, query string, ids []string) ([]domain.Document, error) {
	f.searchQuery = query
	f.searchIDs = ids
	return f.searchResult, nil
}

func (f *fakeDocRepo) CountAll(_ context.Context) (int, error) {
	return len(f.docs), nil
}

type fakeAssocRepo struct {
	primaries   map[string]string
	secondaries map[string][]string
	failPrimary error
}

func newFakeAssocRepo() *fakeAssocRepo {
	return &fakeAssocRepo{
		primaries:   make(map[string]string),
		secondaries: make(map[string][]string),
	}
}

func (f *fakeAssocRepo) AttachPrimary(_ context.Context, documentID, tagID string) error {
	if f.failPrimary != nil {
		return f.failPrimary
	}
	if _, ok := f.primaries[documentID]; ok {
		return domain.WrapError(domain.ErrInvariantViolation, "attach primary tag",
			fmt.Errorf("document %s already has a primary tag", documentID))
	}
	f.primaries[documentID] = tagID
	return nil
}

func (f *fakeAssocRepo) AttachSecondary(_ context.Context, documentID, tagID string) error {
	f.secondaries[documentID] = append(f.secondaries[documentID], tagID)
	return nil
}

func (f *fakeAssocRepo) PrimaryTagIDs(_ context.Context, documentIDs []string) (map[string]string, error) {
	out := make(map[string]string)
	for _, id := range documentIDs {
		if tagID, ok := f.primaries[id]; ok {
			out[id] = tagID
		}
	}
	return out, nil
}

func (f *fakeAssocRepo) DocumentIDsWithPrimaryTag(_ context.Context, tagID string) ([]string, error) {
	out := make([]string, 0)
	for docID, primary := range f.primaries {
		if primary == tagID {
			out = append(out, docID)
		}
	}
	return out, nil
}

func (f *fakeAssocRepo) CountDistinctPrimaryTags(_ context.Context) (int, error) {
	distinct := make(map[string]struct{})
	for _, tagID := range f.primaries {
		distinct[tagID] = struct{}{}
	}
	return len(distinct), nil
}

type fakeTaskRepo struct {
	tasks         map[string]*domain.Task
	windowCount   int
	lastWindow    [2]time.Time
	lastLimit     int
	statusUpdates []string
	failCreate    error
}

func newFakeTaskRepo() *fakeTaskRepo {
	return &fakeTaskRepo{tasks: make(map[string]*domain.Task)}
}

func (f *fakeTaskRepo) CreateIfUnderLimit(_ context.Context, task *domain.Task, windowStart, windowEnd time.Time, limit int) (bool, error) {
	if f.failCreate != nil {
		return false, f.failCreate
	}
	f.lastWindow = [2]time.Time{windowStart, windowEnd}
	f.lastLimit = limit
	if f.windowCount >= limit {
		return false, nil
	}
	copied := *task
	f.tasks[task.ID] = &copied
	f.windowCount++
	return true, nil
}

func (f *fakeTaskRepo) GetByID(_ context.Context, id string) (*domain.Task, error) {
	task, ok := f.tasks[id]
	if !ok {
		return nil, domain.WrapError(domain.ErrNotFound, "get task", fmt.Errorf("task id=%s", id))
	}
	return task, nil
}

func (f *fakeTaskRepo) UpdateStatus(_ context.Context, id string, status domain.TaskStatus, errMessage string) error {
	task, ok := f.tasks[id]
	if !ok {
		return domain.WrapError(domain.ErrNotFound, "update task status", fmt.Errorf("task id=%s", id))
	}
	task.Status = status
	task.Error = errMessage
	f.statusUpdates = append(f.statusUpdates, id+":"+string(status))
	return nil
}

func (f *fakeTaskRepo) CountCreatedBetween(_ context.Context, _, _ time.Time) (int, error) {
	return len(f.tasks), nil
}

type fakeAuditLogger struct {
	entries []domain.AuditEntry
	err     error
}

func (f *fakeAuditLogger) Record(_ context.Context, entry domain.AuditEntry) error {
	if f.err != nil {
		return f.err
	}
	f.entries = append(f.entries, entry)
	return nil
}

func (f *fakeAuditLogger) actions() []string {
	out := make([]string, 0, len(f.entries))
	for _, entry := range f.entries {
		out = append(out, entry.Action)
	}
	return out
}

type usageRecord struct {
	userID  string
	action  string
	credits int
}

type fakeUsageRecorder struct {
	records    []usageRecord
	countSince int
}

func (f *fakeUsageRecorder) Record(_ context.Context, userID, action string, credits int) error {
	f.records = append(f.records, usageRecord{userID: userID, action: action, credits: credits})
	return nil
}

func (f *fakeUsageRecorder) CountSince(_ context.Context, _ time.Time) (int, error) {
	return f.countSince, nil
}

type fakeQueue struct {
	published   []string
	failPublish error
}

func (f *fakeQueue) PublishTaskCreated(_ context.Context, taskID string) error {
	if f.failPublish != nil {
		return f.failPublish
	}
	f.published = append(f.published, taskID)
	return nil
}

func (f *fakeQueue) SubscribeTaskCreated(context.Context, func(context.Context, string) error) error {
	return nil
}

type fakeExtractor struct {
	text string
	err  error
}

func (f *fakeExtractor) Extract(context.Context, string, []byte) (string, error) {
	return f.text, f.err
}

type fakeSpreadsheetEncoder struct {
	rows []ports.ActionRow
}

func (f *fakeSpreadsheetEncoder) Encode(rows []ports.ActionRow) ([]byte, error) {
	f.rows = rows
	return []byte("workbook"), nil
}

type fakeDispatcher struct {
	dispatched []string
	err        error
}

func (f *fakeDispatcher) Dispatch(_ context.Context, task *domain.Task) error {
	f.dispatched = append(f.dispatched, task.ID)
	return f.err
}
