package service

import (
	"context"

	"github.com/google/uuid"

	"thesisvault/internal/domain"
	"thesisvault/internal/repository"
)

type fakeThesisStore struct {
	theses map[uuid.UUID]*domain.Thesis
}

func newFakeThesisStore() *fakeThesisStore {
	return &fakeThesisStore{theses: make(map[uuid.UUID]*domain.Thesis)}
}

func (f *fakeThesisStore) put(t *domain.Thesis) {
	cp := *t
	f.theses[t.ID] = &cp
}

func (f *fakeThesisStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Thesis, error) {
	t, ok := f.theses[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *t
	return &cp, nil
}

func (f *fakeThesisStore) UpdateStatus(ctx context.Context, thesis *domain.Thesis, expectedVersion int) error {
	cur, ok := f.theses[thesis.ID]
	if !ok || cur.Version != expectedVersion {
		return repository.ErrVersionConflict
	}
	thesis.Version = expectedVersion + 1
	cp := *thesis
	f.theses[thesis.ID] = &cp
	return nil
}

func (f *fakeThesisStore) Create(ctx context.Context, thesis *domain.Thesis) error {
	thesis.Version = 1
	f.put(thesis)
	return nil
}

func (f *fakeThesisStore) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := f.theses[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.theses, id)
	return nil
}

type fakeDocumentStore struct {
	docs      map[uuid.UUID]*domain.DocumentRecord
	views     map[uuid.UUID]int
	downloads map[uuid.UUID]int
}

func newFakeDocumentStore() *fakeDocumentStore {
	return &fakeDocumentStore{
		docs:      make(map[uuid.UUID]*domain.DocumentRecord),
		views:     make(map[uuid.UUID]int),
		downloads: make(map[uuid.UUID]int),
	}
}

func (f *fakeDocumentStore) Create(ctx context.Context, doc *domain.DocumentRecord) error {
	cp := *doc
	f.docs[doc.UUID] = &cp
	return nil
}

func (f *fakeDocumentStore) GetByUUID(ctx context.Context, id uuid.UUID) (*domain.DocumentRecord, error) {
	d, ok := f.docs[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *d
	return &cp, nil
}

func (f *fakeDocumentStore) GetMainByThesis(ctx context.Context, thesisID uuid.UUID) (*domain.DocumentRecord, error) {
	for _, d := range f.docs {
		if d.ThesisID == thesisID && d.Kind == domain.DocumentKindMain {
			cp := *d
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeDocumentStore) ListByThesis(ctx context.Context, thesisID uuid.UUID) ([]domain.DocumentRecord, error) {
	var out []domain.DocumentRecord
	for _, d := range f.docs {
		if d.ThesisID == thesisID {
			out = append(out, *d)
		}
	}
	return out, nil
}

func (f *fakeDocumentStore) Delete(ctx context.Context, id uuid.UUID) error {
	delete(f.docs, id)
	return nil
}

func (f *fakeDocumentStore) IncrementViewCount(ctx context.Context, id uuid.UUID) error {
	f.views[id]++
	return nil
}

func (f *fakeDocumentStore) IncrementDownloadCount(ctx context.Context, id uuid.UUID) error {
	f.downloads[id]++
	return nil
}

type fakeEventStore struct {
	events map[int64]*domain.CalendarEvent
	nextID int64
}

func newFakeEventStore() *fakeEventStore {
	return &fakeEventStore{events: make(map[int64]*domain.CalendarEvent)}
}

func (f *fakeEventStore) Create(ctx context.Context, event *domain.CalendarEvent) error {
	f.nextID++
	event.ID = f.nextID
	cp := *event
	f.events[event.ID] = &cp
	return nil
}

func (f *fakeEventStore) Update(ctx context.Context, event *domain.CalendarEvent) error {
	if _, ok := f.events[event.ID]; !ok {
		return repository.ErrNotFound
	}
	cp := *event
	f.events[event.ID] = &cp
	return nil
}

func (f *fakeEventStore) GetByID(ctx context.Context, id int64) (*domain.CalendarEvent, error) {
	e, ok := f.events[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *e
	return &cp, nil
}

func (f *fakeEventStore) ListScheduledByDepartment(ctx context.Context, department string) ([]domain.CalendarEvent, error) {
	var out []domain.CalendarEvent
	for _, e := range f.events {
		if e.Department == department && e.Status == domain.EventStatusScheduled {
			out = append(out, *e)
		}
	}
	return out, nil
}

type fakeAuditStore struct {
	records []domain.AuditEvent
}

func (f *fakeAuditStore) Insert(ctx context.Context, event *domain.AuditEvent) error {
	f.records = append(f.records, *event)
	return nil
}
