package content

import (
	"context"
	"fmt"
	"strings"

	"io.winapps.clubconsole/internal/confirm"
	"io.winapps.clubconsole/internal/editor"
	"io.winapps.clubconsole/internal/gallery"
	"io.winapps.clubconsole/internal/store"
)

// Events manages the events collection: create and edit through drafts,
// delete through a prompt.
type Events struct {
	docs   store.DocumentStore
	editor *editor.Editor
	list   *gallery.Gallery[Event]
}

func NewEvents(deps gallery.Deps, ed *editor.Editor) *Events {
	return &Events{
		docs:   deps.Documents,
		editor: ed,
		list:   gallery.New(store.CollectionEvents, decodeEvent, deps),
	}
}

func (m *Events) Collection() string { return store.CollectionEvents }

func eventFromValues(v editor.Values) Event {
	return Event{
		ID:          v.RecordID,
		Name:        strings.TrimSpace(v.Fields[fieldName]),
		Description: strings.TrimSpace(v.Fields[fieldDescription]),
		Date:        strings.TrimSpace(v.Fields[fieldDate]),
		Images:      v.Images,
	}
}

func (m *Events) Validate(v editor.Values) error {
	return validateRecord(eventFromValues(v))
}

// Persist writes name, description, date and the full image list in one call.
func (m *Events) Persist(ctx context.Context, v editor.Values) error {
	e := eventFromValues(v)
	fields := store.Fields{
		fieldName:        e.Name,
		fieldDescription: e.Description,
		fieldDate:        e.Date,
		fieldImages:      nonNil(e.Images),
	}
	if e.ID == "" {
		if _, err := m.docs.Create(ctx, store.CollectionEvents, fields); err != nil {
			return fmt.Errorf("failed to create event: %w", err)
		}
		return nil
	}
	if err := m.docs.Update(ctx, store.CollectionEvents, e.ID, fields); err != nil {
		return fmt.Errorf("failed to update event %s: %w", e.ID, err)
	}
	return nil
}

func (m *Events) Refresh(ctx context.Context) error {
	return m.list.Fetch(ctx)
}

// List re-fetches the collection and returns it.
func (m *Events) List(ctx context.Context) ([]Event, error) {
	if err := m.list.Fetch(ctx); err != nil {
		return nil, err
	}
	return m.list.Items(), nil
}

// Get returns one event from the current list.
func (m *Events) Get(ctx context.Context, id string) (Event, error) {
	if err := m.list.Ensure(ctx); err != nil {
		return Event{}, err
	}
	e, ok := m.list.Find(id)
	if !ok {
		return Event{}, fmt.Errorf("event %s: %w", id, gallery.ErrRecordNotFound)
	}
	return e, nil
}

func (m *Events) NewDraft() editor.Snapshot {
	return m.editor.Open(m, "", nil, nil)
}

// EditDraft opens a draft prefilled from an existing event.
func (m *Events) EditDraft(ctx context.Context, id string) (editor.Snapshot, error) {
	e, err := m.Get(ctx, id)
	if err != nil {
		return editor.Snapshot{}, err
	}
	fields := map[string]string{
		fieldName:        e.Name,
		fieldDescription: e.Description,
		fieldDate:        e.Date,
	}
	return m.editor.Open(m, e.ID, fields, e.Images), nil
}

func (m *Events) RequestDelete(ctx context.Context, id string) (confirm.Prompt, error) {
	if err := m.list.Ensure(ctx); err != nil {
		return confirm.Prompt{}, err
	}
	return m.list.RequestDelete(id, confirm.KindDeleteEvent, "Are you sure you want to delete this event and all of its images?")
}

func (m *Events) dispose() {
	m.list.Dispose()
}
