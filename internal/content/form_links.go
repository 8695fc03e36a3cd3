package content

import (
	"context"
	"fmt"

	"io.winapps.clubconsole/internal/busy"
	"io.winapps.clubconsole/internal/confirm"
	"io.winapps.clubconsole/internal/gallery"
	"io.winapps.clubconsole/internal/notice"
	"io.winapps.clubconsole/internal/store"
)

// FormLinks manages registration form links, which carry no images and are
// written directly rather than through drafts.
type FormLinks struct {
	docs    store.DocumentStore
	busy    *busy.Indicator
	notices *notice.Board
	list    *gallery.Gallery[FormLink]
}

func NewFormLinks(deps gallery.Deps) *FormLinks {
	return &FormLinks{
		docs:    deps.Documents,
		busy:    deps.Busy,
		notices: deps.Notices,
		list:    gallery.New(store.CollectionFormLinks, decodeFormLink, deps),
	}
}

func (m *FormLinks) List(ctx context.Context, q string) ([]FormLink, error) {
	if err := m.list.Fetch(ctx); err != nil {
		return nil, err
	}
	return search(m.list.Items(), q), nil
}

// Create validates and stores a new link, then refreshes the list.
func (m *FormLinks) Create(ctx context.Context, link FormLink) (FormLink, error) {
	link = link.trimmed()
	link.ID = ""
	if err := validateRecord(link); err != nil {
		return FormLink{}, err
	}

	done := m.busy.Begin()
	id, err := m.docs.Create(ctx, store.CollectionFormLinks, link.fields())
	done()
	if err != nil {
		err = fmt.Errorf("failed to create form link: %w", err)
		m.notices.Post("create form link", err)
		return FormLink{}, err
	}
	link.ID = id

	m.refresh(ctx)
	return link, nil
}

// Update saves an inline edit: every field is written in one update.
func (m *FormLinks) Update(ctx context.Context, id string, link FormLink) (FormLink, error) {
	link = link.trimmed()
	link.ID = id
	if err := validateRecord(link); err != nil {
		return FormLink{}, err
	}

	done := m.busy.Begin()
	err := m.docs.Update(ctx, store.CollectionFormLinks, id, link.fields())
	done()
	if err != nil {
		err = fmt.Errorf("failed to update form link %s: %w", id, err)
		m.notices.Post("update form link", err)
		return FormLink{}, err
	}

	m.refresh(ctx)
	return link, nil
}

func (m *FormLinks) RequestDelete(ctx context.Context, id string) (confirm.Prompt, error) {
	if err := m.list.Ensure(ctx); err != nil {
		return confirm.Prompt{}, err
	}
	return m.list.RequestDelete(id, confirm.KindDeleteLink, "Are you sure you want to delete this form link?")
}

// refresh failures already surface as notices from the gallery.
func (m *FormLinks) refresh(ctx context.Context) {
	_ = m.list.Fetch(ctx)
}

func (m *FormLinks) dispose() {
	m.list.Dispose()
}
