package content

import (
	"context"

	"io.winapps.clubconsole/internal/confirm"
	"io.winapps.clubconsole/internal/gallery"
	"io.winapps.clubconsole/internal/store"
)

// Members is read-and-delete only; members sign up elsewhere.
type Members struct {
	list *gallery.Gallery[Member]
}

func NewMembers(deps gallery.Deps) *Members {
	return &Members{list: gallery.New(store.CollectionMembers, decodeMember, deps)}
}

// List re-fetches members and filters them by q.
func (m *Members) List(ctx context.Context, q string) ([]Member, error) {
	if err := m.list.Fetch(ctx); err != nil {
		return nil, err
	}
	return search(m.list.Items(), q), nil
}

// RequestDelete prompts before deleting the member document. The photo blob
// is left alone.
func (m *Members) RequestDelete(ctx context.Context, id string) (confirm.Prompt, error) {
	if err := m.list.Ensure(ctx); err != nil {
		return confirm.Prompt{}, err
	}
	return m.list.RequestDelete(id, confirm.KindDeleteMember, "Are you sure you want to delete this member?")
}

func (m *Members) dispose() {
	m.list.Dispose()
}
