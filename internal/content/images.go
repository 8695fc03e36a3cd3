package content

import (
	"context"
	"fmt"

	"io.winapps.clubconsole/internal/confirm"
	"io.winapps.clubconsole/internal/editor"
	"io.winapps.clubconsole/internal/gallery"
	"io.winapps.clubconsole/internal/store"
)

// Images manages an image-only collection (gallery or banners) where every
// uploaded file becomes its own {url} document.
type Images struct {
	collection string
	docs       store.DocumentStore
	editor     *editor.Editor
	list       *gallery.Gallery[Image]
}

func NewImages(collection string, deps gallery.Deps, ed *editor.Editor) *Images {
	return &Images{
		collection: collection,
		docs:       deps.Documents,
		editor:     ed,
		list:       gallery.New(collection, decodeImage, deps),
	}
}

func (m *Images) Collection() string { return m.collection }

func (m *Images) Validate(v editor.Values) error {
	if v.Pending == 0 {
		return fmt.Errorf("%w: select at least one image", editor.ErrValidation)
	}
	return nil
}

// Persist creates one document per uploaded URL. A failure part way
// reports the URLs already saved so a retry does not store them twice.
func (m *Images) Persist(ctx context.Context, v editor.Values) error {
	saved := make([]string, 0, len(v.Images))
	for _, url := range v.Images {
		if _, err := m.docs.Create(ctx, m.collection, store.Fields{fieldURL: url}); err != nil {
			return &editor.PartialPersistError{
				Saved: saved,
				Err:   fmt.Errorf("failed to save %s image: %w", m.collection, err),
			}
		}
		saved = append(saved, url)
	}
	return nil
}

func (m *Images) Refresh(ctx context.Context) error {
	return m.list.Fetch(ctx)
}

func (m *Images) List(ctx context.Context) ([]Image, error) {
	if err := m.list.Fetch(ctx); err != nil {
		return nil, err
	}
	return m.list.Items(), nil
}

func (m *Images) NewDraft() editor.Snapshot {
	return m.editor.Open(m, "", nil, nil)
}

func (m *Images) RequestDelete(ctx context.Context, id string) (confirm.Prompt, error) {
	if err := m.list.Ensure(ctx); err != nil {
		return confirm.Prompt{}, err
	}
	return m.list.RequestDelete(id, confirm.KindDeleteImage, "Are you sure you want to delete this image?")
}

func (m *Images) dispose() {
	m.list.Dispose()
}
