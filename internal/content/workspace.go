package content

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"io.winapps.clubconsole/internal/busy"
	"io.winapps.clubconsole/internal/confirm"
	"io.winapps.clubconsole/internal/console"
	"io.winapps.clubconsole/internal/editor"
	"io.winapps.clubconsole/internal/gallery"
	"io.winapps.clubconsole/internal/notice"
	"io.winapps.clubconsole/internal/store"
)

var ErrNotEditable = errors.New("collection has no drafts")

// Workspace is the console state of one signed-in session.
type Workspace struct {
	ID string

	Shell   *console.Shell
	Busy    *busy.Indicator
	Notices *notice.Board
	Prompts *confirm.Registry
	Editor  *editor.Editor

	Events    *Events
	Gallery   *Images
	Banners   *Images
	Members   *Members
	FormLinks *FormLinks

	docs store.DocumentStore
}

func NewWorkspace(id string, docs store.DocumentStore, objects store.ObjectStore, logger *zap.SugaredLogger) *Workspace {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	logger = logger.With("workspace", id)

	w := &Workspace{
		ID:      id,
		Shell:   console.NewShell(),
		Busy:    &busy.Indicator{},
		Notices: notice.NewBoard(logger),
		Prompts: confirm.NewRegistry(),
		docs:    docs,
	}
	w.Editor = editor.New(objects, w.Busy, w.Notices, logger)

	deps := gallery.Deps{
		Documents: docs,
		Objects:   objects,
		Prompts:   w.Prompts,
		Busy:      w.Busy,
		Notices:   w.Notices,
		Logger:    logger,
	}
	w.Events = NewEvents(deps, w.Editor)
	w.Gallery = NewImages(store.CollectionGallery, deps, w.Editor)
	w.Banners = NewImages(store.CollectionBanners, deps, w.Editor)
	w.Members = NewMembers(deps)
	w.FormLinks = NewFormLinks(deps)
	return w
}

// OpenDraft starts a create draft for collection, or an edit draft when
// recordID is set. Only events support edit drafts.
func (w *Workspace) OpenDraft(ctx context.Context, collection, recordID string) (editor.Snapshot, error) {
	switch collection {
	case store.CollectionEvents:
		if recordID != "" {
			return w.Events.EditDraft(ctx, recordID)
		}
		return w.Events.NewDraft(), nil
	case store.CollectionGallery, store.CollectionBanners:
		if recordID != "" {
			return editor.Snapshot{}, fmt.Errorf("%w: %s records are replaced, not edited", ErrNotEditable, collection)
		}
		if collection == store.CollectionGallery {
			return w.Gallery.NewDraft(), nil
		}
		return w.Banners.NewDraft(), nil
	default:
		return editor.Snapshot{}, fmt.Errorf("%w: %s", ErrNotEditable, collection)
	}
}

// Overview loads events, gallery images and banners in parallel straight
// from the store, leaving the managers' lists untouched.
func (w *Workspace) Overview(ctx context.Context) []console.Panel {
	done := w.Busy.Begin()
	defer done()

	panels := console.Overview(ctx,
		w.overviewLoader(store.CollectionEvents, func(doc store.Document) interface{} { return decodeEvent(doc) }),
		w.overviewLoader(store.CollectionGallery, func(doc store.Document) interface{} { return decodeImage(doc) }),
		w.overviewLoader(store.CollectionBanners, func(doc store.Document) interface{} { return decodeImage(doc) }),
	)
	for _, p := range panels {
		if p.Error != "" {
			w.Notices.Post("load "+p.Name+" overview", errors.New(p.Error))
		}
	}
	return panels
}

func (w *Workspace) overviewLoader(collection string, decode func(store.Document) interface{}) console.Loader {
	return console.Loader{
		Name: collection,
		Load: func(ctx context.Context) (interface{}, int, error) {
			docs, err := w.docs.List(ctx, collection)
			if err != nil {
				return nil, 0, fmt.Errorf("failed to list %s: %w", collection, err)
			}
			items := make([]interface{}, 0, len(docs))
			for _, doc := range docs {
				items = append(items, decode(doc))
			}
			return items, len(items), nil
		},
	}
}

// Close tears the workspace down. Late fetches are dropped, open prompts are
// cancelled and drafts discarded.
func (w *Workspace) Close() {
	w.Events.dispose()
	w.Gallery.dispose()
	w.Banners.dispose()
	w.Members.dispose()
	w.FormLinks.dispose()
	w.Prompts.Close()
	w.Editor.Close()
}
