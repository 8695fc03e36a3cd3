// Package gallery lists one collection and deletes its records behind a
// confirmation prompt.
package gallery

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"io.winapps.clubconsole/internal/busy"
	"io.winapps.clubconsole/internal/confirm"
	"io.winapps.clubconsole/internal/notice"
	"io.winapps.clubconsole/internal/store"
)

var ErrRecordNotFound = errors.New("record not found")

// Record is anything a gallery can list and delete.
type Record interface {
	RecordID() string
	// Blobs are the object-store references deleted together with the record.
	Blobs() []string
}

// Deps are the collaborators shared by every gallery of a workspace.
type Deps struct {
	Documents store.DocumentStore
	Objects   store.ObjectStore
	Prompts   *confirm.Registry
	Busy      *busy.Indicator
	Notices   *notice.Board
	Logger    *zap.SugaredLogger
}

type Gallery[T Record] struct {
	collection string
	decode     func(store.Document) T
	deps       Deps

	mu       sync.RWMutex
	items    []T
	loaded   bool
	promptID string
	pending  *T
	disposed bool
}

func New[T Record](collection string, decode func(store.Document) T, deps Deps) *Gallery[T] {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop().Sugar()
	}
	return &Gallery[T]{collection: collection, decode: decode, deps: deps}
}

func (g *Gallery[T]) Collection() string {
	return g.collection
}

// Fetch lists the whole collection and replaces the local list. A fetch that
// completes after Dispose is dropped.
func (g *Gallery[T]) Fetch(ctx context.Context) error {
	done := g.deps.Busy.Begin()
	defer done()

	docs, err := g.deps.Documents.List(ctx, g.collection)
	if err != nil {
		err = fmt.Errorf("failed to list %s: %w", g.collection, err)
		g.deps.Notices.Post("load "+g.collection, err)
		return err
	}

	items := make([]T, 0, len(docs))
	for _, doc := range docs {
		items = append(items, g.decode(doc))
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if g.disposed {
		g.deps.Logger.Debugw("dropping late fetch", "collection", g.collection)
		return nil
	}
	g.items = items
	g.loaded = true
	return nil
}

// Ensure fetches once if the list was never loaded.
func (g *Gallery[T]) Ensure(ctx context.Context) error {
	g.mu.RLock()
	loaded := g.loaded
	g.mu.RUnlock()
	if loaded {
		return nil
	}
	return g.Fetch(ctx)
}

func (g *Gallery[T]) Items() []T {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return append([]T{}, g.items...)
}

func (g *Gallery[T]) Find(id string) (T, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	for _, item := range g.items {
		if item.RecordID() == id {
			return item, true
		}
	}
	var zero T
	return zero, false
}

// Pending returns the record awaiting delete confirmation, if any.
func (g *Gallery[T]) Pending() (T, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if g.pending == nil {
		var zero T
		return zero, false
	}
	return *g.pending, true
}

// RequestDelete marks the record as pending deletion and opens a prompt.
// Nothing is deleted until the prompt is confirmed. A previous unanswered
// request is cancelled.
func (g *Gallery[T]) RequestDelete(id, kind, message string) (confirm.Prompt, error) {
	record, ok := g.Find(id)
	if !ok {
		return confirm.Prompt{}, fmt.Errorf("%s/%s: %w", g.collection, id, ErrRecordNotFound)
	}

	g.mu.Lock()
	previous := g.promptID
	g.mu.Unlock()
	if previous != "" {
		_ = g.deps.Prompts.Cancel(previous)
	}

	var promptID string
	prompt := g.deps.Prompts.Open(kind, message,
		func(ctx context.Context) error {
			g.clearPending(promptID)
			return g.delete(ctx, record)
		},
		func() { g.clearPending(promptID) },
	)
	promptID = prompt.ID

	g.mu.Lock()
	g.promptID = prompt.ID
	g.pending = &record
	g.mu.Unlock()
	return prompt, nil
}

func (g *Gallery[T]) clearPending(promptID string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.promptID == promptID {
		g.promptID = ""
		g.pending = nil
	}
}

// delete removes every blob of record, then its document, then the local
// entry. Any failure leaves the local list unchanged.
func (g *Gallery[T]) delete(ctx context.Context, record T) error {
	done := g.deps.Busy.Begin()
	defer done()

	id := record.RecordID()
	var blobs errgroup.Group
	for _, ref := range record.Blobs() {
		ref := ref
		blobs.Go(func() error {
			if err := g.deps.Objects.Delete(ctx, ref); err != nil {
				return fmt.Errorf("failed to delete blob %s: %w", ref, err)
			}
			return nil
		})
	}
	if err := blobs.Wait(); err != nil {
		g.deps.Notices.Post("delete "+g.collection+" record", err)
		return err
	}

	if err := g.deps.Documents.Delete(ctx, g.collection, id); err != nil {
		err = fmt.Errorf("failed to delete %s/%s: %w", g.collection, id, err)
		g.deps.Notices.Post("delete "+g.collection+" record", err)
		return err
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	for i, item := range g.items {
		if item.RecordID() == id {
			g.items = append(g.items[:i:i], g.items[i+1:]...)
			break
		}
	}
	return nil
}

// Dispose detaches the gallery from its workspace. Later fetches no longer
// write into it and a pending delete prompt is cancelled.
func (g *Gallery[T]) Dispose() {
	g.mu.Lock()
	g.disposed = true
	promptID := g.promptID
	g.mu.Unlock()
	if promptID != "" {
		_ = g.deps.Prompts.Cancel(promptID)
	}
}
