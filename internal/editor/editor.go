// Package editor holds record drafts and runs the upload-then-persist submit.
package editor

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"io.winapps.clubconsole/internal/busy"
	"io.winapps.clubconsole/internal/notice"
	"io.winapps.clubconsole/internal/store"
)

// Editor owns the drafts of one workspace.
type Editor struct {
	objects store.ObjectStore
	busy    *busy.Indicator
	notices *notice.Board
	logger  *zap.SugaredLogger

	newID func() string
	now   func() time.Time

	mu     sync.Mutex
	drafts map[string]*draft
}

func New(objects store.ObjectStore, indicator *busy.Indicator, notices *notice.Board, logger *zap.SugaredLogger) *Editor {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Editor{
		objects: objects,
		busy:    indicator,
		notices: notices,
		logger:  logger,
		newID:   uuid.NewString,
		now:     time.Now,
		drafts:  map[string]*draft{},
	}
}

// Open starts a draft for target. recordID, fields and persisted are the
// current record when editing and empty when creating.
func (e *Editor) Open(target Target, recordID string, fields map[string]string, persisted []string) Snapshot {
	d := &draft{
		id:        e.newID(),
		target:    target,
		recordID:  recordID,
		fields:    map[string]string{},
		persisted: append([]string(nil), persisted...),
		touched:   e.now(),
	}
	for k, v := range fields {
		d.fields[k] = v
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.drafts[d.id] = d
	return d.snapshot()
}

func (e *Editor) Get(id string) (Snapshot, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	d, ok := e.drafts[id]
	if !ok {
		return Snapshot{}, ErrDraftNotFound
	}
	return d.snapshot(), nil
}

// Len returns the number of open drafts.
func (e *Editor) Len() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.drafts)
}

// mutate runs fn on an idle draft under the editor lock.
func (e *Editor) mutate(id string, fn func(d *draft) error) (Snapshot, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	d, ok := e.drafts[id]
	if !ok {
		return Snapshot{}, ErrDraftNotFound
	}
	if d.submitting {
		return Snapshot{}, ErrSubmitInProgress
	}
	if err := fn(d); err != nil {
		return Snapshot{}, err
	}
	d.touched = e.now()
	return d.snapshot(), nil
}

// SetFields merges field values into the draft.
func (e *Editor) SetFields(id string, fields map[string]string) (Snapshot, error) {
	return e.mutate(id, func(d *draft) error {
		for k, v := range fields {
			d.fields[k] = v
		}
		return nil
	})
}

// SelectImages appends files to the pending list with one preview each.
func (e *Editor) SelectImages(id string, files []File) (Snapshot, error) {
	return e.mutate(id, func(d *draft) error {
		for _, f := range files {
			d.pending = append(d.pending, f)
			d.previews = append(d.previews, Preview{
				ID:          e.newID(),
				Name:        f.Name,
				ContentType: f.ContentType,
				Size:        len(f.Data),
			})
		}
		return nil
	})
}

// RemovePending drops the pending file at index together with its preview,
// which stops being served.
func (e *Editor) RemovePending(id string, index int) (Snapshot, error) {
	return e.mutate(id, func(d *draft) error {
		if err := checkIndex(index, len(d.pending)); err != nil {
			return err
		}
		d.pending = append(d.pending[:index], d.pending[index+1:]...)
		d.previews = append(d.previews[:index], d.previews[index+1:]...)
		return nil
	})
}

// RemovePersisted drops an already-stored image from the draft. The record
// is unchanged until submit.
func (e *Editor) RemovePersisted(id string, index int) (Snapshot, error) {
	return e.mutate(id, func(d *draft) error {
		if err := checkIndex(index, len(d.persisted)); err != nil {
			return err
		}
		d.dropped = append(d.dropped, d.persisted[index])
		d.persisted = append(d.persisted[:index], d.persisted[index+1:]...)
		return nil
	})
}

// Preview returns the pending file behind a live preview reference.
func (e *Editor) Preview(id, previewID string) (File, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	d, ok := e.drafts[id]
	if !ok {
		return File{}, ErrDraftNotFound
	}
	for i, p := range d.previews {
		if p.ID == previewID {
			return d.pending[i], nil
		}
	}
	return File{}, ErrPreviewNotFound
}

// Discard closes a draft and revokes its previews.
func (e *Editor) Discard(id string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	d, ok := e.drafts[id]
	if !ok {
		return ErrDraftNotFound
	}
	if d.submitting {
		return ErrSubmitInProgress
	}
	delete(e.drafts, id)
	return nil
}

// Submit uploads every pending file, waits for all of them, then persists
// the record once. Any upload failure aborts before the document write. On
// failure the draft keeps its fields and files so the user can retry.
func (e *Editor) Submit(ctx context.Context, id string) (Values, error) {
	e.mu.Lock()
	d, ok := e.drafts[id]
	if !ok {
		e.mu.Unlock()
		return Values{}, ErrDraftNotFound
	}
	if d.submitting {
		e.mu.Unlock()
		return Values{}, ErrSubmitInProgress
	}
	d.submitting = true
	values := d.values()
	pending := append([]File(nil), d.pending...)
	e.mu.Unlock()

	done := e.busy.Begin()
	defer func() {
		e.mu.Lock()
		d.submitting = false
		d.touched = e.now()
		e.mu.Unlock()
		done()
	}()

	collection := d.target.Collection()
	if err := d.target.Validate(values); err != nil {
		return Values{}, err
	}

	urls, err := e.upload(ctx, collection, pending)
	if err != nil {
		e.discardUploads(ctx, collection, urls)
		e.notices.Post("upload "+collection+" images", err)
		return Values{}, err
	}
	values.Images = append(values.Images, urls...)

	if err := d.target.Persist(ctx, values); err != nil {
		e.recoverPersist(ctx, d, urls, err)
		e.notices.Post("save "+collection+" record", err)
		return Values{}, err
	}

	e.deleteDropped(ctx, collection, values.Dropped)

	e.mu.Lock()
	if values.RecordID != "" {
		delete(e.drafts, id)
	} else {
		d.reset()
	}
	e.mu.Unlock()

	if err := d.target.Refresh(ctx); err != nil {
		e.notices.Post("refresh "+collection, err)
	}
	return values, nil
}

// recoverPersist leaves the draft ready for a retry after a failed Persist:
// files whose documents were already written leave the draft, and every
// other new upload is deleted so the retry stores it under the same key.
func (e *Editor) recoverPersist(ctx context.Context, d *draft, urls []string, err error) {
	saved := map[string]bool{}
	var partial *PartialPersistError
	if errors.As(err, &partial) {
		for _, url := range partial.Saved {
			saved[url] = true
		}
	}

	unsaved := make([]string, 0, len(urls))
	for _, url := range urls {
		if !saved[url] {
			unsaved = append(unsaved, url)
		}
	}
	e.discardUploads(ctx, d.target.Collection(), unsaved)

	if len(saved) == 0 {
		return
	}
	e.mu.Lock()
	d.keepPending(func(i int) bool { return !saved[urls[i]] })
	e.mu.Unlock()
	if err := d.target.Refresh(ctx); err != nil {
		e.notices.Post("refresh "+d.target.Collection(), err)
	}
}

// discardUploads deletes blobs, by URL or object path, uploaded by a submit
// that did not complete. Empty entries are files that never uploaded.
func (e *Editor) discardUploads(ctx context.Context, collection string, urls []string) {
	for _, url := range urls {
		if url == "" {
			continue
		}
		if err := e.objects.Delete(ctx, url); err != nil {
			e.logger.Warnw("failed to discard upload", "component", "editor", "collection", collection, "url", url, "error", err)
		}
	}
}

// upload stores files concurrently and returns their URLs in file order. On
// failure the URLs of the files that did upload are still returned.
func (e *Editor) upload(ctx context.Context, collection string, files []File) ([]string, error) {
	urls := make([]string, len(files))
	g, gctx := errgroup.WithContext(ctx)
	for i, f := range files {
		i, f := i, f
		g.Go(func() error {
			key, err := store.UploadUnique(gctx, e.objects, collection, f.Name, f.ContentType, f.Data, e.newID)
			if err != nil {
				return fmt.Errorf("failed to upload %s: %w", f.Name, err)
			}
			url, err := e.objects.URL(gctx, key)
			if err != nil {
				e.discardUploads(ctx, collection, []string{key})
				return fmt.Errorf("failed to resolve URL for %s: %w", key, err)
			}
			urls[i] = url
			return nil
		})
	}
	err := g.Wait()
	return urls, err
}

func (e *Editor) deleteDropped(ctx context.Context, collection string, dropped []string) {
	for _, ref := range dropped {
		if err := e.objects.Delete(ctx, ref); err != nil {
			e.notices.Post("delete removed "+collection+" image", fmt.Errorf("%s: %w", ref, err))
		}
	}
}

// Sweep discards idle drafts untouched for longer than maxIdle and returns
// how many were removed. Drafts being submitted are kept.
func (e *Editor) Sweep(maxIdle time.Duration) int {
	cutoff := e.now().Add(-maxIdle)

	e.mu.Lock()
	defer e.mu.Unlock()
	removed := 0
	for id, d := range e.drafts {
		if d.submitting || d.touched.After(cutoff) {
			continue
		}
		delete(e.drafts, id)
		removed++
	}
	if removed > 0 {
		e.logger.Debugw("swept idle drafts", "component", "editor", "count", removed)
	}
	return removed
}

// Close discards every draft.
func (e *Editor) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.drafts = map[string]*draft{}
}

// IsValidation reports whether err is a rejected field set.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}
