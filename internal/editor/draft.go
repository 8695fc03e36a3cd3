package editor

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var (
	ErrDraftNotFound    = errors.New("draft not found")
	ErrPreviewNotFound  = errors.New("preview not found")
	ErrIndexOutOfRange  = errors.New("image index out of range")
	ErrSubmitInProgress = errors.New("draft is being submitted")
	ErrValidation       = errors.New("validation failed")
)

// File is one image selected in the browser and held until submit.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// Preview is the local reference the browser renders for a pending file.
type Preview struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	ContentType string `json:"contentType"`
	Size        int    `json:"size"`
}

// Values is what a draft submits: the field set and the final image list.
type Values struct {
	RecordID string
	Fields   map[string]string
	// Images is the retained persisted URLs followed by the new upload URLs
	// in selection order.
	Images []string
	// Dropped are persisted URLs the user removed from the record.
	Dropped []string
	// Pending is the number of files selected for upload.
	Pending int
}

// PartialPersistError is returned by a Persist that wrote some of the new
// images before failing. Saved holds the URLs already stored.
type PartialPersistError struct {
	Saved []string
	Err   error
}

func (e *PartialPersistError) Error() string { return e.Err.Error() }

func (e *PartialPersistError) Unwrap() error { return e.Err }

// Target is the content manager a draft submits into.
type Target interface {
	Collection() string
	// Validate runs before any remote call. Errors should wrap ErrValidation.
	Validate(v Values) error
	// Persist issues the single create or update for the record. Targets
	// writing one document per image report partial progress with
	// PartialPersistError.
	Persist(ctx context.Context, v Values) error
	// Refresh reloads the manager's list after a successful submit.
	Refresh(ctx context.Context) error
}

type draft struct {
	id       string
	target   Target
	recordID string

	fields    map[string]string
	persisted []string
	dropped   []string
	// pending[i] and previews[i] always describe the same file.
	pending  []File
	previews []Preview

	submitting bool
	touched    time.Time
}

// Snapshot is a read-only copy of a draft.
type Snapshot struct {
	ID         string            `json:"id"`
	Collection string            `json:"collection"`
	RecordID   string            `json:"recordId,omitempty"`
	Fields     map[string]string `json:"fields"`
	Persisted  []string          `json:"persisted"`
	Previews   []Preview         `json:"previews"`
	Submitting bool              `json:"submitting"`
}

func (d *draft) snapshot() Snapshot {
	fields := make(map[string]string, len(d.fields))
	for k, v := range d.fields {
		fields[k] = v
	}
	return Snapshot{
		ID:         d.id,
		Collection: d.target.Collection(),
		RecordID:   d.recordID,
		Fields:     fields,
		Persisted:  append([]string{}, d.persisted...),
		Previews:   append([]Preview{}, d.previews...),
		Submitting: d.submitting,
	}
}

func (d *draft) values() Values {
	fields := make(map[string]string, len(d.fields))
	for k, v := range d.fields {
		fields[k] = v
	}
	return Values{
		RecordID: d.recordID,
		Fields:   fields,
		Images:   append([]string{}, d.persisted...),
		Dropped:  append([]string(nil), d.dropped...),
		Pending:  len(d.pending),
	}
}

// keepPending drops every pending file, and its preview, for which keep
// reports false.
func (d *draft) keepPending(keep func(i int) bool) {
	var (
		pending  []File
		previews []Preview
	)
	for i := range d.pending {
		if keep(i) {
			pending = append(pending, d.pending[i])
			previews = append(previews, d.previews[i])
		}
	}
	d.pending, d.previews = pending, previews
}

func (d *draft) reset() {
	d.fields = map[string]string{}
	d.persisted = nil
	d.dropped = nil
	d.pending = nil
	d.previews = nil
}

func checkIndex(index, n int) error {
	if index < 0 || index >= n {
		return fmt.Errorf("%w: %d", ErrIndexOutOfRange, index)
	}
	return nil
}
