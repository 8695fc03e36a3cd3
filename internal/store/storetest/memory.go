// Package storetest provides in-memory and mock stores for package tests.
package storetest

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"io.winapps.clubconsole/internal/store"
)

const Bucket = "test-bucket"

// Call is one recorded store call.
type Call struct {
	Op     string
	Target string
	Fields store.Fields
}

// Log records calls across document and object fakes so tests can assert
// ordering between uploads and document writes.
type Log struct {
	mu     sync.Mutex
	calls  []Call
	fail   map[string]error
	failAt map[string]failure
	seen   map[string]int
}

type failure struct {
	n   int
	err error
}

func NewLog() *Log {
	return &Log{fail: map[string]error{}, failAt: map[string]failure{}, seen: map[string]int{}}
}

// FailCall makes only the nth op on target (counting from 1) return err.
func (l *Log) FailCall(op, target string, n int, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.failAt[op+" "+target] = failure{n: n, err: err}
}

// FailOn makes the next and every later op on target return err.
func (l *Log) FailOn(op, target string, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.fail[op+" "+target] = err
}

func (l *Log) record(op, target string, fields store.Fields) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls = append(l.calls, Call{Op: op, Target: target, Fields: fields})
	key := op + " " + target
	l.seen[key]++
	if f, ok := l.failAt[key]; ok && f.n == l.seen[key] {
		return f.err
	}
	return l.fail[key]
}

func (l *Log) Calls() []Call {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]Call(nil), l.calls...)
}

// Ops returns the recorded calls of one kind, in order.
func (l *Log) Ops(op string) []Call {
	var out []Call
	for _, c := range l.Calls() {
		if c.Op == op {
			out = append(out, c)
		}
	}
	return out
}

// Documents is an in-memory DocumentStore.
type Documents struct {
	log    *Log
	mu     sync.Mutex
	data   map[string]map[string]store.Fields
	nextID int
}

func NewDocuments(log *Log) *Documents {
	return &Documents{log: log, data: map[string]map[string]store.Fields{}}
}

// Seed stores a document without recording a call and returns its ID.
func (d *Documents) Seed(collection string, fields store.Fields) string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.put(collection, fields)
}

func (d *Documents) put(collection string, fields store.Fields) string {
	d.nextID++
	id := fmt.Sprintf("%s-%03d", collection, d.nextID)
	if d.data[collection] == nil {
		d.data[collection] = map[string]store.Fields{}
	}
	d.data[collection][id] = copyFields(fields)
	return id
}

// Get returns a stored document's fields.
func (d *Documents) Get(collection, id string) (store.Fields, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	f, ok := d.data[collection][id]
	return copyFields(f), ok
}

func (d *Documents) Count(collection string) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.data[collection])
}

func (d *Documents) Create(ctx context.Context, collection string, fields store.Fields) (string, error) {
	if err := d.log.record("create", collection, copyFields(fields)); err != nil {
		return "", err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.put(collection, fields), nil
}

func (d *Documents) List(ctx context.Context, collection string) ([]store.Document, error) {
	if err := d.log.record("list", collection, nil); err != nil {
		return nil, err
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	ids := make([]string, 0, len(d.data[collection]))
	for id := range d.data[collection] {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	docs := make([]store.Document, 0, len(ids))
	for _, id := range ids {
		docs = append(docs, store.Document{ID: id, Fields: copyFields(d.data[collection][id])})
	}
	return docs, nil
}

func (d *Documents) Update(ctx context.Context, collection, id string, fields store.Fields) error {
	if err := d.log.record("update", collection+"/"+id, copyFields(fields)); err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	existing, ok := d.data[collection][id]
	if !ok {
		return fmt.Errorf("%s/%s: %w", collection, id, store.ErrNotFound)
	}
	for k, v := range fields {
		existing[k] = v
	}
	return nil
}

func (d *Documents) Delete(ctx context.Context, collection, id string) error {
	if err := d.log.record("delete", collection+"/"+id, nil); err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.data[collection], id)
	return nil
}

// Objects is an in-memory ObjectStore handing out Firebase-style URLs.
type Objects struct {
	log  *Log
	mu   sync.Mutex
	data map[string][]byte
}

func NewObjects(log *Log) *Objects {
	return &Objects{log: log, data: map[string][]byte{}}
}

// Put stores an object without recording a call.
func (o *Objects) Put(objectPath string, data []byte) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.data[objectPath] = data
}

func (o *Objects) Has(objectPath string) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	_, ok := o.data[objectPath]
	return ok
}

// URLFor is the URL the fake returns for a key.
func URLFor(objectPath string) string {
	return store.DownloadURL(Bucket, objectPath, "token")
}

func (o *Objects) Upload(ctx context.Context, objectPath, contentType string, data []byte) error {
	if err := o.log.record("upload", objectPath, nil); err != nil {
		return err
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	if _, exists := o.data[objectPath]; exists {
		return fmt.Errorf("%s: %w", objectPath, store.ErrObjectExists)
	}
	o.data[objectPath] = append([]byte(nil), data...)
	return nil
}

func (o *Objects) URL(ctx context.Context, objectPath string) (string, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if _, ok := o.data[objectPath]; !ok {
		return "", fmt.Errorf("no object at %s", objectPath)
	}
	return URLFor(objectPath), nil
}

func (o *Objects) Delete(ctx context.Context, urlOrPath string) error {
	objectPath, err := store.ObjectPath(urlOrPath)
	if err != nil {
		return err
	}
	if err := o.log.record("delete-blob", objectPath, nil); err != nil {
		return err
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	delete(o.data, objectPath)
	return nil
}

func copyFields(f store.Fields) store.Fields {
	if f == nil {
		return nil
	}
	out := make(store.Fields, len(f))
	for k, v := range f {
		if list, ok := v.([]string); ok {
			v = append([]string(nil), list...)
		}
		out[k] = v
	}
	return out
}
