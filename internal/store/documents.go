package store

import (
	"context"
	"errors"
	"fmt"
)

// Collection names shared with the public site.
const (
	CollectionEvents    = "events"
	CollectionGallery   = "gallery"
	CollectionBanners   = "banners"
	CollectionMembers   = "members"
	CollectionFormLinks = "gformLinks"
)

var ErrNotFound = errors.New("document not found")

// Fields is the schemaless body of a document.
type Fields map[string]interface{}

// Document is one stored record together with its store-assigned ID.
type Document struct {
	ID     string `json:"id"`
	Fields Fields `json:"fields"`
}

// DocumentStore is the collection-scoped document contract the console consumes.
type DocumentStore interface {
	Create(ctx context.Context, collection string, fields Fields) (string, error)
	List(ctx context.Context, collection string) ([]Document, error)
	Update(ctx context.Context, collection, id string, fields Fields) error
	Delete(ctx context.Context, collection, id string) error
}

// String returns the field as a string. Non-string scalars are formatted,
// missing fields yield "".
func (f Fields) String(key string) string {
	v, ok := f[key]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// Strings returns the field as a list of strings, skipping non-string items.
func (f Fields) Strings(key string) []string {
	switch v := f[key].(type) {
	case []string:
		return append([]string(nil), v...)
	case []interface{}:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}
