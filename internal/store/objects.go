package store

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"path"
	"strings"
)

var ErrObjectExists = errors.New("object already exists")

// ObjectStore is the blob contract the console consumes.
type ObjectStore interface {
	// Upload writes data at objectPath and fails with ErrObjectExists instead
	// of overwriting an existing object.
	Upload(ctx context.Context, objectPath, contentType string, data []byte) error
	// URL returns a stable retrievable URL for an uploaded object.
	URL(ctx context.Context, objectPath string) (string, error)
	// Delete removes an object given either its path or a URL returned by URL.
	Delete(ctx context.Context, urlOrPath string) error
}

// UploadUnique uploads under "{dir}/{filename}" and falls back to
// "{dir}/{stem}-{id}{ext}" when that key is taken. It returns the key used.
func UploadUnique(ctx context.Context, objects ObjectStore, dir, filename, contentType string, data []byte, newID func() string) (string, error) {
	name := cleanFilename(filename)
	key := dir + "/" + name

	err := objects.Upload(ctx, key, contentType, data)
	if err == nil {
		return key, nil
	}
	if !errors.Is(err, ErrObjectExists) {
		return "", err
	}

	ext := path.Ext(name)
	key = fmt.Sprintf("%s/%s-%s%s", dir, strings.TrimSuffix(name, ext), newID(), ext)
	if err := objects.Upload(ctx, key, contentType, data); err != nil {
		return "", err
	}
	return key, nil
}

func cleanFilename(filename string) string {
	name := path.Base(strings.ReplaceAll(filename, "\\", "/"))
	if name == "." || name == "/" || name == "" {
		return "image"
	}
	return name
}

// ObjectPath extracts the object key from a gs:// URL, a Firebase download
// URL or a storage.googleapis.com URL. Anything else is treated as a key.
func ObjectPath(ref string) (string, error) {
	switch {
	case strings.HasPrefix(ref, "gs://"):
		rest := strings.TrimPrefix(ref, "gs://")
		i := strings.Index(rest, "/")
		if i < 0 || i == len(rest)-1 {
			return "", fmt.Errorf("invalid storage reference: %s", ref)
		}
		return rest[i+1:], nil

	case strings.HasPrefix(ref, "http://"), strings.HasPrefix(ref, "https://"):
		u, err := url.Parse(ref)
		if err != nil {
			return "", fmt.Errorf("invalid storage URL %s: %w", ref, err)
		}
		if i := strings.Index(u.Path, "/o/"); strings.HasPrefix(u.Path, "/v0/b/") && i >= 0 {
			return u.Path[i+len("/o/"):], nil
		}
		if u.Host == "storage.googleapis.com" {
			parts := strings.SplitN(strings.TrimPrefix(u.Path, "/"), "/", 2)
			if len(parts) == 2 && parts[1] != "" {
				return parts[1], nil
			}
		}
		return "", fmt.Errorf("unrecognised storage URL: %s", ref)

	default:
		key := strings.TrimPrefix(ref, "/")
		if key == "" {
			return "", fmt.Errorf("empty storage reference")
		}
		return key, nil
	}
}
