package store

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"
	"google.golang.org/api/googleapi"
)

// downloadTokenKey is the metadata key Firebase reads download tokens from.
const downloadTokenKey = "firebaseStorageDownloadTokens"

// FirebaseStorage keeps blobs in the project's Firebase Storage bucket and
// hands out token-bearing download URLs, the same URLs the public site reads.
type FirebaseStorage struct {
	bucket     *storage.BucketHandle
	bucketName string
}

func NewFirebaseStorage(bucket *storage.BucketHandle, bucketName string) *FirebaseStorage {
	return &FirebaseStorage{bucket: bucket, bucketName: bucketName}
}

func (s *FirebaseStorage) Upload(ctx context.Context, objectPath, contentType string, data []byte) error {
	obj := s.bucket.Object(objectPath).If(storage.Conditions{DoesNotExist: true})

	w := obj.NewWriter(ctx)
	w.ContentType = contentType
	w.Metadata = map[string]string{downloadTokenKey: uuid.New().String()}

	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return fmt.Errorf("failed to write %s: %w", objectPath, err)
	}
	if err := w.Close(); err != nil {
		var gerr *googleapi.Error
		if errors.As(err, &gerr) && gerr.Code == http.StatusPreconditionFailed {
			return fmt.Errorf("%s: %w", objectPath, ErrObjectExists)
		}
		return fmt.Errorf("failed to upload %s: %w", objectPath, err)
	}
	return nil
}

func (s *FirebaseStorage) URL(ctx context.Context, objectPath string) (string, error) {
	obj := s.bucket.Object(objectPath)
	attrs, err := obj.Attrs(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", objectPath, err)
	}

	token := firstToken(attrs.Metadata[downloadTokenKey])
	if token == "" {
		token = uuid.New().String()
		metadata := map[string]string{}
		for k, v := range attrs.Metadata {
			metadata[k] = v
		}
		metadata[downloadTokenKey] = token
		if _, err := obj.Update(ctx, storage.ObjectAttrsToUpdate{Metadata: metadata}); err != nil {
			return "", fmt.Errorf("failed to mint download token for %s: %w", objectPath, err)
		}
	}

	return DownloadURL(s.bucketName, objectPath, token), nil
}

func (s *FirebaseStorage) Delete(ctx context.Context, urlOrPath string) error {
	objectPath, err := ObjectPath(urlOrPath)
	if err != nil {
		return err
	}
	err = s.bucket.Object(objectPath).Delete(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to delete %s: %w", objectPath, err)
	}
	return nil
}

// DownloadURL builds the Firebase download URL for an object.
func DownloadURL(bucket, objectPath, token string) string {
	escaped := strings.ReplaceAll(url.PathEscape(objectPath), "/", "%2F")
	return fmt.Sprintf("https://firebasestorage.googleapis.com/v0/b/%s/o/%s?alt=media&token=%s",
		bucket, escaped, url.QueryEscape(token))
}

func firstToken(tokens string) string {
	if i := strings.Index(tokens, ","); i >= 0 {
		return tokens[:i]
	}
	return tokens
}
