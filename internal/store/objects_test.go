package store_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"io.winapps.clubconsole/internal/store"
	"io.winapps.clubconsole/internal/store/storetest"
)

func TestObjectPath(t *testing.T) {
	tests := []struct {
		name    string
		ref     string
		want    string
		wantErr bool
	}{
		{name: "plain key", ref: "events/poster.png", want: "events/poster.png"},
		{name: "leading slash", ref: "/banners/a.jpg", want: "banners/a.jpg"},
		{name: "gs url", ref: "gs://club.appspot.com/gallery/x.png", want: "gallery/x.png"},
		{
			name: "firebase download url",
			ref:  "https://firebasestorage.googleapis.com/v0/b/club.appspot.com/o/events%2Fposter%20v2.png?alt=media&token=abc",
			want: "events/poster v2.png",
		},
		{name: "storage api url", ref: "https://storage.googleapis.com/club.appspot.com/banners/b.png", want: "banners/b.png"},
		{name: "foreign url", ref: "https://example.com/a.png", wantErr: true},
		{name: "empty", ref: "", wantErr: true},
		{name: "bucket only", ref: "gs://club.appspot.com/", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := store.ObjectPath(tt.ref)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDownloadURL_RoundTrip(t *testing.T) {
	u := store.DownloadURL("club.appspot.com", "events/poster.png", "tok")
	assert.Equal(t, "https://firebasestorage.googleapis.com/v0/b/club.appspot.com/o/events%2Fposter.png?alt=media&token=tok", u)

	key, err := store.ObjectPath(u)
	require.NoError(t, err)
	assert.Equal(t, "events/poster.png", key)
}

func TestUploadUnique(t *testing.T) {
	ctx := context.Background()
	newID := func() string { return "abc" }

	t.Run("uses the original filename when free", func(t *testing.T) {
		objects := storetest.NewObjects(storetest.NewLog())
		key, err := store.UploadUnique(ctx, objects, "events", "poster.png", "image/png", []byte("x"), newID)
		require.NoError(t, err)
		assert.Equal(t, "events/poster.png", key)
	})

	t.Run("mints a unique key instead of overwriting", func(t *testing.T) {
		objects := storetest.NewObjects(storetest.NewLog())
		objects.Put("events/poster.png", []byte("old"))

		key, err := store.UploadUnique(ctx, objects, "events", "poster.png", "image/png", []byte("new"), newID)
		require.NoError(t, err)
		assert.Equal(t, "events/poster-abc.png", key)
		assert.True(t, objects.Has("events/poster.png"))
	})

	t.Run("strips directories from the filename", func(t *testing.T) {
		objects := storetest.NewObjects(storetest.NewLog())
		key, err := store.UploadUnique(ctx, objects, "gallery", `C:\photos\team.jpg`, "image/jpeg", []byte("x"), newID)
		require.NoError(t, err)
		assert.Equal(t, "gallery/team.jpg", key)
	})

	t.Run("propagates other failures", func(t *testing.T) {
		log := storetest.NewLog()
		objects := storetest.NewObjects(log)
		boom := errors.New("network down")
		log.FailOn("upload", "banners/b.png", boom)

		_, err := store.UploadUnique(ctx, objects, "banners", "b.png", "image/png", []byte("x"), newID)
		assert.ErrorIs(t, err, boom)
		assert.Len(t, log.Ops("upload"), 1)
	})
}

func TestFieldsAccessors(t *testing.T) {
	f := store.Fields{
		"name":   "Fall Fest",
		"age":    int64(31),
		"images": []interface{}{"a", 3, "b"},
		"tags":   []string{"x"},
	}

	assert.Equal(t, "Fall Fest", f.String("name"))
	assert.Equal(t, "31", f.String("age"))
	assert.Equal(t, "", f.String("missing"))
	assert.Equal(t, []string{"a", "b"}, f.Strings("images"))
	assert.Equal(t, []string{"x"}, f.Strings("tags"))
	assert.Nil(t, f.Strings("name"))
}
