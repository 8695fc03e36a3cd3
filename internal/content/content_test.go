package content

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"io.winapps.clubconsole/internal/confirm"
	"io.winapps.clubconsole/internal/editor"
	"io.winapps.clubconsole/internal/gallery"
	"io.winapps.clubconsole/internal/store"
	"io.winapps.clubconsole/internal/store/storetest"
)

type fixture struct {
	log     *storetest.Log
	docs    *storetest.Documents
	objects *storetest.Objects
	ws      *Workspace
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	log := storetest.NewLog()
	f := &fixture{log: log, docs: storetest.NewDocuments(log), objects: storetest.NewObjects(log)}
	f.ws = NewWorkspace("session-1", f.docs, f.objects, nil)
	t.Cleanup(f.ws.Close)
	return f
}

func png(name string) editor.File {
	return editor.File{Name: name, ContentType: "image/png", Data: []byte(name)}
}

func TestCreateEventThroughDraft(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	draft, err := f.ws.OpenDraft(ctx, store.CollectionEvents, "")
	require.NoError(t, err)
	_, err = f.ws.Editor.SetFields(draft.ID, map[string]string{
		"name": "Fall Fest", "description": "Annual gathering", "date": "2024-10-01",
	})
	require.NoError(t, err)
	_, err = f.ws.Editor.SelectImages(draft.ID, []editor.File{png("poster.png")})
	require.NoError(t, err)

	_, err = f.ws.Editor.Submit(ctx, draft.ID)
	require.NoError(t, err)

	events := f.ws.Events.list.Items()
	require.Len(t, events, 1)
	assert.Equal(t, "Fall Fest", events[0].Name)
	assert.Equal(t, []string{storetest.URLFor("events/poster.png")}, events[0].Images)
	assert.Len(t, f.log.Ops("create"), 1)
}

func TestEventValidation(t *testing.T) {
	f := newFixture(t)
	err := f.ws.Events.Validate(editor.Values{Fields: map[string]string{
		"name": "Fall Fest", "description": "Annual gathering", "date": "10/01/2024",
	}})
	assert.ErrorIs(t, err, editor.ErrValidation)
	assert.Contains(t, err.Error(), "date must be a YYYY-MM-DD date")

	err = f.ws.Events.Validate(editor.Values{Fields: map[string]string{"name": " ", "date": "2024-10-01"}})
	assert.ErrorIs(t, err, editor.ErrValidation)
	assert.Contains(t, err.Error(), "name is required")
	assert.Contains(t, err.Error(), "description is required")
}

func TestEditEventDraftIsPrefilled(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	img := storetest.URLFor("events/a.png")
	id := f.docs.Seed(store.CollectionEvents, store.Fields{
		"name": "Fall Fest", "description": "Annual gathering", "date": "2024-10-01", "images": []string{img},
	})

	draft, err := f.ws.OpenDraft(ctx, store.CollectionEvents, id)
	require.NoError(t, err)
	assert.Equal(t, id, draft.RecordID)
	assert.Equal(t, "Fall Fest", draft.Fields["name"])
	assert.Equal(t, []string{img}, draft.Persisted)

	_, err = f.ws.OpenDraft(ctx, store.CollectionEvents, "missing")
	assert.ErrorIs(t, err, gallery.ErrRecordNotFound)
}

func TestOpenDraftUnsupported(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.ws.OpenDraft(ctx, store.CollectionMembers, "")
	assert.ErrorIs(t, err, ErrNotEditable)
	_, err = f.ws.OpenDraft(ctx, store.CollectionBanners, "b1")
	assert.ErrorIs(t, err, ErrNotEditable)
}

func TestImagesUploadOneDocumentPerFile(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	draft, err := f.ws.OpenDraft(ctx, store.CollectionBanners, "")
	require.NoError(t, err)

	_, err = f.ws.Editor.Submit(ctx, draft.ID)
	assert.ErrorIs(t, err, editor.ErrValidation)

	_, err = f.ws.Editor.SelectImages(draft.ID, []editor.File{png("spring.png"), png("summer.png")})
	require.NoError(t, err)
	_, err = f.ws.Editor.Submit(ctx, draft.ID)
	require.NoError(t, err)

	banners, err := f.ws.Banners.List(ctx)
	require.NoError(t, err)
	require.Len(t, banners, 2)
	assert.Equal(t, storetest.URLFor("banners/spring.png"), banners[0].URL)
	assert.Equal(t, storetest.URLFor("banners/summer.png"), banners[1].URL)
}

func TestImagesRetryAfterPartialSave(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.log.FailCall("create", store.CollectionGallery, 2, errors.New("firestore unavailable"))

	draft, err := f.ws.OpenDraft(ctx, store.CollectionGallery, "")
	require.NoError(t, err)
	_, err = f.ws.Editor.SelectImages(draft.ID, []editor.File{png("a.png"), png("b.png")})
	require.NoError(t, err)

	_, err = f.ws.Editor.Submit(ctx, draft.ID)
	require.Error(t, err)
	assert.Equal(t, 1, f.docs.Count(store.CollectionGallery))
	assert.False(t, f.objects.Has("gallery/b.png"))

	snap, err := f.ws.Editor.Get(draft.ID)
	require.NoError(t, err)
	require.Len(t, snap.Previews, 1)
	assert.Equal(t, "b.png", snap.Previews[0].Name)

	_, err = f.ws.Editor.Submit(ctx, draft.ID)
	require.NoError(t, err)

	images, err := f.ws.Gallery.List(ctx)
	require.NoError(t, err)
	require.Len(t, images, 2)
	assert.Equal(t, storetest.URLFor("gallery/a.png"), images[0].URL)
	assert.Equal(t, storetest.URLFor("gallery/b.png"), images[1].URL)

	var uploaded []string
	for _, c := range f.log.Ops("upload") {
		uploaded = append(uploaded, c.Target)
	}
	assert.Equal(t, []string{"gallery/b.png"}, uploaded[len(uploaded)-1:])
	assert.Len(t, uploaded, 3)
}

func TestGalleryAndBannersDeleteBlobThenDocument(t *testing.T) {
	for _, collection := range []string{store.CollectionGallery, store.CollectionBanners} {
		t.Run(collection, func(t *testing.T) {
			f := newFixture(t)
			ctx := context.Background()
			f.objects.Put(collection+"/a.png", []byte("a"))
			id := f.docs.Seed(collection, store.Fields{"url": storetest.URLFor(collection + "/a.png")})

			manager := f.ws.Gallery
			if collection == store.CollectionBanners {
				manager = f.ws.Banners
			}
			prompt, err := manager.RequestDelete(ctx, id)
			require.NoError(t, err)
			assert.Equal(t, confirm.KindDeleteImage, prompt.Kind)
			require.NoError(t, f.ws.Prompts.Confirm(ctx, prompt.ID))

			assert.False(t, f.objects.Has(collection+"/a.png"))
			assert.Equal(t, 0, f.docs.Count(collection))
			assert.Empty(t, manager.list.Items())
		})
	}
}

func TestMembersSearchAndDelete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.objects.Put("members/jane.png", []byte("j"))
	jane := f.docs.Seed(store.CollectionMembers, store.Fields{
		"name": "Jane Doe", "email": "jane@example.org", "age": 34, "photo": storetest.URLFor("members/jane.png"),
	})
	f.docs.Seed(store.CollectionMembers, store.Fields{"name": "Sam Roe", "qualification": "Engineer"})

	all, err := f.ws.Members.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)
	assert.Equal(t, "34", all[0].Age)

	found, err := f.ws.Members.List(ctx, "ENGINEER")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Sam Roe", found[0].Name)

	found, err = f.ws.Members.List(ctx, "JANE.PNG")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, jane, found[0].ID)

	found, err = f.ws.Members.List(ctx, jane)
	require.NoError(t, err)
	require.Len(t, found, 1)

	prompt, err := f.ws.Members.RequestDelete(ctx, jane)
	require.NoError(t, err)
	require.NoError(t, f.ws.Prompts.Confirm(ctx, prompt.ID))

	assert.Equal(t, 1, f.docs.Count(store.CollectionMembers))
	assert.True(t, f.objects.Has("members/jane.png"))
	assert.Empty(t, f.log.Ops("delete-blob"))
}

func TestFormLinks(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.ws.FormLinks.Create(ctx, FormLink{EventName: "Fall Fest", URL: "not a url"})
	assert.ErrorIs(t, err, editor.ErrValidation)
	assert.Empty(t, f.log.Ops("create"))

	link, err := f.ws.FormLinks.Create(ctx, FormLink{
		EventName: " Fall Fest ", URL: "https://forms.gle/abc", EventDate: "2024-10-01",
	})
	require.NoError(t, err)
	assert.Equal(t, "Fall Fest", link.EventName)
	assert.NotEmpty(t, link.ID)

	updated, err := f.ws.FormLinks.Update(ctx, link.ID, FormLink{
		EventName: "Fall Fest 2024", URL: "https://forms.gle/xyz", EventDate: "2024-10-01", LastDayToRegister: "2024-09-25",
	})
	require.NoError(t, err)
	assert.Equal(t, link.ID, updated.ID)

	updates := f.log.Ops("update")
	require.Len(t, updates, 1)
	assert.Equal(t, store.Fields{
		"url": "https://forms.gle/xyz", "eventName": "Fall Fest 2024",
		"eventDate": "2024-10-01", "lastDayToRegister": "2024-09-25",
	}, updates[0].Fields)

	found, err := f.ws.FormLinks.List(ctx, "fest 2024")
	require.NoError(t, err)
	require.Len(t, found, 1)

	found, err = f.ws.FormLinks.List(ctx, "spring")
	require.NoError(t, err)
	assert.Empty(t, found)

	prompt, err := f.ws.FormLinks.RequestDelete(ctx, link.ID)
	require.NoError(t, err)
	assert.Equal(t, confirm.KindDeleteLink, prompt.Kind)
	require.NoError(t, f.ws.Prompts.Cancel(prompt.ID))
	assert.Equal(t, 1, f.docs.Count(store.CollectionFormLinks))
}

func TestFormLinkUpdateFailurePostsNotice(t *testing.T) {
	f := newFixture(t)
	f.log.FailOn("update", store.CollectionFormLinks+"/missing", errors.New("unavailable"))

	_, err := f.ws.FormLinks.Update(context.Background(), "missing", FormLink{EventName: "X", URL: "https://x.org"})
	assert.Error(t, err)
	assert.Len(t, f.ws.Notices.List(), 1)
	assert.False(t, f.ws.Busy.Busy())
}

func TestOverviewLeavesManagerListsAlone(t *testing.T) {
	f := newFixture(t)
	f.docs.Seed(store.CollectionEvents, store.Fields{"name": "Fall Fest"})
	f.docs.Seed(store.CollectionGallery, store.Fields{"url": "https://x/1"})
	f.docs.Seed(store.CollectionGallery, store.Fields{"url": "https://x/2"})
	f.log.FailOn("list", store.CollectionBanners, errors.New("unavailable"))

	panels := f.ws.Overview(context.Background())
	require.Len(t, panels, 3)
	assert.Equal(t, 1, panels[0].Count)
	assert.Equal(t, 2, panels[1].Count)
	assert.NotEmpty(t, panels[2].Error)
	assert.Len(t, f.ws.Notices.List(), 1)

	assert.Empty(t, f.ws.Events.list.Items())
	assert.Empty(t, f.ws.Gallery.list.Items())
}

func TestWorkspaces(t *testing.T) {
	log := storetest.NewLog()
	ws := NewWorkspaces(storetest.NewDocuments(log), storetest.NewObjects(log), nil)

	w := ws.Open("s1")
	assert.Same(t, w, ws.Open("s1"))
	got, err := ws.Get("s1")
	require.NoError(t, err)
	assert.Same(t, w, got)

	w.Events.NewDraft()
	ws.Open("s2").Gallery.NewDraft()
	assert.Equal(t, 0, ws.SweepDrafts(time.Hour))
	assert.Equal(t, 2, ws.SweepDrafts(-time.Second))

	prompt := w.Prompts.Open(confirm.KindLogout, "Log out?", func(ctx context.Context) error { return nil }, nil)
	ws.Close("s1")
	_, err = ws.Get("s1")
	assert.ErrorIs(t, err, ErrWorkspaceNotFound)
	_, err = w.Prompts.Get(prompt.ID)
	assert.ErrorIs(t, err, confirm.ErrPromptNotFound)

	ws.CloseAll()
	assert.Equal(t, 0, ws.Len())
}

func TestWorkspacesSweepIdle(t *testing.T) {
	log := storetest.NewLog()
	ws := NewWorkspaces(storetest.NewDocuments(log), storetest.NewObjects(log), nil)
	clock := time.Date(2024, 10, 1, 9, 0, 0, 0, time.UTC)
	ws.now = func() time.Time { return clock }

	stale := ws.Open("expired")
	prompt := stale.Prompts.Open(confirm.KindLogout, "Log out?", func(ctx context.Context) error { return nil }, nil)
	working := ws.Open("uploading")
	done := working.Busy.Begin()

	clock = clock.Add(2 * time.Hour)
	ws.Open("active")

	assert.Equal(t, 0, ws.SweepIdle(3*time.Hour))
	assert.Equal(t, 1, ws.SweepIdle(time.Hour))
	assert.Equal(t, 2, ws.Len())

	_, err := ws.Get("expired")
	assert.ErrorIs(t, err, ErrWorkspaceNotFound)
	_, err = stale.Prompts.Get(prompt.ID)
	assert.ErrorIs(t, err, confirm.ErrPromptNotFound)

	done()
	assert.Equal(t, 1, ws.SweepIdle(time.Hour))
	_, err = ws.Get("active")
	assert.NoError(t, err)
}

func TestSearchIgnoresCase(t *testing.T) {
	links := []FormLink{{EventName: "Fall Fest"}, {EventName: "Spring Gala"}}
	assert.Len(t, search(links, "GALA"), 1)
	assert.Len(t, search(links, "  "), 2)
}
