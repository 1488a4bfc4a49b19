package controllers

import (
	"context"
	"errors"
	"testing"

	"kronosphere/internal/database"
	"kronosphere/internal/models"
	"kronosphere/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeView struct {
	notes    []models.Note
	shown    *models.Note
	status   string
	errors   []string
	confirm  bool
	prompted int

	newNote  func()
	selectFn func(string)
	save     func(EditorState)
	del      func()
	openLink func(string)
}

func (f *fakeView) SetNotes(notes []models.Note)           { f.notes = notes }
func (f *fakeView) ShowNote(note *models.Note)             { f.shown = note }
func (f *fakeView) UpdateStatus(status string)             { f.status = status }
func (f *fakeView) ShowError(title string, err error)      { f.errors = append(f.errors, title) }
func (f *fakeView) SetNewNoteHandler(h func())             { f.newNote = h }
func (f *fakeView) SetSelectNoteHandler(h func(string))    { f.selectFn = h }
func (f *fakeView) SetSaveNoteHandler(h func(EditorState)) { f.save = h }
func (f *fakeView) SetDeleteNoteHandler(h func())          { f.del = h }
func (f *fakeView) SetOpenLinkHandler(h func(string))      { f.openLink = h }

func (f *fakeView) ShowConfirm(title, message string, callback func(bool)) {
	f.prompted++
	callback(f.confirm)
}

type fakeOpener struct {
	urls  []string
	paths []string
	err   error
}

func (o *fakeOpener) OpenURL(ctx context.Context, raw string) error {
	o.urls = append(o.urls, raw)
	return o.err
}

func (o *fakeOpener) OpenPath(ctx context.Context, path string) error {
	o.paths = append(o.paths, path)
	return o.err
}

func newTestController(t *testing.T) (*MainController, *fakeView, *fakeOpener) {
	t.Helper()

	db, err := database.Open(context.Background(), "sqlite:notes.db", database.Options{
		DataDir:    t.TempDir(),
		Migrations: models.Migrations(),
	})
	require.NoError(t, err)
	t.Cleanup(func() { database.Close(db) })

	svc := services.NewNoteService(models.NewNotesRepository(db), nil, nil)
	opener := &fakeOpener{}
	view := &fakeView{}

	mc := NewMainController(svc, opener, nil)
	mc.SetMainView(view)
	return mc, view, opener
}

func TestMainController_WiresHandlers(t *testing.T) {
	_, view, _ := newTestController(t)

	assert.NotNil(t, view.newNote)
	assert.NotNil(t, view.selectFn)
	assert.NotNil(t, view.save)
	assert.NotNil(t, view.del)
	assert.NotNil(t, view.openLink)
}

func TestMainController_CreateThenUpdate(t *testing.T) {
	mc, view, _ := newTestController(t)

	view.newNote()
	assert.Nil(t, view.shown)

	view.save(EditorState{Content: "first", Type: "journal", Tags: "a, b"})
	require.Empty(t, view.errors)
	require.Len(t, view.notes, 1)
	require.NotNil(t, view.shown)
	assert.Equal(t, "first", view.shown.Content)
	assert.Equal(t, models.Tags{"a", "b"}, view.shown.Tags)

	id := view.shown.ID
	view.save(EditorState{Content: "second", Type: "journal"})
	require.Empty(t, view.errors)
	require.Len(t, view.notes, 1)
	assert.Equal(t, id, view.notes[0].ID)
	assert.Equal(t, "second", view.notes[0].Content)
	assert.Equal(t, id, mc.Selected().ID)
}

func TestMainController_SelectNote(t *testing.T) {
	mc, view, _ := newTestController(t)

	view.save(EditorState{Content: "keep me"})
	id := view.shown.ID

	view.newNote()
	assert.Nil(t, mc.Selected())

	view.selectFn(id)
	require.NotNil(t, view.shown)
	assert.Equal(t, "keep me", view.shown.Content)

	view.selectFn("missing")
	assert.Empty(t, view.errors)
	assert.Equal(t, "Note no longer exists", view.status)
}

func TestMainController_DeleteNote(t *testing.T) {
	mc, view, _ := newTestController(t)

	view.del()
	assert.Equal(t, "No note selected", view.status)
	assert.Zero(t, view.prompted)

	view.save(EditorState{Content: "doomed"})
	require.Len(t, view.notes, 1)

	view.confirm = false
	view.del()
	assert.Equal(t, 1, view.prompted)
	assert.NotNil(t, mc.Selected())

	view.confirm = true
	view.del()
	assert.Nil(t, mc.Selected())
	assert.Nil(t, view.shown)
	assert.Empty(t, view.notes)
	assert.Equal(t, "0 notes", view.status)
}

func TestMainController_InvalidSaveShowsError(t *testing.T) {
	mc, view, _ := newTestController(t)

	long := make([]byte, 65)
	for i := range long {
		long[i] = 't'
	}
	view.save(EditorState{Content: "x", Type: string(long)})
	assert.Equal(t, []string{"Saving note failed"}, view.errors)
	assert.Nil(t, mc.Selected())
}

func TestMainController_OpenLink(t *testing.T) {
	mc, view, opener := newTestController(t)

	view.openLink("https://example.com")
	assert.Equal(t, []string{"https://example.com"}, opener.urls)
	assert.Equal(t, "Opened https://example.com", view.status)

	opener.err = errors.New("refused")
	view.openLink("https://example.org")
	assert.Equal(t, []string{"Opening link failed"}, view.errors)

	mc.SetDataDir("/data")
	mc.OpenDataDir()
	assert.Equal(t, []string{"/data"}, opener.paths)
}
