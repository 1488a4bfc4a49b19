package services

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"kronosphere/internal/database"
	"kronosphere/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestNoteService(t *testing.T) *NoteService {
	t.Helper()

	db, err := database.Open(context.Background(), "sqlite:notes.db", database.Options{
		DataDir:    t.TempDir(),
		Migrations: models.Migrations(),
	})
	require.NoError(t, err)
	t.Cleanup(func() { database.Close(db) })

	return NewNoteService(models.NewNotesRepository(db), nil, nil)
}

func fixedClock(ms ...int64) func() time.Time {
	i := 0
	return func() time.Time {
		v := ms[i]
		if i < len(ms)-1 {
			i++
		}
		return time.UnixMilli(v)
	}
}

func TestNoteService_Create(t *testing.T) {
	svc := newTestNoteService(t)
	svc.now = fixedClock(1_700_000_000_000)

	note, err := svc.Create(context.Background(), NoteInput{
		Content:    "hello",
		Type:       " journal ",
		Tags:       []string{"a", " b ", "a", ""},
		Properties: map[string]interface{}{"pinned": true},
	})
	require.NoError(t, err)

	_, err = uuid.Parse(note.ID)
	assert.NoError(t, err)
	assert.Equal(t, "hello", note.Content)
	assert.Equal(t, models.NoteTypeJournal, note.Type)
	assert.Equal(t, models.Tags{"a", "b"}, note.Tags)
	assert.Equal(t, true, note.Properties["pinned"])
	assert.EqualValues(t, 1_700_000_000_000, note.CreatedAt)
	assert.EqualValues(t, 1_700_000_000_000, note.ModifiedAt)
}

func TestNoteService_SavePreservesCreatedAt(t *testing.T) {
	svc := newTestNoteService(t)
	svc.now = fixedClock(1000, 2000)
	ctx := context.Background()

	created, err := svc.Create(ctx, NoteInput{Content: "v1"})
	require.NoError(t, err)

	saved, err := svc.Save(ctx, &models.Note{ID: created.ID, Content: "v2"})
	require.NoError(t, err)
	assert.Equal(t, "v2", saved.Content)
	assert.EqualValues(t, 1000, saved.CreatedAt)
	assert.EqualValues(t, 2000, saved.ModifiedAt)

	count, err := svc.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}

func TestNoteService_SaveRejectsInvalid(t *testing.T) {
	svc := newTestNoteService(t)
	ctx := context.Background()

	tooMany := make([]string, 51)
	for i := range tooMany {
		tooMany[i] = fmt.Sprintf("tag%d", i)
	}

	cases := map[string]*models.Note{
		"nil":       nil,
		"blank id":  {ID: "   "},
		"long id":   {ID: strings.Repeat("x", 129)},
		"long type": {ID: "n", Type: strings.Repeat("t", 65)},
		"many tags": {ID: "n", Tags: tooMany},
		"long tag":  {ID: "n", Tags: models.Tags{strings.Repeat("g", 65)}},
	}
	for name, note := range cases {
		_, err := svc.Save(ctx, note)
		assert.ErrorIs(t, err, ErrInvalidNote, name)
	}

	count, err := svc.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestNoteService_ListAndDelete(t *testing.T) {
	svc := newTestNoteService(t)
	svc.now = fixedClock(1, 2, 3)
	ctx := context.Background()

	first, err := svc.Create(ctx, NoteInput{Content: "one", Tags: []string{"x"}})
	require.NoError(t, err)
	second, err := svc.Create(ctx, NoteInput{Content: "two"})
	require.NoError(t, err)

	notes, err := svc.List(ctx, models.ListOptions{})
	require.NoError(t, err)
	require.Len(t, notes, 2)
	assert.Equal(t, second.ID, notes[0].ID)

	tagged, err := svc.List(ctx, models.ListOptions{Tag: "x"})
	require.NoError(t, err)
	require.Len(t, tagged, 1)
	assert.Equal(t, first.ID, tagged[0].ID)

	require.NoError(t, svc.Delete(ctx, first.ID))
	_, err = svc.Get(ctx, first.ID)
	assert.ErrorIs(t, err, models.ErrNoteNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, first.ID), models.ErrNoteNotFound)
}

func TestParseTags(t *testing.T) {
	assert.Equal(t, models.Tags{"work", "plan"}, ParseTags(" work, plan ,work,, "))
	assert.Nil(t, ParseTags(""))
	assert.Nil(t, ParseTags(" , "))
}
