package components

import (
	"strings"

	"kronosphere/internal/models"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

const (
	titleLength    = 48
	timestampStyle = "2006-01-02 15:04"
)

// NoteList shows stored notes, newest first.
type NoteList struct {
	list  *widget.List
	notes []models.Note

	selectHandler func(id string)
}

func NewNoteList() *NoteList {
	nl := &NoteList{}
	nl.list = widget.NewList(
		func() int { return len(nl.notes) },
		func() fyne.CanvasObject {
			return container.NewVBox(
				widget.NewLabelWithStyle("", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
				widget.NewLabel(""),
			)
		},
		func(id widget.ListItemID, item fyne.CanvasObject) {
			if id < 0 || id >= len(nl.notes) {
				return
			}
			note := nl.notes[id]
			rows := item.(*fyne.Container).Objects
			rows[0].(*widget.Label).SetText(Title(note.Content))
			rows[1].(*widget.Label).SetText(Subtitle(note))
		},
	)
	nl.list.OnSelected = func(id widget.ListItemID) {
		if id < 0 || id >= len(nl.notes) || nl.selectHandler == nil {
			return
		}
		nl.selectHandler(nl.notes[id].ID)
	}
	return nl
}

func (nl *NoteList) SetSelectHandler(handler func(id string)) {
	nl.selectHandler = handler
}

func (nl *NoteList) SetNotes(notes []models.Note) {
	nl.notes = notes
	nl.list.UnselectAll()
	nl.list.Refresh()
}

func (nl *NoteList) Len() int {
	return len(nl.notes)
}

func (nl *NoteList) GetWidget() fyne.CanvasObject {
	return nl.list
}

// Title is the first non-empty line of content, shortened for the list.
func Title(content string) string {
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		runes := []rune(line)
		if len(runes) > titleLength {
			return string(runes[:titleLength-1]) + "…"
		}
		return line
	}
	return "Untitled"
}

// Subtitle summarises when a note changed and how it is tagged.
func Subtitle(note models.Note) string {
	parts := make([]string, 0, 3)
	if note.ModifiedAt > 0 {
		parts = append(parts, note.Modified().Format(timestampStyle))
	}
	if note.Type != "" {
		parts = append(parts, note.Type)
	}
	if len(note.Tags) > 0 {
		parts = append(parts, "#"+strings.Join(note.Tags, " #"))
	}
	return strings.Join(parts, " · ")
}
