package components

import (
	"strings"

	"kronosphere/internal/models"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

const unsaved = "Not saved yet"

var noteTypes = []string{models.NoteTypeJournal, models.NoteTypeDocument}

// Editor holds the content and metadata of the note being edited.
type Editor struct {
	container *fyne.Container
	content   *widget.Entry
	noteType  *widget.SelectEntry
	tags      *widget.Entry
	dates     *widget.Label
}

func NewEditor() *Editor {
	e := &Editor{}
	e.content = widget.NewMultiLineEntry()
	e.content.SetPlaceHolder("Start writing your thoughts here...")
	e.content.Wrapping = fyne.TextWrapWord

	e.noteType = widget.NewSelectEntry(noteTypes)
	e.noteType.SetText(models.NoteTypeJournal)

	e.tags = widget.NewEntry()
	e.tags.SetPlaceHolder("tags, comma separated")

	e.dates = widget.NewLabel(unsaved)

	meta := container.NewGridWithColumns(2,
		container.NewBorder(nil, nil, widget.NewLabel("Type"), nil, e.noteType),
		container.NewBorder(nil, nil, widget.NewLabel("Tags"), nil, e.tags),
	)
	e.container = container.NewBorder(meta, e.dates, nil, nil, e.content)
	return e
}

// Load fills the editor from note; nil resets it for a new note.
func (e *Editor) Load(note *models.Note) {
	if note == nil {
		e.content.SetText("")
		e.noteType.SetText(models.NoteTypeJournal)
		e.tags.SetText("")
		e.dates.SetText(unsaved)
		return
	}
	e.content.SetText(note.Content)
	e.noteType.SetText(note.Type)
	e.tags.SetText(strings.Join(note.Tags, ", "))
	e.dates.SetText(Dates(note))
}

// Dates describes when a stored note was created and last changed.
func Dates(note *models.Note) string {
	if note.CreatedAt == 0 {
		return unsaved
	}
	text := "Created " + note.Created().Format(timestampStyle)
	if note.ModifiedAt > note.CreatedAt {
		text += " · Modified " + note.Modified().Format(timestampStyle)
	}
	return text
}

func (e *Editor) Content() string   { return e.content.Text }
func (e *Editor) Type() string      { return strings.TrimSpace(e.noteType.Text) }
func (e *Editor) Tags() string      { return e.tags.Text }
func (e *Editor) DatesText() string { return e.dates.Text }

func (e *Editor) GetContainer() *fyne.Container {
	return e.container
}
