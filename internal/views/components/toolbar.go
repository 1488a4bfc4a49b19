package components

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

// Toolbar represents the main application toolbar
type Toolbar struct {
	container    *fyne.Container
	newButton    *widget.Button
	saveButton   *widget.Button
	deleteButton *widget.Button
	linkButton   *widget.Button

	// Event handlers
	newHandler    func()
	saveHandler   func()
	deleteHandler func()
	linkHandler   func()
}

// NewToolbar creates a new toolbar component
func NewToolbar() *Toolbar {
	toolbar := &Toolbar{}
	toolbar.createComponents()
	toolbar.buildLayout()
	return toolbar
}

func (t *Toolbar) createComponents() {
	t.newButton = widget.NewButtonWithIcon("New", theme.ContentAddIcon(), func() {
		if t.newHandler != nil {
			t.newHandler()
		}
	})

	t.saveButton = widget.NewButtonWithIcon("Save", theme.DocumentSaveIcon(), func() {
		if t.saveHandler != nil {
			t.saveHandler()
		}
	})
	t.saveButton.Importance = widget.HighImportance

	t.deleteButton = widget.NewButtonWithIcon("Delete", theme.DeleteIcon(), func() {
		if t.deleteHandler != nil {
			t.deleteHandler()
		}
	})
	t.deleteButton.Importance = widget.DangerImportance
	t.deleteButton.Disable()

	t.linkButton = widget.NewButtonWithIcon("Open Link", theme.MailComposeIcon(), func() {
		if t.linkHandler != nil {
			t.linkHandler()
		}
	})
}

func (t *Toolbar) buildLayout() {
	t.container = container.NewHBox(
		t.newButton,
		t.saveButton,
		t.deleteButton,
		widget.NewSeparator(),
		t.linkButton,
	)
}

func (t *Toolbar) SetNewHandler(handler func())    { t.newHandler = handler }
func (t *Toolbar) SetSaveHandler(handler func())   { t.saveHandler = handler }
func (t *Toolbar) SetDeleteHandler(handler func()) { t.deleteHandler = handler }
func (t *Toolbar) SetLinkHandler(handler func())   { t.linkHandler = handler }

// SetNoteSelected enables actions that need an existing note.
func (t *Toolbar) SetNoteSelected(selected bool) {
	if selected {
		t.deleteButton.Enable()
	} else {
		t.deleteButton.Disable()
	}
}

func (t *Toolbar) DeleteEnabled() bool {
	return !t.deleteButton.Disabled()
}

func (t *Toolbar) NewButton() *widget.Button  { return t.newButton }
func (t *Toolbar) SaveButton() *widget.Button { return t.saveButton }

// GetContainer returns the toolbar container
func (t *Toolbar) GetContainer() *fyne.Container {
	return t.container
}
