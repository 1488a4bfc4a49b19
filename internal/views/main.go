package views

import (
	"fmt"

	"kronosphere/internal/controllers"
	"kronosphere/internal/models"
	"kronosphere/internal/views/components"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
)

// SaveShortcut saves the note in the editor (Ctrl+S, or Cmd+S on macOS).
var SaveShortcut = &desktop.CustomShortcut{KeyName: fyne.KeyS, Modifier: fyne.KeyModifierShortcutDefault}

// MainView is the journal window: note list on the left, editor on the right.
type MainView struct {
	// UI Components
	window        fyne.Window
	baseTitle     string
	mainContainer *fyne.Container
	toolbar       *components.Toolbar
	noteList      *components.NoteList
	editor        *components.Editor
	statusBar     *components.StatusBar

	// Event handlers - connected to controller
	newNoteHandler    func()
	selectNoteHandler func(string)
	saveNoteHandler   func(controllers.EditorState)
	deleteNoteHandler func()
	openLinkHandler   func(string)
}

// NewMainView creates a new main view
func NewMainView(window fyne.Window) *MainView {
	view := &MainView{
		window:    window,
		baseTitle: window.Title(),
	}

	view.initializeComponents()
	view.buildLayout()
	view.setupEventHandlers()

	return view
}

func (mv *MainView) initializeComponents() {
	mv.toolbar = components.NewToolbar()
	mv.noteList = components.NewNoteList()
	mv.editor = components.NewEditor()
	mv.statusBar = components.NewStatusBar()
}

func (mv *MainView) buildLayout() {
	split := container.NewHSplit(mv.noteList.GetWidget(), mv.editor.GetContainer())
	split.SetOffset(0.3)

	mv.mainContainer = container.NewBorder(
		mv.toolbar.GetContainer(),   // top
		mv.statusBar.GetContainer(), // bottom
		nil,                         // left
		nil,                         // right
		split,                       // center
	)

	mv.window.SetContent(mv.mainContainer)
}

// setupEventHandlers connects internal component events
func (mv *MainView) setupEventHandlers() {
	mv.toolbar.SetNewHandler(func() {
		if mv.newNoteHandler != nil {
			mv.newNoteHandler()
		}
	})

	mv.toolbar.SetSaveHandler(func() {
		if mv.saveNoteHandler != nil {
			mv.saveNoteHandler(mv.EditorState())
		}
	})

	mv.toolbar.SetDeleteHandler(func() {
		if mv.deleteNoteHandler != nil {
			mv.deleteNoteHandler()
		}
	})

	mv.toolbar.SetLinkHandler(mv.showLinkDialog)

	mv.noteList.SetSelectHandler(func(id string) {
		if mv.selectNoteHandler != nil {
			mv.selectNoteHandler(id)
		}
	})

	mv.window.Canvas().AddShortcut(SaveShortcut, func(fyne.Shortcut) {
		if mv.saveNoteHandler != nil {
			mv.saveNoteHandler(mv.EditorState())
		}
	})
}

// Event handler setters - called by controller

func (mv *MainView) SetNewNoteHandler(handler func()) {
	mv.newNoteHandler = handler
}

func (mv *MainView) SetSelectNoteHandler(handler func(string)) {
	mv.selectNoteHandler = handler
}

func (mv *MainView) SetSaveNoteHandler(handler func(controllers.EditorState)) {
	mv.saveNoteHandler = handler
}

func (mv *MainView) SetDeleteNoteHandler(handler func()) {
	mv.deleteNoteHandler = handler
}

func (mv *MainView) SetOpenLinkHandler(handler func(string)) {
	mv.openLinkHandler = handler
}

// UI update methods - called by controller

// SetNotes replaces the note list
func (mv *MainView) SetNotes(notes []models.Note) {
	fyne.Do(func() {
		mv.noteList.SetNotes(notes)
		mv.statusBar.SetNoteCount(len(notes))
	})
}

// ShowNote loads a note into the editor; nil clears it
func (mv *MainView) ShowNote(note *models.Note) {
	fyne.Do(func() {
		mv.editor.Load(note)
		mv.toolbar.SetNoteSelected(note != nil)
		if note == nil {
			mv.window.SetTitle(mv.baseTitle)
			return
		}
		mv.window.SetTitle(fmt.Sprintf("%s - %s", components.Title(note.Content), mv.baseTitle))
	})
}

// UpdateStatus updates the status bar message
func (mv *MainView) UpdateStatus(status string) {
	fyne.Do(func() {
		mv.statusBar.SetStatus(status)
	})
}

// ShowError displays an error dialog
func (mv *MainView) ShowError(title string, err error) {
	fyne.Do(func() {
		dialog.ShowError(fmt.Errorf("%s: %w", title, err), mv.window)
	})
}

// ShowInfo displays an information dialog
func (mv *MainView) ShowInfo(title, message string) {
	fyne.Do(func() {
		dialog.ShowInformation(title, message, mv.window)
	})
}

// ShowConfirm displays a confirmation dialog
func (mv *MainView) ShowConfirm(title, message string, callback func(bool)) {
	fyne.Do(func() {
		dialog.ShowConfirm(title, message, callback, mv.window)
	})
}

func (mv *MainView) showLinkDialog() {
	entry := widget.NewEntry()
	entry.SetPlaceHolder("https://")

	items := []*widget.FormItem{widget.NewFormItem("URL", entry)}
	dialog.ShowForm("Open Link", "Open", "Cancel", items, func(ok bool) {
		if !ok || mv.openLinkHandler == nil {
			return
		}
		mv.openLinkHandler(entry.Text)
	}, mv.window)
}

// EditorState snapshots the editor fields
func (mv *MainView) EditorState() controllers.EditorState {
	return controllers.EditorState{
		Content: mv.editor.Content(),
		Type:    mv.editor.Type(),
		Tags:    mv.editor.Tags(),
	}
}

// ShowAboutDialog displays application information
func (mv *MainView) ShowAboutDialog(appName, version, description string) {
	fyne.Do(func() {
		content := container.NewVBox(
			widget.NewLabel(appName),
			widget.NewLabel(fmt.Sprintf("Version: %s", version)),
			widget.NewLabel(""),
			widget.NewLabel(description),
		)

		dialog.ShowCustom("About", "Close", content, mv.window)
	})
}

// GetWindow returns the main window
func (mv *MainView) GetWindow() fyne.Window {
	return mv.window
}

func (mv *MainView) GetToolbar() *components.Toolbar {
	return mv.toolbar
}

func (mv *MainView) GetNoteList() *components.NoteList {
	return mv.noteList
}

func (mv *MainView) GetStatusBar() *components.StatusBar {
	return mv.statusBar
}

// Show displays the view
func (mv *MainView) Show() {
	fyne.Do(func() {
		mv.window.Show()
	})
}
