package controllers

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"kronosphere/internal/logger"
	"kronosphere/internal/models"
	"kronosphere/internal/services"
)

const operationTimeout = 10 * time.Second

// NotesView is the surface the controller drives. views.MainView implements it.
type NotesView interface {
	SetNotes(notes []models.Note)
	ShowNote(note *models.Note)
	UpdateStatus(status string)
	ShowError(title string, err error)
	ShowConfirm(title, message string, callback func(bool))

	SetNewNoteHandler(handler func())
	SetSelectNoteHandler(handler func(id string))
	SetSaveNoteHandler(handler func(EditorState))
	SetDeleteNoteHandler(handler func())
	SetOpenLinkHandler(handler func(raw string))
}

// EditorState is what the editor holds when the user saves.
type EditorState struct {
	Content string
	Type    string
	Tags    string
}

// NoteManager is the slice of services.NoteService the controller needs.
type NoteManager interface {
	Create(ctx context.Context, input services.NoteInput) (*models.Note, error)
	Save(ctx context.Context, note *models.Note) (*models.Note, error)
	Get(ctx context.Context, id string) (*models.Note, error)
	List(ctx context.Context, opts models.ListOptions) ([]models.Note, error)
	Delete(ctx context.Context, id string) error
}

// MainController mediates between the notes view and the note and opener services.
type MainController struct {
	notes  NoteManager
	opener services.ExternalLinkOpener
	log    logger.Logger

	mainView NotesView

	mu       sync.RWMutex
	selected *models.Note
	dataDir  string
	closed   bool
}

func NewMainController(notes NoteManager, opener services.ExternalLinkOpener, log logger.Logger) *MainController {
	if log == nil {
		log = logger.NoOpLogger{}
	}
	return &MainController{
		notes:  notes,
		opener: opener,
		log:    log,
	}
}

// SetMainView associates the main view with this controller
func (mc *MainController) SetMainView(view NotesView) {
	mc.mainView = view
	mc.setupViewEventHandlers()
}

// SetDataDir records the directory "Open Data Folder" reveals.
func (mc *MainController) SetDataDir(dir string) {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	mc.dataDir = dir
}

// Refresh reloads the note list from storage.
func (mc *MainController) Refresh() {
	ctx, cancel := mc.operationContext()
	defer cancel()

	notes, err := mc.notes.List(ctx, models.ListOptions{})
	if err != nil {
		mc.handleError("Loading notes failed", err)
		return
	}

	mc.mainView.SetNotes(notes)
	mc.mainView.UpdateStatus(fmt.Sprintf("%d notes", len(notes)))
}

// NewNote clears the editor; the note is persisted on first save.
func (mc *MainController) NewNote() {
	mc.mu.Lock()
	mc.selected = nil
	mc.mu.Unlock()

	mc.mainView.ShowNote(nil)
	mc.mainView.UpdateStatus("New note")
}

// SelectNote loads a note into the editor.
func (mc *MainController) SelectNote(id string) {
	ctx, cancel := mc.operationContext()
	defer cancel()

	note, err := mc.notes.Get(ctx, id)
	if err != nil {
		mc.handleError("Opening note failed", err)
		return
	}

	mc.mu.Lock()
	mc.selected = note
	mc.mu.Unlock()

	mc.mainView.ShowNote(note)
	mc.mainView.UpdateStatus("Editing " + shortID(note.ID))
}

// SaveNote creates or updates the selected note from the editor state.
func (mc *MainController) SaveNote(state EditorState) {
	ctx, cancel := mc.operationContext()
	defer cancel()

	mc.mu.RLock()
	selected := mc.selected
	mc.mu.RUnlock()

	var (
		saved *models.Note
		err   error
	)
	if selected == nil {
		saved, err = mc.notes.Create(ctx, services.NoteInput{
			Content: state.Content,
			Type:    state.Type,
			Tags:    services.ParseTags(state.Tags),
		})
	} else {
		update := *selected
		update.Content = state.Content
		update.Type = state.Type
		update.Tags = services.ParseTags(state.Tags)
		saved, err = mc.notes.Save(ctx, &update)
	}
	if err != nil {
		mc.handleError("Saving note failed", err)
		return
	}

	mc.mu.Lock()
	mc.selected = saved
	mc.mu.Unlock()

	mc.Refresh()
	mc.mainView.ShowNote(saved)
	mc.mainView.UpdateStatus("Saved " + shortID(saved.ID))
}

// DeleteNote asks for confirmation, then removes the selected note.
func (mc *MainController) DeleteNote() {
	mc.mu.RLock()
	selected := mc.selected
	mc.mu.RUnlock()

	if selected == nil {
		mc.mainView.UpdateStatus("No note selected")
		return
	}

	mc.mainView.ShowConfirm("Delete note", "Delete this note permanently?", func(confirmed bool) {
		if !confirmed {
			return
		}
		mc.deleteNote(selected.ID)
	})
}

func (mc *MainController) deleteNote(id string) {
	ctx, cancel := mc.operationContext()
	defer cancel()

	if err := mc.notes.Delete(ctx, id); err != nil {
		mc.handleError("Deleting note failed", err)
		return
	}

	mc.mu.Lock()
	mc.selected = nil
	mc.mu.Unlock()

	mc.mainView.ShowNote(nil)
	mc.Refresh()
}

// OpenLink hands a URL to the desktop environment.
func (mc *MainController) OpenLink(raw string) {
	ctx, cancel := mc.operationContext()
	defer cancel()

	if err := mc.opener.OpenURL(ctx, raw); err != nil {
		mc.handleError("Opening link failed", err)
		return
	}
	mc.mainView.UpdateStatus("Opened " + raw)
}

// OpenDataDir reveals the directory holding the database file.
func (mc *MainController) OpenDataDir() {
	mc.mu.RLock()
	dir := mc.dataDir
	mc.mu.RUnlock()

	ctx, cancel := mc.operationContext()
	defer cancel()

	if err := mc.opener.OpenPath(ctx, dir); err != nil {
		mc.handleError("Opening data folder failed", err)
	}
}

// Selected returns the note currently in the editor, if any.
func (mc *MainController) Selected() *models.Note {
	mc.mu.RLock()
	defer mc.mu.RUnlock()
	return mc.selected
}

// setupViewEventHandlers connects view events to controller methods
func (mc *MainController) setupViewEventHandlers() {
	if mc.mainView == nil {
		return
	}

	mc.mainView.SetNewNoteHandler(mc.NewNote)
	mc.mainView.SetSelectNoteHandler(mc.SelectNote)
	mc.mainView.SetSaveNoteHandler(mc.SaveNote)
	mc.mainView.SetDeleteNoteHandler(mc.DeleteNote)
	mc.mainView.SetOpenLinkHandler(mc.OpenLink)
}

func (mc *MainController) operationContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), operationTimeout)
}

// handleError logs err and reports it in the view.
func (mc *MainController) handleError(title string, err error) {
	mc.log.Error("MainController", err, map[string]interface{}{"action": title})

	if errors.Is(err, models.ErrNoteNotFound) {
		mc.mainView.UpdateStatus("Note no longer exists")
		return
	}
	mc.mainView.ShowError(title, err)
}

// Shutdown stops the controller from acting on further view events.
func (mc *MainController) Shutdown() {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	if mc.closed {
		return
	}
	mc.closed = true
	mc.selected = nil
	mc.log.Debug("MainController", "controller shut down", nil)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
