package app

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"

	"kronosphere/internal/config"
	"kronosphere/internal/controllers"
	"kronosphere/internal/database"
	"kronosphere/internal/logger"
	"kronosphere/internal/models"
	"kronosphere/internal/services"
	"kronosphere/internal/shutdown"
	"kronosphere/internal/views"

	"fyne.io/fyne/v2"
	"gorm.io/gorm"
)

const AppVersion = "0.1.0"

// Application owns every long-lived component. It replaces a global plugin
// registry: capabilities are plain fields built once in NewApplication.
type Application struct {
	fyneApp fyne.App
	window  fyne.Window
	config  *config.Config
	logger  logger.Logger

	// Capabilities
	db     *gorm.DB
	notes  models.NotesRepository
	opener services.ExternalLinkOpener

	noteService *services.NoteService
	controller  *controllers.MainController
	view        *views.MainView
	shutdown    *shutdown.Manager

	ctx       context.Context
	cancel    context.CancelFunc
	closeOnce sync.Once
}

// NewApplication opens the database, applies the notes migrations, and
// builds the window around fyneApp. fyneApp is not started.
func NewApplication(ctx context.Context, fyneApp fyne.App, cfg *config.Config, log logger.Logger) (*Application, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if log == nil {
		log = logger.NoOpLogger{}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	log.Info("Application", "starting application", map[string]interface{}{
		"version":      AppVersion,
		"app_id":       cfg.AppID,
		"database_url": cfg.DatabaseURL,
		"data_dir":     cfg.DataDir,
	})

	db, err := database.Open(ctx, cfg.DatabaseURL, database.Options{
		DataDir:    cfg.DataDir,
		Logger:     log,
		Migrations: models.Migrations(),
	})
	if err != nil {
		return nil, fmt.Errorf("database: %w", err)
	}

	appCtx, appCancel := context.WithCancel(ctx)

	notes := models.NewNotesRepository(db)
	opener := services.NewOpener(fyneApp, log)
	noteService := services.NewNoteService(notes, nil, log)

	window := fyneApp.NewWindow(cfg.AppName)
	window.Resize(fyne.NewSize(float32(cfg.WindowWidth), float32(cfg.WindowHeight)))
	window.CenterOnScreen()
	window.SetMaster()

	view := views.NewMainView(window)
	controller := controllers.NewMainController(noteService, opener, log)
	controller.SetMainView(view)
	controller.SetDataDir(dataDirectory(cfg))

	manager := shutdown.NewManager(log)
	manager.Register("database", shutdown.Func(func() {
		if err := database.Close(db); err != nil {
			log.Error("Application", err, map[string]interface{}{"step": "close database"})
		}
	}))
	manager.Register("controller", controller)

	application := &Application{
		fyneApp:     fyneApp,
		window:      window,
		config:      cfg,
		logger:      log,
		db:          db,
		notes:       notes,
		opener:      opener,
		noteService: noteService,
		controller:  controller,
		view:        view,
		shutdown:    manager,
		ctx:         appCtx,
		cancel:      appCancel,
	}

	application.setupMenus()
	application.setupWindowEvents()

	log.Info("Application", "initialization complete", nil)
	return application, nil
}

// Run checks the database, shows the window and blocks in the event loop
// until the last window closes or the process is signalled.
func (a *Application) Run() error {
	defer a.Close()

	if err := database.Ping(a.ctx, a.db); err != nil {
		return fmt.Errorf("database unavailable: %w", err)
	}

	a.controller.Refresh()
	a.view.Show()

	a.shutdown.Listen(func() {
		fyne.Do(a.fyneApp.Quit)
	})

	a.logger.Info("Application", "GUI displayed", nil)
	a.fyneApp.Run()
	return nil
}

// Close releases the database and stops the controller. Safe to call more
// than once.
func (a *Application) Close() {
	a.closeOnce.Do(func() {
		a.logger.Info("Application", "shutdown requested", nil)
		a.cancel()
		a.shutdown.Shutdown()
	})
}

func (a *Application) setupWindowEvents() {
	a.window.SetCloseIntercept(func() {
		a.Close()
		a.window.Close()
	})
}

func (a *Application) Window() fyne.Window                 { return a.window }
func (a *Application) Config() *config.Config              { return a.config }
func (a *Application) DB() *gorm.DB                        { return a.db }
func (a *Application) Notes() models.NotesRepository       { return a.notes }
func (a *Application) Opener() services.ExternalLinkOpener { return a.opener }
func (a *Application) Controller() *controllers.MainController {
	return a.controller
}

// dataDirectory is the folder holding the database file.
func dataDirectory(cfg *config.Config) string {
	path, err := database.ResolvePath(cfg.DatabaseURL, cfg.DataDir)
	if err != nil || path == ":memory:" {
		return cfg.DataDir
	}
	return filepath.Dir(path)
}
