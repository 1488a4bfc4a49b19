package app

import (
	"fyne.io/fyne/v2"
)

func (a *Application) setupMenus() {
	quit := fyne.NewMenuItem("Quit", func() {
		a.fyneApp.Quit()
	})
	quit.IsQuit = true

	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("New Note", func() {
			a.controller.NewNote()
		}),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Open Data Folder", func() {
			a.controller.OpenDataDir()
		}),
		fyne.NewMenuItemSeparator(),
		quit,
	)

	helpMenu := fyne.NewMenu("Help",
		fyne.NewMenuItem("About", func() {
			a.view.ShowAboutDialog(a.config.AppName, AppVersion,
				"A desktop journal. Notes are stored in a local SQLite database.")
		}),
	)

	a.window.SetMainMenu(fyne.NewMainMenu(fileMenu, helpMenu))
}
