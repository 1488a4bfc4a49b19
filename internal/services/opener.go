package services

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"kronosphere/internal/logger"

	"fyne.io/fyne/v2/storage"
)

var ErrDisallowedURL = errors.New("url not allowed")

// ExternalLinkOpener hands links and files to the desktop environment.
type ExternalLinkOpener interface {
	OpenURL(ctx context.Context, raw string) error
	OpenPath(ctx context.Context, path string) error
}

// URLLauncher is satisfied by fyne.App.
type URLLauncher interface {
	OpenURL(u *url.URL) error
}

var defaultSchemes = []string{"http", "https", "mailto", "tel"}

type Opener struct {
	launcher URLLauncher
	schemes  map[string]bool
	log      logger.Logger
}

func NewOpener(launcher URLLauncher, log logger.Logger) *Opener {
	if log == nil {
		log = logger.NoOpLogger{}
	}
	schemes := make(map[string]bool, len(defaultSchemes))
	for _, s := range defaultSchemes {
		schemes[s] = true
	}
	return &Opener{launcher: launcher, schemes: schemes, log: log}
}

// OpenURL opens raw in the default handler for its scheme.
func (o *Opener) OpenURL(ctx context.Context, raw string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDisallowedURL, err)
	}
	scheme := strings.ToLower(u.Scheme)
	if !o.schemes[scheme] {
		return fmt.Errorf("%w: scheme %q", ErrDisallowedURL, u.Scheme)
	}
	if (scheme == "http" || scheme == "https") && u.Host == "" {
		return fmt.Errorf("%w: missing host", ErrDisallowedURL)
	}

	o.log.Info("Opener", "opening url", map[string]interface{}{"scheme": scheme, "host": u.Host})
	return o.launcher.OpenURL(u)
}

// OpenPath opens a local file or directory with the default application.
func (o *Opener) OpenPath(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if _, err := os.Stat(abs); err != nil {
		return fmt.Errorf("open path: %w", err)
	}

	u, err := url.Parse(storage.NewFileURI(abs).String())
	if err != nil {
		return err
	}

	o.log.Info("Opener", "opening path", map[string]interface{}{"path": abs})
	return o.launcher.OpenURL(u)
}
