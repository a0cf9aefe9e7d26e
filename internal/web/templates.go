package web

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/starford/hnquery/internal/models"
)

// Placeholder is shown in a history list that has no entries yet.
const Placeholder = "Searches will appear here"

const pageFile = "index.html"

//go:embed templates/index.html
var embedded embed.FS

// PageData is the view model of the search page.
type PageData struct {
	Title         string
	Version       uint64
	Query         string
	Error         string
	Results       []models.Hit
	Searches      []string
	StoreSearches []string
}

// Templates holds the parsed page template. When dir is set, index.html is
// read from there instead of the embedded copy and can be reloaded.
type Templates struct {
	dir    string
	logger *slog.Logger

	mu   sync.RWMutex
	page *template.Template
}

// NewTemplates parses the page template.
func NewTemplates(dir string, logger *slog.Logger) (*Templates, error) {
	if logger == nil {
		logger = slog.Default()
	}
	t := &Templates{dir: dir, logger: logger}
	if err := t.Reload(); err != nil {
		return nil, err
	}
	return t, nil
}

// Reload parses the template again. On failure the previous template stays active.
func (t *Templates) Reload() error {
	var (
		src []byte
		err error
	)
	if t.dir != "" {
		src, err = os.ReadFile(filepath.Join(t.dir, pageFile))
	} else {
		src, err = embedded.ReadFile("templates/" + pageFile)
	}
	if err != nil {
		return fmt.Errorf("read template: %w", err)
	}

	page, err := template.New(pageFile).
		Funcs(template.FuncMap{"placeholder": func() string { return Placeholder }}).
		Parse(string(src))
	if err != nil {
		return fmt.Errorf("parse template: %w", err)
	}

	t.mu.Lock()
	t.page = page
	t.mu.Unlock()
	return nil
}

// Render executes the page into w. Output is buffered so a template error
// never produces a half-written page.
func (t *Templates) Render(w io.Writer, data PageData) error {
	t.mu.RLock()
	page := t.page
	t.mu.RUnlock()

	var buf bytes.Buffer
	if err := page.Execute(&buf, data); err != nil {
		return err
	}
	_, err := buf.WriteTo(w)
	return err
}

// Watch reloads the template when files in the override directory change,
// until ctx is cancelled. Without an override directory it returns at once.
func (t *Templates) Watch(ctx context.Context) error {
	if t.dir == "" {
		return nil
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.Add(t.dir); err != nil {
		return err
	}
	t.logger.Info("templates: watching", slog.String("dir", t.dir))

	// Editors emit bursts of events; reload once they settle.
	var timer *time.Timer
	var fire <-chan time.Time
	schedule := func() {
		if timer == nil {
			timer = time.NewTimer(100 * time.Millisecond)
			fire = timer.C
		} else {
			timer.Reset(100 * time.Millisecond)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			t.logger.Info("templates: watcher stopped")
			return nil

		case <-fire:
			if err := t.Reload(); err != nil {
				t.logger.Warn("templates: reload failed", slog.String("error", err.Error()))
				continue
			}
			t.logger.Info("templates: reloaded", slog.String("dir", t.dir))

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Base(ev.Name) != pageFile {
				continue
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) != 0 {
				schedule()
			}

		case werr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			t.logger.Error("templates: watcher error", slog.String("error", werr.Error()))
		}
	}
}
