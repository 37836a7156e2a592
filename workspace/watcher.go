package workspace

import (
	"context"
	"os"
	"time"

	"github.com/dhamidi/jackal/project"
)

// Watcher polls the .jack files of one directory and reports changed,
// added and removed files.
type Watcher struct {
	dir          string
	pollInterval time.Duration
	modTimes     map[string]time.Time
	onChange     func(path string)
	onRemove     func(path string)
}

func NewWatcher(dir string, interval time.Duration) *Watcher {
	if interval <= 0 {
		interval = time.Second
	}
	return &Watcher{
		dir:          dir,
		pollInterval: interval,
		modTimes:     make(map[string]time.Time),
		onChange:     func(string) {},
		onRemove:     func(string) {},
	}
}

// OnChange registers fn for files that are new or have a newer mtime.
func (w *Watcher) OnChange(fn func(path string)) {
	w.onChange = fn
}

func (w *Watcher) OnRemove(fn func(path string)) {
	w.onRemove = fn
}

// Run scans once immediately and then on every tick until ctx is done.
func (w *Watcher) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	if err := w.Scan(); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := w.Scan(); err != nil {
				log.Warningf("scan %s: %s", w.dir, err)
			}
		}
	}
}

// Scan performs one polling pass.
func (w *Watcher) Scan() error {
	files, err := project.JackFiles(w.dir)
	if err != nil {
		return err
	}

	current := make(map[string]bool, len(files))
	for _, path := range files {
		info, err := os.Stat(path)
		if err != nil {
			continue
		}
		current[path] = true

		lastMod, known := w.modTimes[path]
		if !known || info.ModTime().After(lastMod) {
			w.modTimes[path] = info.ModTime()
			w.onChange(path)
		}
	}

	for path := range w.modTimes {
		if !current[path] {
			delete(w.modTimes, path)
			w.onRemove(path)
		}
	}
	return nil
}
