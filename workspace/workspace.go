// Package workspace keeps parsed Jack documents in memory and reports
// their syntax errors to editors and watchers.
package workspace

import (
	"bytes"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/tliron/commonlog"

	"github.com/dhamidi/jackal/jack/parser"
	"github.com/dhamidi/jackal/project"
)

var log = commonlog.GetLogger("jackal.workspace")

type Workspace struct {
	mu      sync.RWMutex
	rootDir string
	docs    map[string]*Document
}

// Document is the latest parse of one file. Tree is nil when Err is set.
type Document struct {
	Path    string
	Content []byte
	Tree    *parser.Node
	Err     error
}

func New(rootDir string) *Workspace {
	return &Workspace{
		rootDir: rootDir,
		docs:    make(map[string]*Document),
	}
}

func (w *Workspace) RootDir() string {
	return w.rootDir
}

// ScanAll parses every .jack file below the root, skipping hidden
// directories. Unreadable files are logged and skipped; their errors are
// joined into the result.
func (w *Workspace) ScanAll() error {
	var errs []error
	walkErr := filepath.WalkDir(w.rootDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			log.Warningf("walk %s: %s", path, err)
			return nil
		}
		if d.IsDir() {
			if path != w.rootDir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) != project.SourceExt {
			return nil
		}
		if _, err := w.ScanFile(path); err != nil {
			log.Warningf("scan %s: %s", path, err)
			errs = append(errs, err)
		}
		return nil
	})
	if walkErr != nil {
		errs = append(errs, walkErr)
	}
	return errors.Join(errs...)
}

func (w *Workspace) ScanFile(path string) (*Document, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return w.UpdateFile(path, content), nil
}

// UpdateFile reparses path from content and replaces its document.
func (w *Workspace) UpdateFile(path string, content []byte) *Document {
	tree, err := parser.Parse(bytes.NewReader(content), parser.WithFile(path))
	doc := &Document{
		Path:    path,
		Content: content,
		Tree:    tree,
		Err:     err,
	}
	if err != nil {
		log.Debugf("%s", err)
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	w.docs[path] = doc
	return doc
}

func (w *Workspace) RemoveFile(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.docs, path)
}

func (w *Workspace) GetFile(path string) *Document {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.docs[path]
}

// Paths returns the paths of all documents in sorted order.
func (w *Workspace) Paths() []string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	paths := make([]string, 0, len(w.docs))
	for path := range w.docs {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}

// Failed returns the documents that did not parse, sorted by path.
func (w *Workspace) Failed() []*Document {
	var out []*Document
	for _, path := range w.Paths() {
		if doc := w.GetFile(path); doc != nil && doc.Err != nil {
			out = append(out, doc)
		}
	}
	return out
}
