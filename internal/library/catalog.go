// Package library keeps the reusable element libraries stored as files in a
// directory, reloading them when the files change on disk.
package library

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/bep/debounce"
	"github.com/fsnotify/fsnotify"

	"github.com/inamate/drawboard/internal/document"
	"github.com/inamate/drawboard/internal/fileio"
)

// Ext is the file extension of library files.
const Ext = ".drawboardlib"

var ErrInvalidName = fmt.Errorf("%w: invalid library name", document.ErrUserInput)

// Catalog is the set of libraries found in one directory, keyed by file
// name without extension. It is safe for concurrent use.
type Catalog struct {
	mu     sync.RWMutex
	dir    string
	libs   map[string]*fileio.Library
	logger *slog.Logger

	// OnChange is called after a reload triggered by Watch.
	OnChange func()
}

// Open loads every library file in dir, creating dir when missing.
func Open(dir string, logger *slog.Logger) (*Catalog, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create library dir: %w", err)
	}
	c := &Catalog{dir: dir, libs: map[string]*fileio.Library{}, logger: logger}
	if err := c.Reload(); err != nil {
		return nil, err
	}
	return c, nil
}

// Reload rereads the directory. Files that fail to parse are skipped.
func (c *Catalog) Reload() error {
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		return fmt.Errorf("read library dir: %w: %w", document.ErrTransientIO, err)
	}
	libs := map[string]*fileio.Library{}
	for _, e := range entries {
		name, ok := libraryName(e.Name())
		if !ok || e.IsDir() {
			continue
		}
		lib, err := c.load(name)
		if err != nil {
			c.logger.Warn("skip library", "file", e.Name(), "error", err)
			continue
		}
		libs[name] = lib
	}

	c.mu.Lock()
	c.libs = libs
	c.mu.Unlock()
	c.logger.Info("libraries loaded", "dir", c.dir, "count", len(libs))
	return nil
}

func (c *Catalog) load(name string) (*fileio.Library, error) {
	f, err := os.Open(c.path(name))
	if err != nil {
		return nil, fmt.Errorf("open library: %w: %w", document.ErrTransientIO, err)
	}
	defer f.Close()
	return fileio.LoadLibrary(f)
}

// Names returns the library names in sorted order.
func (c *Catalog) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.namesLocked()
}

func (c *Catalog) Library(name string) (*fileio.Library, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	lib, ok := c.libs[name]
	return lib, ok
}

// Item finds an item by id across all libraries.
func (c *Catalog) Item(id string) (*fileio.LibraryItem, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, name := range c.namesLocked() {
		if it := c.libs[name].Item(id); it != nil {
			return it, true
		}
	}
	return nil, false
}

func (c *Catalog) namesLocked() []string {
	names := make([]string, 0, len(c.libs))
	for name := range c.libs {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Save writes lib to its file and replaces the loaded copy.
func (c *Catalog) Save(name string, lib *fileio.Library) error {
	if !validName(name) {
		return ErrInvalidName
	}
	data, err := fileio.MarshalLibrary(lib)
	if err != nil {
		return err
	}
	tmp := c.path(name) + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("write library: %w: %w", document.ErrTransientIO, err)
	}
	if err := os.Rename(tmp, c.path(name)); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("write library: %w: %w", document.ErrTransientIO, err)
	}

	c.mu.Lock()
	c.libs[name] = lib
	c.mu.Unlock()
	return nil
}

// Watch reloads the catalog when library files change, until ctx is done.
// Bursts of events are coalesced into one reload.
func (c *Catalog) Watch(ctx context.Context) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer w.Close()
	if err := w.Add(c.dir); err != nil {
		return fmt.Errorf("watch %s: %w", c.dir, err)
	}

	debounced := debounce.New(100 * time.Millisecond)
	reload := func() {
		if err := c.Reload(); err != nil {
			c.logger.Error("reload libraries", "error", err)
			return
		}
		if c.OnChange != nil {
			c.OnChange()
		}
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if _, ok := libraryName(filepath.Base(ev.Name)); !ok {
				continue
			}
			if ev.Has(fsnotify.Create) || ev.Has(fsnotify.Write) || ev.Has(fsnotify.Remove) || ev.Has(fsnotify.Rename) {
				debounced(reload)
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			if errors.Is(err, fsnotify.ErrEventOverflow) {
				debounced(reload)
				continue
			}
			c.logger.Warn("library watcher", "error", err)
		}
	}
}

func (c *Catalog) path(name string) string {
	return filepath.Join(c.dir, name+Ext)
}

func libraryName(file string) (string, bool) {
	name, ok := strings.CutSuffix(file, Ext)
	return name, ok && validName(name)
}

func validName(name string) bool {
	if name == "" || strings.HasPrefix(name, ".") {
		return false
	}
	return !strings.ContainsAny(name, `/\`)
}
