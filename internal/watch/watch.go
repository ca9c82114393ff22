// ============================================================================
// FDL - Forest Description Language
// ============================================================================
//
// Package:     watch
// Description: Re-parses FDL documents when they change on disk
// Author:      Mike Stoffels
// Created:     2026-10-19
// License:     MIT
// ============================================================================

package watch

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	fdlerr "github.com/msto63/fdl/pkg/core/error"
	"github.com/msto63/fdl/pkg/core/log"
	"github.com/msto63/fdl/pkg/fdl"
	"github.com/msto63/fdl/pkg/fdl/ast"
	"github.com/msto63/fdl/pkg/fdl/parser"
)

// DefaultDebounce is the quiet period after the last event for a file
// before it is parsed again
const DefaultDebounce = 300 * time.Millisecond

// Result is the outcome of parsing one file
type Result struct {
	Path   string
	Forest *ast.Forest
	Err    error
	At     time.Time
}

// Options configures a Watcher
type Options struct {
	Debounce time.Duration
	Logger   *log.Logger
	Parser   *parser.Parser
}

// Watcher parses a set of files once and again after every change
type Watcher struct {
	paths    map[string]bool
	dirs     []string
	debounce time.Duration
	logger   *log.Logger
	parser   *parser.Parser
	results  chan Result

	mu     sync.Mutex
	timers map[string]*time.Timer
}

// New creates a watcher for the given files
func New(paths []string, opts Options) (*Watcher, error) {
	if len(paths) == 0 {
		return nil, fdlerr.New("no files to watch").WithCode(fdlerr.CodeInvalidInput)
	}
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	if opts.Logger == nil {
		opts.Logger = log.Nop()
	}
	if opts.Parser == nil {
		opts.Parser = parser.New(parser.Options{Logger: opts.Logger})
	}

	w := &Watcher{
		paths:    make(map[string]bool, len(paths)),
		debounce: opts.Debounce,
		logger:   opts.Logger.WithField("component", "watch"),
		parser:   opts.Parser,
		results:  make(chan Result, len(paths)),
		timers:   make(map[string]*time.Timer),
	}

	seen := make(map[string]bool)
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, fdlerr.Wrap(err, "invalid path").
				WithCode(fdlerr.CodeInvalidInput).
				WithDetail("path", p)
		}
		w.paths[abs] = true
		// Editors replace files by rename, so the directory is watched.
		dir := filepath.Dir(abs)
		if !seen[dir] {
			seen[dir] = true
			w.dirs = append(w.dirs, dir)
		}
	}
	return w, nil
}

// Results delivers one Result per file at start and one per change. The
// channel is closed when Run returns.
func (w *Watcher) Results() <-chan Result {
	return w.results
}

// Run parses every file, then watches for changes until ctx is done
func (w *Watcher) Run(ctx context.Context) error {
	defer close(w.results)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fdlerr.Wrap(err, "failed to create watcher").WithCode(fdlerr.CodeIO)
	}
	defer watcher.Close()

	for _, dir := range w.dirs {
		if err := watcher.Add(dir); err != nil {
			return fdlerr.Wrap(err, "failed to watch directory").
				WithCode(fdlerr.CodeIO).
				WithDetail("dir", dir)
		}
	}

	for path := range w.paths {
		if !w.emit(ctx, w.load(path)) {
			return nil
		}
	}

	w.logger.Info("Started watching for document changes", log.Fields{"files": len(w.paths)})

	fire := make(chan string)
	done := make(chan struct{})
	defer close(done)
	defer w.stopTimers()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("Stopping file watcher (context cancelled)")
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			path := filepath.Clean(event.Name)
			if !w.paths[path] {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			w.logger.Debug("Document event", log.Fields{"file": path, "op": event.Op.String()})
			w.schedule(path, fire, done)

		case path := <-fire:
			if !w.emit(ctx, w.load(path)) {
				return nil
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.ErrorWithErr("Watcher error", err)
		}
	}
}

// schedule (re)starts the debounce timer of path
func (w *Watcher) schedule(path string, fire chan<- string, done <-chan struct{}) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if t, ok := w.timers[path]; ok {
		t.Stop()
	}
	w.timers[path] = time.AfterFunc(w.debounce, func() {
		select {
		case fire <- path:
		case <-done:
		}
	})
}

func (w *Watcher) stopTimers() {
	w.mu.Lock()
	defer w.mu.Unlock()
	for path, t := range w.timers {
		t.Stop()
		delete(w.timers, path)
	}
}

func (w *Watcher) load(path string) Result {
	forest, err := fdl.LoadWith(w.parser, path)
	if err != nil {
		w.logger.Debug("Document failed to parse", log.Fields{"file": path, "error": fdl.FormatError(err)})
	} else {
		w.logger.Debug("Document parsed", log.Fields{"file": path, "roots": forest.Len()})
	}
	return Result{Path: path, Forest: forest, Err: err, At: time.Now()}
}

func (w *Watcher) emit(ctx context.Context, r Result) bool {
	select {
	case w.results <- r:
		return true
	case <-ctx.Done():
		return false
	}
}
