package pdfium

import (
	"log/slog"
	"path/filepath"
	"runtime"
	"sync"
	"weak"

	"github.com/oklog/ulid/v2"
)

// Logger is the package logger, used when Config.Logger is nil.
var Logger = slog.Default()

// Config configures a Workspace.
type Config struct {
	// BaseDir is the directory the library path is derived from when Load
	// is given no path. Defaults to the executable's directory.
	BaseDir string
	Logger  *slog.Logger
}

type workspaceState int

const (
	stateUnloaded workspaceState = iota
	stateLoaded
	stateFreed
)

func (s workspaceState) String() string {
	switch s {
	case stateUnloaded:
		return "unloaded"
	case stateLoaded:
		return "loaded"
	case stateFreed:
		return "freed"
	}
	return "unknown"
}

// Workspace is a session on the PDFium library. It is loaded at most once
// and must be freed by the caller, after closing its documents:
//
//	ws, err := pdfium.Open(pdfium.Config{}, "")
//	if err != nil {
//		return err
//	}
//	defer ws.Free()
//
// PDFium state is process-global. Workspaces loading the same library
// share it, and loading a different library while one is in use fails.
// A Workspace is safe for concurrent use; native calls are serialized.
type Workspace struct {
	cfg    Config
	rt     *libraryRuntime
	logger *slog.Logger

	mu      sync.Mutex
	state   workspaceState
	path    string
	session ulid.ULID
	docs    map[uintptr]struct{} // open native document handles
	cleanup runtime.Cleanup
}

// abandonedSession is what a loaded Workspace's cleanup needs after the
// Workspace itself has become unreachable. It must not point back at the
// Workspace.
type abandonedSession struct {
	rt     *libraryRuntime
	logger *slog.Logger
	docs   map[uintptr]struct{}
}

// releaseAbandoned closes the documents left open by a Workspace that was
// collected without Free and drops its hold on the runtime.
func releaseAbandoned(s abandonedSession) {
	s.logger.Warn("Workspace collected without Free", "openDocuments", len(s.docs))
	if len(s.docs) > 0 {
		_ = s.rt.call(func(lib binding) {
			for handle := range s.docs {
				lib.CloseDocument(handle)
			}
		})
		clear(s.docs)
	}
	if err := s.rt.release(s.logger); err != nil {
		s.logger.Error("Unable to free pdfium", "error", err)
	}
}

// NewWorkspace returns an unloaded Workspace.
func NewWorkspace(cfg Config) *Workspace {
	return newWorkspace(cfg, process)
}

func newWorkspace(cfg Config, rt *libraryRuntime) *Workspace {
	logger := cfg.Logger
	if logger == nil {
		logger = Logger
	}
	return &Workspace{cfg: cfg, rt: rt, logger: logger, docs: map[uintptr]struct{}{}}
}

// Open creates a Workspace and loads libraryPath into it.
func Open(cfg Config, libraryPath string) (*Workspace, error) {
	w := NewWorkspace(cfg)
	if err := w.Load(libraryPath); err != nil {
		return nil, err
	}
	return w, nil
}

// Load loads and initializes the PDFium shared library. An empty
// libPath derives the path from Config.BaseDir and the running
// platform; a bare file name is left to the dynamic loader's search path.
// Load succeeds at most once per Workspace; a failed Load may be retried.
func (w *Workspace) Load(libPath string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.state != stateUnloaded {
		w.logger.Warn("Load called more than once", "state", w.state.String())
		return ErrAlreadyLoaded
	}

	path := libPath
	if path == "" {
		derived, err := libraryPath(w.cfg.BaseDir, w.logger)
		if err != nil {
			return err
		}
		path = derived
	} else if filepath.Base(path) != path {
		if err := checkLibraryFile(path); err != nil {
			return err
		}
	}

	if err := w.rt.acquire(path, w.logger); err != nil {
		w.logger.Error("Unable to load pdfium", "path", path, "error", err)
		return err
	}

	w.state = stateLoaded
	w.path = path
	w.session = ulid.Make()
	w.logger = w.logger.With("workspace", w.session.String())
	w.cleanup = runtime.AddCleanup(w, releaseAbandoned, abandonedSession{rt: w.rt, logger: w.logger, docs: w.docs})
	w.logger.Info("pdfium library loaded", "path", path)
	return nil
}

// LoadDocument opens the PDF at path. An empty password is passed to
// PDFium as NULL. Both strings must be representable in Latin-1.
func (w *Workspace) LoadDocument(path, password string) (*Document, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.state != stateLoaded {
		return nil, ErrNotLoaded
	}

	cpath, err := narrowString(path)
	if err != nil {
		return nil, err
	}
	cpassword, err := optionalNarrowString(password)
	if err != nil {
		return nil, err
	}

	var handle uintptr
	var code ErrorCode
	err = w.rt.call(func(lib binding) {
		handle = lib.LoadDocument(cpath, cpassword)
		if handle == 0 {
			code = lib.GetLastError()
		}
	})
	if err != nil {
		return nil, err
	}
	if handle == 0 {
		w.logger.Warn("Unable to load document", "path", path, "code", uint32(code), "reason", code.String())
		return nil, &DocumentLoadError{Path: path, Code: code}
	}

	w.docs[handle] = struct{}{}
	w.logger.Debug("document loaded", "path", path, "openDocuments", len(w.docs))
	return &Document{ws: weak.Make(w), handle: handle, path: path}, nil
}

// Free releases this Workspace's hold on the library; the last Workspace
// to free it destroys the PDFium state. Free is idempotent. Documents
// still open become unusable, and their native handles are not released:
// close them first.
func (w *Workspace) Free() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.state != stateLoaded {
		return nil
	}
	if len(w.docs) > 0 {
		w.logger.Warn("Freeing workspace with open documents", "openDocuments", len(w.docs))
	}

	w.state = stateFreed
	w.cleanup.Stop()
	if err := w.rt.release(w.logger); err != nil {
		w.logger.Error("Unable to free pdfium", "error", err)
		return err
	}
	w.logger.Info("pdfium library freed", "path", w.path)
	return nil
}

// Loaded reports whether the Workspace is loaded and not yet freed.
func (w *Workspace) Loaded() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state == stateLoaded
}

// LibraryPath is the path the Workspace loaded, or "" before Load.
func (w *Workspace) LibraryPath() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.path
}

// Session identifies this Workspace in log output. Zero before Load.
func (w *Workspace) Session() ulid.ULID {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.session
}

func (w *Workspace) pageCount(handle uintptr) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.state != stateLoaded {
		return 0, ErrInvalidHandle
	}
	var n int
	if err := w.rt.call(func(lib binding) {
		n = lib.GetPageCount(handle)
	}); err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, ErrInvalidHandle
	}
	return n, nil
}

func (w *Workspace) closeDocument(handle uintptr) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.state != stateLoaded {
		return ErrInvalidHandle
	}
	if err := w.rt.call(func(lib binding) {
		lib.CloseDocument(handle)
	}); err != nil {
		return err
	}
	delete(w.docs, handle)
	w.logger.Debug("document closed", "openDocuments", len(w.docs))
	return nil
}
