package pdfium

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
)

// libraryRuntime is the process-wide PDFium state. PDFium keeps global
// state of its own, so every Workspace in the process shares one loaded
// library: the first acquire opens and initializes it, the last release
// destroys and unloads it. mu also serializes every native call.
type libraryRuntime struct {
	open opener

	mu   sync.Mutex
	lib  binding
	path string
	refs int
}

var process = &libraryRuntime{open: openNativeLibrary}

func (r *libraryRuntime) acquire(path string, logger *slog.Logger) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.refs > 0 {
		if !samePath(r.path, path) {
			return newConfigurationError(path, fmt.Errorf("%w: %s", ErrLibraryConflict, r.path))
		}
		r.refs++
		logger.Debug("pdfium runtime shared", "path", r.path, "refs", r.refs)
		return nil
	}

	lib, err := r.open(path)
	if err != nil {
		return err
	}

	cfg := defaultLibraryConfig()
	lib.InitLibraryWithConfig(&cfg)
	if code := lib.GetLastError(); code != CodeSuccess {
		lib.DestroyLibrary()
		if err := lib.Close(); err != nil {
			logger.Warn("Failed to unload pdfium after init error", "path", path, "error", err)
		}
		return &LibraryInitError{Path: path, Code: code}
	}
	logger.Debug("pdfium initialized", "path", path, "configVersion", cfg.Version)

	r.lib = lib
	r.path = path
	r.refs = 1
	return nil
}

func (r *libraryRuntime) release(logger *slog.Logger) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.refs == 0 {
		return nil
	}
	r.refs--
	if r.refs > 0 {
		logger.Debug("pdfium runtime still shared", "path", r.path, "refs", r.refs)
		return nil
	}

	lib, path := r.lib, r.path
	r.lib = nil
	r.path = ""
	lib.DestroyLibrary()
	if err := lib.Close(); err != nil {
		return fmt.Errorf("unable to unload pdfium library %s: %w", path, err)
	}
	logger.Debug("pdfium destroyed", "path", path)
	return nil
}

// call runs fn against the loaded library while holding the runtime lock.
func (r *libraryRuntime) call(fn func(lib binding)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.lib == nil {
		return ErrNotLoaded
	}
	fn(r.lib)
	return nil
}

func (r *libraryRuntime) refCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.refs
}

func samePath(a, b string) bool {
	if a == b {
		return true
	}
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	return errA == nil && errB == nil && absA == absB
}
