package pdfium

import (
	"bytes"
	"errors"
	"log/slog"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func TestLoad_SecondCallFailsWithAlreadyLoaded(t *testing.T) {
	ws, _ := loadedWorkspace(t, newFakeLibrary())
	defer ws.Free()

	err := ws.Load(fakeLibraryFile(t))
	if !errors.Is(err, ErrAlreadyLoaded) {
		t.Fatalf("Expected ErrAlreadyLoaded, got: %v", err)
	}
	if !ws.Loaded() {
		t.Error("Workspace should still be loaded after a rejected second Load")
	}
}

func TestLoad_AfterFreeFailsWithAlreadyLoaded(t *testing.T) {
	ws, _ := loadedWorkspace(t, newFakeLibrary())
	if err := ws.Free(); err != nil {
		t.Fatalf("Free failed: %v", err)
	}

	if err := ws.Load(fakeLibraryFile(t)); !errors.Is(err, ErrAlreadyLoaded) {
		t.Fatalf("Expected ErrAlreadyLoaded after Free, got: %v", err)
	}
}

func TestLoad_InitializesWithVersion2Config(t *testing.T) {
	lib := newFakeLibrary()
	ws, _ := loadedWorkspace(t, lib)
	defer ws.Free()

	if lib.initCalls != 1 {
		t.Fatalf("Expected 1 init call, got %d", lib.initCalls)
	}
	want := LibraryConfig{Version: 2}
	if lib.config != want {
		t.Errorf("Expected config %+v, got %+v", want, lib.config)
	}
	if ws.Session().IsZero() {
		t.Error("Expected a session id after Load")
	}
	if ws.LibraryPath() == "" {
		t.Error("Expected LibraryPath to be set after Load")
	}
}

func TestLoad_MissingLibraryFile(t *testing.T) {
	opens := 0
	ws := newWorkspace(Config{Logger: testLogger()}, testRuntime(newFakeLibrary(), &opens))

	err := ws.Load(filepath.Join(t.TempDir(), "missing", "pdfium.dll"))
	if !errors.Is(err, ErrConfiguration) {
		t.Fatalf("Expected configuration error, got: %v", err)
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("Expected error to wrap fs.ErrNotExist, got: %v", err)
	}
	var cfgErr *ConfigurationError
	if !errors.As(err, &cfgErr) || cfgErr.Path == "" {
		t.Errorf("Expected *ConfigurationError carrying the path, got: %#v", err)
	}
	if opens != 0 {
		t.Errorf("Library should not be opened when the file is missing, opened %d times", opens)
	}
	if ws.Loaded() {
		t.Error("Workspace should not be loaded")
	}
}

func TestLoad_DerivedPathMissing(t *testing.T) {
	opens := 0
	ws := newWorkspace(Config{BaseDir: t.TempDir(), Logger: testLogger()}, testRuntime(newFakeLibrary(), &opens))

	err := ws.Load("")
	if !errors.Is(err, ErrConfiguration) {
		t.Fatalf("Expected configuration error, got: %v", err)
	}
	if opens != 0 {
		t.Errorf("Library should not be opened, opened %d times", opens)
	}
}

func TestLoad_DerivedPathFound(t *testing.T) {
	base := t.TempDir()
	path, err := libraryPathFor(runtime.GOOS, runtime.GOARCH, base)
	if err != nil {
		t.Skipf("No bundle layout for %s/%s: %v", runtime.GOOS, runtime.GOARCH, err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("Failed to create bundle directory: %v", err)
	}
	if err := os.WriteFile(path, nil, 0644); err != nil {
		t.Fatalf("Failed to create library file: %v", err)
	}

	opens := 0
	ws := newWorkspace(Config{BaseDir: base, Logger: testLogger()}, testRuntime(newFakeLibrary(), &opens))
	if err := ws.Load(""); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	defer ws.Free()

	if ws.LibraryPath() != path {
		t.Errorf("Expected library path %s, got %s", path, ws.LibraryPath())
	}
}

func TestLoad_DerivedPathLogsToWorkspaceLogger(t *testing.T) {
	base := t.TempDir()
	path, err := libraryPathFor(runtime.GOOS, runtime.GOARCH, base)
	if err != nil {
		t.Skipf("No bundle layout for %s/%s: %v", runtime.GOOS, runtime.GOARCH, err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("Failed to create bundle directory: %v", err)
	}
	if err := os.WriteFile(path, nil, 0644); err != nil {
		t.Fatalf("Failed to create library file: %v", err)
	}

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	opens := 0
	ws := newWorkspace(Config{BaseDir: base, Logger: logger}, testRuntime(newFakeLibrary(), &opens))
	if err := ws.Load(""); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	defer ws.Free()

	if !bytes.Contains(buf.Bytes(), []byte("derived pdfium library path")) {
		t.Errorf("Expected the derived path in the workspace log, got:\n%s", buf.String())
	}
}

func TestLoad_InitErrorIsReportedAndTornDown(t *testing.T) {
	lib := newFakeLibrary()
	lib.initCode = CodeUnknown
	opens := 0
	rt := testRuntime(lib, &opens)
	ws := newWorkspace(Config{Logger: testLogger()}, rt)

	err := ws.Load(fakeLibraryFile(t))
	var initErr *LibraryInitError
	if !errors.As(err, &initErr) {
		t.Fatalf("Expected *LibraryInitError, got: %v", err)
	}
	if initErr.Code != CodeUnknown {
		t.Errorf("Expected code %d, got %d", CodeUnknown, initErr.Code)
	}
	if !errors.Is(err, ErrLibraryInit) {
		t.Error("Expected error to match ErrLibraryInit")
	}
	if lib.destroyCalls != 1 || lib.unloadCalls != 1 {
		t.Errorf("Expected library destroyed and unloaded once, got destroy=%d unload=%d", lib.destroyCalls, lib.unloadCalls)
	}
	if rt.refCount() != 0 {
		t.Errorf("Expected no runtime references, got %d", rt.refCount())
	}
	if ws.Loaded() {
		t.Error("Workspace should not be loaded after init failure")
	}
}

func TestLoad_RetryAfterFailure(t *testing.T) {
	lib := newFakeLibrary()
	failures := 1
	rt := &libraryRuntime{open: func(path string) (binding, error) {
		if failures > 0 {
			failures--
			return nil, newConfigurationError(path, errors.New("not a shared library"))
		}
		return lib, nil
	}}
	ws := newWorkspace(Config{Logger: testLogger()}, rt)
	path := fakeLibraryFile(t)

	if err := ws.Load(path); !errors.Is(err, ErrConfiguration) {
		t.Fatalf("Expected configuration error, got: %v", err)
	}
	if err := ws.Load(path); err != nil {
		t.Fatalf("Expected retry to succeed, got: %v", err)
	}
	defer ws.Free()
}

func TestLoadDocument_NotLoaded(t *testing.T) {
	ws := NewWorkspace(Config{Logger: testLogger()})

	doc, err := ws.LoadDocument("any.pdf", "")
	if !errors.Is(err, ErrNotLoaded) {
		t.Fatalf("Expected ErrNotLoaded, got: %v", err)
	}
	if doc != nil {
		t.Error("Expected no document")
	}
}

func TestLoadDocument_MissingFile(t *testing.T) {
	ws, _ := loadedWorkspace(t, newFakeLibrary())
	defer ws.Free()

	doc, err := ws.LoadDocument("/nonexistent/file.pdf", "")
	if doc != nil {
		t.Fatal("Expected no document for a missing file")
	}
	var loadErr *DocumentLoadError
	if !errors.As(err, &loadErr) {
		t.Fatalf("Expected *DocumentLoadError, got: %v", err)
	}
	if loadErr.Code != CodeFile {
		t.Errorf("Expected code %s, got %s", CodeFile, loadErr.Code)
	}
	if loadErr.Path != "/nonexistent/file.pdf" {
		t.Errorf("Expected path in error, got %q", loadErr.Path)
	}
	if !errors.Is(err, ErrDocumentLoad) {
		t.Error("Expected error to match ErrDocumentLoad")
	}
}

func TestLoadDocument_Password(t *testing.T) {
	lib := newFakeLibrary()
	lib.files["secret.pdf"] = &fakeFile{pages: 2, password: "p\xe4ssw\xf6rd"}
	ws, _ := loadedWorkspace(t, lib)
	defer ws.Free()

	_, err := ws.LoadDocument("secret.pdf", "")
	if !errors.Is(err, ErrPasswordRequired) {
		t.Fatalf("Expected ErrPasswordRequired, got: %v", err)
	}
	if lib.passwordsIn[0] != nil {
		t.Errorf("Expected empty password to be passed as NULL, got %q", lib.passwordsIn[0])
	}

	doc, err := ws.LoadDocument("secret.pdf", "pässwörd")
	if err != nil {
		t.Fatalf("Expected Latin-1 password to open the document, got: %v", err)
	}
	defer doc.Close()

	pages, err := doc.PageCount()
	if err != nil || pages != 2 {
		t.Errorf("Expected 2 pages, got %d (%v)", pages, err)
	}
}

func TestLoadDocument_UnencodablePath(t *testing.T) {
	lib := newFakeLibrary()
	ws, _ := loadedWorkspace(t, lib)
	defer ws.Free()

	_, err := ws.LoadDocument("報告.pdf", "")
	if !errors.Is(err, ErrUnencodable) {
		t.Fatalf("Expected ErrUnencodable, got: %v", err)
	}
	if len(lib.passwordsIn) != 0 {
		t.Error("Native load should not be attempted for an unencodable path")
	}
}

func TestFree_Idempotent(t *testing.T) {
	lib := newFakeLibrary()
	ws, _ := loadedWorkspace(t, lib)

	if err := ws.Free(); err != nil {
		t.Fatalf("First Free failed: %v", err)
	}
	if err := ws.Free(); err != nil {
		t.Fatalf("Second Free failed: %v", err)
	}
	if lib.destroyCalls != 1 {
		t.Errorf("Expected 1 destroy call, got %d", lib.destroyCalls)
	}
	if lib.unloadCalls != 1 {
		t.Errorf("Expected 1 unload call, got %d", lib.unloadCalls)
	}
	if ws.Loaded() {
		t.Error("Workspace should not be loaded after Free")
	}
}

func TestFree_Unloaded(t *testing.T) {
	ws := NewWorkspace(Config{Logger: testLogger()})
	if err := ws.Free(); err != nil {
		t.Fatalf("Free on an unloaded workspace failed: %v", err)
	}
}

func TestRuntime_SharedAcrossWorkspaces(t *testing.T) {
	lib := newFakeLibrary()
	opens := 0
	rt := testRuntime(lib, &opens)
	path := fakeLibraryFile(t)

	first := newWorkspace(Config{Logger: testLogger()}, rt)
	second := newWorkspace(Config{Logger: testLogger()}, rt)
	if err := first.Load(path); err != nil {
		t.Fatalf("First Load failed: %v", err)
	}
	if err := second.Load(path); err != nil {
		t.Fatalf("Second Load failed: %v", err)
	}

	if opens != 1 || lib.initCalls != 1 {
		t.Fatalf("Expected the library opened and initialized once, got opens=%d inits=%d", opens, lib.initCalls)
	}
	if rt.refCount() != 2 {
		t.Errorf("Expected 2 runtime references, got %d", rt.refCount())
	}

	if err := first.Free(); err != nil {
		t.Fatalf("First Free failed: %v", err)
	}
	if lib.destroyCalls != 0 {
		t.Fatal("Library destroyed while another workspace still holds it")
	}
	if err := second.Free(); err != nil {
		t.Fatalf("Second Free failed: %v", err)
	}
	if lib.destroyCalls != 1 || lib.unloadCalls != 1 {
		t.Errorf("Expected one destroy and unload, got destroy=%d unload=%d", lib.destroyCalls, lib.unloadCalls)
	}
}

func TestRuntime_ConflictingLibrary(t *testing.T) {
	opens := 0
	rt := testRuntime(newFakeLibrary(), &opens)

	first := newWorkspace(Config{Logger: testLogger()}, rt)
	if err := first.Load(fakeLibraryFile(t)); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	defer first.Free()

	second := newWorkspace(Config{Logger: testLogger()}, rt)
	err := second.Load(fakeLibraryFile(t))
	if !errors.Is(err, ErrLibraryConflict) {
		t.Fatalf("Expected ErrLibraryConflict, got: %v", err)
	}
	if !errors.Is(err, ErrConfiguration) {
		t.Error("Expected conflict to be a configuration error")
	}
	if opens != 1 {
		t.Errorf("Expected the library opened once, got %d", opens)
	}
}

// TestWorkspace_EndToEnd walks the whole lifecycle: load, open a 3-page
// document, close it, free the workspace, and check it is unusable.
func TestWorkspace_EndToEnd(t *testing.T) {
	lib := newFakeLibrary()
	lib.files["three-pages.pdf"] = &fakeFile{pages: 3}
	ws, _ := loadedWorkspace(t, lib)

	doc, err := ws.LoadDocument("three-pages.pdf", "")
	if err != nil {
		t.Fatalf("LoadDocument failed: %v", err)
	}
	pages, err := doc.PageCount()
	if err != nil {
		t.Fatalf("PageCount failed: %v", err)
	}
	if pages != 3 {
		t.Errorf("Expected 3 pages, got %d", pages)
	}
	if err := doc.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if err := ws.Free(); err != nil {
		t.Fatalf("Free failed: %v", err)
	}

	if _, err := ws.LoadDocument("three-pages.pdf", ""); !errors.Is(err, ErrNotLoaded) {
		t.Errorf("Expected ErrNotLoaded after Free, got: %v", err)
	}
	if lib.closeCalls != 1 || lib.badCloses != 0 {
		t.Errorf("Expected one clean native close, got closes=%d bad=%d", lib.closeCalls, lib.badCloses)
	}
}
