package pdfium

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

type fakeFile struct {
	pages    int
	password string // Latin-1 bytes as a Go string
}

// fakeLibrary stands in for a loaded PDFium. Paths are the narrow strings
// the binding receives, minus the terminating NUL.
type fakeLibrary struct {
	files    map[string]*fakeFile
	initCode ErrorCode

	config       LibraryConfig
	initCalls    int
	destroyCalls int
	unloadCalls  int
	lastError    ErrorCode

	next        uintptr
	open        map[uintptr]*fakeFile
	closeCalls  int
	badCloses   int
	passwordsIn [][]byte
}

func newFakeLibrary() *fakeLibrary {
	return &fakeLibrary{
		files: map[string]*fakeFile{},
		open:  map[uintptr]*fakeFile{},
	}
}

func (f *fakeLibrary) InitLibraryWithConfig(cfg *LibraryConfig) {
	f.initCalls++
	f.config = *cfg
	f.lastError = f.initCode
}

func (f *fakeLibrary) DestroyLibrary() {
	f.destroyCalls++
}

func (f *fakeLibrary) GetLastError() ErrorCode {
	return f.lastError
}

func (f *fakeLibrary) LoadDocument(path, password []byte) uintptr {
	f.passwordsIn = append(f.passwordsIn, password)
	file, ok := f.files[cString(path)]
	if !ok {
		f.lastError = CodeFile
		return 0
	}
	if file.password != "" && cString(password) != file.password {
		f.lastError = CodePassword
		return 0
	}
	f.lastError = CodeSuccess
	f.next += 0x10
	f.open[f.next] = file
	return f.next
}

func (f *fakeLibrary) CloseDocument(doc uintptr) {
	f.closeCalls++
	if _, ok := f.open[doc]; !ok {
		f.badCloses++
	}
	delete(f.open, doc)
}

func (f *fakeLibrary) GetPageCount(doc uintptr) int {
	file, ok := f.open[doc]
	if !ok {
		return -1
	}
	return file.pages
}

func (f *fakeLibrary) Close() error {
	f.unloadCalls++
	return nil
}

func cString(b []byte) string {
	if len(b) == 0 {
		return ""
	}
	if b[len(b)-1] == 0 {
		b = b[:len(b)-1]
	}
	return string(b)
}

// testRuntime returns a private runtime whose opener hands out lib and
// counts how often the library was opened.
func testRuntime(lib *fakeLibrary, opens *int) *libraryRuntime {
	return &libraryRuntime{open: func(path string) (binding, error) {
		*opens++
		return lib, nil
	}}
}

// fakeLibraryFile creates an empty file standing in for the shared library.
func fakeLibraryFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "libpdfium.so")
	if err := os.WriteFile(path, nil, 0644); err != nil {
		t.Fatalf("Failed to create library file: %v", err)
	}
	return path
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelWarn}))
}

// loadedWorkspace returns a loaded Workspace over lib on a private runtime.
func loadedWorkspace(t *testing.T, lib *fakeLibrary) (*Workspace, *libraryRuntime) {
	t.Helper()
	opens := 0
	rt := testRuntime(lib, &opens)
	ws := newWorkspace(Config{Logger: testLogger()}, rt)
	if err := ws.Load(fakeLibraryFile(t)); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	return ws, rt
}
