package pdfium

import (
	"errors"
	"fmt"
	"runtime"
)

// LibraryConfig mirrors FPDF_LIBRARY_CONFIG. Field order and widths must
// match the C struct.
type LibraryConfig struct {
	Version        int32
	UserFontPaths  uintptr // const char**, unused
	Isolate        uintptr // v8::Isolate*, unused
	V8EmbedderSlot uint32
}

// defaultLibraryConfig is the version 2 record passed at init time.
func defaultLibraryConfig() LibraryConfig {
	return LibraryConfig{Version: 2}
}

// binding is the resolved native call surface of a loaded PDFium.
// String arguments are NUL-terminated narrow strings, nil meaning NULL.
type binding interface {
	InitLibraryWithConfig(cfg *LibraryConfig)
	DestroyLibrary()
	GetLastError() ErrorCode
	LoadDocument(path, password []byte) uintptr
	CloseDocument(doc uintptr)
	GetPageCount(doc uintptr) int
	// Close unloads the shared library.
	Close() error
}

// opener loads a shared library and resolves its entry points.
type opener func(path string) (binding, error)

// nativeLibrary binds a dynamically loaded PDFium through purego.
type nativeLibrary struct {
	so *sharedLibrary

	initLibraryWithConfig func(cfg *LibraryConfig)
	destroyLibrary        func()
	getLastError          func() uint32
	loadDocument          func(path, password *byte) uintptr
	closeDocument         func(doc uintptr)
	getPageCount          func(doc uintptr) int32
}

// openNativeLibrary loads path and resolves the fixed set of entry points.
func openNativeLibrary(path string) (binding, error) {
	so, err := openSharedLibrary(path)
	if err != nil {
		return nil, newConfigurationError(path, fmt.Errorf("unable to load shared library: %w", err))
	}

	lib := &nativeLibrary{so: so}
	entryPoints := []struct {
		symbol string
		fptr   any
	}{
		{"FPDF_InitLibraryWithConfig", &lib.initLibraryWithConfig},
		{"FPDF_DestroyLibrary", &lib.destroyLibrary},
		{"FPDF_GetLastError", &lib.getLastError},
		{"FPDF_LoadDocument", &lib.loadDocument},
		{"FPDF_CloseDocument", &lib.closeDocument},
		{"FPDF_GetPageCount", &lib.getPageCount},
	}
	for _, ep := range entryPoints {
		addr, err := so.lookupSymbol(ep.symbol)
		if err == nil && addr == 0 {
			err = errors.New("symbol has no address")
		}
		if err != nil {
			so.close()
			return nil, newConfigurationError(path, fmt.Errorf("unable to resolve %s: %w", ep.symbol, err))
		}
		registerFunc(ep.fptr, addr)
	}
	return lib, nil
}

func (l *nativeLibrary) InitLibraryWithConfig(cfg *LibraryConfig) {
	l.initLibraryWithConfig(cfg)
	runtime.KeepAlive(cfg)
}

func (l *nativeLibrary) DestroyLibrary() {
	l.destroyLibrary()
}

func (l *nativeLibrary) GetLastError() ErrorCode {
	return ErrorCode(l.getLastError())
}

func (l *nativeLibrary) LoadDocument(path, password []byte) uintptr {
	doc := l.loadDocument(bytePtr(path), bytePtr(password))
	runtime.KeepAlive(path)
	runtime.KeepAlive(password)
	return doc
}

func (l *nativeLibrary) CloseDocument(doc uintptr) {
	l.closeDocument(doc)
}

func (l *nativeLibrary) GetPageCount(doc uintptr) int {
	return int(l.getPageCount(doc))
}

func (l *nativeLibrary) Close() error {
	return l.so.close()
}

func bytePtr(b []byte) *byte {
	if len(b) == 0 {
		return nil
	}
	return &b[0]
}
