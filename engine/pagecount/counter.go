package pagecount

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// Logger is global since every counter logs through it
var Logger = slog.Default()

// ErrPasswordUnsupported is returned by engines that cannot open
// encrypted documents
var ErrPasswordUnsupported = errors.New("pagecount: engine does not support passwords")

// Counter reports the number of pages in a PDF file using one engine
type Counter interface {
	// Name identifies the engine in reports
	Name() string

	// PageCount opens path (with password, if not empty) and returns its page count
	PageCount(path, password string) (int, error)

	// Close cleans up any resources used by the counter
	Close() error
}

// Options configures the engines created by New
type Options struct {
	LibraryPath string        // pdfium shared library, empty to derive it
	BaseDir     string        // base directory for pdfium library derivation
	WasmTimeout time.Duration // how long to wait for a WebAssembly instance
}

// Engine names accepted by New
const (
	EnginePDFium = "pdfium"
	EngineWasm   = "wasm"
	EngineFitz   = "fitz"
	EngineText   = "text"
	EnginePdfcpu = "pdfcpu"
)

// Engines lists every engine name New understands
var Engines = []string{EnginePDFium, EngineWasm, EngineFitz, EngineText, EnginePdfcpu}

// New creates the counter for the named engine
func New(name string, opts Options) (Counter, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case EnginePDFium:
		return NewPDFiumCounter(opts.LibraryPath, opts.BaseDir)
	case EngineWasm:
		return NewWasmCounter(opts.WasmTimeout)
	case EngineFitz:
		return NewFitzCounter()
	case EngineText:
		return NewTextCounter()
	case EnginePdfcpu:
		return NewPdfcpuCounter()
	}
	return nil, fmt.Errorf("unknown engine %q (known: %s)", name, strings.Join(Engines, ", "))
}

// newCounter is the constructor NewAll uses
var newCounter = New

// NewAll creates a counter for every name. On error the counters created
// so far are closed.
func NewAll(names []string, opts Options) ([]Counter, error) {
	counters := make([]Counter, 0, len(names))
	for _, name := range names {
		c, err := newCounter(name, opts)
		if err != nil {
			CloseAll(counters)
			return nil, fmt.Errorf("unable to create %s counter: %w", name, err)
		}
		counters = append(counters, c)
	}
	return counters, nil
}

// CloseAll closes every counter, logging failures
func CloseAll(counters []Counter) {
	for _, c := range counters {
		if err := c.Close(); err != nil {
			Logger.Warn("Failed to close counter", "engine", c.Name(), "error", err)
		}
	}
}
