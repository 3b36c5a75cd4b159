package pdfium

import (
	"errors"
	"fmt"
)

// Sentinel errors for lifecycle misuse and the broad failure classes.
// Typed errors below match the class sentinels through errors.Is.
var (
	ErrConfiguration       = errors.New("pdfium: configuration error")
	ErrUnsupportedPlatform = errors.New("pdfium: unsupported platform")
	ErrLibraryConflict     = errors.New("pdfium: a different library is already loaded in this process")
	ErrAlreadyLoaded       = errors.New("pdfium: workspace already loaded")
	ErrNotLoaded           = errors.New("pdfium: workspace not loaded")
	ErrLibraryInit         = errors.New("pdfium: library initialization failed")
	ErrDocumentLoad        = errors.New("pdfium: document load failed")
	ErrPasswordRequired    = errors.New("pdfium: password required or incorrect")
	ErrInvalidHandle       = errors.New("pdfium: invalid handle")
	ErrUnencodable         = errors.New("pdfium: string is not representable in Latin-1")
)

// ConfigurationError reports a library that could not be located or bound:
// unsupported platform, missing file, unloadable file or missing symbol.
type ConfigurationError struct {
	Path string // library path, empty if it could not be derived
	Err  error
}

func (e *ConfigurationError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("pdfium: configuration: %v", e.Err)
	}
	return fmt.Sprintf("pdfium: configuration: %s: %v", e.Path, e.Err)
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

func (e *ConfigurationError) Is(target error) bool { return target == ErrConfiguration }

// LibraryInitError is returned when FPDF_GetLastError reports a failure
// right after FPDF_InitLibraryWithConfig.
type LibraryInitError struct {
	Path string
	Code ErrorCode
}

func (e *LibraryInitError) Error() string {
	return fmt.Sprintf("pdfium: init %s: error %d (%s)", e.Path, uint32(e.Code), e.Code)
}

func (e *LibraryInitError) Is(target error) bool { return target == ErrLibraryInit }

// DocumentLoadError is returned when FPDF_LoadDocument yields NULL.
type DocumentLoadError struct {
	Path string
	Code ErrorCode
}

func (e *DocumentLoadError) Error() string {
	return fmt.Sprintf("pdfium: unable to load '%s': error %d (%s)", e.Path, uint32(e.Code), e.Code)
}

func (e *DocumentLoadError) Is(target error) bool {
	switch target {
	case ErrDocumentLoad:
		return true
	case ErrPasswordRequired:
		return e.Code == CodePassword
	}
	return false
}

func newConfigurationError(path string, err error) *ConfigurationError {
	return &ConfigurationError{Path: path, Err: err}
}
