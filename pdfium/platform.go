package pdfium

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
)

// bundle describes where a prebuilt PDFium lives below a base directory.
type bundle struct {
	folder  string // pdfium-<os>-<arch>
	archDir string
	binDir  string
	libName string
}

func (b bundle) relPath() string {
	return filepath.Join(b.folder, b.archDir, b.binDir, b.libName)
}

// bundles is keyed by GOOS/GOARCH.
var bundles = map[string]bundle{
	"windows/amd64": {"pdfium-windows-x64", "x64", "bin", "pdfium.dll"},
	"windows/arm64": {"pdfium-windows-arm64", "arm64", "bin", "pdfium.dll"},
	"linux/amd64":   {"pdfium-linux-x64", "x64", "lib", "libpdfium.so"},
	"linux/arm64":   {"pdfium-linux-arm64", "arm64", "lib", "libpdfium.so"},
	"darwin/amd64":  {"pdfium-mac-x64", "x64", "lib", "libpdfium.dylib"},
	"darwin/arm64":  {"pdfium-mac-arm64", "arm64", "lib", "libpdfium.dylib"},
}

// LibraryPath derives the PDFium shared library path for the running
// platform below baseDir, and checks that the file exists. An empty
// baseDir means the directory of the running executable.
func LibraryPath(baseDir string) (string, error) {
	return libraryPath(baseDir, Logger)
}

func libraryPath(baseDir string, logger *slog.Logger) (string, error) {
	if baseDir == "" {
		dir, err := DefaultBaseDir()
		if err != nil {
			return "", newConfigurationError("", err)
		}
		baseDir = dir
	}
	path, err := libraryPathFor(runtime.GOOS, runtime.GOARCH, baseDir)
	if err != nil {
		return "", err
	}
	logger.Debug("derived pdfium library path", "os", runtime.GOOS, "arch", runtime.GOARCH, "path", path)
	if err := checkLibraryFile(path); err != nil {
		return "", err
	}
	return path, nil
}

// libraryPathFor maps a platform to its bundle path without touching the
// file system.
func libraryPathFor(goos, goarch, baseDir string) (string, error) {
	b, ok := bundles[goos+"/"+goarch]
	if !ok {
		return "", newConfigurationError("", fmt.Errorf("%w: %s/%s", ErrUnsupportedPlatform, goos, goarch))
	}
	return filepath.Join(baseDir, b.relPath()), nil
}

// DefaultBaseDir is the directory holding the running executable.
func DefaultBaseDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("unable to locate executable: %w", err)
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return filepath.Dir(exe), nil
}

func checkLibraryFile(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return newConfigurationError(path, fmt.Errorf("pdfium library not found: %w", fs.ErrNotExist))
		}
		return newConfigurationError(path, err)
	}
	if info.IsDir() {
		return newConfigurationError(path, errors.New("pdfium library path is a directory"))
	}
	return nil
}
