//go:build !(darwin || freebsd || linux || netbsd || windows)

package pdfium

import (
	"fmt"
	"runtime"
)

// sharedLibrary is never opened on platforms without a dynamic loader
// binding.
type sharedLibrary struct{}

func openSharedLibrary(path string) (*sharedLibrary, error) {
	return nil, fmt.Errorf("%w: %s/%s", ErrUnsupportedPlatform, runtime.GOOS, runtime.GOARCH)
}

func (so *sharedLibrary) lookupSymbol(name string) (uintptr, error) {
	return 0, ErrUnsupportedPlatform
}

func (so *sharedLibrary) close() error {
	return nil
}

func registerFunc(fptr any, addr uintptr) {
	panic("pdfium: no dynamic loader on " + runtime.GOOS)
}
