//go:build darwin || freebsd || linux || netbsd

package pdfium

import "github.com/ebitengine/purego"

// sharedLibrary is a dlopen handle.
type sharedLibrary struct {
	handle uintptr
}

func openSharedLibrary(path string) (*sharedLibrary, error) {
	h, err := purego.Dlopen(path, purego.RTLD_NOW|purego.RTLD_GLOBAL)
	if err != nil {
		return nil, err
	}
	return &sharedLibrary{handle: h}, nil
}

func (so *sharedLibrary) lookupSymbol(name string) (uintptr, error) {
	return purego.Dlsym(so.handle, name)
}

func (so *sharedLibrary) close() error {
	return purego.Dlclose(so.handle)
}
