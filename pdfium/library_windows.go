package pdfium

import "golang.org/x/sys/windows"

// sharedLibrary is a LoadLibrary handle.
type sharedLibrary struct {
	handle windows.Handle
}

func openSharedLibrary(path string) (*sharedLibrary, error) {
	h, err := windows.LoadLibrary(path)
	if err != nil {
		return nil, err
	}
	return &sharedLibrary{handle: h}, nil
}

func (so *sharedLibrary) lookupSymbol(name string) (uintptr, error) {
	return windows.GetProcAddress(so.handle, name)
}

func (so *sharedLibrary) close() error {
	return windows.FreeLibrary(so.handle)
}
