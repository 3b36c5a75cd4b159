package pdfium

import (
	"sync"
	"weak"
)

// Document is an open PDF inside a Workspace. It holds only a weak
// reference to its Workspace, so it never keeps the library alive; once
// the Workspace is freed or collected, every operation fails with
// ErrInvalidHandle.
type Document struct {
	ws   weak.Pointer[Workspace]
	path string

	mu     sync.Mutex
	handle uintptr // FPDF_DOCUMENT, 0 once closed
}

// PageCount queries PDFium for the number of pages. The result is not
// cached.
func (d *Document) PageCount() (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.handle == 0 {
		return 0, ErrInvalidHandle
	}
	w := d.ws.Value()
	if w == nil {
		return 0, ErrInvalidHandle
	}
	return w.pageCount(d.handle)
}

// Close releases the native document. It is idempotent. The handle is
// invalidated even when the Workspace has already been freed, in which
// case nothing is released natively and ErrInvalidHandle is returned.
func (d *Document) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.handle == 0 {
		return nil
	}
	handle := d.handle
	d.handle = 0

	w := d.ws.Value()
	if w == nil {
		return ErrInvalidHandle
	}
	return w.closeDocument(handle)
}

// Path is the file the Document was loaded from.
func (d *Document) Path() string {
	return d.path
}
