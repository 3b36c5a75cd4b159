// Package pdfium binds the PDFium shared library without cgo.
//
// The library is opened at runtime with purego (LoadLibrary on Windows)
// and only a handful of entry points are bound: library init and destroy,
// document load and close, page count and last error.
//
// # Lifecycle
//
// A [Workspace] loads the library once and is freed once; a [Document]
// comes from [Workspace.LoadDocument] and is closed once. Both follow the
// defer idiom:
//
//	ws, err := pdfium.Open(pdfium.Config{}, "")
//	if err != nil {
//		return err
//	}
//	defer ws.Free()
//
//	doc, err := ws.LoadDocument("report.pdf", "")
//	if err != nil {
//		return err
//	}
//	defer doc.Close()
//
//	pages, err := doc.PageCount()
//
// Close and Free are idempotent. Operations on a closed Document, or on a
// Document whose Workspace was freed, fail with [ErrInvalidHandle]. Freeing
// a Workspace while its Documents are open leaks their native handles;
// close documents first.
//
// # Library discovery
//
// [Workspace.Load] takes an explicit library path, or derives one below
// [Config.BaseDir] following the pdfium-binaries layout, for example
// pdfium-windows-x64/x64/bin/pdfium.dll. See [LibraryPath].
//
// # Process-global state
//
// PDFium keeps global state, so Workspaces in one process share a single
// reference-counted initialization and every native call is serialized
// behind one mutex. Loading a second, different library while the first
// is in use fails with [ErrLibraryConflict].
package pdfium
