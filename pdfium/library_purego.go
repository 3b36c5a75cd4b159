//go:build darwin || freebsd || linux || netbsd || windows

package pdfium

import "github.com/ebitengine/purego"

// registerFunc points the Go function variable fptr at the C function at addr.
func registerFunc(fptr any, addr uintptr) {
	purego.RegisterFunc(fptr, addr)
}
