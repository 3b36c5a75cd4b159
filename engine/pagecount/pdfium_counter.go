package pagecount

import (
	"fmt"

	"github.com/drummonds/godfium/pdfium"
)

// PDFiumCounter counts pages through the native pdfium binding
type PDFiumCounter struct {
	ws *pdfium.Workspace
}

// NewPDFiumCounter loads the native library. An empty libraryPath derives
// it below baseDir.
func NewPDFiumCounter(libraryPath, baseDir string) (*PDFiumCounter, error) {
	ws, err := pdfium.Open(pdfium.Config{BaseDir: baseDir, Logger: Logger}, libraryPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load pdfium: %w", err)
	}
	return &PDFiumCounter{ws: ws}, nil
}

func (c *PDFiumCounter) Name() string { return EnginePDFium }

// PageCount opens the document, queries it and closes it again
func (c *PDFiumCounter) PageCount(path, password string) (int, error) {
	doc, err := c.ws.LoadDocument(path, password)
	if err != nil {
		return 0, err
	}
	defer doc.Close()

	return doc.PageCount()
}

// Workspace exposes the underlying pdfium session
func (c *PDFiumCounter) Workspace() *pdfium.Workspace {
	return c.ws
}

// Close frees the pdfium workspace
func (c *PDFiumCounter) Close() error {
	return c.ws.Free()
}
