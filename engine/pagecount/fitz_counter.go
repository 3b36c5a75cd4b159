package pagecount

import (
	"fmt"

	"github.com/gen2brain/go-fitz"
)

// FitzCounter counts pages using go-fitz (MuPDF)
type FitzCounter struct {
}

// NewFitzCounter creates a new MuPDF-based counter
func NewFitzCounter() (*FitzCounter, error) {
	return &FitzCounter{}, nil
}

func (c *FitzCounter) Name() string { return EngineFitz }

// PageCount opens the document with MuPDF. Encrypted documents are not
// supported.
func (c *FitzCounter) PageCount(path, password string) (int, error) {
	if password != "" {
		return 0, ErrPasswordUnsupported
	}

	doc, err := fitz.New(path)
	if err != nil {
		return 0, fmt.Errorf("unable to open PDF document: %w", err)
	}
	defer doc.Close()

	return doc.NumPage(), nil
}

// Close is a no-op, documents are closed per call
func (c *FitzCounter) Close() error {
	return nil
}
