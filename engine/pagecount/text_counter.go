package pagecount

import (
	"fmt"
	"os"

	"github.com/ledongthuc/pdf"
)

// TextCounter counts pages with the pure-Go ledongthuc/pdf reader
type TextCounter struct {
}

func NewTextCounter() (*TextCounter, error) {
	return &TextCounter{}, nil
}

func (c *TextCounter) Name() string { return EngineText }

func (c *TextCounter) PageCount(path, password string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("unable to open PDF file: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return 0, fmt.Errorf("unable to stat PDF file: %w", err)
	}

	// The reader keeps asking until it gets an empty password, so offer ours once
	offered := false
	r, err := pdf.NewReaderEncrypted(f, info.Size(), func() string {
		if offered {
			return ""
		}
		offered = true
		return password
	})
	if err != nil {
		return 0, fmt.Errorf("unable to parse PDF document: %w", err)
	}
	return r.NumPage(), nil
}

func (c *TextCounter) Close() error {
	return nil
}
