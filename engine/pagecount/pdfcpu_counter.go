package pagecount

import (
	"fmt"
	"os"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// PdfcpuCounter counts pages with pdfcpu
type PdfcpuCounter struct {
}

// NewPdfcpuCounter creates a counter that never touches the pdfcpu
// user configuration directory
func NewPdfcpuCounter() (*PdfcpuCounter, error) {
	model.ConfigPath = "disable"
	return &PdfcpuCounter{}, nil
}

func (c *PdfcpuCounter) Name() string { return EnginePdfcpu }

func (c *PdfcpuCounter) PageCount(path, password string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("unable to open PDF file: %w", err)
	}
	defer f.Close()

	conf := model.NewDefaultConfiguration()
	conf.UserPW = password
	n, err := api.PageCount(f, conf)
	if err != nil {
		return 0, fmt.Errorf("unable to count pages: %w", err)
	}
	return n, nil
}

func (c *PdfcpuCounter) Close() error {
	return nil
}
