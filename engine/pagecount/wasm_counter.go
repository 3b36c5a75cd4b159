package pagecount

import (
	"fmt"
	"os"
	"time"

	"github.com/klippa-app/go-pdfium"
	"github.com/klippa-app/go-pdfium/requests"
	"github.com/klippa-app/go-pdfium/webassembly"
)

// WasmCounter counts pages with go-pdfium's WebAssembly build of PDFium
// (pure Go, no native library)
type WasmCounter struct {
	pool     pdfium.Pool
	instance pdfium.Pdfium
}

// NewWasmCounter starts a single-worker WebAssembly pool
func NewWasmCounter(timeout time.Duration) (*WasmCounter, error) {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	// Single-threaded usage, one worker is enough
	pool, err := webassembly.Init(webassembly.Config{
		MinIdle:  1,
		MaxIdle:  1,
		MaxTotal: 1,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize PDFium WebAssembly: %w", err)
	}

	instance, err := pool.GetInstance(timeout)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to get PDFium instance: %w", err)
	}

	return &WasmCounter{
		pool:     pool,
		instance: instance,
	}, nil
}

func (c *WasmCounter) Name() string { return EngineWasm }

// PageCount reads the file into the WebAssembly instance and queries it
func (c *WasmCounter) PageCount(path, password string) (int, error) {
	pdfBytes, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("unable to read PDF file: %w", err)
	}

	req := &requests.OpenDocument{File: &pdfBytes}
	if password != "" {
		req.Password = &password
	}
	doc, err := c.instance.OpenDocument(req)
	if err != nil {
		return 0, fmt.Errorf("unable to open PDF document: %w", err)
	}
	defer c.instance.FPDF_CloseDocument(&requests.FPDF_CloseDocument{
		Document: doc.Document,
	})

	resp, err := c.instance.FPDF_GetPageCount(&requests.FPDF_GetPageCount{
		Document: doc.Document,
	})
	if err != nil {
		return 0, fmt.Errorf("unable to get page count: %w", err)
	}
	return resp.PageCount, nil
}

// Close returns the instance and shuts the pool down
func (c *WasmCounter) Close() error {
	if c.instance != nil {
		c.instance.Close()
		c.instance = nil
	}
	if c.pool != nil {
		c.pool.Close()
		c.pool = nil
	}
	return nil
}
