package pdfium

import (
	"fmt"
	"strings"

	"golang.org/x/text/encoding/charmap"
)

// narrowString encodes s as a NUL-terminated ISO-8859-1 byte string, the
// FPDF_STRING form FPDF_LoadDocument expects. Runes outside Latin-1 and
// embedded NULs are rejected rather than silently replaced.
func narrowString(s string) ([]byte, error) {
	if strings.IndexByte(s, 0) >= 0 {
		return nil, fmt.Errorf("%w: %q contains NUL", ErrUnencodable, s)
	}
	encoded, err := charmap.ISO8859_1.NewEncoder().String(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrUnencodable, s, err)
	}
	buf := make([]byte, len(encoded)+1)
	copy(buf, encoded)
	return buf, nil
}

// optionalNarrowString is narrowString, except the empty string maps to
// nil so it reaches the library as NULL.
func optionalNarrowString(s string) ([]byte, error) {
	if s == "" {
		return nil, nil
	}
	return narrowString(s)
}
