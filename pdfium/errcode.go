package pdfium

import "fmt"

// ErrorCode is a value returned by FPDF_GetLastError.
type ErrorCode uint32

// FPDF_ERR_* values.
const (
	CodeSuccess  ErrorCode = 0
	CodeUnknown  ErrorCode = 1
	CodeFile     ErrorCode = 2 // file not found or could not be opened
	CodeFormat   ErrorCode = 3 // not a PDF or corrupted
	CodePassword ErrorCode = 4
	CodeSecurity ErrorCode = 5 // unsupported security scheme
	CodePage     ErrorCode = 6
)

var errorCodeNames = map[ErrorCode]string{
	CodeSuccess:  "success",
	CodeUnknown:  "unknown error",
	CodeFile:     "file not found or could not be opened",
	CodeFormat:   "file not in PDF format or corrupted",
	CodePassword: "password required or incorrect password",
	CodeSecurity: "unsupported security scheme",
	CodePage:     "page not found or content error",
}

func (c ErrorCode) String() string {
	if name, ok := errorCodeNames[c]; ok {
		return name
	}
	return fmt.Sprintf("error code %d", uint32(c))
}
