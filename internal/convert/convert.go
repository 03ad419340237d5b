// Package convert is a document converter stub: identity passthrough
// for PDF, and a clear error for anything else, matching the port shape
// spec.md defines (convertToPdf(bytes, mime) -> bytes) without the
// original's best-effort ghostscript/ImageMagick/Pillow/reportlab
// fallback chain, which is out of scope here.
package convert

import "fmt"

// ToPDF converts data of the given MIME type to PDF. Only
// application/pdf is supported; every other format returns an error
// naming the format, so a caller can wire in a real converter later.
func ToPDF(data []byte, mimeType string) ([]byte, error) {
	if mimeType == "application/pdf" {
		return data, nil
	}
	return nil, fmt.Errorf("convert: no converter available for %q, only application/pdf is supported", mimeType)
}
