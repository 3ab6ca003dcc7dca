// Package render exports composed sheet documents to their final formats.
//
// SVG output serializes the document directly. PDF output converts the SVG
// through rsvg-convert, which preserves the vector content and embeds the
// raster map at full resolution.
package render

import (
	"os"
	"strings"

	"github.com/tastopo/tastopo/pkg/errors"
	"github.com/tastopo/tastopo/pkg/layout"
)

// Supported output formats.
const (
	FormatSVG = "svg"
	FormatPDF = "pdf"
)

// NormalizeFormat validates a format string case-insensitively and returns
// its canonical lowercase form. Anything but SVG or PDF is an
// UNSUPPORTED_FORMAT error.
func NormalizeFormat(format string) (string, error) {
	f := strings.ToLower(strings.TrimSpace(format))
	switch f {
	case FormatSVG, FormatPDF:
		return f, nil
	default:
		return "", errors.New(errors.ErrCodeUnsupportedFormat, "unsupported output format %q (must be svg or pdf)", format)
	}
}

// Export serializes the document in the given format.
func Export(doc *layout.Document, format string) ([]byte, error) {
	f, err := NormalizeFormat(format)
	if err != nil {
		return nil, err
	}
	svg := doc.SVG()
	if f == FormatSVG {
		return svg, nil
	}
	return ToPDF(svg)
}

// WriteFile writes exported bytes to path.
func WriteFile(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "writing %s", path)
	}
	return nil
}
