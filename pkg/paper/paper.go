// Package paper models the physical page a map sheet is printed on.
//
// A Sheet is a pure value: an ISO 216 A-series size plus an orientation,
// from which the drawable viewport and map image area are derived in
// millimetres. Sheets are landscape unless rotated to portrait, since
// topographic sheets are usually wider than tall.
package paper

import (
	"strings"

	"github.com/tastopo/tastopo/pkg/errors"
)

// Layout constants in millimetres.
const (
	// Margin is the whitespace kept on every edge of the sheet.
	Margin = 6.0

	// FooterHeight is reserved below the map for the title block.
	FooterHeight = 15.0

	// Bleed extends the map image past the border so the print never
	// shows a white sliver at the viewport edge.
	Bleed = 2.0
)

// iso216 holds portrait dimensions of the A series in mm, A0 first.
// Each size is the previous one halved along its long edge.
var iso216 = []struct {
	name string
	w, h float64
}{
	{"A0", 841, 1189},
	{"A1", 594, 841},
	{"A2", 420, 594},
	{"A3", 297, 420},
	{"A4", 210, 297},
	{"A5", 148, 210},
	{"A6", 105, 148},
}

// minSize is the smallest printable sheet; anything below A5 leaves no
// legible room for the map once margins and footer are subtracted.
const minSize = 5

// Sheet is a paper size and orientation. Immutable.
type Sheet struct {
	name     string
	w, h     float64 // portrait dimensions in mm
	portrait bool
}

// NewSheet selects a sheet by A-series size name ("A4", case-insensitive)
// and orientation. Unrecognized or too-small sizes yield a CONFIG_ERROR.
func NewSheet(size string, portrait bool) (Sheet, error) {
	name := strings.ToUpper(strings.TrimSpace(size))
	for i, s := range iso216 {
		if s.name != name {
			continue
		}
		if i > minSize {
			return Sheet{}, errors.New(errors.ErrCodeConfig, "paper size must not be smaller than A%d", minSize)
		}
		return Sheet{name: s.name, w: s.w, h: s.h, portrait: portrait}, nil
	}
	return Sheet{}, errors.New(errors.ErrCodeConfig, "unrecognized paper size %q", size)
}

// Name returns the size name, e.g. "A4".
func (s Sheet) Name() string { return s.name }

// Portrait reports the sheet orientation.
func (s Sheet) Portrait() bool { return s.portrait }

// Dimensions returns the page width and height in mm. Landscape by default.
func (s Sheet) Dimensions() (w, h float64) {
	if s.portrait {
		return s.w, s.h
	}
	return s.h, s.w
}

// Viewport returns the position and size of the map view in mm. With bleed
// the rectangle grows outward so the image overshoots the border slightly.
func (s Sheet) Viewport(withBleed bool) (x, y, w, h float64) {
	var bleed float64
	if withBleed {
		bleed = Bleed
	}
	w, h = s.Dimensions()

	x = Margin - bleed
	y = x
	w -= 2 * x
	h -= x + Margin + FooterHeight - bleed
	return x, y, w, h
}

// ImageSize returns the required map image width and height in mm,
// including bleed.
func (s Sheet) ImageSize() (w, h float64) {
	_, _, w, h = s.Viewport(true)
	return w, h
}
