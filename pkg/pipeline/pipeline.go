// Package pipeline runs the map generation pipeline: resolve the location,
// model the sheet, fetch the imagery, compose the layout, and export the
// document. The CLI is a thin wrapper over this package.
package pipeline

import (
	"strconv"
	"strings"

	"github.com/tastopo/tastopo/pkg/errors"
	"github.com/tastopo/tastopo/pkg/render"
)

// Defaults applied by [Options.ValidateAndSetDefaults].
const (
	// DefaultScale prints at 1:25000, the standard Tasmanian walking
	// map scale.
	DefaultScale = 25000

	// DefaultPaper is the sheet size.
	DefaultPaper = "A4"

	// DefaultFormat is the export format.
	DefaultFormat = render.FormatSVG
)

// Options configures one generation run.
type Options struct {
	// Location is a place name or geo URI to centre the map on.
	Location string

	// Scale is the print scale ratio (the n in 1:n).
	Scale uint

	// Zoom adjusts imagery resolution in powers of two.
	Zoom int

	// TranslateX and TranslateY shift the map centre in metres.
	TranslateX, TranslateY int

	// Title overrides the sheet title.
	Title string

	// Paper is the sheet size name; Portrait rotates it.
	Paper    string
	Portrait bool

	// NoGrid disables the kilometre grid overlay.
	NoGrid bool

	// Format selects the export format (svg or pdf, case-insensitive).
	Format string

	// Out is the output path; empty derives it from the title.
	Out string

	// Refresh bypasses cached service responses.
	Refresh bool

	validated bool
}

// ValidateAndSetDefaults fills unset fields and validates the rest.
// Format validation happens here so an unsupported format fails before any
// network or file activity.
func (o *Options) ValidateAndSetDefaults() error {
	if o.Location == "" {
		return errors.New(errors.ErrCodeConfig, "a location is required")
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	if o.Paper == "" {
		o.Paper = DefaultPaper
	}
	if o.Format == "" {
		o.Format = DefaultFormat
	}

	format, err := render.NormalizeFormat(o.Format)
	if err != nil {
		return err
	}
	o.Format = format
	o.validated = true
	return nil
}

// ParseTranslate parses a "dx,dy" metre offset pair.
func ParseTranslate(s string) (dx, dy int, err error) {
	if s == "" {
		return 0, 0, nil
	}
	xs, ys, ok := strings.Cut(s, ",")
	if !ok {
		return 0, 0, errors.New(errors.ErrCodeParse, "translate must be dx,dy in metres: %q", s)
	}
	dx, err = strconv.Atoi(strings.TrimSpace(xs))
	if err != nil {
		return 0, 0, errors.New(errors.ErrCodeParse, "invalid translate offset %q", xs)
	}
	dy, err = strconv.Atoi(strings.TrimSpace(ys))
	if err != nil {
		return 0, 0, errors.New(errors.ErrCodeParse, "invalid translate offset %q", ys)
	}
	return dx, dy, nil
}

// Slugify turns a sheet title into a safe filename stem: lowercase with
// runs of non-alphanumerics collapsed into single hyphens.
func Slugify(title string) string {
	var b strings.Builder
	lastHyphen := true // trim leading separators
	for _, r := range strings.ToLower(title) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
