// Package layout composes a map sheet: the fetched imagery, a border, a
// kilometre grid, the title block, and the metadata footer, assembled into
// a single SVG document sized to the sheet.
//
// Page geometry is worked in millimetres throughout; the SVG viewBox is
// 1 user unit = 1 mm.
package layout

import (
	"context"
	"fmt"
	"time"

	"github.com/tastopo/tastopo/pkg/geo"
	"github.com/tastopo/tastopo/pkg/mapimage"
	"github.com/tastopo/tastopo/pkg/paper"
)

// gridSpacingMetres is the ground distance between grid lines. One
// kilometre matches the eastings/northings most walkers navigate by.
const gridSpacingMetres = 1000

// DeclinationSource provides magnetic declination for the footer.
// A nil source skips the lookup entirely.
type DeclinationSource interface {
	Declination(ctx context.Context, lat, lon float64, date time.Time) (float64, error)
}

// Details is the sheet metadata embedded in the footer.
type Details struct {
	// Version identifies the generator build.
	Version string

	// Created is the generation date printed on the sheet.
	Created time.Time

	// SheetID uniquely identifies this generated sheet.
	SheetID string
}

// Layout assembles one sheet. Set the flags and details before Compose;
// the produced Document is immutable.
type Layout struct {
	Sheet    paper.Sheet
	Location geo.Location
	Image    *mapimage.Image

	// Title overrides the location name when set.
	Title string

	// Grid toggles the kilometre grid overlay.
	Grid bool

	// Declination supplies the footer declination; nil or failing
	// sources degrade to a footer without it.
	Declination DeclinationSource

	Details Details
}

// New creates a layout with the grid enabled, titled with the location
// name unless overridden later.
func New(sheet paper.Sheet, location geo.Location, image *mapimage.Image) *Layout {
	return &Layout{
		Sheet:    sheet,
		Location: location,
		Image:    image,
		Grid:     true,
	}
}

// title returns the effective sheet title.
func (l *Layout) title() string {
	if l.Title != "" {
		return l.Title
	}
	return l.Location.Name
}

// gridSpacingMM converts the grid's ground spacing into page millimetres
// at the layout's print scale.
func (l *Layout) gridSpacingMM() float64 {
	return gridSpacingMetres * 1000 / float64(l.Image.Scale())
}

// Compose lays the fetched imagery onto the sheet and assembles the
// decorations into a finished Document.
//
// The declination lookup is the one recoverable failure in the generator:
// when it fails the footer simply omits the entry and composition carries
// on.
func (l *Layout) Compose(ctx context.Context, imageData []byte) (*Document, error) {
	var declination *float64
	if l.Declination != nil {
		if d, err := l.Declination.Declination(ctx, l.Location.Lat, l.Location.Lon, l.Details.Created); err == nil {
			declination = &d
		}
	}

	doc := newDocument(l.Sheet, l.title(), l.Grid)
	doc.declination = declination != nil
	doc.drawImage(imageData)
	if l.Grid {
		doc.drawGrid(l.gridSpacingMM())
	}
	doc.drawBorder()
	doc.drawTitleBlock(l.footerEntries(declination))
	return doc, nil
}

// footerEntries builds the metadata printed beneath the map, in display
// order. Declination is omitted when unavailable.
func (l *Layout) footerEntries(declination *float64) []string {
	entries := []string{
		l.Location.URI(),
		fmt.Sprintf("1:%d", l.Image.Scale()),
		mapimage.Datum,
	}
	if declination != nil {
		entries = append(entries, formatDeclination(*declination))
	}
	if l.Details.Version != "" {
		v := l.Details.Version
		if !l.Details.Created.IsZero() {
			v += " " + l.Details.Created.Format("2006-01-02")
		}
		entries = append(entries, v)
	}
	if l.Details.SheetID != "" {
		entries = append(entries, l.Details.SheetID)
	}
	return entries
}

// formatDeclination renders declination as an unsigned angle with a
// hemisphere suffix, e.g. "14.9°E".
func formatDeclination(d float64) string {
	suffix := "E"
	if d < 0 {
		suffix = "W"
		d = -d
	}
	return fmt.Sprintf("%.1f°%s", d, suffix)
}
