package layout

import (
	"bytes"
	"encoding/base64"
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/tastopo/tastopo/pkg/paper"
)

// Document is a composed map sheet as an SVG vector document.
// Element ids (map-data, map-grid, map-border, map-title, map-footer) are
// stable so downstream tooling can address the parts.
type Document struct {
	sheet       paper.Sheet
	title       string
	grid        bool
	declination bool

	width, height float64 // page mm
	body          bytes.Buffer
}

func newDocument(sheet paper.Sheet, title string, grid bool) *Document {
	d := &Document{sheet: sheet, title: title, grid: grid}
	d.width, d.height = sheet.Dimensions()
	return d
}

// Title returns the sheet title text.
func (d *Document) Title() string { return d.title }

// Grid reports whether the kilometre grid was drawn.
func (d *Document) Grid() bool { return d.grid }

// Declination reports whether the footer carries a declination entry.
func (d *Document) Declination() bool { return d.declination }

// SVG serializes the document.
func (d *Document) SVG() []byte {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" xmlns:xlink="http://www.w3.org/1999/xlink" width="%gmm" height="%gmm" viewBox="0 0 %g %g">`+"\n",
		d.width, d.height, d.width, d.height)

	x, y, w, h := d.sheet.Viewport(false)
	fmt.Fprintf(&buf, `  <defs><clipPath id="map-clip"><rect x="%.2f" y="%.2f" width="%.2f" height="%.2f"/></clipPath></defs>`+"\n", x, y, w, h)
	fmt.Fprintf(&buf, `  <rect x="0" y="0" width="%g" height="%g" fill="#ffffff"/>`+"\n", d.width, d.height)

	buf.Write(d.body.Bytes())
	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

// drawImage places the stitched map PNG at the bled viewport, clipped to
// the visible map area.
func (d *Document) drawImage(data []byte) {
	x, y, w, h := d.sheet.Viewport(true)
	href := "data:image/png;base64," + base64.StdEncoding.EncodeToString(data)
	fmt.Fprintf(&d.body, `  <image id="map-data" x="%.2f" y="%.2f" width="%.2f" height="%.2f" preserveAspectRatio="none" clip-path="url(#map-clip)" xlink:href="%s"/>`+"\n",
		x, y, w, h, href)
}

// drawGrid overlays grid lines at the given spacing in page mm, anchored
// at the viewport origin and clipped to the map area.
func (d *Document) drawGrid(spacing float64) {
	if spacing <= 0 {
		return
	}
	x, y, w, h := d.sheet.Viewport(false)

	fmt.Fprintf(&d.body, `  <g id="map-grid" stroke="#1a5fb4" stroke-width="0.15" stroke-opacity="0.55" clip-path="url(#map-clip)">`+"\n")
	for gx := x + spacing; gx < x+w; gx += spacing {
		fmt.Fprintf(&d.body, `    <line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f"/>`+"\n", gx, y, gx, y+h)
	}
	for gy := y + spacing; gy < y+h; gy += spacing {
		fmt.Fprintf(&d.body, `    <line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f"/>`+"\n", x, gy, x+w, gy)
	}
	fmt.Fprintf(&d.body, "  </g>\n")
}

// drawBorder draws the neatline around the map area.
func (d *Document) drawBorder() {
	x, y, w, h := d.sheet.Viewport(false)
	fmt.Fprintf(&d.body, `  <rect id="map-border" x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="none" stroke="#000000" stroke-width="0.4"/>`+"\n",
		x, y, w, h)
}

// drawTitleBlock writes the title and the metadata entries into the footer
// strip below the map.
func (d *Document) drawTitleBlock(entries []string) {
	x, _, w, _ := d.sheet.Viewport(false)

	// Vertically centre the text between map border and page margin.
	baseline := d.height - paper.Margin - (paper.FooterHeight-paper.Margin)/2

	fmt.Fprintf(&d.body, `  <text id="map-title" x="%.2f" y="%.2f" font-family="sans-serif" font-size="7" font-weight="bold">%s</text>`+"\n",
		x, baseline, escapeText(d.title))

	fmt.Fprintf(&d.body, `  <text id="map-footer" x="%.2f" y="%.2f" font-family="sans-serif" font-size="2.6" fill="#444444" text-anchor="end">%s</text>`+"\n",
		x+w, baseline, escapeText(strings.Join(entries, "  ·  ")))
}

func escapeText(s string) string {
	var buf bytes.Buffer
	// xml.EscapeText only fails on a failing writer; bytes.Buffer never does.
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
