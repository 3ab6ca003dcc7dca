// Package mapimage fetches topographic imagery covering a map sheet.
//
// The ListMap export endpoint renders a layer at a requested map scale
// around a centre point, capped at 4096 pixels a side. A full sheet at
// print resolution exceeds the cap, so the image is requested as a grid of
// tiles which are stitched back into a single PNG.
package mapimage

import (
	"context"
	"math"

	"github.com/paulmach/orb"

	"github.com/tastopo/tastopo/pkg/errors"
	"github.com/tastopo/tastopo/pkg/geo"
	"github.com/tastopo/tastopo/pkg/integrations/listmap"
	"github.com/tastopo/tastopo/pkg/paper"
)

const (
	// BaseLayer is the ListMap basemap rendered onto sheets.
	BaseLayer = "Topographic"

	// Datum describes the coordinate reference printed in the footer.
	Datum = "GDA94 MGA55"

	// imageDPI is the print resolution of exported imagery.
	imageDPI = 150

	// resFactor over-requests resolution to maximise raster detail at
	// 1:25000, the scale Tasmanian walking maps are printed at.
	resFactor = 1.78117

	// tileSize is the side length of one export request in pixels.
	tileSize = 500

	mmPerInch = 25.4
)

// Image is the topographic imagery for one sheet: a location rendered at a
// scale, sized to the sheet's image area. Created once per run.
type Image struct {
	client   *listmap.Client
	location geo.Location
	sheet    paper.Sheet
	scale    uint
	zoom     int

	// exportScale is the map scale requested from the service after
	// resolution and zoom adjustment.
	exportScale float64

	// width and height of the stitched image in pixels.
	width, height int
}

// New binds imagery to a location, sheet, scale and zoom adjustment.
// The scale ratio must be positive, and the derived pixel dimensions must
// fit the export API; both violations are CONFIG_ERRORs.
func New(client *listmap.Client, location geo.Location, sheet paper.Sheet, scale uint, zoom int) (*Image, error) {
	if scale == 0 {
		return nil, errors.New(errors.ErrCodeConfig, "scale ratio must be positive")
	}

	zoomFactor := math.Pow(2, float64(zoom))
	widthMM, heightMM := sheet.ImageSize()

	im := &Image{
		client:      client,
		location:    location,
		sheet:       sheet,
		scale:       scale,
		zoom:        zoom,
		exportScale: float64(scale) / resFactor * zoomFactor,
		width:       pixels(widthMM * resFactor / zoomFactor),
		height:      pixels(heightMM * resFactor / zoomFactor),
	}

	return im, nil
}

// pixels converts a physical size in mm into pixels at the print DPI.
func pixels(mm float64) int {
	return int(math.Round(mm * imageDPI / mmPerInch))
}

// Location returns the bound map centre.
func (im *Image) Location() geo.Location { return im.location }

// Scale returns the print scale ratio (the n in 1:n).
func (im *Image) Scale() uint { return im.scale }

// Zoom returns the zoom adjustment.
func (im *Image) Zoom() int { return im.zoom }

// Size returns the stitched image dimensions in pixels.
func (im *Image) Size() (w, h int) { return im.width, im.height }

// Tiles returns the number of export requests needed to cover the sheet.
func (im *Image) Tiles() int {
	cols, rows := im.shape()
	return cols * rows
}

// shape returns the number of columns and rows in the tile grid.
func (im *Image) shape() (cols, rows int) {
	cols = int(math.Ceil(float64(im.width) / tileSize))
	rows = int(math.Ceil(float64(im.height) / tileSize))
	return cols, rows
}

// metres converts a pixel distance into ground metres at the export scale.
func (im *Image) metres(px float64) float64 {
	return im.exportScale * px * mmPerInch / (imageDPI * 1000)
}

// tileRequest computes the export request for one tile of the grid.
// Column zero is the west edge; row zero is the south edge.
func (im *Image) tileRequest(column, row int) listmap.ExportRequest {
	w := min(im.width, tileSize*(column+1)) - tileSize*column
	h := min(im.height, tileSize*(row+1)) - tileSize*row

	cx := im.location.Point[0] + im.metres(float64(im.width)/-2+tileSize*float64(column)+float64(w)/2)
	cy := im.location.Point[1] + im.metres(float64(im.height)/-2+tileSize*float64(row)+float64(h)/2)

	return listmap.ExportRequest{
		Layer:  BaseLayer,
		Centre: orb.Point{cx, cy},
		Scale:  im.exportScale,
		Width:  w,
		Height: h,
		DPI:    imageDPI,
	}
}

// Fetch downloads every tile and stitches them into a single PNG covering
// the sheet's image area. Request failures surface as NETWORK_ERRORs and
// undecodable tiles as RENDER_ERRORs.
func (im *Image) Fetch(ctx context.Context, refresh bool) ([]byte, error) {
	cols, rows := im.shape()

	tiles := make([][]byte, 0, cols*rows)
	// North-to-south so tiles arrive in paste order: the highest row is
	// the top of the sheet.
	for row := rows - 1; row >= 0; row-- {
		for col := 0; col < cols; col++ {
			data, err := im.client.Export(ctx, im.tileRequest(col, row), refresh)
			if err != nil {
				return nil, err
			}
			tiles = append(tiles, data)
		}
	}

	return stitch(tiles, im.width, im.height)
}
