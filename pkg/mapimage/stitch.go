package mapimage

import (
	"bytes"
	"image"
	"image/draw"
	"image/png"

	"github.com/tastopo/tastopo/pkg/errors"
)

// stitch joins PNG tiles into a single width×height PNG. Tiles must arrive
// in paste order: left to right, top to bottom. Each tile advances the
// cursor by its own width; reaching the right edge wraps to the next row.
func stitch(tiles [][]byte, width, height int) ([]byte, error) {
	if len(tiles) == 1 {
		// A single tile already covers the sheet; keep the service bytes.
		if _, err := decodeTile(tiles[0]); err != nil {
			return nil, err
		}
		return tiles[0], nil
	}

	canvas := image.NewRGBA(image.Rect(0, 0, width, height))

	x, y := 0, 0
	var rowHeight int
	for _, data := range tiles {
		tile, err := decodeTile(data)
		if err != nil {
			return nil, err
		}
		bounds := tile.Bounds()

		draw.Draw(canvas, image.Rect(x, y, x+bounds.Dx(), y+bounds.Dy()), tile, bounds.Min, draw.Src)

		x += bounds.Dx()
		rowHeight = bounds.Dy()
		if x >= width {
			x = 0
			y += rowHeight
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, canvas); err != nil {
		return nil, errors.Wrap(errors.ErrCodeRender, err, "encoding stitched image")
	}
	return buf.Bytes(), nil
}

func decodeTile(data []byte) (image.Image, error) {
	tile, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeRender, err, "map service returned undecodable image data")
	}
	return tile, nil
}
