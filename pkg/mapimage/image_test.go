package mapimage

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/tastopo/tastopo/pkg/errors"
	"github.com/tastopo/tastopo/pkg/geo"
	"github.com/tastopo/tastopo/pkg/integrations/listmap"
	"github.com/tastopo/tastopo/pkg/paper"
)

func testSheet(t *testing.T) paper.Sheet {
	t.Helper()
	s, err := paper.NewSheet("A4", false)
	if err != nil {
		t.Fatalf("NewSheet: %v", err)
	}
	return s
}

func testLocation() geo.Location {
	return geo.FromLatLon("test", -41.4391, 146.9336)
}

func TestNewRejectsZeroScale(t *testing.T) {
	_, err := New(nil, testLocation(), testSheet(t), 0, 0)
	if !errors.Is(err, errors.ErrCodeConfig) {
		t.Errorf("err = %v, want CONFIG_ERROR", err)
	}
}

func TestPixelMath(t *testing.T) {
	im, err := New(nil, testLocation(), testSheet(t), 25000, 0)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	// A4 landscape image area is 289×187 mm including bleed; at 150 dpi
	// with the resolution factor that is 3040×1967 px.
	w, h := im.Size()
	if w != 3040 || h != 1967 {
		t.Errorf("Size = %d×%d, want 3040×1967", w, h)
	}

	cols, rows := im.shape()
	if cols != 7 || rows != 4 {
		t.Errorf("shape = %d×%d, want 7×4", cols, rows)
	}
	if im.Tiles() != 28 {
		t.Errorf("Tiles = %d, want 28", im.Tiles())
	}
}

func TestZoomHalvesResolution(t *testing.T) {
	base, _ := New(nil, testLocation(), testSheet(t), 25000, 0)
	zoomed, _ := New(nil, testLocation(), testSheet(t), 25000, 1)

	bw, bh := base.Size()
	zw, zh := zoomed.Size()
	if math.Abs(float64(bw)/2-float64(zw)) > 1 || math.Abs(float64(bh)/2-float64(zh)) > 1 {
		t.Errorf("zoom 1 should halve pixel size: %d×%d vs %d×%d", bw, bh, zw, zh)
	}

	// The requested map scale doubles to compensate.
	if math.Abs(zoomed.exportScale/base.exportScale-2) > 1e-9 {
		t.Errorf("exportScale ratio = %v, want 2", zoomed.exportScale/base.exportScale)
	}
}

func TestTileRequestGeometry(t *testing.T) {
	// Zoom 2 yields a 760×492 px image: a 2×1 tile grid.
	im, err := New(nil, testLocation(), testSheet(t), 25000, 2)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if w, h := im.Size(); w != 760 || h != 492 {
		t.Fatalf("Size = %d×%d, want 760×492", w, h)
	}

	left := im.tileRequest(0, 0)
	right := im.tileRequest(1, 0)

	if left.Width != 500 || right.Width != 260 {
		t.Errorf("tile widths = %d,%d, want 500,260", left.Width, right.Width)
	}
	if left.Height != 492 || right.Height != 492 {
		t.Errorf("tile heights = %d,%d", left.Height, right.Height)
	}

	centre := im.location.Point
	// Single row: tile centres sit on the sheet's horizontal axis.
	if math.Abs(left.Centre[1]-centre[1]) > 1e-6 {
		t.Errorf("left tile cy = %v, want %v", left.Centre[1], centre[1])
	}
	// The left tile centre is west of the sheet centre, the right is east.
	if left.Centre[0] >= centre[0] {
		t.Error("left tile centre should be west of the sheet centre")
	}
	if right.Centre[0] <= centre[0] {
		t.Error("right tile centre should be east of the sheet centre")
	}
	// Adjacent tiles are separated by half the sum of their widths.
	gap := right.Centre[0] - left.Centre[0]
	want := im.metres(float64(left.Width+right.Width) / 2)
	if math.Abs(gap-want) > 1e-6 {
		t.Errorf("tile gap = %v, want %v", gap, want)
	}
}

func encodePNG(t *testing.T, w, h int, c color.Color) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png.Encode: %v", err)
	}
	return buf.Bytes()
}

func TestFetchStitchesTiles(t *testing.T) {
	// Colour tiles by fetch order so paste positions are observable.
	colours := []color.RGBA{
		{R: 255, A: 255}, // first tile: top-left
		{B: 255, A: 255}, // second tile: top-right
	}
	var requests int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var tw, th int
		if _, err := fmt.Sscanf(r.URL.Query().Get("size"), "%d,%d", &tw, &th); err != nil {
			t.Errorf("bad size param: %v", err)
		}
		c := colours[requests%len(colours)]
		requests++
		w.Write(encodePNG(t, tw, th, c))
	}))
	defer server.Close()

	client := listmap.NewClient(server.URL, nil)
	im, err := New(client, testLocation(), testSheet(t), 25000, 2)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	data, err := im.Fetch(context.Background(), false)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if requests != 2 {
		t.Errorf("requests = %d, want 2", requests)
	}

	stitched, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decoding stitched image: %v", err)
	}
	if b := stitched.Bounds(); b.Dx() != 760 || b.Dy() != 492 {
		t.Fatalf("stitched size = %d×%d, want 760×492", b.Dx(), b.Dy())
	}

	r, _, _, _ := stitched.At(10, 10).RGBA()
	if r>>8 != 255 {
		t.Error("left region should hold the first tile")
	}
	_, _, b, _ := stitched.At(700, 10).RGBA()
	if b>>8 != 255 {
		t.Error("right region should hold the second tile")
	}
}

func TestFetchUndecodableTile(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>service error page</html>"))
	}))
	defer server.Close()

	client := listmap.NewClient(server.URL, nil)
	im, err := New(client, testLocation(), testSheet(t), 25000, 3)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	_, err = im.Fetch(context.Background(), false)
	if !errors.Is(err, errors.ErrCodeRender) {
		t.Errorf("err = %v, want RENDER_ERROR", err)
	}
}

func TestFetchNetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.URL.Path, "export") {
			http.Error(w, "gone", http.StatusBadGateway)
			return
		}
		http.NotFound(w, r)
	}))
	defer server.Close()

	client := listmap.NewClient(server.URL, nil)
	im, err := New(client, testLocation(), testSheet(t), 25000, 3)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	_, err = im.Fetch(context.Background(), false)
	if !errors.Is(err, errors.ErrCodeNetwork) {
		t.Errorf("err = %v, want NETWORK_ERROR", err)
	}
}
