// Package listmap is a client for the ListMap ArcGIS REST services, the
// Tasmanian government mapping platform behind tastopo's place search and
// topographic imagery.
package listmap

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/paulmach/orb"

	"github.com/tastopo/tastopo/pkg/errors"
	"github.com/tastopo/tastopo/pkg/httputil"
	"github.com/tastopo/tastopo/pkg/integrations"
)

// DefaultBaseURL is the production ListMap service root.
const DefaultBaseURL = "https://services.thelist.tas.gov.au/arcgis/rest/services"

const (
	findPath   = "Public/PlacenamePoints/MapServer/find"
	exportPath = "Basemaps/%s/MapServer/export"

	// MaxResolution is the export endpoint's pixel limit per side.
	MaxResolution = 4096
)

// Place is a named feature returned by the place search, positioned in
// EPSG:3857.
type Place struct {
	Name  string    `json:"name"`
	Point orb.Point `json:"point"`
}

// ExportRequest describes one map image export: a layer rendered at a map
// scale around a centre point, in pixels at a given DPI.
type ExportRequest struct {
	Layer  string
	Centre orb.Point
	Scale  float64
	Width  int
	Height int
	DPI    int
}

// Client accesses the ListMap services.
type Client struct {
	*integrations.Client
}

// NewClient creates a ListMap client. baseURL may be empty for production.
// The cache may be nil to disable response caching.
func NewClient(baseURL string, cache *httputil.Cache) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		Client: integrations.NewClient(baseURL, cache.Namespace("listmap:"), url.Values{"f": {"json"}}),
	}
}

type findResponse struct {
	Results []struct {
		Value    string `json:"value"`
		Geometry struct {
			X float64 `json:"x"`
			Y float64 `json:"y"`
		} `json:"geometry"`
	} `json:"results"`
}

// FindPlace searches the place-name layer for features matching name.
// Results preserve service order; an exact (case-insensitive) match is
// moved to the front. A LOOKUP_FAILED error is returned when nothing
// matches at all.
func (c *Client) FindPlace(ctx context.Context, name string, refresh bool) ([]Place, error) {
	key := integrations.CacheKey("find", strings.ToLower(name))

	var places []Place
	err := c.Cached(ctx, key, refresh, &places, func() error {
		var resp findResponse
		err := c.GetJSON(ctx, findPath, url.Values{
			"searchText": {name},
			"layers":     {"0"},
		}, &resp)
		if err != nil {
			return err
		}

		places = places[:0]
		for _, r := range resp.Results {
			p := Place{Name: r.Value, Point: orb.Point{r.Geometry.X, r.Geometry.Y}}
			if strings.EqualFold(r.Value, name) {
				places = append([]Place{p}, places...)
			} else {
				places = append(places, p)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if len(places) == 0 {
		return nil, errors.New(errors.ErrCodeLookup, "location %q not found", name)
	}
	return places, nil
}

// Export fetches a map image in PNG format for the given request.
func (c *Client) Export(ctx context.Context, req ExportRequest, refresh bool) ([]byte, error) {
	if req.Width > MaxResolution || req.Height > MaxResolution {
		return nil, errors.New(errors.ErrCodeConfig, "image dimensions exceed the export limit of %d pixels", MaxResolution)
	}
	params := url.Values{
		"f":        {"image"},
		"format":   {"png24"},
		"bbox":     {fmt.Sprintf("%[1]f,%[2]f,%[1]f,%[2]f", req.Centre[0], req.Centre[1])},
		"mapScale": {strconv.FormatFloat(req.Scale, 'f', -1, 64)},
		"size":     {fmt.Sprintf("%d,%d", req.Width, req.Height)},
		"dpi":      {strconv.Itoa(req.DPI)},
	}
	key := integrations.CacheKey("export", req.Layer, integrations.EncodeParams(params))

	var data []byte
	err := c.Cached(ctx, key, refresh, &data, func() error {
		var err error
		data, err = c.GetBytes(ctx, fmt.Sprintf(exportPath, req.Layer), params)
		return err
	})
	if err != nil {
		return nil, err
	}
	return data, nil
}
