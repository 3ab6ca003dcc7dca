// Package geomag looks up magnetic declination from the NOAA geomag-web
// calculator (World Magnetic Model).
//
// Declination is decorative metadata on the sheet; callers treat lookup
// failure as a degraded render, not a fatal error.
package geomag

import (
	"context"
	"net/url"
	"strconv"
	"time"

	"github.com/tastopo/tastopo/pkg/errors"
	"github.com/tastopo/tastopo/pkg/httputil"
	"github.com/tastopo/tastopo/pkg/integrations"
)

// DefaultBaseURL is the NOAA declination calculator endpoint.
const DefaultBaseURL = "https://www.ngdc.noaa.gov/geomag-web/calculators/calculateDeclination"

// Client accesses the declination calculator.
type Client struct {
	*integrations.Client
	key string
}

// NewClient creates a geomag client. baseURL may be empty for production;
// key is the NOAA web service API key (optional for light use).
func NewClient(baseURL, key string, cache *httputil.Cache) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		Client: integrations.NewClient(baseURL, cache.Namespace("geomag:"), url.Values{"resultFormat": {"json"}}),
		key:    key,
	}
}

type declinationResponse struct {
	Result []struct {
		Declination float64 `json:"declination"`
	} `json:"result"`
}

// Declination returns the magnetic declination in degrees (east positive)
// at the given WGS84 coordinate on the given date.
func (c *Client) Declination(ctx context.Context, lat, lon float64, date time.Time) (float64, error) {
	params := url.Values{
		"lat1":       {strconv.FormatFloat(lat, 'f', 6, 64)},
		"lon1":       {strconv.FormatFloat(lon, 'f', 6, 64)},
		"startYear":  {strconv.Itoa(date.Year())},
		"startMonth": {strconv.Itoa(int(date.Month()))},
		"startDay":   {strconv.Itoa(date.Day())},
	}
	if c.key != "" {
		params.Set("key", c.key)
	}

	// Key by coordinate and month; declination drift within a month is
	// far below the displayed precision.
	key := integrations.CacheKey("declination",
		params.Get("lat1"), params.Get("lon1"), date.Format("2006-01"))

	var decl float64
	err := c.Cached(ctx, key, false, &decl, func() error {
		var resp declinationResponse
		if err := c.GetJSON(ctx, "", params, &resp); err != nil {
			return err
		}
		if len(resp.Result) == 0 {
			return errors.New(errors.ErrCodeNetwork, "declination service returned no result")
		}
		decl = resp.Result[0].Declination
		return nil
	})
	if err != nil {
		return 0, err
	}
	return decl, nil
}
