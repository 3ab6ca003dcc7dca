// Package geo resolves map locations and converts between geographic and
// projected coordinates.
//
// Locations are carried as WGS84 latitude/longitude alongside their
// EPSG:3857 (Web Mercator) projection, which is the coordinate system the
// ListMap services speak. Projection runs locally through paulmach/orb
// rather than round-tripping through the ArcGIS geometry service.
package geo

import (
	"strconv"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/project"

	"github.com/tastopo/tastopo/pkg/errors"
)

// Location is a resolved map centre. Immutable once constructed; Translate
// returns a shifted copy.
type Location struct {
	// Name is the display name: a place name for lookups, or the geo URI
	// for coordinate input.
	Name string

	// Lat and Lon are WGS84 decimal degrees.
	Lat, Lon float64

	// Point is the location projected to EPSG:3857, in metres.
	Point orb.Point
}

// FromLatLon builds a Location from WGS84 decimal degrees.
func FromLatLon(name string, lat, lon float64) Location {
	return Location{
		Name:  name,
		Lat:   lat,
		Lon:   lon,
		Point: project.WGS84.ToMercator(orb.Point{lon, lat}),
	}
}

// FromMercator builds a Location from an EPSG:3857 coordinate, deriving the
// geographic position by inverse projection.
func FromMercator(name string, p orb.Point) Location {
	ll := project.Mercator.ToWGS84(p)
	return Location{Name: name, Lat: ll[1], Lon: ll[0], Point: p}
}

// IsURI reports whether the description is a geo URI rather than a place name.
func IsURI(description string) bool {
	return strings.HasPrefix(description, "geo:")
}

// FromURI parses a geo URI of the form "geo:lat,lon". URI parameters after
// a semicolon are ignored. Malformed coordinates yield a PARSE_ERROR.
func FromURI(uri string) (Location, error) {
	raw, ok := strings.CutPrefix(uri, "geo:")
	if !ok {
		return Location{}, errors.New(errors.ErrCodeParse, "not a geo URI: %q", uri)
	}
	// Strip parameters such as ";u=10".
	raw, _, _ = strings.Cut(raw, ";")

	lat, lon, err := parseCoordinates(raw)
	if err != nil {
		return Location{}, err
	}
	loc := FromLatLon(uri, lat, lon)
	return loc, nil
}

func parseCoordinates(raw string) (lat, lon float64, err error) {
	latStr, lonStr, ok := strings.Cut(raw, ",")
	if !ok {
		return 0, 0, errors.New(errors.ErrCodeParse, "geo URI must contain lat,lon coordinates: %q", raw)
	}
	lat, err = strconv.ParseFloat(latStr, 64)
	if err != nil {
		return 0, 0, errors.New(errors.ErrCodeParse, "invalid latitude %q", latStr)
	}
	lon, err = strconv.ParseFloat(lonStr, 64)
	if err != nil {
		return 0, 0, errors.New(errors.ErrCodeParse, "invalid longitude %q", lonStr)
	}
	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return 0, 0, errors.New(errors.ErrCodeParse, "coordinates out of range: %s,%s", latStr, lonStr)
	}
	return lat, lon, nil
}

// URI returns the geo URI for the location.
func (l Location) URI() string {
	return "geo:" + formatDegrees(l.Lat) + "," + formatDegrees(l.Lon)
}

func formatDegrees(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Translate returns a copy of the location shifted by (-dx, -dy) metres in
// projected space. The sign inversion makes positive offsets move the
// located feature right and up on the printed sheet.
func (l Location) Translate(dx, dy int) Location {
	if dx == 0 && dy == 0 {
		return l
	}
	p := orb.Point{l.Point[0] - float64(dx), l.Point[1] - float64(dy)}
	moved := FromMercator(l.Name, p)
	return moved
}
