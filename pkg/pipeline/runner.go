package pipeline

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/tastopo/tastopo/pkg/buildinfo"
	"github.com/tastopo/tastopo/pkg/errors"
	"github.com/tastopo/tastopo/pkg/geo"
	"github.com/tastopo/tastopo/pkg/integrations/listmap"
	"github.com/tastopo/tastopo/pkg/layout"
	"github.com/tastopo/tastopo/pkg/mapimage"
	"github.com/tastopo/tastopo/pkg/paper"
	"github.com/tastopo/tastopo/pkg/render"
)

// PlacePicker chooses between candidate places when a lookup is ambiguous.
// The CLI installs an interactive picker on a terminal; without one the
// run fails listing the candidates.
type PlacePicker func(ctx context.Context, name string, candidates []listmap.Place) (listmap.Place, error)

// Runner executes the generation pipeline.
type Runner struct {
	listmap     *listmap.Client
	declination layout.DeclinationSource
	picker      PlacePicker
	logger      *log.Logger
}

// Result summarizes a completed run.
type Result struct {
	// OutputPath is the file the sheet was written to.
	OutputPath string

	// Size is the number of bytes written.
	Size int

	// SheetID is the unique id embedded in the sheet footer.
	SheetID string

	// Location is the resolved (and translated) map centre.
	Location geo.Location

	// Title is the effective sheet title.
	Title string

	// Declination reports whether the sheet footer carries a
	// declination entry.
	Declination bool
}

// NewRunner creates a pipeline runner. The declination source and picker
// may be nil; the logger defaults to log.Default().
func NewRunner(lm *listmap.Client, decl layout.DeclinationSource, picker PlacePicker, logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{listmap: lm, declination: decl, picker: picker, logger: logger}
}

// Run executes the full pipeline for the given options.
func (r *Runner) Run(ctx context.Context, opts Options) (*Result, error) {
	if !opts.validated {
		if err := opts.ValidateAndSetDefaults(); err != nil {
			return nil, err
		}
	}

	location, err := r.locate(ctx, opts)
	if err != nil {
		return nil, err
	}
	if opts.TranslateX != 0 || opts.TranslateY != 0 {
		location = location.Translate(opts.TranslateX, opts.TranslateY)
		r.logger.Debugf("Translated centre by (%d, %d) m to %s", opts.TranslateX, opts.TranslateY, location.URI())
	}

	sheet, err := paper.NewSheet(opts.Paper, opts.Portrait)
	if err != nil {
		return nil, err
	}

	image, err := mapimage.New(r.listmap, location, sheet, opts.Scale, opts.Zoom)
	if err != nil {
		return nil, err
	}

	w, h := image.Size()
	r.logger.Infof("Fetching %d×%d px of %s imagery (%d tiles)", w, h, mapimage.BaseLayer, image.Tiles())
	start := time.Now()
	imageData, err := image.Fetch(ctx, opts.Refresh)
	if err != nil {
		return nil, err
	}
	r.logger.Infof("Fetched imagery (%s)", time.Since(start).Round(time.Millisecond))

	l := layout.New(sheet, location, image)
	l.Title = opts.Title
	l.Grid = !opts.NoGrid
	l.Declination = r.declination
	l.Details = layout.Details{
		Version: buildinfo.Version,
		Created: time.Now(),
		SheetID: uuid.NewString()[:8],
	}

	doc, err := l.Compose(ctx, imageData)
	if err != nil {
		return nil, err
	}

	data, err := render.Export(doc, opts.Format)
	if err != nil {
		return nil, err
	}

	path := outputPath(opts, doc.Title())
	if err := render.WriteFile(path, data); err != nil {
		return nil, err
	}
	r.logger.Infof("Generated %s", path)

	return &Result{
		OutputPath:  path,
		Size:        len(data),
		SheetID:     l.Details.SheetID,
		Location:    location,
		Title:       doc.Title(),
		Declination: doc.Declination(),
	}, nil
}

// outputPath returns the explicit output path, or derives one from the
// sheet title.
func outputPath(opts Options, title string) string {
	if opts.Out != "" {
		return opts.Out
	}
	return Slugify(title) + "." + opts.Format
}

// locate resolves the location option into a map centre: geo URIs parse
// locally, anything else goes through the place search.
func (r *Runner) locate(ctx context.Context, opts Options) (geo.Location, error) {
	if geo.IsURI(opts.Location) {
		loc, err := geo.FromURI(opts.Location)
		if err != nil {
			return geo.Location{}, err
		}
		r.logger.Debugf("Parsed %s", loc.URI())
		return loc, nil
	}

	places, err := r.listmap.FindPlace(ctx, opts.Location, opts.Refresh)
	if err != nil {
		return geo.Location{}, err
	}

	place, err := r.selectPlace(ctx, opts.Location, places)
	if err != nil {
		return geo.Location{}, err
	}
	loc := geo.FromMercator(place.Name, place.Point)
	r.logger.Infof("Resolved %q to %s", place.Name, loc.URI())
	return loc, nil
}

// selectPlace applies the ambiguity policy: an exact name match wins, a
// lone candidate is accepted, and anything else needs the picker.
func (r *Runner) selectPlace(ctx context.Context, name string, places []listmap.Place) (listmap.Place, error) {
	if strings.EqualFold(places[0].Name, name) || len(places) == 1 {
		return places[0], nil
	}
	if r.picker != nil {
		return r.picker(ctx, name, places)
	}

	names := make([]string, 0, len(places))
	for _, p := range places {
		names = append(names, p.Name)
	}
	return listmap.Place{}, errors.New(errors.ErrCodeLookup,
		"location %q is ambiguous, matches: %s", name, strings.Join(names, ", "))
}
