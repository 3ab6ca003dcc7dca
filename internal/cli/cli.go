// Package cli implements the tastopo command-line interface.
//
// The CLI is a thin layer over the pipeline package: commands collect
// flags into pipeline options, wire up the service clients and cache,
// and present progress and results. It is built on cobra with logging
// through charmbracelet/log.
//
// # Commands
//
//   - generate: produce a map sheet for a place name or geo URI
//   - cache: manage the cached service responses
//   - completion: generate shell completion scripts
package cli

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/tastopo/tastopo/pkg/buildinfo"
	"github.com/tastopo/tastopo/pkg/httputil"
	"github.com/tastopo/tastopo/pkg/integrations/geomag"
	"github.com/tastopo/tastopo/pkg/integrations/listmap"
	"github.com/tastopo/tastopo/pkg/pipeline"
)

const (
	// appName names the config and cache directories.
	appName = "tastopo"

	// cacheTTL bounds how long service responses are reused. Place
	// positions and imagery change rarely; a week keeps repeat runs fast
	// without serving stale maps forever.
	cacheTTL = 7 * 24 * time.Hour
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	Config Config
}

// New creates a CLI instance writing logs to w at the given level.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: log.NewWithOptions(w, log.Options{
			ReportTimestamp: true,
			TimeFormat:      "15:04:05.00",
			Level:           level,
		}),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands
// registered. The config file is loaded before any command runs so its
// values can act as flag defaults.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "tastopo",
		Short:        "Tastopo generates printable topographic maps of Tasmania",
		Long:         `Tastopo turns a place name or geo URI into a print-ready topographic map sheet, using imagery from the ListMap service, and exports it as SVG or PDF.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := LoadConfig()
			if err != nil {
				return err
			}
			c.Config = cfg
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.AddCommand(c.generateCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// newRunner wires a pipeline runner from the loaded config: the ListMap
// and declination clients share one response cache, and place selection
// falls back to an interactive picker on a terminal.
func (c *CLI) newRunner(noCache bool) *pipeline.Runner {
	cache := c.newCache(noCache)
	lm := listmap.NewClient(c.Config.ListmapURL, cache)
	decl := geomag.NewClient(c.Config.GeomagURL, c.Config.GeomagKey, cache)

	var picker pipeline.PlacePicker
	if isInteractive() {
		picker = pickPlace
	}
	return pipeline.NewRunner(lm, decl, picker, c.Logger)
}

func (c *CLI) newCache(noCache bool) *httputil.Cache {
	if noCache {
		return nil
	}
	cache, err := httputil.NewCache("", cacheTTL)
	if err != nil {
		c.Logger.Debugf("Cache unavailable: %v", err)
		return nil
	}
	return cache
}
