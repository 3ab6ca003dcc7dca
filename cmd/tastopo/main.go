package main

import (
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/tastopo/tastopo/internal/cli"
	"github.com/tastopo/tastopo/pkg/errors"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	var debug bool
	if err := run(ctx, &debug); err != nil {
		if stderrors.Is(err, context.Canceled) {
			os.Exit(130) // Standard shell convention for SIGINT
		}
		if debug {
			// Full error chain with codes instead of the short message.
			fmt.Fprintf(os.Stderr, "tastopo: %v\n", err)
		} else {
			fmt.Fprintf(os.Stderr, "tastopo: %s\n", errors.UserMessage(err))
		}
		os.Exit(1)
	}
}

func run(ctx context.Context, debug *bool) error {
	var verbose bool

	c := cli.New(os.Stderr, cli.LogInfo)
	root := c.RootCommand()

	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().BoolVar(debug, "debug", false, "report errors with their full cause chain")

	configPreRun := root.PersistentPreRunE
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if verbose || *debug {
			c.SetLogLevel(cli.LogDebug)
		}
		if configPreRun != nil {
			return configPreRun(cmd, args)
		}
		return nil
	}

	return root.ExecuteContext(ctx)
}
