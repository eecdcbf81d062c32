// Command terminus loads, inspects and converts AMQP link termini the way
// the router sees them.
package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var logger = zerolog.Nop()

// initLogger sends operational logs to w, at debug level when verbose.
func initLogger(w io.Writer, verbose bool) {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	output := zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: time.RFC3339,
	}
	logger = zerolog.New(output).Level(level).With().Timestamp().Str("app", "terminus").Logger()
}

func newRootCmd() *cobra.Command {
	var verbose bool

	rootCmd := &cobra.Command{
		Use:           "terminus",
		Short:         "Inspect and convert AMQP link termini",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			initLogger(cmd.ErrOrStderr(), verbose)
		},
	}
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log at debug level")

	rootCmd.AddCommand(newInspectCmd(), newEncodeCmd(), newDecodeCmd())
	return rootCmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "terminus: %v\n", err)
		os.Exit(1)
	}
}
