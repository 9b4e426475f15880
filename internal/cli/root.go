// Package cli holds the matchboard command tree.
package cli

import (
	"io"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// Version is overridden at link time.
var Version = "0.1.0"

// NewRootCmd builds the matchboard command and its subcommands.
func NewRootCmd() *cobra.Command {
	var configFile string

	root := &cobra.Command{
		Use:   "matchboard",
		Short: "Drag-and-drop matching board for PMBOK processes",
		Long: `matchboard serves a two-axis matching board in the browser, or plays
one in the terminal. Players place each process into the cell for its
knowledge area and process group; wrong placements are counted.`,
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&configFile, "config", "", "config file (default: ./matchboard.yaml)")

	root.AddCommand(newServeCmd(&configFile))
	root.AddCommand(newPlayCmd(&configFile))
	root.AddCommand(newVersionCmd())
	return root
}

// Execute runs the root command with os.Args.
func Execute() error {
	return NewRootCmd().Execute()
}

// setupLogging sets the global zerolog level and output.
// Unknown levels fall back to info.
func setupLogging(level string, w io.Writer, console bool) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
	if console {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: "15:04:05"}
	}
	log.Logger = zerolog.New(w).With().Timestamp().Logger()
}
