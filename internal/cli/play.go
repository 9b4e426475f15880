package cli

import (
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/robalobadob/matchboard/internal/config"
	"github.com/robalobadob/matchboard/internal/daily"
	"github.com/robalobadob/matchboard/internal/dataset"
	"github.com/robalobadob/matchboard/internal/tui"
)

type playFlags struct {
	dataset string
	seed    int64
	noColor bool
	daily   bool
	lang    string
}

func newPlayCmd(configFile *string) *cobra.Command {
	var f playFlags
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play a board in the terminal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configFile)
			if err != nil {
				return err
			}
			setupLogging("warn", cmd.ErrOrStderr(), true)

			path := f.dataset
			if path == "" {
				path = cfg.DatasetFile
			}
			ds, err := dataset.Open(path)
			if err != nil {
				return fmt.Errorf("load dataset: %w", err)
			}
			for _, p := range ds.Validate() {
				log.Warn().Str("problem", p.String()).Msg("dataset")
			}

			opts := tui.Options{
				Lang:   f.lang,
				Color:  !f.noColor,
				Bell:   cfg.Sound,
				Logger: &log.Logger,
			}
			switch {
			case cmd.Flags().Changed("seed"):
				opts.Rand = rand.New(rand.NewSource(f.seed))
			case f.daily:
				opts.Rand = daily.Rand(time.Now(), cfg.DailySalt)
			}
			g, err := tui.NewGame(ds, cmd.OutOrStdout(), opts)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			return g.Run(ctx, cmd.InOrStdin())
		},
	}
	cmd.Flags().StringVar(&f.dataset, "dataset", "", "dataset file, JSON or YAML (default: embedded PMBOK set)")
	cmd.Flags().Int64Var(&f.seed, "seed", 0, "shuffle seed for a repeatable pool order")
	cmd.Flags().BoolVar(&f.daily, "daily", false, "play the board of the day (ignored with --seed)")
	cmd.Flags().BoolVar(&f.noColor, "no-color", false, "disable ANSI colours")
	cmd.Flags().StringVar(&f.lang, "lang", "en", "message catalogue language")
	return cmd
}
