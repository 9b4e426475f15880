package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/robalobadob/matchboard/assets"
	"github.com/robalobadob/matchboard/internal/board"
	"github.com/robalobadob/matchboard/internal/config"
	"github.com/robalobadob/matchboard/internal/dataset"
	"github.com/robalobadob/matchboard/internal/httpserver"
	"github.com/robalobadob/matchboard/internal/journal"
	"github.com/robalobadob/matchboard/internal/session"
	"github.com/robalobadob/matchboard/internal/store"
)

func newServeCmd(configFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the board page and its JSON API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configFile)
			if err != nil {
				return err
			}
			setupLogging(cfg.LogLevel, cmd.ErrOrStderr(), false)

			// The board needs its data before anything is served.
			ds, err := dataset.Open(cfg.DatasetFile)
			if err != nil {
				return fmt.Errorf("load dataset: %w", err)
			}
			for _, p := range ds.Validate() {
				log.Warn().Str("problem", p.String()).Msg("dataset")
			}

			j, err := journal.Open(cfg.JournalDSN)
			if err != nil {
				return fmt.Errorf("open journal: %w", err)
			}
			defer j.Close()

			web, err := assets.Web()
			if err != nil {
				return err
			}

			st := store.NewMemoryStore(func(id string, opts ...board.Option) *board.Board {
				return board.New(ds, append([]board.Option{board.WithID(id)}, opts...)...)
			})
			srv := httpserver.New(ds, st, j,
				session.NewManager(cfg.SessionSecret, cfg.SessionTTL, cfg.Production()),
				httpserver.Options{
					ClientOrigin:   cfg.ClientOrigin,
					RequestTimeout: cfg.RequestTimeout,
					IdleBoardTTL:   cfg.IdleBoardTTL,
					DailySalt:      cfg.DailySalt,
					Web:            web,
				})

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			log.Info().
				Str("port", cfg.Port).
				Int("processes", ds.Len()).
				Bool("journal", cfg.JournalDSN != "").
				Msg("starting matchboard")
			return srv.Run(ctx, ":"+cfg.Port)
		},
	}
}
