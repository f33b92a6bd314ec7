package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/colstats/mortality/pkg/api"
)

func serveCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Build the dataset and serve the aggregation API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, builder, err := setup(*configPath)
			if err != nil {
				return err
			}
			defer log.Sync() //nolint:errcheck

			// Build up front so a missing source fails the process at
			// startup, not on the first query.
			ds, err := builder.Dataset()
			if err != nil {
				return err
			}
			sum := ds.Summarize()
			log.Info("serving",
				zap.String("addr", cfg.Server.Addr),
				zap.Int("total_deaths", sum.TotalDeaths),
				zap.Int("departments", sum.Departments),
				zap.Int("municipalities", sum.Municipalities),
			)

			srv := &http.Server{
				Addr:         cfg.Server.Addr,
				Handler:      api.NewServer(builder, log).Router(),
				ReadTimeout:  15 * time.Second,
				WriteTimeout: 30 * time.Second,
				IdleTimeout:  60 * time.Second,
			}

			errs := make(chan error, 1)
			go func() {
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errs <- err
				}
			}()

			quit := make(chan os.Signal, 1)
			signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

			select {
			case err := <-errs:
				return err
			case sig := <-quit:
				log.Info("shutting down", zap.String("signal", sig.String()))
			}

			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return srv.Shutdown(ctx)
		},
	}
}
