package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/calder/axial/internal/transport/rest"
)

// NewServeCommand creates the serve subcommand
func NewServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the assessment HTTP API",
		Long: `Start the HTTP API for creating assessments, recording answers and running
analyses. Listens on the configured address (default 127.0.0.1:8475) until
interrupted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := loadEnvironment(cmd)
			if err != nil {
				return err
			}
			s, err := env.openStore()
			if err != nil {
				return err
			}
			defer s.Close()

			addr, _ := cmd.Flags().GetString("addr")
			if addr == "" {
				addr = env.cfg.ListenAddr
			}

			router := rest.NewRouter(&rest.Container{
				Store:       s,
				Questions:   env.questions,
				Catalog:     env.catalog,
				HybridAlpha: env.cfg.HybridAlpha,
				Log:         env.log,
			})

			server := &http.Server{
				Addr:              addr,
				Handler:           router,
				ReadHeaderTimeout: 10 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				env.log.Infof("listening on %s", addr)
				errCh <- server.ListenAndServe()
			}()

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

			select {
			case err := <-errCh:
				return fmt.Errorf("server failed: %w", err)
			case sig := <-sigCh:
				env.log.Infof("received %s, shutting down", sig)
			}

			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := server.Shutdown(ctx); err != nil {
				return fmt.Errorf("shutdown: %w", err)
			}
			return nil
		},
		SilenceUsage: true,
	}

	addCommonFlags(cmd)
	cmd.Flags().String("addr", "", "Listen address (overrides config)")

	return cmd
}
