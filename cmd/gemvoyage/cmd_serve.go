package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gemvoyage/web/internal/server"
	"github.com/gemvoyage/web/internal/sitemap"
)

func newServeCmd(a *app) *cobra.Command {
	var port string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the web front",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := a.cfg
			if port != "" {
				cfg.Port = port
			}
			s, err := server.NewServer(cfg, a.logger)
			if err != nil {
				return err
			}
			defer s.Close()

			srv := s.HTTPServer()
			errCh := make(chan error, 1)
			go func() {
				errCh <- srv.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return fmt.Errorf("http server error: %w", err)
			case <-cmd.Context().Done():
			}

			a.logger.Info("shutting down")
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(ctx); err != nil {
				return fmt.Errorf("server forced to shutdown: %w", err)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&port, "port", "", "Listen port (default from GEMVOYAGE_PORT)")
	return cmd
}

func newSitemapCmd(a *app) *cobra.Command {
	var (
		out     string
		baseURL string
	)
	cmd := &cobra.Command{
		Use:   "sitemap",
		Short: "Generate sitemap.xml from the live gems and cities",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if baseURL == "" {
				baseURL = a.cfg.SiteBaseURL
			}
			g := sitemap.New(a.client, baseURL, sitemap.WithLogger(a.logger))
			if out == "-" {
				return g.Write(cmd.Context(), cmd.OutOrStdout())
			}
			if err := g.WriteFile(cmd.Context(), out); err != nil {
				return err
			}
			a.logger.Info("sitemap written", zap.String("path", out))
			fmt.Fprintf(cmd.OutOrStdout(), "Sitemap saved to: %s\n", out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "public/sitemap.xml", "Output file, - for stdout")
	cmd.Flags().StringVar(&baseURL, "base-url", "", "Public site URL (default from GEMVOYAGE_SITE_BASE_URL)")
	return cmd
}
