package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/gemvoyage/web/internal/api"
	"github.com/gemvoyage/web/internal/comments"
	"github.com/gemvoyage/web/internal/config"
	"github.com/gemvoyage/web/internal/gems"
	"github.com/gemvoyage/web/internal/profile"
	"github.com/gemvoyage/web/internal/render"
	"github.com/gemvoyage/web/internal/session"
	"github.com/gemvoyage/web/internal/storage"
	"github.com/gemvoyage/web/internal/voting"
)

// app is the state shared by all commands of one invocation.
type app struct {
	// Global flags
	verbose     bool
	apiURL      string
	storagePath string

	cfg      config.Config
	logger   *zap.Logger
	store    *storage.FileStore
	client   *api.Client
	session  *session.Session
	renderer *render.Renderer

	// markdown overrides the terminal style detection.
	markdown []glamour.TermRendererOption
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(&app{}).ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "gemvoyage",
		Short: "GemVoyage - discover hidden gems from the terminal",
		Long: `gemvoyage browses, votes on and comments on the hidden gems shared on GemVoyage.

The login state of this device is kept in a YAML file (see --storage), so
a login survives between invocations. "gemvoyage serve" runs the web front.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Enable verbose logging")
	root.PersistentFlags().StringVar(&a.apiURL, "api-url", "", "Backend API base URL (default from GEMVOYAGE_API_BASE_URL)")
	root.PersistentFlags().StringVar(&a.storagePath, "storage", "", "Device storage file (default ~/.gemvoyage/storage.yaml)")

	root.AddCommand(
		newServeCmd(a),
		newBrowseCmd(a),
		newLatestCmd(a),
		newCitiesCmd(a),
		newCityCmd(a),
		newGemCmd(a),
		newVoteCmd(a),
		newCommentCmd(a),
		newCreateCmd(a),
		newLoginCmd(a),
		newRegisterCmd(a),
		newLogoutCmd(a),
		newResendCmd(a),
		newProfileCmd(a),
		newSitemapCmd(a),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command) error {
	if a.logger == nil {
		zcfg := zap.NewProductionConfig()
		if a.verbose {
			zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		logger, err := zcfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		a.logger = logger
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if a.apiURL != "" {
		cfg.APIBaseURL = a.apiURL
	}
	if a.storagePath != "" {
		cfg.StoragePath = a.storagePath
	}
	a.cfg = cfg

	a.store = storage.NewFileStore(cfg.StoragePath)
	a.client = api.NewClient(cfg.APIBaseURL, api.WithTimeout(cfg.RequestTimeout))
	a.session = session.New(a.client, a.store, a.logger)

	a.renderer, err = render.New(a.markdown...)
	if err != nil {
		return err
	}
	a.logger.Debug("cli ready",
		zap.String("command", cmd.Name()),
		zap.String("api", cfg.APIBaseURL),
		zap.String("storage", a.store.Path()))
	return nil
}

// flows builds the services for this device, authorized when logged in.
type flows struct {
	votes    *voting.Service
	comments *comments.Service
	profile  *profile.Service
	gems     *gems.Service
}

func (a *app) flows(ctx context.Context) *flows {
	client := a.session.Client(ctx)
	f := &flows{
		votes:    voting.NewService(client, a.session, a.logger),
		comments: comments.NewService(client, a.session, a.logger),
		profile:  profile.NewService(client, a.session, a.logger),
	}
	f.gems = gems.NewService(client, a.session, f.votes, f.comments, f.profile, a.logger)
	return f
}

func writeln(w io.Writer, s string) {
	fmt.Fprintln(w, s)
}
