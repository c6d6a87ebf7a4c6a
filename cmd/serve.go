package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/KaramelBytes/dataexplorer/internal/catalog"
	cfgpkg "github.com/KaramelBytes/dataexplorer/internal/config"
	"github.com/KaramelBytes/dataexplorer/internal/cue"
	"github.com/KaramelBytes/dataexplorer/internal/interpret"
	"github.com/KaramelBytes/dataexplorer/internal/logger"
	"github.com/KaramelBytes/dataexplorer/internal/server"
	"github.com/KaramelBytes/dataexplorer/internal/wizard"
)

var (
	serveAddr  string
	serveEmbed bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the walkthrough and quiz over HTTP",
	Example: `  dataexplorer serve --addr :8080
  dataexplorer serve --embed`,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := currentConfig()
		if err != nil {
			return err
		}
		log, err := logger.New(c.Env)
		if err != nil {
			return fmt.Errorf("init logger: %w", err)
		}
		defer func() { _ = log.Sync() }()

		req, provider, err := buildRequester(c, runtimeOptions{})
		if err != nil {
			return err
		}
		if !req.Configured() {
			log.Warn("text generation not configured; interpretation requests will fail", zap.String("provider", provider))
		}

		addr := c.ServerAddr
		if serveAddr != "" {
			addr = serveAddr
		}
		srv := server.New(serverOptions(c, log, wizardFactory(c, log, req)))

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Serving on http://%s (embed=%v)\n", addr, serveEmbed)
		return srv.ListenAndServe(ctx, addr)
	},
}

func serverOptions(c *cfgpkg.Global, log *zap.Logger, f server.WizardFactory) server.Options {
	return server.Options{
		Embed:          serveEmbed,
		AllowedOrigins: c.AllowedOrigins,
		PublicURL:      c.PublicURL,
		SessionTTL:     c.SessionTTL(),
		Recipient:      c.ReportRecipient,
		Catalog:        catalog.Default(),
		Questions:      catalog.Questions(),
		NewWizard:      f,
		Logger:         log,
	}
}

// wizardFactory builds one controller per browser session, sharing the requester.
func wizardFactory(c *cfgpkg.Global, log *zap.Logger, req *interpret.Requester) server.WizardFactory {
	timings := &wizard.Timings{FadeOut: c.FadeOut(), FadeIn: c.FadeIn(), CleanDelay: c.CleanDelay()}
	return func(emit cue.Emitter) (*wizard.Controller, error) {
		return wizard.New(wizard.Config{
			Catalog:   catalog.Default(),
			Questions: catalog.Questions(),
			Requester: req,
			Cues:      emit,
			Logger:    log.Named("wizard"),
			Timings:   timings,
		})
	}
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config server_addr)")
	serveCmd.Flags().BoolVar(&serveEmbed, "embed", false, "serve only the walkthrough API and allow framing from other sites")
}
