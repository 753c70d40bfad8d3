package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Zachkp/neon-portfolio/internal/config"
	"github.com/Zachkp/neon-portfolio/internal/contact"
	"github.com/Zachkp/neon-portfolio/internal/content"
	"github.com/Zachkp/neon-portfolio/internal/loading"
	"github.com/Zachkp/neon-portfolio/internal/logging"
	"github.com/Zachkp/neon-portfolio/internal/reveal"
	"github.com/Zachkp/neon-portfolio/internal/session"
	"github.com/Zachkp/neon-portfolio/internal/theme"
	"github.com/Zachkp/neon-portfolio/internal/visibility"
	"github.com/Zachkp/neon-portfolio/internal/web"
)

const pruneInterval = 24 * time.Hour

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the web server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}

		log, err := logging.New(cfg.Log.Level)
		if err != nil {
			return fmt.Errorf("creating logger: %w", err)
		}
		defer func() { _ = log.Sync() }()
		gin.SetMode(cfg.Server.Mode)

		c, err := content.Default()
		if err != nil {
			return fmt.Errorf("loading content: %w", err)
		}

		prefs, err := theme.Open(cfg.Database.Path)
		if err != nil {
			return fmt.Errorf("opening preferences: %w", err)
		}
		defer prefs.Close()

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		go prunePreferences(ctx, prefs, cfg.Database.Retention, log)

		srv, err := web.New(web.Deps{
			Prefs:         prefs,
			Content:       c,
			Session:       sessionConfig(cfg),
			Submitter:     contact.Simulated{Delay: cfg.Contact.SubmitDelay, Log: log.Named("contact")},
			Log:           log,
			SecureCookies: cfg.Server.SecureCookies,
		})
		if err != nil {
			return err
		}
		log.Info("starting portfolio",
			zap.String("version", Version),
			zap.Int("projects", len(c.Projects)),
			zap.String("database", cfg.Database.Path),
		)
		return srv.Run(ctx, cfg.Server.Addr)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func sessionConfig(cfg *config.Config) session.Config {
	sc := session.DefaultConfig()
	sc.Loading = loading.Config{Delay: cfg.Loading.Delay, Retries: cfg.Loading.Retries}
	sc.ActivationLine = cfg.Scroll.ActivationLine
	sc.ScrollThreshold = cfg.Scroll.Threshold
	sc.Visibility = visibility.Options{Threshold: cfg.Visibility.Threshold, Margin: cfg.Visibility.Margin}
	sc.Typing = reveal.CycleOptions{
		Options: reveal.Options{Interval: cfg.Typing.Interval, StartDelay: cfg.Typing.StartDelay},
		Pause:   cfg.Typing.Pause,
	}
	sc.Matrix = cfg.Matrix.Enabled
	sc.FrameInterval = cfg.Matrix.FrameInterval
	return sc
}

// prunePreferences drops preferences untouched for longer than retention,
// once at startup and then daily.
func prunePreferences(ctx context.Context, prefs *theme.Prefs, retention time.Duration, log *zap.Logger) {
	if retention <= 0 {
		return
	}
	ticker := time.NewTicker(pruneInterval)
	defer ticker.Stop()
	for {
		n, err := prefs.Prune(ctx, retention)
		switch {
		case err != nil && ctx.Err() == nil:
			log.Error("pruning preferences", zap.Error(err))
		case n > 0:
			log.Info("pruned stale preferences", zap.Int64("removed", n))
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
