package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/phrazzld/flashdeck/internal/config"
	"github.com/phrazzld/flashdeck/internal/platform/logger"
	"github.com/spf13/cobra"
)

// shutdownTimeout bounds the final flush and the HTTP server shutdown.
const shutdownTimeout = 10 * time.Second

// rootOptions holds the persistent flags. Flags left unset keep the value
// from the config file or environment.
type rootOptions struct {
	configFile string
	logLevel   string
	driver     string
	path       string
	seed       uint64
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:          "flashdeck",
		Short:        "Flashcards with shuffled study sessions",
		SilenceUsage: true,
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.configFile, "config", "", "config file (default ./flashdeck.yaml)")
	flags.StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn or error")
	flags.StringVar(&opts.driver, "storage-driver", "", "storage backend: sqlite, file or memory")
	flags.StringVar(&opts.path, "storage-path", "", "database file (sqlite) or directory (file)")

	cmd.AddCommand(
		newServeCmd(opts),
		newStatsCmd(opts),
		newStudyCmd(opts),
		newCardCmd(opts),
	)

	return cmd
}

// loadConfig reads the configuration and applies the flag overrides.
func (o *rootOptions) loadConfig() (*config.Config, error) {
	cfg, err := config.LoadFile(o.configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if o.logLevel != "" {
		cfg.Log.Level = o.logLevel
	}
	if o.driver != "" && o.driver != cfg.Storage.Driver {
		cfg.Storage.Driver = o.driver
		cfg.Storage.Path = defaultPath(o.driver)
	}
	if o.path != "" {
		cfg.Storage.Path = o.path
	}
	if o.seed != 0 {
		cfg.Study.Seed = o.seed
	}

	return cfg, nil
}

func defaultPath(driver string) string {
	switch driver {
	case config.DriverSQLite:
		return config.DefaultSQLitePath
	case config.DriverFile:
		return config.DefaultFilePath
	default:
		return ""
	}
}

// run builds the application with logs on stderr, calls fn and flushes
// the store afterwards. The flush runs even when fn fails.
func (o *rootOptions) run(cmd *cobra.Command, fn func(ctx context.Context, app *application) error) error {
	cfg, err := o.loadConfig()
	if err != nil {
		return err
	}

	log := logger.New(cfg.Log, cmd.ErrOrStderr())

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = logger.WithLogger(ctx, log)

	app, err := newApplication(ctx, cfg, log)
	if err != nil {
		return err
	}

	runErr := fn(ctx, app)

	cleanupCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	return errors.Join(runErr, app.cleanup(cleanupCtx))
}
