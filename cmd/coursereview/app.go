package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"coursereview/internal/catalog"
	"coursereview/internal/config"
	"coursereview/internal/domain"
	"coursereview/internal/gateway"
	"coursereview/internal/logging"
	"coursereview/internal/reviewcache"
	"coursereview/internal/seed"
	"coursereview/internal/store"
)

// app carries what every subcommand shares. It is filled in by the root
// command's PersistentPreRunE.
type app struct {
	configFile string
	logLevel   string
	noColor    bool

	cfg    config.Config
	logger zerolog.Logger
	kv     store.KV
	gw     gateway.Gateway
}

// .env.local is loaded first because godotenv never overrides a variable
// that is already set.
var envFiles = []string{".env.local", ".env"}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	for _, f := range envFiles {
		_ = godotenv.Load(f)
	}

	cfg, err := config.Load(a.configFile)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.LogLevel = a.logLevel
	}
	if a.noColor {
		color.NoColor = true
	}

	lc := cfg.Logging()
	lc.NoColor = lc.NoColor || a.noColor
	logging.Configure(lc)

	a.cfg = cfg
	a.logger = logging.Default().With().Str("command", cmd.Name()).Logger()
	a.kv = store.NewFileKV(cfg.StatePath)
	a.gw = gateway.New(cfg.APIBaseURL, cfg.FetchTimeout)

	a.logger.Debug().
		Str("api_base_url", cfg.APIBaseURL).
		Str("state_path", cfg.StatePath).
		Str("config_file", cfg.ConfigFile).
		Msg("Configuration loaded")
	return nil
}

func (a *app) seedCourses() ([]domain.Course, error) {
	if a.cfg.SeedFile == "" {
		return seed.Default(), nil
	}
	return seed.LoadFile(a.cfg.SeedFile)
}

func (a *app) openCatalog() (*catalog.Catalog, error) {
	courses, err := a.seedCourses()
	if err != nil {
		return nil, err
	}
	return catalog.New(a.gw, store.NewBookmarkStore(a.kv), courses,
		catalog.WithLogger(a.logger),
		catalog.WithSeedPolicy(a.cfg.SeedPolicy),
		catalog.WithReviewCounts(a.cfg.ReviewCounts),
		catalog.WithRetry(a.cfg.Retry()),
	)
}

// refreshed opens the catalog and refreshes it unless offline is set. A
// failed refresh is reported on w and the local snapshot is used.
func (a *app) refreshed(ctx context.Context, w io.Writer, offline bool) (*catalog.Catalog, error) {
	cat, err := a.openCatalog()
	if err != nil {
		return nil, err
	}
	if offline {
		return cat, nil
	}
	if err := cat.Refresh(ctx); err != nil {
		warn(w, "Could not reach %s, showing saved data: %v", a.cfg.APIBaseURL, err)
	}
	return cat, nil
}

func (a *app) reviewCache() *reviewcache.Cache {
	return reviewcache.New(a.gw, reviewcache.WithLogger(a.logger))
}

func warn(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, color.YellowString("Warning: "+format, args...))
}

func success(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, color.GreenString(format, args...))
}

func heading(w io.Writer, s string) {
	fmt.Fprintln(w, color.New(color.FgCyan, color.Bold).Sprint(s))
}

func joinOrDash(values []string) string {
	if len(values) == 0 {
		return "-"
	}
	return strings.Join(values, ", ")
}
