package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"

	"hospot/internal/apiclient"
	"hospot/internal/auth"
	"hospot/internal/config"
	applog "hospot/internal/log"
	"hospot/internal/notify"
	"hospot/internal/repos"
	"hospot/internal/server"
)

var version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:   "hospot",
		Short: "Hospital bed booking and pharmacy service",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(apiCmd())
	rootCmd.AddCommand(webCmd())
	rootCmd.AddCommand(seedCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// setup loads config, wires file logging and error reporting.
func setup() (config.Config, func()) {
	cfg := config.Load()

	// Optional file logging
	writers := []io.Writer{os.Stdout}
	var logFile *os.File
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			l := applog.Logger()
			l.Warn().Err(err).Str("file", cfg.LogFile).Msg("could not open log file")
		} else {
			logFile = f
			writers = append(writers, f)
		}
	}
	applog.Setup(cfg.LogLevel, writers...)

	flush, err := server.InitSentry(cfg, version)
	if err != nil {
		l := applog.Logger()
		l.Warn().Err(err).Msg("sentry disabled")
	}
	return cfg, func() {
		flush()
		if logFile != nil {
			_ = logFile.Close()
		}
	}
}

func openDB(cfg config.Config) (*sqlx.DB, error) {
	db, err := repos.OpenDB(cfg.DBDSN)
	if err != nil {
		l := applog.Logger()
		l.Error().Err(err).Str("dsn", cfg.DBDSN).Msg("open database")
		return nil, fmt.Errorf("open database %q: %w", cfg.DBDSN, err)
	}
	return db, nil
}

func buildAPI(cfg config.Config, db *sqlx.DB) *fiber.App {
	return server.NewAPI(cfg, db, notify.New(cfg))
}

func buildWeb(cfg config.Config, db *sqlx.DB) *fiber.App {
	var store auth.ValueStore
	if db != nil {
		store = repos.NewSessionRepo(db)
	}
	client := apiclient.New(cfg.APIBaseURL, cfg.APITimeout)
	return server.NewWeb(cfg, client, auth.FactoryFor(cfg, store), server.WebOptions{})
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the API and the web app in one process",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, done := setup()
			defer done()
			db, err := openDB(cfg)
			if err != nil {
				return err
			}
			defer db.Close()
			return run(map[string]*fiber.App{
				":" + cfg.APIPort: buildAPI(cfg, db),
				":" + cfg.Port:    buildWeb(cfg, db),
			})
		},
	}
}

func apiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "api",
		Short: "Run only the REST API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, done := setup()
			defer done()
			db, err := openDB(cfg)
			if err != nil {
				return err
			}
			defer db.Close()
			return run(map[string]*fiber.App{":" + cfg.APIPort: buildAPI(cfg, db)})
		},
	}
}

func webCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "web",
		Short: "Run only the web app against API_BASE_URL",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, done := setup()
			defer done()
			// The web app reads no domain data itself; a database is only
			// needed for server-side sessions.
			var db *sqlx.DB
			if cfg.SessionStore == "db" {
				var err error
				if db, err = openDB(cfg); err != nil {
					return err
				}
				defer db.Close()
			}
			return run(map[string]*fiber.App{":" + cfg.Port: buildWeb(cfg, db)})
		},
	}
}

func seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Create the schema and demo catalog if missing",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, done := setup()
			defer done()
			db, err := openDB(cfg)
			if err != nil {
				return err
			}
			defer db.Close()

			hospitals, err := repos.NewHospitalRepo(db).List("", 0)
			if err != nil {
				return err
			}
			meds, err := repos.NewMedicineRepo(db).List(repos.MedicineFilter{}, 0)
			if err != nil {
				return err
			}
			l := applog.Logger()
			l.Info().Str("action", "seed.done").Int("hospitals", len(hospitals)).Int("medicines", len(meds)).Msg("database ready")
			return nil
		},
	}
}

// run listens on every address and shuts all apps down on SIGINT/SIGTERM.
func run(apps map[string]*fiber.App) error {
	errc := make(chan error, len(apps))
	for addr, app := range apps {
		l := applog.Logger()
		l.Info().Str("action", "server.start").Str("addr", addr).Str("version", version).Msg("listening")
		go func(addr string, app *fiber.App) {
			errc <- app.Listen(addr)
		}(addr, app)
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	var err error
	select {
	case <-quit:
	case err = <-errc:
	}

	l := applog.Logger()
	l.Info().Str("action", "server.stop").Msg("shutting down")
	for _, app := range apps {
		if serr := app.ShutdownWithTimeout(10 * time.Second); serr != nil {
			l.Error().Err(serr).Msg("shutdown")
		}
	}
	return err
}
