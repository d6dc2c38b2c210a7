package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"

	"cubograf/m/domain"
	"cubograf/m/internal/api"
	"cubograf/m/internal/auth"
	"cubograf/m/internal/config"
	"cubograf/m/internal/database"
	"cubograf/m/internal/metrics"
	"cubograf/m/internal/migrations"
	"cubograf/m/internal/scheduler"
	"cubograf/m/internal/seed"
	"cubograf/m/internal/service"
	"cubograf/m/internal/store"
)

func main() {
	app := &cli.App{
		Name:  "cubo",
		Usage: "Cubo Gráfica back office",
		Action: func(c *cli.Context) error {
			return serve(c.Context)
		},
		Commands: []*cli.Command{
			{
				Name:  "serve",
				Usage: "run the HTTP server",
				Action: func(c *cli.Context) error {
					return serve(c.Context)
				},
			},
			{
				Name:  "migrate",
				Usage: "apply database migrations and exit",
				Action: func(c *cli.Context) error {
					_, log, db, err := bootstrap()
					if err != nil {
						return err
					}
					defer db.Close()
					version, err := migrations.Version(db)
					if err != nil {
						return err
					}
					log.Info().Int64("version", version).Msg("schema up to date")
					return nil
				},
			},
			{
				Name:  "adduser",
				Usage: "create a user account",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "username", Required: true},
					&cli.StringFlag{Name: "password", Required: true},
					&cli.StringFlag{Name: "role", Value: domain.RoleSeller, Usage: "admin or vendedor"},
				},
				Action: func(c *cli.Context) error {
					cfg, log, db, err := bootstrap()
					if err != nil {
						return err
					}
					defer db.Close()
					st := store.New(db)
					mgr := auth.NewManager(st.Users, st.Sessions, cfg.Secret, cfg.SessionTTL, cfg.CookieSecure)
					user, err := mgr.CreateUser(c.Context, c.String("username"), c.String("password"), c.String("role"))
					if err != nil {
						return err
					}
					log.Info().Int64("id", user.ID).Str("username", user.Username).Str("role", user.Role).Msg("user created")
					return nil
				},
			},
			{
				Name:  "close-month",
				Usage: "close a month and carry unfinished orders over",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "mes", Required: true},
					&cli.IntFlag{Name: "ano", Required: true},
				},
				Action: func(c *cli.Context) error {
					_, log, db, err := bootstrap()
					if err != nil {
						return err
					}
					defer db.Close()
					svc := service.New(store.New(db), log, metrics.New())
					closing, err := svc.CloseMonth(c.Context, domain.Period{Year: c.Int("ano"), Month: c.Int("mes")})
					if err != nil {
						return err
					}
					log.Info().
						Float64("total_receitas", closing.TotalRevenue).
						Float64("total_custos", closing.TotalCost).
						Int("ordens_transferidas", closing.OrdersMoved).
						Msg("month closed")
					return nil
				},
			},
			{
				Name:  "import-legacy",
				Usage: "import orders, purchases and payables from the legacy JSON files",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "dir", Value: ".", Usage: "directory holding the legacy JSON files"},
				},
				Action: func(c *cli.Context) error {
					_, log, db, err := bootstrap()
					if err != nil {
						return err
					}
					defer db.Close()
					counts, err := seed.ImportLegacy(c.Context, db, c.String("dir"), log)
					if err != nil {
						return err
					}
					log.Info().
						Int("orders", counts.Orders).
						Int("purchases", counts.Purchases).
						Int("payables", counts.Payables).
						Int("skipped", counts.Skipped).
						Msg("legacy import finished")
					return nil
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newLogger(cfg config.Config) zerolog.Logger {
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.LogLevel))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.TimeFieldFormat = time.RFC3339
	var log zerolog.Logger
	if cfg.LogFormat == "json" {
		log = zerolog.New(os.Stdout)
	} else {
		log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.Kitchen})
	}
	return log.Level(level).With().Timestamp().Str("service", "cubo").Logger()
}

// bootstrap loads configuration, opens the database and migrates it.
func bootstrap() (config.Config, zerolog.Logger, *sqlx.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, zerolog.Nop(), nil, err
	}
	log := newLogger(cfg)
	for _, w := range cfg.Warnings {
		log.Warn().Msg(w)
	}

	db, err := database.Connect(cfg.DatabaseDriver, cfg.DatabaseDSN)
	if err != nil {
		return cfg, log, nil, err
	}
	if err := migrations.Run(db, cfg.DatabaseDriver); err != nil {
		db.Close()
		return cfg, log, nil, err
	}
	return cfg, log, db, nil
}

func serve(ctx context.Context) error {
	cfg, log, db, err := bootstrap()
	if err != nil {
		return err
	}
	defer db.Close()

	st := store.New(db)
	m := metrics.New()
	svc := service.New(st, log, m)
	mgr := auth.NewManager(st.Users, st.Sessions, cfg.Secret, cfg.SessionTTL, cfg.CookieSecure)

	if err := seed.EnsureAdmin(ctx, st.Users, mgr, cfg.AdminUsername, cfg.AdminPassword, log); err != nil {
		return err
	}

	jobs := scheduler.New(log)
	if err := jobs.AddSessionPurge("@hourly", mgr); err != nil {
		return err
	}
	if cfg.CloseMonthCron != "" {
		if err := jobs.AddMonthClose(cfg.CloseMonthCron, svc); err != nil {
			return err
		}
	}
	jobs.Start()

	handler := api.New(svc, mgr, m, log, api.Options{
		CORSOrigins: cfg.CORSOrigins,
		LoginRate:   cfg.LoginRate,
		LoginBurst:  cfg.LoginBurst,
		TrustProxy:  cfg.TrustProxy,
	})
	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           handler.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Str("driver", cfg.DatabaseDriver).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return errors.Wrap(err, "server error")
		}
	case <-ctx.Done():
		log.Info().Msg("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	jobs.Stop(shutdownCtx)
	return srv.Shutdown(shutdownCtx)
}
