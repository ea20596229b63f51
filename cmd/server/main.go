package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/redsource/redsource-server/internal/config"
	"github.com/redsource/redsource-server/internal/storage"
	"github.com/redsource/redsource-server/server"
	pgrefreshrepo "github.com/redsource/redsource-server/token/refresh/pgrepo"
	refreshrepofake "github.com/redsource/redsource-server/token/refresh/repofake"
	pguserrepo "github.com/redsource/redsource-server/users/pgrepo"
	fakeuserrepo "github.com/redsource/redsource-server/users/repofake"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"
)

type flags struct {
	port    string
	migrate bool
}

func main() {
	var f flags
	pflag.StringVarP(&f.port, "port", "p", "", "listen port, overrides PORT")
	pflag.BoolVar(&f.migrate, "migrate", false, "apply the database schema before serving")
	pflag.Parse()

	if err := run(f); err != nil {
		log.Fatal().Err(err).Msg("Error running server")
	}
	log.Info().Msg("Server stopped")
}

func run(f flags) (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Bytes("stack", debug.Stack()).Msg("Recovered from panic")
			returnError = errors.New("panic recovered")
		}
	}()

	c, err := config.Load()
	if err != nil {
		return err
	}
	setupLogging(c)
	displayAppname(c.GetAppName())

	ctx := context.Background()
	repos, db, err := openRepos(ctx, c, f.migrate)
	if err != nil {
		return err
	}
	if db != nil {
		defer db.Close()
	}

	handler, err := server.New(c, repos)
	if err != nil {
		return err
	}

	addr := c.GetPort()
	if f.port != "" {
		addr = ":" + f.port
	}
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() { serveErr <- listenAndServe(httpServer) }()

	select {
	case err := <-serveErr:
		return err
	case <-waitForStopSignal():
	}
	return shutdown(httpServer)
}

func setupLogging(c config.Config) {
	level, err := zerolog.ParseLevel(c.GetLogLevel())
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	if c.GetEnv() == "DEV" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}
}

// openRepos selects Postgres when DATABASE_URL is set and the in-memory
// repositories otherwise.
func openRepos(ctx context.Context, c config.Config, migrate bool) (server.Repos, *sql.DB, error) {
	dsn := c.GetDatabaseURL()
	if dsn == "" {
		log.Warn().Msg("DATABASE_URL not set, using in-memory repositories")
		return server.Repos{
			Users:   fakeuserrepo.NewFakeUserRepo(),
			Refresh: refreshrepofake.NewFakeRefreshTokenRepo(),
		}, nil, nil
	}

	db, err := storage.Open(ctx, dsn)
	if err != nil {
		return server.Repos{}, nil, err
	}
	if migrate {
		if err := storage.Migrate(ctx, db); err != nil {
			_ = db.Close()
			return server.Repos{}, nil, err
		}
		log.Info().Msg("database schema applied")
	}
	return server.Repos{
		Users:   pguserrepo.NewPGUserRepo(db),
		Refresh: pgrefreshrepo.NewPGRefreshTokenRepo(db),
		DB:      db,
	}, db, nil
}

func listenAndServe(server *http.Server) error {
	log.Info().Str("addr", server.Addr).Msg("Server listening")
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server.ListenAndServe %w", err)
	}
	return nil
}

func waitForStopSignal() <-chan os.Signal {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	return stop
}

func shutdown(server *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}
	return nil
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
