package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/multierr"

	"github.com/fairlab/outcome-engine/internal/api"
	"github.com/fairlab/outcome-engine/internal/bets"
	"github.com/fairlab/outcome-engine/internal/config"
	"github.com/fairlab/outcome-engine/internal/lib/sl"
	"github.com/fairlab/outcome-engine/internal/seeds"
	"github.com/fairlab/outcome-engine/internal/store"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	if err := run(log); err != nil {
		log.Error("engine exited", sl.Err(err))
		os.Exit(1)
	}
}

func run(log *slog.Logger) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	db, err := store.NewSQLiteDB(cfg.DatabasePath)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		return err
	}

	manager := seeds.NewManager(db)
	betService := bets.NewService(manager, db, bets.HouseEdges{
		Dice:  cfg.HouseEdgeDice,
		Limbo: cfg.HouseEdgeLimbo,
		Mines: cfg.HouseEdgeMines,
	}, log)

	server := api.NewServer(db, manager, betService, log)
	httpServer := &http.Server{
		Addr:    cfg.Addr,
		Handler: server.Routes(),
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("engine listening", slog.String("addr", cfg.Addr))
		if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		log.Info("shutting down", slog.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	return multierr.Append(httpServer.Shutdown(ctx), db.Close())
}
