package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"catalog/config"
	"catalog/db"
	"catalog/events"
	"catalog/fixtures"
	"catalog/middleware"
	"catalog/routes"
)

func main() {
	cfg, err := config.Load(".env")
	if err != nil {
		logrus.WithError(err).Fatal("load configuration")
	}
	log, err := cfg.Logger()
	if err != nil {
		logrus.WithError(err).Fatal("configure logger")
	}

	// Initialize database
	database, err := db.InitDatabase(cfg.DatabasePath, log)
	if err != nil {
		log.WithError(err).Fatal("open database")
	}
	defer db.Close(database)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.SeedFixtures {
		set, err := fixtures.Load(ctx, database, cfg.APITokenTTL)
		if err != nil {
			log.WithError(err).Fatal("seed fixtures")
		}
		log.WithFields(logrus.Fields{
			"admin_token":  set.AdminToken,
			"editor_token": set.EditorToken,
			"user_token":   set.UserToken,
		}).Info("fixtures loaded")
	}

	hub := events.NewHub(log)
	go hub.Run()
	defer hub.Close()

	app := routes.NewApp(routes.Deps{
		DB:          database,
		Log:         log,
		Metrics:     middleware.NewMetrics(),
		Hub:         hub,
		CORSOrigins: cfg.CORSOrigins,
	})

	errc := make(chan error, 1)
	go func() {
		log.WithField("addr", cfg.HTTPAddr).Info("listening")
		errc <- app.Listen(cfg.HTTPAddr)
	}()

	select {
	case err := <-errc:
		if err != nil {
			log.WithError(err).Error("server stopped")
		}
	case <-ctx.Done():
		log.Info("shutting down")
		if err := app.ShutdownWithTimeout(cfg.ShutdownTimeout); err != nil && !errors.Is(err, context.DeadlineExceeded) {
			log.WithError(err).Error("shutdown")
		}
	}
}
