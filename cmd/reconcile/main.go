// Command reconcile runs a single check-in/check-out sweep and exits.
// Intended for cron when the API runs with RECONCILER_ENABLED=false.
package main

import (
	"context"
	"time"

	"hotelbooking/internal/config"
	"hotelbooking/internal/database"
	"hotelbooking/internal/modules/reservation"
	"hotelbooking/internal/pkg/clock"
	"hotelbooking/internal/pkg/logger"
	"hotelbooking/internal/repository"

	"github.com/sirupsen/logrus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.New("", "info").WithError(err).Fatal("config")
	}
	log := logger.New(cfg.AppEnv, cfg.LogLevel)

	db, err := database.Connect(cfg.DatabaseURL, log)
	if err != nil {
		log.WithError(err).Fatal("db connect failed")
	}
	if err := repository.Migrate(db); err != nil {
		log.WithError(err).Fatal("migrate failed")
	}

	svc := reservation.NewService(
		repository.NewReservationRepository(db),
		repository.NewRoomRepository(db),
		repository.NewTransactor(db),
		nil,
		clock.Real{},
		cfg.Policy,
		log,
	)
	rec := reservation.NewReconciler(svc, cfg.ReconcileInterval, cfg.StorageTimeout, log)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	res, err := rec.ReconcileAll(ctx)
	if err != nil {
		log.WithError(err).Fatal("reconcile failed")
	}
	log.WithFields(logrus.Fields{
		"checked_in":  res.CheckedIn,
		"checked_out": res.CheckedOut,
		"failed":      res.Failed,
	}).Info("reconcile completed")
}
