package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"hotelbooking/internal/config"
	"hotelbooking/internal/database"
	"hotelbooking/internal/middleware"
	"hotelbooking/internal/modules/catalog"
	"hotelbooking/internal/modules/reservation"
	"hotelbooking/internal/modules/stats"
	"hotelbooking/internal/pkg/clock"
	jwtsvc "hotelbooking/internal/pkg/jwt"
	"hotelbooking/internal/pkg/logger"
	"hotelbooking/internal/realtime"
	"hotelbooking/internal/repository"

	"github.com/gin-gonic/gin"
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

	clk := clock.Real{}
	hotelRepo := repository.NewHotelRepository(db)
	roomRepo := repository.NewRoomRepository(db)
	reservationRepo := repository.NewReservationRepository(db)
	statsRepo := repository.NewStatsRepository(db)
	tx := repository.NewTransactor(db)

	j := jwtsvc.New(cfg.JWTSecret, cfg.JWTTTL)
	hub := realtime.NewHub(log)
	defer hub.Close()

	catalogService := catalog.NewService(hotelRepo, roomRepo, clk, log)
	reservationService := reservation.NewService(reservationRepo, roomRepo, tx, hub, clk, cfg.Policy, log)
	reconciler := reservation.NewReconciler(reservationService, cfg.ReconcileInterval, cfg.StorageTimeout, log)
	statsService := stats.NewService(statsRepo, hotelRepo, clk)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.ReconcilerEnabled {
		stopReconciler := reconciler.Start(ctx)
		defer close(stopReconciler)
	}

	if cfg.IsProd() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.AccessLog(log),
		middleware.ErrorLogger(log),
		middleware.CORS(cfg.CORSAllowedOrigins),
	)

	r.GET("/health", func(c *gin.Context) {
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(c.Request.Context())
		}
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := r.Group("/api/v1")
	{
		ws := v1.Group("/ws", middleware.QueryTokenAuth(j))
		realtime.NewHandler(hub, cfg.CORSAllowedOrigins).RegisterRoutes(ws)

		protected := v1.Group("", middleware.Timeout(cfg.RequestTimeout), middleware.JWTAuth(j))
		{
			catalog.NewHandler(catalogService).RegisterRoutes(protected)
			reservation.NewHandler(reservationService, reconciler).RegisterRoutes(protected)
			stats.NewHandler(statsService).RegisterRoutes(protected)
		}
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.WithField("addr", cfg.HTTPAddr).Info("http server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("http server failed")
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("http shutdown")
	}
}
