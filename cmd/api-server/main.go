package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/kznhealth/queue-booking/internal/api"
	"github.com/kznhealth/queue-booking/internal/complaint"
	"github.com/kznhealth/queue-booking/internal/config"
	"github.com/kznhealth/queue-booking/internal/db"
	"github.com/kznhealth/queue-booking/internal/identity"
	"github.com/kznhealth/queue-booking/internal/prescription"
	redisclient "github.com/kznhealth/queue-booking/internal/redis"
	"github.com/kznhealth/queue-booking/internal/scheduling"
)

const version = "0.1.0"

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("api-server starting up")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}

	log.Printf("running in env=%s http_port=%s timezone=%s", cfg.Env, cfg.HTTPPort, cfg.ClinicTimezone)

	loc, err := time.LoadLocation(cfg.ClinicTimezone)
	if err != nil {
		log.Fatalf("load clinic timezone %q: %v", cfg.ClinicTimezone, err)
	}

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Connect Postgres
	pgCtx, cancelPg := context.WithTimeout(rootCtx, 10*time.Second)
	pgPool, err := db.ConnectPostgres(pgCtx, cfg.PostgresDSN)
	cancelPg()
	if err != nil {
		log.Fatalf("postgres connection error: %v", err)
	}
	defer pgPool.Close()
	log.Println("connected to Postgres")

	// Connect Redis
	rdb, err := redisclient.NewRedisClient(cfg.RedisAddr, cfg.RedisUsername, cfg.RedisPassword)
	if err != nil {
		log.Fatalf("redis connection error: %v", err)
	}
	defer func() {
		if err := rdb.Close(); err != nil {
			log.Printf("error closing redis: %v", err)
		}
	}()
	log.Println("connected to Redis")

	policy := scheduling.NewSlotPolicy(cfg.SlotDuration, cfg.BookingHorizon, loc)
	index := scheduling.NewAvailabilityIndex(loc)
	locker := redisclient.NewRedisScheduleLocker(rdb, cfg.LockTTL, cfg.LockWait)

	schedRepo := scheduling.NewPgRepository(pgPool)
	schedSvc := scheduling.NewService(schedRepo, locker, policy, index, cfg)

	// The availability index is a derived cache; reload it from committed
	// state before serving traffic.
	rebuildCtx, cancelRebuild := context.WithTimeout(rootCtx, 30*time.Second)
	err = schedSvc.RebuildIndex(rebuildCtx)
	cancelRebuild()
	if err != nil {
		log.Fatalf("availability index rebuild error: %v", err)
	}

	identitySvc := identity.NewService(identity.NewPgRepository(pgPool))
	prescriptionSvc := prescription.NewService(prescription.NewPgRepository(pgPool), cfg.RefillInterval)
	complaintSvc := complaint.NewService(complaint.NewPgRepository(pgPool))

	router := api.NewRouter(api.RouterConfig{
		Scheduling:    schedSvc,
		Identity:      identitySvc,
		Prescriptions: prescriptionSvc,
		Complaints:    complaintSvc,
		PgPool:        pgPool,
		Redis:         rdb,
		Env:           cfg.Env,
		Version:       version,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Printf("listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("http server error: %v", err)
		}
	}()

	<-rootCtx.Done()

	log.Println("shutting down api-server")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancelShutdown()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("graceful shutdown error: %v", err)
	}
}
