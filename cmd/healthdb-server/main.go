package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"healthdb/internal/config"
	"healthdb/internal/domain/audit"
	"healthdb/internal/domain/patient"
	v1 "healthdb/internal/handler/v1"
	"healthdb/internal/repository/memory"
	"healthdb/internal/repository/mongodb"
	"healthdb/internal/repository/postgres"
	"healthdb/internal/service"
	"healthdb/pkg/database"
	"healthdb/pkg/logger"
	"healthdb/pkg/metrics"
	"healthdb/pkg/tracer"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	zlog, err := logger.New(cfg.Log)
	if err != nil {
		log.Fatalf("building logger: %v", err)
	}
	defer func() { _ = zlog.Sync() }()

	if err := run(cfg, zlog); err != nil {
		zlog.Fatal("server exited", zap.Error(err))
	}
}

func run(cfg *config.Config, zlog *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tp, err := tracer.Init(cfg.Tracing)
	if err != nil {
		return err
	}
	defer func() { _ = tp.Shutdown(context.Background()) }()

	mongoClient, err := database.ConnectMongo(ctx, cfg.Mongo)
	if err != nil {
		return err
	}
	defer func() { _ = mongoClient.Disconnect(context.Background()) }()

	patientRepo := mongodb.NewPatientRepository(
		mongoClient.Database(cfg.Mongo.Database).Collection(cfg.Mongo.Collection),
	)

	var auditRepo audit.Repository = memory.NewAuditRepository()
	if cfg.Database.Enabled {
		db, err := database.Connect(cfg.Database)
		if err != nil {
			return err
		}
		if err := database.Migrate(db, zlog); err != nil {
			return err
		}
		auditRepo = postgres.NewAuditRepository(db)
	}

	auditSvc := service.NewAuditService(auditRepo, zlog)
	defer auditSvc.Shutdown()

	patientSvc := service.NewPatientService(patientRepo, auditSvc, zlog)

	if cfg.Seed.Enabled {
		if _, err := patientSvc.Register(ctx, "Ann Ables", 1, patient.BloodTypeAPos, "seed", ""); err != nil {
			zlog.Warn("failed to seed demo patient", zap.Error(err))
		}
	}

	if cfg.App.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	collector := metrics.NewCollector(cfg.App.Name)

	router := gin.New()
	router.Use(
		gin.Recovery(),
		v1.RequestID(),
		v1.RequestLogger(zlog),
		v1.Metrics(collector),
	)

	v1.NewPatientHandler(patientSvc, collector).Register(router)

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "version": cfg.App.Version})
	})
	router.GET("/metrics", gin.WrapH(metrics.MetricsHandler()))

	srv := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	zlog.Info("server is listening", zap.String("addr", cfg.Server.Address()))

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	zlog.Info("shutting down gracefully")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	zlog.Info("server stopped")
	return nil
}
