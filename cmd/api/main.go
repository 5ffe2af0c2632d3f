package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"photodrop/internal/adapters/eventbroker/nats"
	"photodrop/internal/adapters/handlers/http/chi"
	photohandler "photodrop/internal/adapters/handlers/http/chi/v1/photo"
	"photodrop/internal/adapters/handlers/http/chi/v1/photogroup"
	"photodrop/internal/adapters/repository/postgres"
	miniostorage "photodrop/internal/adapters/storage/minio"
	"photodrop/internal/config"
	"photodrop/internal/core/port"
	"photodrop/internal/core/service/artifact"
	"photodrop/internal/core/service/ingest"
	"photodrop/internal/imaging"
	"sync"
	"syscall"
	"time"

	_ "github.com/lib/pq"
)

func main() {

	ctx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
	)
	defer stop()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	db, err := initDB(cfg.Database)
	if err != nil {
		logger.Error("failed to init database", "error", err)
		os.Exit(1)
	}
	defer func(db *sql.DB) {
		err := db.Close()
		if err != nil {
			logger.Error("failed to close database", "error", err)
			os.Exit(1)
		}
	}(db)
	logger.Info("db connection established")

	//storage, one bucket per visibility
	minioClient, err := miniostorage.NewClient(cfg.Minio)
	if err != nil {
		logger.Error("failed to init minio client", "error", err)
		os.Exit(1)
	}
	privateStorage, err := miniostorage.NewAdapter(ctx, minioClient, cfg.Minio.PrivateBucket, logger)
	if err != nil {
		logger.Error("failed to init private bucket", "error", err)
		os.Exit(1)
	}
	publicStorage, err := miniostorage.NewAdapter(ctx, minioClient, cfg.Minio.PublicBucket, logger)
	if err != nil {
		logger.Error("failed to init public bucket", "error", err)
		os.Exit(1)
	}

	//repositories
	privateArtifactRepo := postgres.NewSqlArtifactRepository(db, postgres.TableArtifactPrivate)
	publicArtifactRepo := postgres.NewSqlArtifactRepository(db, postgres.TableArtifactPublic)
	imageRepo := postgres.NewSqlImageRepository(db)
	photoRepo := postgres.NewSqlPhotoRepository(db)
	groupRepo := postgres.NewSqlPhotoGroupRepository(db)

	//optional event publisher
	var events port.EventPublisher
	if cfg.NATS.URL != "" {
		publisher, err := nats.NewNATSPublisher(ctx, cfg.NATS, logger)
		if err != nil {
			logger.Error("failed to init nats publisher", "error", err)
			os.Exit(1)
		}
		defer publisher.Close()
		events = publisher
	} else {
		logger.Info("event publishing disabled, NATS_URL not set")
	}

	privateStore := artifact.NewStore(privateArtifactRepo, privateStorage, cacheDir(cfg.Upload.CacheDir, "private"), logger)
	publicStore := artifact.NewStore(publicArtifactRepo, publicStorage, cacheDir(cfg.Upload.CacheDir, "public"), logger)

	processor := imaging.New(cfg.Upload.Workers)
	ingestService := ingest.NewIngestService(
		privateStore,
		publicStore,
		imageRepo,
		photoRepo,
		groupRepo,
		events,
		processor,
		cfg.Upload,
		logger,
	)

	//http
	photoGroupHandler := photogroup.NewPhotoGroupHandlerV1(ingestService, logger)
	photoHandler := photohandler.NewPhotoHandlerV1(ingestService, logger)

	router := chi.NewRouter(logger, photoGroupHandler, photoHandler, cfg.Env.Env)
	server := &http.Server{
		Addr:    fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		Handler: router,
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		logger.Info("starting server", "host", cfg.Server.Host, "port", cfg.Server.Port)
		servErr := server.ListenAndServe()
		if servErr != nil && !errors.Is(servErr, http.ErrServerClosed) {
			logger.Error("failed to start server", "error", servErr)
			stop()
		}
	}()

	//wait for context cancel
	<-ctx.Done()
	logger.Info("gracefully shutting down app")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("failed to shutdown server", "error", err)
	} else {
		logger.Info("server gracefully shutdown complete")
	}

	wg.Wait()
	logger.Info("app shutdown complete")

}

// cacheDir keeps the private and public read caches apart, their artifact
// paths come from the same namespace.
func cacheDir(base, flavor string) string {
	if base == "" {
		return ""
	}
	return filepath.Join(base, flavor)
}

func initDB(cfg config.DatabaseConfig) (*sql.DB, error) {

	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host,
		cfg.Port,
		cfg.User,
		cfg.Password,
		cfg.Name,
		cfg.SSLMode,
	)
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenCons)
	db.SetMaxIdleConns(cfg.MaxIdleCons)
	db.SetConnMaxLifetime(cfg.ConMaxLifeTime)

	return db, nil
}
