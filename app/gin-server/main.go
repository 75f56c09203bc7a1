package main

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/arogyalabs/medassist/config"
	"github.com/arogyalabs/medassist/internal/api/handlers"
	"github.com/arogyalabs/medassist/internal/api/middleware"
	"github.com/arogyalabs/medassist/internal/api/routes"
	"github.com/arogyalabs/medassist/internal/cache"
	"github.com/arogyalabs/medassist/internal/logger"
	"github.com/arogyalabs/medassist/internal/providers/llm"
	"github.com/arogyalabs/medassist/internal/repositories/jsonfile"
	"github.com/arogyalabs/medassist/internal/repositories/memory"
	"github.com/arogyalabs/medassist/internal/repositories/postgres"
	"github.com/arogyalabs/medassist/internal/services"
	"github.com/arogyalabs/medassist/internal/storage"
)

func main() {
	_ = godotenv.Load()

	log := logger.New()

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("config load failed")
	}

	ctx := context.Background()

	provider, err := llm.NewVertexGemini(ctx, cfg.GoogleProjectID, cfg.VertexLocation, cfg.GeminiModel)
	if err != nil {
		log.WithError(err).Fatal("vertex gemini init failed")
	}
	defer provider.Close()

	// Records: Postgres when configured, JSON file otherwise.
	var records services.RecordStore
	if cfg.DatabaseURL != "" {
		pg, err := postgres.NewRecordStore(cfg.DatabaseURL)
		if err != nil {
			log.WithError(err).Fatal("postgres init failed")
		}
		records = pg
		log.Info("records: postgres")
	} else {
		records = jsonfile.NewRecordStore(cfg.DataFile, log)
		log.WithField("path", cfg.DataFile).Info("records: json file")
	}

	var analysisCache cache.AnalysisCache
	if cfg.RedisAddr != "" {
		rdb, err := config.InitRedis(cfg.RedisAddr)
		if err != nil {
			log.WithError(err).Fatal("redis init failed")
		}
		analysisCache = cache.NewRedisCache(rdb)
		log.Info("analysis cache: redis")
	}

	var archive storage.Uploader
	if cfg.UploadBucket != "" {
		gcs, err := storage.NewGCSUploader(ctx, cfg.UploadBucket)
		if err != nil {
			log.WithError(err).Fatal("gcs init failed")
		}
		defer gcs.Close()
		archive = gcs
		log.WithField("bucket", cfg.UploadBucket).Info("image archive: gcs")
	}

	sessions := memory.NewSessionStore()

	sessionSvc := services.NewSessionService(sessions)
	querySvc := services.NewQueryService(sessions, provider, records, log)
	reportSvc := services.NewReportService(sessions, provider, records, analysisCache, archive, log)
	skinSvc := services.NewSkinService(sessions, provider, records, analysisCache, archive, log)
	recordSvc := services.NewRecordService(records)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(log))

	routes.RegisterRoutes(r, routes.Deps{
		Session:   handlers.NewSessionHandler(sessionSvc, cfg.SessionJWTSecret),
		Query:     handlers.NewQueryHandler(querySvc),
		Report:    handlers.NewAnalysisHandler(reportSvc, "ReportHandler"),
		Skin:      handlers.NewAnalysisHandler(skinSvc, "SkinHandler"),
		Records:   handlers.NewRecordHandler(recordSvc),
		JWTSecret: cfg.SessionJWTSecret,
	})

	if err := r.Run(":" + cfg.Port); err != nil {
		log.WithError(err).Fatal("server exited")
	}
}
