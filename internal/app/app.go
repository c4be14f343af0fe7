package app

import (
	"context"
	"fmt"
	"log/slog"

	"digesto/internal/cache/redis"
	"digesto/internal/config"
	"digesto/internal/dbs/postgres"
	cachedocsrepo "digesto/internal/repositories/cache/docs"
	cachesessionrepo "digesto/internal/repositories/cache/session"
	attachmentrepo "digesto/internal/repositories/db/attachment"
	auditrepo "digesto/internal/repositories/db/audit"
	catalogrepo "digesto/internal/repositories/db/catalog"
	documentrepo "digesto/internal/repositories/db/document"
	userrepo "digesto/internal/repositories/db/user"
	filerepo "digesto/internal/repositories/storage/file"
	auditservice "digesto/internal/services/audit"
	authservice "digesto/internal/services/auth"
	catalogservice "digesto/internal/services/catalog"
	documentservice "digesto/internal/services/document"
	userservice "digesto/internal/services/user"
)

type App struct {
	AuthService     AuthService
	DocumentService DocumentService
	CatalogService  CatalogService
	UserService     UserService
	AuditService    AuditService
}

func NewApp(
	ctx context.Context,
	log *slog.Logger,
	dbCfg config.DB,
	cacheCfg config.Cache,
	fileStorageCfg config.FileStorage,
	adminToken string,
) (*App, error) {
	db, err := postgres.New(ctx, postgres.Config{
		Addr:     dbCfg.Addr,
		Port:     dbCfg.Port,
		User:     dbCfg.User,
		Password: dbCfg.Password,
		DB:       dbCfg.DB})
	if err != nil {
		log.Error("failed connect to db", "err", err)
		return nil, fmt.Errorf("failed connect to db: %w", err)
	}

	cache, err := redis.New(ctx, redis.Config{Addr: cacheCfg.Addr, Password: cacheCfg.Password, DB: cacheCfg.DB})
	if err != nil {
		log.Error("failed connect to cache", "err", err)
		return nil, fmt.Errorf("failed connect to cache: %w", err)
	}

	fileStorage, err := filerepo.NewRepository(log, fileStorageCfg.Path)
	if err != nil {
		log.Error("failed to init file storage", "err", err)
		return nil, fmt.Errorf("failed to init file storage: %w", err)
	}

	sessionCacheRepo := cachesessionrepo.New(cache, cacheCfg.SessionTTL)
	documentCacheRepo := cachedocsrepo.New(cache, cacheCfg.DocumentTTL)

	docRepo := documentrepo.NewRepository(db)
	attRepo := attachmentrepo.NewRepository(db)
	catalogRepo := catalogrepo.NewRepository(db)
	userRepo := userrepo.NewRepository(db)
	auditRepo := auditrepo.NewRepository(db)

	catalogService := catalogservice.New(log, catalogRepo)

	documentService := documentservice.New(log, docRepo, attRepo, catalogRepo, documentCacheRepo, fileStorage)

	userService := userservice.New(log, userRepo)

	authService := authservice.New(log, userRepo, sessionCacheRepo, adminToken)

	auditService := auditservice.New(log, auditRepo)

	return &App{
		AuthService:     authService,
		DocumentService: documentService,
		CatalogService:  catalogService,
		UserService:     userService,
		AuditService:    auditService,
	}, nil
}
