package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "cinecomments/docs" // swagger docs

	"cinecomments/internal/auth"
	"cinecomments/internal/cache"
	"cinecomments/internal/config"
	"cinecomments/internal/dataloader"
	"cinecomments/internal/db"
	"cinecomments/internal/events"
	"cinecomments/internal/handler"
	"cinecomments/internal/logging"
	"cinecomments/internal/models"
	"cinecomments/internal/repository"
	"cinecomments/internal/repository/memory"
	"cinecomments/internal/service"

	"go.uber.org/zap"
)

// userBackend is what the services and the author loader need from a user store.
type userBackend interface {
	service.UserStore
	dataloader.UserFinder
}

// @title CineComments API
// @version 1.0
// @description Movies with embedded comments, and user accounts (Mongo, Redis, NATS)
// @host localhost:4000
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg := config.Load()

	log, err := logging.New(cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	if len(cfg.Defaulted) > 0 {
		log.Info("config defaults in use", zap.Strings("keys", cfg.Defaulted))
	}

	checks := map[string]handler.CheckFunc{}

	// stores
	var (
		movieStore service.MovieStore
		userStore  userBackend
		memUsers   *memory.UserStore
	)
	switch cfg.StoreDriver {
	case config.StoreMemory:
		log.Warn("using in-memory store, data is lost on restart")
		memUsers = memory.NewUserStore()
		movieStore = memory.NewMovieStore()
		userStore = memUsers
	case config.StoreMongo:
		if err := db.InitMongo(cfg); err != nil {
			log.Fatal("mongo init failed", zap.Error(err))
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = db.Close(ctx)
		}()

		userRepo := repository.NewUserRepository(db.DB())
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := userRepo.EnsureIndexes(ctx); err != nil {
			cancel()
			log.Fatal("ensure user indexes failed", zap.Error(err))
		}
		cancel()

		movieStore = repository.NewMovieRepository(db.DB())
		userStore = userRepo
		checks["mongo"] = db.Ping
		log.Info("mongo connected", zap.String("db", cfg.MongoDB))
	default:
		log.Fatal("unknown STORE_DRIVER", zap.String("driver", cfg.StoreDriver))
	}

	// Redis is optional; without it caching and rate limiting are off.
	respCache, err := cache.New(cfg)
	if err != nil {
		log.Warn("redis unavailable, running without cache", zap.String("addr", cfg.RedisAddr), zap.Error(err))
		respCache = nil
	}
	if respCache != nil {
		defer func() { _ = respCache.Close() }()
		checks["redis"] = respCache.Ping
		log.Info("redis connected", zap.String("addr", cfg.RedisAddr))
	}

	pub, err := events.NewNATSPublisher(cfg.NATSURL, log)
	if err != nil {
		log.Fatal("nats connect failed", zap.Error(err))
	}
	defer pub.Close()
	checks["nats"] = func(context.Context) error { return pub.Ping() }

	tokens, err := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTTTL)
	if err != nil {
		log.Fatal("token manager", zap.Error(err))
	}

	// services
	movieSvc := service.NewMovieService(movieStore, dataloader.NewAuthorResolver(userStore), respCache, pub, log)
	userSvc := service.NewUserService(userStore, tokens)

	if memUsers != nil && cfg.SeedAdminEmail != "" {
		seedAdmin(userSvc, memUsers, cfg, log)
	}

	r := handler.NewRouter(handler.RouterDeps{
		Movies:   handler.NewMovieHandler(movieSvc, log),
		Comments: handler.NewCommentHandler(movieSvc, log),
		Users:    handler.NewUserHandler(userSvc, log),
		Tokens:   tokens,
		Authors:  userStore,
		Redis:    respCache.Client(),
		RateLimit: handler.RateLimitOptions{
			Enabled:  cfg.RateLimitEnabled,
			Capacity: cfg.RateLimitCapacity,
			Window:   cfg.RateLimitWindow,
		},
		CORSOrigins: cfg.CORSAllowedOrigins,
		Checks:      checks,
		Log:         log,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info("http server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("http server failed", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("http shutdown", zap.Error(err))
	}
}

func seedAdmin(users *service.UserService, store *memory.UserStore, cfg *config.Config, log *zap.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := users.Register(ctx, models.RegisterInput{
		Email:    cfg.SeedAdminEmail,
		Password: cfg.SeedAdminPassword,
		MobileNo: "00000000000",
	})
	if err != nil && !errors.Is(err, service.ErrEmailExists) {
		log.Fatal("seed admin failed", zap.String("email", cfg.SeedAdminEmail), zap.Error(err))
	}
	store.SetAdmin(cfg.SeedAdminEmail, true)
	log.Info("seeded admin account", zap.String("email", cfg.SeedAdminEmail))
}
