package main

import (
	"context"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	myPostgresRepo "github.com/Miraines/MoonyAndStarry/commission-service/internal/adapters/db/postgres"
	myRedisRepo "github.com/Miraines/MoonyAndStarry/commission-service/internal/adapters/db/redis"
	"github.com/Miraines/MoonyAndStarry/commission-service/internal/adapters/transport/http/dto"
	"github.com/Miraines/MoonyAndStarry/commission-service/internal/adapters/transport/http/handler"
	"github.com/Miraines/MoonyAndStarry/commission-service/internal/adapters/transport/http/router"
	"github.com/Miraines/MoonyAndStarry/commission-service/internal/app/auth/cognito"
	appjwt "github.com/Miraines/MoonyAndStarry/commission-service/internal/app/auth/jwt"
	"github.com/Miraines/MoonyAndStarry/commission-service/internal/app/auth/local"
	"github.com/Miraines/MoonyAndStarry/commission-service/internal/app/auth/password"
	appsvc "github.com/Miraines/MoonyAndStarry/commission-service/internal/app/auth/service"
	dashsvc "github.com/Miraines/MoonyAndStarry/commission-service/internal/app/dashboard/service"
	"github.com/Miraines/MoonyAndStarry/commission-service/internal/domain/auth/repo"
	"github.com/Miraines/MoonyAndStarry/commission-service/internal/domain/auth/token"
	"github.com/Miraines/MoonyAndStarry/commission-service/internal/infra/config"
	lg "github.com/Miraines/MoonyAndStarry/commission-service/internal/infra/log"
	"github.com/Miraines/MoonyAndStarry/commission-service/internal/infra/migrate"
	"github.com/Miraines/MoonyAndStarry/commission-service/internal/infra/server"
)

func main() {
	production, _ := strconv.ParseBool(os.Getenv("PRODUCTION"))
	zapLog := lg.Must(os.Getenv("LOG_LEVEL"), production)
	defer zapLog.Sync()

	cfg, err := config.Load()
	if err != nil {
		zapLog.Fatal("failed to load config", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	gormLevel := gormlogger.Warn
	if cfg.Production {
		gormLevel = gormlogger.Error
	}
	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormLevel),
	})
	if err != nil {
		zapLog.Fatal("failed to connect to database", zap.Error(err))
	}
	sqlDB, err := db.DB()
	if err != nil {
		zapLog.Fatal("db handle", zap.Error(err))
	}
	defer sqlDB.Close()
	sqlDB.SetMaxOpenConns(cfg.DBPoolSize)
	sqlDB.SetMaxIdleConns(cfg.DBPoolSize)
	sqlDB.SetConnMaxLifetime(cfg.DBConnMaxLifetime)

	if err := migrate.Up(sqlDB); err != nil {
		zapLog.Fatal("run migrations", zap.Error(err))
	}

	userRepo := myPostgresRepo.NewPostgresUserRepo(db)
	roleRepo := myPostgresRepo.NewPostgresRoleRepo(db)
	dashboardRepo := myPostgresRepo.NewPostgresDashboardRepo(db)
	health := []handler.Dependency{{Name: "postgres", Pinger: userRepo}}

	// A nil TokenRepo disables the denylist; keep it an untyped nil.
	var tokenRepo repo.TokenRepo
	if cfg.RedisAddress != "" {
		redisCli := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddress,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer redisCli.Close()
		redisRepo := myRedisRepo.NewRedisTokenRepo(redisCli)
		tokenRepo = redisRepo
		health = append(health, handler.Dependency{Name: "redis", Pinger: redisRepo})
	} else {
		zapLog.Warn("REDIS_ADDRESS not set, access token revocation disabled")
	}

	tokens, err := newTokenService(ctx, cfg, userRepo, zapLog)
	if err != nil {
		zapLog.Fatal("failed to init token provider", zap.String("provider", cfg.TokenProvider), zap.Error(err))
	}

	authSvc := appsvc.New(userRepo, roleRepo, tokenRepo, tokens, dto.NewValidator(), zapLog)

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewDBStatsCollector(sqlDB, "commission"),
	)

	engine := router.New(ctx, router.Options{
		Auth:      authSvc,
		Dashboard: dashsvc.New(dashboardRepo),
		Health:    health,
		Cookies: handler.CookieConfig{
			Domain:     cfg.CookieDomain,
			Secure:     cfg.CookieSecure,
			SameSite:   cfg.CookieSameSite,
			RefreshTTL: cfg.RefreshTokenTTL,
		},
		Registry:         registry,
		Logger:           zapLog,
		Production:       cfg.Production,
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowCredentials: cfg.AllowCredentials,
		RateLimitRPS:     cfg.RateLimitRPS,
		RateLimitBurst:   cfg.RateLimitBurst,
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return server.StartHTTPServer(gctx, cfg.HTTPAddress, engine, zapLog)
	})

	if err := g.Wait(); err != nil {
		zapLog.Error("server terminated", zap.Error(err))
		return
	}
	zapLog.Info("shutdown complete")
}

func newTokenService(ctx context.Context, cfg *config.Config, users repo.UserRepo, logger *zap.Logger) (token.Service, error) {
	if cfg.TokenProvider == config.ProviderLocal {
		jwtUtil, err := appjwt.NewJWTUtil(cfg)
		if err != nil {
			return nil, err
		}
		return local.New(users, jwtUtil, password.NewHasher(cfg.PasswordPepper, nil), logger), nil
	}
	return cognito.New(ctx, cfg, logger)
}
