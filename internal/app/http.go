package app

import (
	"context"

	"login-service/internal/auth"
	"login-service/internal/auth/google"
	"login-service/internal/auth/handler"
	"login-service/internal/auth/resolver"
	"login-service/internal/auth/token"
	"login-service/internal/config"
	"login-service/internal/logger"
	"login-service/internal/middleware"
	"login-service/internal/profile"
	"login-service/internal/user"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func setupHTTP(ctx context.Context, cfg config.Config) (*gin.Engine, func() error, error) {

	infra, err := setupInfra(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	// ----------------------------
	// Dependencies
	// ----------------------------

	users := user.NewPostgresRepository(infra.DB)

	codec, err := token.NewCodec(
		cfg.JWTSecretKey,
		cfg.JWTAlgorithm,
		cfg.AccessTokenTTL(),
		cfg.RefreshTokenTTL(),
	)
	if err != nil {
		return nil, nil, err
	}

	// Federation is optional: without a client ID the verifier stays nil
	// and /auth/google answers 503.
	var googleVerifier auth.IdentityVerifier
	if cfg.GoogleClientID != "" {
		v, err := google.New(ctx, cfg.GoogleClientID)
		if err != nil {
			return nil, nil, err
		}
		googleVerifier = v
		logger.Info("google login enabled", nil)
	} else {
		logger.Warn("GOOGLE_CLIENT_ID not set, google login disabled", nil)
	}

	authService := auth.NewService(users, codec, googleVerifier, resolver.New(users))
	authHandler := handler.NewHandler(authService, cfg.GoogleClientID)

	var cache *profile.Cache
	if infra.Redis != nil {
		cache = profile.NewCache(infra.Redis.Client)
	}
	profileService := profile.NewService(profile.NewPostgresRepository(infra.DB), users, cache)
	profileHandler := profile.NewHandler(profileService, authService)

	authMW := middleware.NewAuthMiddleware(codec, users)

	// ----------------------------
	// Router
	// ----------------------------

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	authHandler.RegisterRoutes(router, authMW)
	profileHandler.RegisterRoutes(router, authMW)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	return router, func() error {
		if infra.Redis != nil {
			_ = infra.Redis.Close()
		}
		return infra.DB.Close()
	}, nil
}
