package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/heartmarshall/microblog-backend/internal/auth"
	"github.com/heartmarshall/microblog-backend/internal/config"

	"github.com/heartmarshall/microblog-backend/internal/adapter/postgres"
	credentialrepo "github.com/heartmarshall/microblog-backend/internal/adapter/postgres/credential"
	followrepo "github.com/heartmarshall/microblog-backend/internal/adapter/postgres/follow"
	likerepo "github.com/heartmarshall/microblog-backend/internal/adapter/postgres/like"
	mediarepo "github.com/heartmarshall/microblog-backend/internal/adapter/postgres/media"
	postrepo "github.com/heartmarshall/microblog-backend/internal/adapter/postgres/post"
	profilerepo "github.com/heartmarshall/microblog-backend/internal/adapter/postgres/profile"
	tokenrepo "github.com/heartmarshall/microblog-backend/internal/adapter/postgres/token"

	authsvc "github.com/heartmarshall/microblog-backend/internal/service/auth"
	enrichsvc "github.com/heartmarshall/microblog-backend/internal/service/enrich"
	feedsvc "github.com/heartmarshall/microblog-backend/internal/service/feed"
	postsvc "github.com/heartmarshall/microblog-backend/internal/service/post"
	profilesvc "github.com/heartmarshall/microblog-backend/internal/service/profile"

	"github.com/heartmarshall/microblog-backend/internal/transport/dataloader"
	"github.com/heartmarshall/microblog-backend/internal/transport/middleware"
	"github.com/heartmarshall/microblog-backend/internal/transport/rest"
)

// Run is the application entry point. It loads configuration, connects
// to the database, wires repositories, services, and HTTP handlers, and
// serves until the context is cancelled. Shutdown is graceful within
// cfg.Server.ShutdownTimeout.
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := NewLogger(cfg.Log)

	logger.Info("starting application",
		slog.String("version", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
	)

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer pool.Close()

	// Repositories.
	profiles := profilerepo.New(pool)
	follows := followrepo.New(pool)
	posts := postrepo.New(pool)
	likes := likerepo.New(pool)
	media := mediarepo.New(pool)
	credentials := credentialrepo.New(pool)
	tokens := tokenrepo.New(pool)
	txManager := postgres.NewTxManager(pool)

	// Services.
	jwtManager := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer, cfg.Auth.AccessTokenTTL)
	authService := authsvc.NewService(logger, profiles, credentials, tokens, txManager, jwtManager, cfg.Auth)
	profileService := profilesvc.NewService(logger, profiles, follows, media, txManager, cfg.Pagination)
	postService := postsvc.NewService(logger, posts, profiles, media, likes, txManager, cfg.Pagination)
	enrichService := enrichsvc.NewService(logger, follows, likes)
	feedService := feedsvc.NewService(logger, follows, postService)

	// HTTP handlers and routing.
	postHandler := rest.NewPostHandler(postService, enrichService, profileService, logger)
	router := rest.NewRouter(rest.Handlers{
		Auth:    rest.NewAuthHandler(authService, logger),
		Profile: rest.NewProfileHandler(profileService, enrichService, logger),
		Post:    postHandler,
		Feed:    rest.NewFeedHandler(feedService, postHandler, logger),
		Media:   rest.NewMediaHandler(postService, logger),
		Health:  rest.NewHealthHandler(pool, BuildVersion()),
	})

	rateLimiter := middleware.NewRateLimiter(time.Minute)
	defer rateLimiter.Stop()

	handler := middleware.Chain(
		middleware.RequestID,
		middleware.Recovery(logger),
		middleware.Logger(logger),
		middleware.CORS(cfg.CORS),
		rateLimiter.Limit(cfg.Server.RateLimitPerMin),
		middleware.Auth(authService),
		dataloader.Middleware(&dataloader.Repos{Profile: profiles, Media: media}),
	)(router)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", slog.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}

	logger.Info("stopped")
	return nil
}
