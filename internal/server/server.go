package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/coffeelog/apiserver/config"
	"github.com/coffeelog/apiserver/internal/db"
	"github.com/coffeelog/apiserver/internal/handlers"
	"github.com/coffeelog/apiserver/internal/images"
	"github.com/coffeelog/apiserver/internal/services"
	"github.com/coffeelog/apiserver/internal/store"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Server wraps the HTTP server and router.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	db         *sql.DB
}

// New constructs a Server with basic middleware and defaults.
func New(ctx context.Context, cfg config.Config) (*Server, error) {
	jwtSecret := strings.TrimSpace(cfg.JWTSecret)
	if jwtSecret == "" {
		return nil, errors.New("JWT_SECRET is required")
	}

	dbConn, err := db.Open(ctx, cfg)
	if err != nil {
		return nil, err
	}

	userRepo := store.NewUserRepository(dbConn)
	postRepo := store.NewPostRepository(dbConn)
	commentRepo := store.NewCommentRepository(dbConn)
	likeRepo := store.NewLikeRepository(dbConn)
	followRepo := store.NewFollowRepository(dbConn)
	notificationRepo := store.NewNotificationRepository(dbConn)
	coffeeRepo := store.NewCoffeeRepository(dbConn)

	userService := services.NewUserService(userRepo)
	notificationService := services.NewNotificationService(notificationRepo)
	postService := services.NewPostService(postRepo, likeRepo, userRepo, notificationRepo)
	commentService := services.NewCommentService(commentRepo, postRepo, notificationRepo)
	followService := services.NewFollowService(followRepo, userRepo, postRepo, notificationRepo)
	coffeeService := services.NewCoffeeService(coffeeRepo)
	imageStore := images.NewStore("")

	authMiddleware := handlers.RequireAuth(jwtSecret)

	router := chi.NewRouter()
	router.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Recoverer,
		middleware.Logger,
		middleware.Timeout(60*time.Second),
	)
	router.Get("/healthz", handlers.Healthz)
	router.Route("/auth", func(r chi.Router) {
		handlers.AuthRouter(r, userService, jwtSecret, !cfg.IsDev())
	})
	router.Group(func(r chi.Router) {
		r.Use(authMiddleware)
		r.Route("/posts", func(r chi.Router) {
			handlers.PostRouter(r, postService, commentService)
		})
		r.Route("/feed", func(r chi.Router) {
			handlers.FeedRouter(r, postService, commentService)
		})
		r.Route("/comments", func(r chi.Router) {
			handlers.CommentRouter(r, commentService)
		})
		r.Route("/users", func(r chi.Router) {
			handlers.UserRouter(r, userService, followService)
		})
		r.Route("/profile", func(r chi.Router) {
			handlers.ProfileRouter(r, userService)
		})
		r.Route("/notifications", func(r chi.Router) {
			handlers.NotificationRouter(r, notificationService)
		})
		r.Route("/coffee", func(r chi.Router) {
			handlers.CoffeeRouter(r, coffeeService)
		})
		r.Route("/images", func(r chi.Router) {
			handlers.ImageRouter(r, imageStore)
		})
	})

	port := cfg.ServerPort
	if port == 0 {
		port = 8080
	}

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &Server{
		httpServer: httpServer,
		router:     router,
		db:         dbConn,
	}, nil
}

// Router exposes the chi router for route registration.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// Start runs the HTTP server.
func (s *Server) Start() error {
	return s.httpServer.ListenAndServe()
}

// Shutdown attempts a graceful shutdown.
func (s *Server) Shutdown() error {
	if s.db != nil {
		_ = s.db.Close()
	}
	return s.httpServer.Close()
}
