package handlers

import (
	"BlogKeeper/internal/config"
	"BlogKeeper/internal/middleware"
	"BlogKeeper/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type Handler struct {
	Router chi.Router
}

// NewHandler разводящий для хендлеров
func NewHandler(
	userService *service.UserService,
	postService *service.PostService,
	logger *zap.SugaredLogger,
	config *config.Config,
) *Handler {
	r := chi.NewRouter()

	r.Use(middleware.WithGzip)
	r.Use(middleware.WithLogging)
	r.Use(middleware.WithAuth(config.AuthSecret))

	// Handlers
	userHandler := NewUserHandler(userService, logger, config)
	postHandler := NewPostHandler(postService, logger, config)

	// User routes
	r.Post("/api/user/register", userHandler.Register)
	r.Post("/api/user/login", userHandler.Login)
	r.Get("/api/user/verify", userHandler.VerifyEmail)
	r.Put("/api/user/username", userHandler.UpdateUsername)

	// Post routes
	r.Post("/api/posts", postHandler.Create)
	r.Get("/api/posts", postHandler.List)
	r.Get("/api/posts/{id}", postHandler.Get)
	r.Put("/api/posts/{id}", postHandler.Update)
	r.Delete("/api/posts/{id}", postHandler.Delete)

	// Image delivery
	r.Get("/api/images/{id}", postHandler.Image)

	return &Handler{Router: r}
}
