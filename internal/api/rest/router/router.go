package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taskdeck/taskdeck-server/internal/api/rest/handler"
	"github.com/taskdeck/taskdeck-server/internal/api/rest/middleware"
	"github.com/taskdeck/taskdeck-server/internal/logger"
	"github.com/taskdeck/taskdeck-server/internal/model"
)

// Router wires the HTTP handlers and middleware into a single http.Handler.
type Router struct {
	authService   handler.AuthService
	taskService   handler.TaskService
	tokens        model.TokenManager
	allowedOrigin string
	logger        *logger.Logger
}

// New creates a new Router instance.
func New(
	authService handler.AuthService,
	taskService handler.TaskService,
	tokens model.TokenManager,
	allowedOrigin string,
	logger *logger.Logger,
) *Router {
	return &Router{
		authService:   authService,
		taskService:   taskService,
		tokens:        tokens,
		allowedOrigin: allowedOrigin,
		logger:        logger,
	}
}

// Register builds the route tree. Task and profile routes require a valid
// token; login, logout and register do not.
func (r *Router) Register() http.Handler {
	logging := middleware.NewLogging(r.logger)
	cors := middleware.NewCORS(r.allowedOrigin)
	authenticate := middleware.NewAuthenticate(r.tokens, r.logger)

	authHandler := handler.NewAuth(r.authService, r.logger)
	taskHandler := handler.NewTask(r.taskService, authenticate, r.logger)

	mux := chi.NewRouter()
	mux.Use(logging.Handle, cors.Handle)

	mux.Post("/register", authHandler.Register)
	mux.Post("/login", authHandler.Login)
	mux.Post("/logout", authHandler.Logout)

	// Create-task validates its payload before authenticating, so it sits
	// outside the blanket-protected group and authorizes inside the handler.
	mux.Post("/tasks", taskHandler.Create)

	mux.Group(func(protected chi.Router) {
		protected.Use(authenticate.Handle)

		protected.Get("/profile", authHandler.Profile)
		protected.Post("/profile/image", authHandler.UploadProfileImage)

		protected.Get("/tasks", taskHandler.List)
		protected.Patch("/tasks/{task_id}", taskHandler.Update)
		protected.Delete("/tasks/{task_id}", taskHandler.Delete)
	})

	return mux
}
