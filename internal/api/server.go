package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/toonhive/toonhive/internal/api/handlers"
	"github.com/toonhive/toonhive/internal/api/middleware"
	"github.com/toonhive/toonhive/internal/config"
	"github.com/toonhive/toonhive/internal/controllers"
	"github.com/toonhive/toonhive/internal/errs"
	"github.com/toonhive/toonhive/internal/models"
	"github.com/toonhive/toonhive/internal/services/session"
)

// Controllers bundles the per-entity coordinators the server exposes.
type Controllers struct {
	Catalog   *controllers.CatalogController
	Episodes  *controllers.EpisodeController
	Ratings   *controllers.RatingController
	Comments  *controllers.CommentController
	Favorites *controllers.FavoriteController
	Views     *controllers.ViewController
	Users     *controllers.UserController
}

// Server represents the HTTP server
type Server struct {
	app    *fiber.App
	port   string
	logger zerolog.Logger
}

// NewServer creates a new HTTP server
func NewServer(cfg *config.Config, ctrls Controllers, oracle session.Oracle, logger zerolog.Logger) *Server {
	app := fiber.New(fiber.Config{
		ErrorHandler:          errorHandler,
		DisableStartupMessage: true,
	})

	app.Use(recover.New())
	app.Use(middleware.Tracing())
	app.Use(middleware.Logging(logger))

	s := &Server{app: app, port: cfg.ServerPort, logger: logger}
	s.setupRoutes(ctrls, oracle, logger)
	return s
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes(ctrls Controllers, oracle session.Oracle, logger zerolog.Logger) {
	titles := handlers.NewTitleHandler(ctrls.Catalog, logger)
	episodes := handlers.NewEpisodeHandler(ctrls.Episodes, logger)
	ratings := handlers.NewRatingHandler(ctrls.Ratings, logger)
	comments := handlers.NewCommentHandler(ctrls.Comments, logger)
	favorites := handlers.NewFavoriteHandler(ctrls.Favorites, logger)
	views := handlers.NewViewHandler(ctrls.Views, logger)
	users := handlers.NewUserHandler(ctrls.Users, ctrls.Ratings, ctrls.Comments, ctrls.Favorites, logger)

	s.app.Get("/health", handlers.Health)
	s.app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	api := s.app.Group("/api")

	// Public read paths. The day-listing and search routes must precede
	// /titles/:id so the literal segments win.
	api.Get("/titles/day/:day", titles.ListByDay)
	api.Get("/titles/search", titles.Search)
	api.Get("/titles/:id", titles.Get)
	api.Get("/titles/:id/episodes", episodes.ListByTitle)
	api.Get("/titles/:id/rating/average", ratings.TitleAverage)
	api.Get("/episodes/:id/comments", comments.ListByEpisode)
	api.Get("/episodes/:id/rating/average", ratings.EpisodeAverage)
	api.Post("/titles/:id/views", views.Register)

	// Authenticated engagement writes and per-user history.
	authed := api.Group("", middleware.Authenticate(oracle))
	authed.Post("/episodes/:id/rating", ratings.Add)
	authed.Put("/episodes/:id/rating", ratings.Update)
	authed.Delete("/episodes/:id/rating", ratings.Delete)
	authed.Post("/episodes/:id/comments", comments.Create)
	authed.Put("/comments/:id", comments.Update)
	authed.Delete("/comments/:id", comments.Delete)
	authed.Post("/titles/:id/favorite", favorites.Add)
	authed.Delete("/titles/:id/favorite", favorites.Remove)
	authed.Get("/me", users.Me)
	authed.Get("/me/ratings", users.MyRatedEpisodes)
	authed.Get("/me/comments", users.MyComments)
	authed.Get("/me/favorites", users.MyFavorites)

	// Catalog administration.
	admin := authed.Group("", middleware.RequireRole(models.RoleAdmin))
	admin.Post("/titles", titles.Create)
	admin.Put("/titles/:id", titles.Update)
	admin.Delete("/titles/:id", titles.Delete)
	admin.Post("/titles/:id/episodes", episodes.Create)
	admin.Put("/episodes/:id", episodes.Update)
	admin.Delete("/episodes/:id", episodes.Delete)
	admin.Delete("/admin/comments/:id", comments.DeletePrivileged)
	admin.Get("/users/:nickname", users.GetByNickname)
}

// errorHandler renders every error through the response envelope, mapping
// the application code to a transport status.
func errorHandler(c *fiber.Ctx, err error) error {
	code := errs.CodeInternal
	message := "internal error"

	var appErr *errs.Error
	var fiberErr *fiber.Error
	switch {
	case errors.As(err, &appErr):
		code = appErr.Code
		message = appErr.Message
	case errors.As(err, &fiberErr):
		if fiberErr.Code == fiber.StatusNotFound {
			code = errs.CodeNotFound
			message = "route not found"
		}
	}

	return c.Status(httpStatus(code)).JSON(handlers.Response{
		Status: "error",
		Error:  &handlers.ErrorPayload{Code: code, Message: message},
	})
}

func httpStatus(code errs.Code) int {
	switch code {
	case errs.CodeNotFound:
		return fiber.StatusNotFound
	case errs.CodeConflict:
		return fiber.StatusConflict
	case errs.CodeValidation:
		return fiber.StatusBadRequest
	case errs.CodeUnauthenticated:
		return fiber.StatusUnauthorized
	case errs.CodeUnauthorized:
		return fiber.StatusForbidden
	default:
		return fiber.StatusInternalServerError
	}
}

// App exposes the fiber app for in-process tests.
func (s *Server) App() *fiber.App {
	return s.app
}

// Start starts the HTTP server
func (s *Server) Start(ctx context.Context) error {
	s.logger.Info().Str("port", s.port).Msg("starting HTTP server")

	errChan := make(chan error, 1)
	go func() {
		if err := s.app.Listen(":" + s.port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	select {
	case err := <-errChan:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		return s.Shutdown(context.Background())
	}
}

// Shutdown gracefully stops the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info().Msg("shutting down HTTP server")
	return s.app.ShutdownWithContext(ctx)
}
