package wire

import (
	"net/http"

	"cinephile/internal/adaptor"
	"cinephile/internal/data/repository"
	"cinephile/internal/usecase"
	"cinephile/pkg/middleware"
	"cinephile/pkg/utils"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// App holds the assembled HTTP surface
type App struct {
	Router  *chi.Mux
	Service *usecase.Service
}

// Wiring builds services, handlers and routes on top of repo and provider
func Wiring(repo *repository.Repository, provider usecase.MovieProvider, config *utils.Config, logger *zap.Logger) *App {
	tokens := utils.NewTokenManager(config.JWT)

	service := usecase.NewService(repo, provider, tokens, config, logger)
	handler := adaptor.NewHandler(service, config, logger)

	authenticate := middleware.Authenticate(repo.Session, tokens, config.Session.CookieName, logger)
	router := setupRouter(handler, authenticate, config, logger)

	return &App{
		Router:  router,
		Service: service,
	}
}

func setupRouter(
	handler *adaptor.Handler,
	authenticate func(http.Handler) http.Handler,
	config *utils.Config,
	logger *zap.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recover(logger))
	r.Use(middleware.CORS(config.App.ClientURL))

	wireAuth(r, handler.Auth, handler.User, authenticate)
	wireUser(r, handler.User, authenticate)
	wireMovie(r, handler.Movie)
	wireReview(r, handler.Review, authenticate)
	wireComment(r, handler.Comment, authenticate)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	return r
}
