// internal/wire/wire.go
package wire

import (
	"net/http"

	"hospital-queue/internal/adaptor"
	"hospital-queue/internal/data/repository"
	"hospital-queue/internal/usecase"
	"hospital-queue/pkg/middleware"
	"hospital-queue/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// App holds the wired router plus the services that outlive a request.
type App struct {
	Router  *chi.Mux
	Service *usecase.Service
}

// Wiring builds services, handlers and routes from the repository layer.
func Wiring(repo *repository.Repository, config *utils.Config, logger *zap.Logger) *App {
	service := usecase.NewService(repo, config, logger)
	handler := adaptor.NewHandler(service, logger)

	router := setupRouter(handler, config, logger)

	return &App{
		Router:  router,
		Service: service,
	}
}

func setupRouter(
	handler *adaptor.Handler,
	config *utils.Config,
	logger *zap.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	// Apply global middleware
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recover(logger))
	r.Use(middleware.CORS())

	// Apply routes
	wireCatalog(r, handler.Catalog, handler.Availability, logger)
	wireScheduling(r, handler.Allocation, handler.Queue, logger)
	wireBooking(r, handler.Booking, logger)

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	return r
}
