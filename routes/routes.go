package routes

import (
	"net/http"

	"github.com/Mr-Racnok/akui-esport/handlers"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// SetupRoutes навешивает все маршруты сайта на переданный роутер.
func SetupRoutes(
	router *chi.Mux,
	allowedOrigins []string,
	registrationHandler *handlers.RegistrationHandler,
	rosterHandler *handlers.RosterHandler,
	bracketHandler *handlers.BracketHandler,
	logoHandler *handlers.LogoHandler,
	webSocketHandler *handlers.WebSocketHandler,
) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)

	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	router.Route("/api", func(r chi.Router) {
		r.Post("/registrations", registrationHandler.SaveRegistration)
		r.Post("/logos", logoHandler.UploadLogo)

		r.Get("/teams", rosterHandler.GetRegisteredTeams)
		r.Get("/teams/count", rosterHandler.GetTeamCount)
		r.Get("/bracket", bracketHandler.GetBracket)
		r.Get("/schedule", bracketHandler.GetSchedule)
	})

	router.Get("/ws/registrations", webSocketHandler.ServeWs)
}
