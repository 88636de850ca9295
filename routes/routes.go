package routes

import (
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware" // Alias to avoid conflict
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/strikezone/league-system/handlers"
	"github.com/strikezone/league-system/middleware"
	"github.com/strikezone/league-system/models"
)

// SetupRoutes собирает все HTTP-маршруты приложения.
// Просмотр турниров, результатов и лидерборда открыт всем,
// управление лигой доступно только админам и сотрудникам.
func SetupRoutes(
	router *chi.Mux,
	jwtSecret string,
	authHandler *handlers.AuthHandler,
	playerHandler *handlers.PlayerHandler,
	seasonHandler *handlers.SeasonHandler,
	tournamentHandler *handlers.TournamentHandler,
	resultHandler *handlers.ResultHandler,
	webSocketHandler *handlers.WebSocketHandler,
) {
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	authenticate := middleware.Authenticate([]byte(jwtSecret))
	staffOnly := middleware.Authorize(string(models.RoleAdmin), string(models.RoleStaff))
	adminOnly := middleware.Authorize(string(models.RoleAdmin))

	router.Get("/swagger/*", httpSwagger.WrapHandler)

	router.Post("/auth/signup", authHandler.SignUpHandler)
	router.Post("/auth/signin", authHandler.SignInHandler)

	router.Route("/players", func(r chi.Router) {
		// Публичные маршруты для просмотра игроков
		r.Get("/", playerHandler.ListHandler)
		r.Get("/{playerID}", playerHandler.GetByIDHandler)

		// Защищенные маршруты только для сотрудников лиги
		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			r.Use(staffOnly)

			r.Post("/", playerHandler.CreateHandler)
			r.Put("/{playerID}", playerHandler.UpdateHandler)
			r.Delete("/{playerID}", playerHandler.DeleteHandler)
			r.Post("/{playerID}/avatar", playerHandler.UploadAvatarHandler)
		})
	})

	router.Route("/seasons", func(r chi.Router) {
		r.Get("/", seasonHandler.ListHandler)
		r.Get("/{seasonID}", seasonHandler.GetByIDHandler)
		r.Get("/{seasonID}/leaderboard", seasonHandler.LeaderboardHandler)

		// Настройка сезонов и таблицы очков — только админ
		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			r.Use(adminOnly)

			r.Post("/", seasonHandler.CreateHandler)
			r.Put("/{seasonID}", seasonHandler.UpdateHandler)
			r.Delete("/{seasonID}", seasonHandler.DeleteHandler)
		})
	})

	router.Route("/tournaments", func(r chi.Router) {
		r.Get("/", tournamentHandler.ListHandler)
		r.Get("/{tournamentID}", tournamentHandler.GetByIDHandler)
		r.Get("/{tournamentID}/results", resultHandler.ListHandler)
		r.Get("/{tournamentID}/ws", webSocketHandler.ServeTournament)

		// Заявки подают авторизованные пользователи
		r.Group(func(r chi.Router) {
			r.Use(authenticate)

			r.Post("/{tournamentID}/applications", resultHandler.ApplyHandler)
		})

		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			r.Use(staffOnly)

			r.Post("/", tournamentHandler.CreateHandler)
			r.Put("/{tournamentID}", tournamentHandler.UpdateHandler)
			r.Delete("/{tournamentID}", tournamentHandler.DeleteHandler)
			r.Patch("/{tournamentID}/status", tournamentHandler.UpdateStatusHandler)
			r.Post("/{tournamentID}/complete", tournamentHandler.CompleteHandler)

			r.Post("/{tournamentID}/participants", resultHandler.AdmitHandler)
			r.Put("/{tournamentID}/participants/{playerID}/scores", resultHandler.UpdateScoresHandler)
			r.Get("/{tournamentID}/applications", resultHandler.ListApplicationsHandler)
		})
	})

	router.Route("/applications", func(r chi.Router) {
		r.Use(authenticate)
		r.Use(staffOnly)

		r.Patch("/{applicationID}", resultHandler.ResolveApplicationHandler)
	})
}
