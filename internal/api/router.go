package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/isdelr/life-planner-be/internal/api/handlers"
	"github.com/isdelr/life-planner-be/internal/auth"
	"github.com/isdelr/life-planner-be/internal/monitoring"
	"github.com/isdelr/life-planner-be/internal/services"
	"github.com/isdelr/life-planner-be/internal/websocket"
	"github.com/isdelr/life-planner-be/web"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"
)

// App is the set of collaborators the HTTP layer is built from. It is
// assembled once in main.
type App struct {
	Logger      zerolog.Logger
	Gate        *auth.Gate
	Users       services.UserServiceProvider
	Tasks       services.TaskServiceProvider
	Settings    services.SettingsServiceProvider
	Stats       services.StatsServiceProvider
	Events      services.EventServiceProvider
	Hub         *websocket.Hub
	Probe       *monitoring.Probe
	CORSOrigins []string
}

// NewRouter creates and configures a new Chi router.
func NewRouter(app App) *chi.Mux {
	r := chi.NewRouter()

	// Basic middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(hlog.NewHandler(app.Logger))
	r.Use(accessLog)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   app.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	userHandler := handlers.NewUserHandler(app.Users)
	taskHandler := handlers.NewTaskHandler(app.Tasks)
	statsHandler := handlers.NewStatsHandler(app.Stats)
	settingsHandler := handlers.NewSettingsHandler(app.Settings)
	eventHandler := handlers.NewEventHandler(app.Events)
	healthHandler := handlers.NewHealthHandler(app.Probe)
	wsHandler := handlers.NewWebSocketHandler(app.Hub, app.Gate, app.CORSOrigins)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", healthHandler.Get)

		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", userHandler.Register)
			r.Post("/login", userHandler.Login)
			r.With(app.Gate.Middleware).Get("/me", userHandler.Me)
		})

		// The live feed resolves its own identity before upgrading.
		r.Get("/ws", wsHandler.Serve)

		// Everything below is usable anonymously; a bad token still fails.
		r.Group(func(r chi.Router) {
			r.Use(app.Gate.Middleware)

			r.Route("/tasks", func(r chi.Router) {
				r.Get("/", taskHandler.GetAll)
				r.Post("/", taskHandler.Create)
				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", taskHandler.Get)
					r.Put("/", taskHandler.Update)
					r.Delete("/", taskHandler.Delete)
				})
			})

			r.Get("/stats", statsHandler.Get)
			r.Get("/settings", settingsHandler.Get)
			r.Put("/settings", settingsHandler.Update)
			r.Get("/activity", eventHandler.GetRecent)
		})
	})

	static := web.Static()
	r.Get("/", web.IndexHandler(static))
	r.Handle("/static/*", web.AssetHandler(static))

	return r
}

// accessLog writes one line per request through the request-scoped logger.
var accessLog = hlog.AccessHandler(func(r *http.Request, status, size int, duration time.Duration) {
	hlog.FromRequest(r).Info().
		Str("request_id", middleware.GetReqID(r.Context())).
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Int("status", status).
		Int("size", size).
		Dur("duration", duration).
		Msg("request")
})
