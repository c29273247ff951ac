package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/taskpilot/taskpilot-api/internal/auth"
	"github.com/taskpilot/taskpilot-api/internal/config"
	googlecalendar "github.com/taskpilot/taskpilot-api/internal/google_calendar"
	"github.com/taskpilot/taskpilot-api/internal/middlewares"
	"github.com/taskpilot/taskpilot-api/internal/task"
)

type RouterConfig struct {
	TaskHandler     *task.Handler
	CalendarHandler *googlecalendar.Handler
}

func New(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middlewares.CorsMiddleware)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		config.JSON(w, http.StatusOK, map[string]bool{"ok": true})
	})

	// The OAuth callback carries the user identity in the state payload, so
	// it stays outside the auth group.
	r.Get("/calendar/oauth2callback", cfg.CalendarHandler.OAuth2Callback)

	r.Group(func(r chi.Router) {
		r.Use(auth.AuthMiddleware)

		r.Get("/calendar/authorize", cfg.CalendarHandler.Authorize)
		r.Mount("/tasks", task.Routes(cfg.TaskHandler))
	})

	return r
}
