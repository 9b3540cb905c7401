package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// RouterConfig contains the pieces the router wires together.
type RouterConfig struct {
	Auth     *AuthHandler
	Channels *ChannelHandler
	Videos   *VideoHandler
	Comments *CommentHandler

	// RequireAuth rejects requests without a valid token.
	RequireAuth func(http.Handler) http.Handler

	// Middlewares run outermost-first on every route.
	Middlewares []func(http.Handler) http.Handler

	// Health reports readiness of downstream dependencies.
	Health http.HandlerFunc

	Logger zerolog.Logger
}

// NewRouter builds the API route tree.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	for _, mw := range cfg.Middlewares {
		r.Use(mw)
	}

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeMessage(w, http.StatusNotFound, "Resource Not Found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeMessage(w, http.StatusMethodNotAllowed, "Method Not Allowed")
	})

	if cfg.Health != nil {
		r.Get("/health", cfg.Health)
	}

	r.Route("/api", func(api chi.Router) {
		api.Route("/auth", func(ar chi.Router) {
			ar.Post("/register", cfg.Auth.Register)
			ar.Post("/login", cfg.Auth.Login)
		})

		api.Route("/channels", func(cr chi.Router) {
			cr.Get("/{id}", cfg.Channels.Get)
			cr.With(cfg.RequireAuth).Post("/", cfg.Channels.Create)
		})

		api.Route("/videos", func(vr chi.Router) {
			vr.Get("/", cfg.Videos.List)
			vr.Get("/{id}", cfg.Videos.Get)
			vr.Post("/{id}/view", cfg.Videos.RecordView)

			vr.Group(func(pr chi.Router) {
				pr.Use(cfg.RequireAuth)
				pr.Get("/mine", cfg.Videos.ListMine)
				pr.Post("/", cfg.Videos.Create)
				pr.Patch("/{id}", cfg.Videos.Update)
				pr.Delete("/{id}", cfg.Videos.Delete)
				pr.Post("/{id}/like", cfg.Videos.Like)
				pr.Post("/{id}/dislike", cfg.Videos.Dislike)
			})
		})

		api.Route("/comments", func(cr chi.Router) {
			cr.Get("/video/{videoId}", cfg.Comments.ListByVideo)

			cr.Group(func(pr chi.Router) {
				pr.Use(cfg.RequireAuth)
				pr.Post("/video/{videoId}", cfg.Comments.Create)
				pr.Patch("/{id}", cfg.Comments.Update)
				pr.Delete("/{id}", cfg.Comments.Delete)
			})
		})
	})

	return r
}
