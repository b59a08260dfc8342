package api

import (
	"net/http"

	"github.com/bcnelson/stackex/internal/api/handler"
	"github.com/bcnelson/stackex/internal/api/middleware"
	"github.com/bcnelson/stackex/internal/auth"
	"github.com/bcnelson/stackex/internal/service"
	"github.com/bcnelson/stackex/internal/storage"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

// Dependencies are the services the router exposes.
type Dependencies struct {
	Store   storage.Storage
	Scripts *service.ScriptService
	Popular *service.PopularCache
	Stacks  *service.StackService
	Users   auth.UserResolver

	// SecureCookies sets the Secure flag on the browse session cookie.
	SecureCookies bool

	// Web is mounted at the root when set.
	Web http.Handler
}

// NewRouter creates a new HTTP router with all routes configured.
func NewRouter(deps Dependencies) http.Handler {
	users := deps.Users
	if users == nil {
		users = auth.Anonymous{}
	}

	r := chi.NewRouter()

	// Global middleware
	r.Use(chimw.Recoverer)
	r.Use(chimw.RequestID)
	r.Use(middleware.Logging)
	r.Use(auth.BrowseSession(deps.SecureCookies))
	r.Use(auth.Middleware(users))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := deps.Store.Ping(r.Context()); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"status":"unavailable"}`))
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	// Mount web UI (no Content-Type middleware - serves HTML)
	if deps.Web != nil {
		r.Mount("/", deps.Web)
	}

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.ContentType)

		scriptHandler := handler.NewScriptHandler(deps.Scripts)
		r.Post("/generate-script", scriptHandler.Generate)

		popularHandler := handler.NewPopularHandler(deps.Popular)
		r.Get("/popular-stacks", popularHandler.List)

		r.Get("/catalog", handler.Catalog)

		// Saved stacks (sign-in required)
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireUser)

			stackHandler := handler.NewStackHandler(deps.Stacks)
			r.Post("/stacks", stackHandler.Create)
			r.Get("/stacks", stackHandler.List)
			r.Delete("/stacks/{id}", stackHandler.Delete)
		})
	})

	return r
}
