package web

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/bcnelson/stackex/internal/auth"
	"github.com/bcnelson/stackex/internal/preview"
	"github.com/bcnelson/stackex/internal/service"
	"github.com/go-chi/chi/v5"
)

//go:embed templates static
var content embed.FS

// OIDCComponents holds the sign-in pieces; nil when OIDC is disabled.
type OIDCComponents struct {
	Provider  auth.Authenticator
	Sessions  *auth.SessionManager
	States    *auth.StateStore
	LogoutURL string
}

// Options are the dependencies of the web UI.
type Options struct {
	Previews      *preview.Registry
	Popular       *service.PopularCache
	Stacks        *service.StackService
	OIDC          *OIDCComponents
	SecureCookies bool
}

// Server holds dependencies for web handlers.
type Server struct {
	previews *preview.Registry
	popular  *service.PopularCache
	stacks   *service.StackService
	oidc     *OIDCComponents
	secure   bool

	templates map[string]*template.Template
	funcMap   template.FuncMap
}

// NewRouter creates a new web router with all routes configured.
func NewRouter(opts Options) (http.Handler, error) {
	s := &Server{
		previews: opts.Previews,
		popular:  opts.Popular,
		stacks:   opts.Stacks,
		oidc:     opts.OIDC,
		secure:   opts.SecureCookies,
	}

	templates, err := s.parseTemplates()
	if err != nil {
		return nil, err
	}
	s.templates = templates

	r := chi.NewRouter()

	// Static files
	staticFS, _ := fs.Sub(content, "static")
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(staticFS))))

	r.Get("/", s.handleHome)
	r.Get("/select", s.handleSelectPage)
	r.Post("/select", s.handleSelect)
	r.Post("/select/saved/{id}/delete", s.handleSavedDelete)

	r.Get("/preview", s.handlePreview)
	r.Get("/preview/download", s.handleDownload)
	r.Get("/preview/raw", s.handleRaw)
	r.Post("/preview/discard", s.handleDiscard)

	r.Get("/auth/login", s.handleOIDCLogin)
	r.Get("/auth/callback", s.handleOIDCCallback)
	r.Get("/auth/logout", s.handleLogout)
	r.Post("/auth/logout", s.handleLogout)

	return r, nil
}

// parseTemplates parses all templates with custom functions.
func (s *Server) parseTemplates() (map[string]*template.Template, error) {
	s.funcMap = template.FuncMap{
		"join":  strings.Join,
		"lower": strings.ToLower,
		"dict":  dict,
	}

	templates := make(map[string]*template.Template)

	// Read base template and components
	baseContent, err := content.ReadFile("templates/base.html")
	if err != nil {
		return nil, err
	}
	var base strings.Builder
	base.Write(baseContent)
	components, _ := fs.Glob(content, "templates/components/*.html")
	for _, path := range components {
		c, _ := content.ReadFile(path)
		base.Write(c)
	}

	// Parse each page template separately with the base
	pageFiles, _ := fs.Glob(content, "templates/pages/*.html")
	for _, pagePath := range pageFiles {
		pageName := strings.TrimSuffix(filepath.Base(pagePath), ".html")

		pageContent, _ := content.ReadFile(pagePath)

		tmpl, err := template.New(pageName).Funcs(s.funcMap).Parse(base.String() + string(pageContent))
		if err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", pageName, err)
		}
		templates[pageName] = tmpl
	}

	return templates, nil
}

// dict creates a map from key-value pairs for use in templates.
func dict(values ...any) map[string]any {
	if len(values)%2 != 0 {
		return nil
	}
	m := make(map[string]any, len(values)/2)
	for i := 0; i < len(values); i += 2 {
		key, ok := values[i].(string)
		if !ok {
			continue
		}
		m[key] = values[i+1]
	}
	return m
}

// PageData holds common data passed to all page templates.
type PageData struct {
	Title       string
	Active      string // Current nav item
	Flash       *FlashMessage
	User        *auth.User
	OIDCEnabled bool
	Refresh     int // Seconds before the page reloads itself; 0 disables
	RefreshURL  string
	Content     any
}

// FlashMessage represents a flash message.
type FlashMessage struct {
	Type    string // "success", "error", "info"
	Message string
}
