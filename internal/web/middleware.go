package web

import (
	"net/http"

	"github.com/bcnelson/stackex/internal/auth"
)

// pageData fills the fields shared by every page.
func (s *Server) pageData(r *http.Request, title, active string) PageData {
	data := PageData{
		Title:       title,
		Active:      active,
		OIDCEnabled: s.oidc != nil,
	}
	if u, ok := auth.UserFromContext(r.Context()); ok {
		data.User = u
	}

	// Check for flash message in query params
	if msg := r.URL.Query().Get("error"); msg != "" {
		data.Flash = &FlashMessage{Type: "error", Message: msg}
	} else if msg := r.URL.Query().Get("notice"); msg != "" {
		data.Flash = &FlashMessage{Type: "info", Message: msg}
	}
	return data
}

// browseSession returns the browse session id of the request.
func browseSession(r *http.Request) string {
	return auth.BrowseSessionFromContext(r.Context())
}

// currentUser returns the signed-in user, if any.
func currentUser(r *http.Request) (*auth.User, bool) {
	return auth.UserFromContext(r.Context())
}
