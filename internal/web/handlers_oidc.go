package web

import (
	"log"
	"net/http"
	"net/url"

	"github.com/bcnelson/stackex/internal/auth"
)

// handleOIDCLogin initiates the OIDC login flow.
func (s *Server) handleOIDCLogin(w http.ResponseWriter, r *http.Request) {
	if s.oidc == nil {
		http.Error(w, "OIDC authentication is not enabled", http.StatusNotFound)
		return
	}

	// Generate state and nonce
	stateData, err := s.oidc.States.Generate(w, r.URL.Query().Get("return_to"))
	if err != nil {
		log.Printf("Failed to generate OIDC state: %v", err)
		http.Redirect(w, r, "/?error="+url.QueryEscape("Failed to initiate login"), http.StatusSeeOther)
		return
	}

	// Redirect to OIDC provider
	authURL := s.oidc.Provider.AuthCodeURL(stateData.State, stateData.Nonce)
	http.Redirect(w, r, authURL, http.StatusSeeOther)
}

// handleOIDCCallback handles the OIDC callback after authentication.
func (s *Server) handleOIDCCallback(w http.ResponseWriter, r *http.Request) {
	if s.oidc == nil {
		http.Error(w, "OIDC authentication is not enabled", http.StatusNotFound)
		return
	}

	ctx := r.Context()

	// Check for error from provider
	if errParam := r.URL.Query().Get("error"); errParam != "" {
		errDesc := r.URL.Query().Get("error_description")
		if errDesc == "" {
			errDesc = errParam
		}
		log.Printf("OIDC provider returned error: %s - %s", errParam, errDesc)
		http.Redirect(w, r, "/?error="+url.QueryEscape(errDesc), http.StatusSeeOther)
		return
	}

	// Get authorization code
	code := r.URL.Query().Get("code")
	if code == "" {
		http.Redirect(w, r, "/?error="+url.QueryEscape("No authorization code received"), http.StatusSeeOther)
		return
	}

	// Validate state
	stateData, err := s.oidc.States.Validate(r, r.URL.Query().Get("state"))
	if err != nil {
		log.Printf("OIDC state validation failed: %v", err)
		http.Redirect(w, r, "/?error="+url.QueryEscape("Invalid state parameter"), http.StatusSeeOther)
		return
	}

	// Clear state cookie
	s.oidc.States.Clear(w)

	// Exchange code for tokens
	claims, err := s.oidc.Provider.Exchange(ctx, code, stateData.Nonce)
	if err != nil {
		log.Printf("OIDC token exchange failed: %v", err)
		http.Redirect(w, r, "/?error="+url.QueryEscape("Failed to complete authentication"), http.StatusSeeOther)
		return
	}

	// Validate claims (domain restriction, etc.)
	if err := s.oidc.Provider.ValidateClaims(claims); err != nil {
		log.Printf("OIDC claims validation failed: %v", err)
		http.Redirect(w, r, "/?error="+url.QueryEscape(err.Error()), http.StatusSeeOther)
		return
	}

	session := &auth.Session{
		Subject: claims.Subject,
		Email:   claims.Email,
		Name:    claims.Name,
	}
	if err := s.oidc.Sessions.Create(w, session); err != nil {
		log.Printf("Failed to create OIDC session: %v", err)
		http.Redirect(w, r, "/?error="+url.QueryEscape("Failed to create session"), http.StatusSeeOther)
		return
	}

	log.Printf("Signed in %s", claims.Subject)
	http.Redirect(w, r, auth.SafeReturnTo(stateData.ReturnTo), http.StatusSeeOther)
}

// handleLogout signs out, forgets the session caches and starts a fresh
// browse session.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	session := browseSession(r)
	s.popular.Invalidate(session)
	s.previews.Discard(session)

	if _, err := auth.RotateBrowseSession(w, s.secure); err != nil {
		log.Printf("Failed to rotate browse session: %v", err)
	}

	if s.oidc == nil {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	s.oidc.Sessions.Clear(w)
	if s.oidc.LogoutURL != "" {
		http.Redirect(w, r, s.oidc.LogoutURL, http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
