package auth

import (
	"context"
	"log"
	"net/http"
)

// BrowseCookieName identifies a browser session independently of sign-in.
const BrowseCookieName = "stackex_browse"

// WithBrowseSession returns a context carrying the browse session id.
func WithBrowseSession(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, sessionContextKey, id)
}

// BrowseSessionFromContext returns the browse session id of the request.
func BrowseSessionFromContext(ctx context.Context) string {
	id, _ := ctx.Value(sessionContextKey).(string)
	return id
}

// BrowseSession makes sure every request carries a browse session id,
// issuing a new cookie when the browser has none.
func BrowseSession(secure bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var id string
			if c, err := r.Cookie(BrowseCookieName); err == nil && len(c.Value) >= 16 {
				id = c.Value
			} else {
				generated, err := GenerateSecureString(24)
				if err != nil {
					log.Printf("Failed to generate browse session: %v", err)
					http.Error(w, "Internal server error", http.StatusInternalServerError)
					return
				}
				id = generated
				http.SetCookie(w, &http.Cookie{
					Name:     BrowseCookieName,
					Value:    id,
					Path:     "/",
					HttpOnly: true,
					SameSite: http.SameSiteLaxMode,
					Secure:   secure,
				})
			}
			next.ServeHTTP(w, r.WithContext(WithBrowseSession(r.Context(), id)))
		})
	}
}

// RotateBrowseSession issues a fresh browse session id, for use on sign-out.
func RotateBrowseSession(w http.ResponseWriter, secure bool) (string, error) {
	id, err := GenerateSecureString(24)
	if err != nil {
		return "", err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     BrowseCookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   secure,
	})
	return id, nil
}
