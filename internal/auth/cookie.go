package auth

import (
	"net/http"
	"time"
)

// CookieName is the session cookie name.
const CookieName = "token"

// AttachSession sets the session cookie on the response. SameSite=None is
// required because the frontend is served from a different origin, and
// None mandates Secure.
func AttachSession(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(SessionTTL),
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
	})
}

// ExtractSession reads the session token from the request cookie, falling
// back to a bearer Authorization header. Returns "" when absent.
func ExtractSession(r *http.Request) string {
	if cookie, err := r.Cookie(CookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	const prefix = "Bearer "
	authHeader := r.Header.Get("Authorization")
	if len(authHeader) > len(prefix) && authHeader[:len(prefix)] == prefix {
		return authHeader[len(prefix):]
	}
	return ""
}

// ClearSession overwrites the session cookie with an empty, already-expired
// value. This revokes the session at the client only; the server keeps no
// session table, so a stolen token stays valid until its natural expiry.
func ClearSession(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
	})
}
