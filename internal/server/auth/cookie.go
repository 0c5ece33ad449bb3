package auth

import (
	"net/http"
	"time"

	"github.com/dmitrijs2005/contactshare/internal/common"
)

// SetSessionCookie stores token in the session cookie. secure is set when the
// server runs in production.
func SetSessionCookie(w http.ResponseWriter, token string, validity time.Duration, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     common.SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(validity / time.Second),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearSessionCookie tells the client to drop the session cookie.
func ClearSessionCookie(w http.ResponseWriter, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     common.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// TokenFromRequest returns the session token carried by r, if any.
func TokenFromRequest(r *http.Request) (string, bool) {
	c, err := r.Cookie(common.SessionCookieName)
	if err != nil || c.Value == "" {
		return "", false
	}
	return c.Value, true
}
