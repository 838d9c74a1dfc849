package utils

import (
	"net/http"
	"time"
)

const (
	AccessTokenCookie  = "accessToken"
	RefreshTokenCookie = "refreshToken"
)

func authCookie(name, value string, expires time.Time, cfg CookieConfig) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Domain:   cfg.Domain,
		Expires:  expires,
		HttpOnly: true,
		Secure:   cfg.Secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// SetAccessCookie stores the access token in an httpOnly cookie.
func SetAccessCookie(w http.ResponseWriter, token string, expires time.Time, cfg CookieConfig) {
	http.SetCookie(w, authCookie(AccessTokenCookie, token, expires, cfg))
}

// SetRefreshCookie stores the refresh token in an httpOnly cookie.
func SetRefreshCookie(w http.ResponseWriter, token string, expires time.Time, cfg CookieConfig) {
	http.SetCookie(w, authCookie(RefreshTokenCookie, token, expires, cfg))
}

// ClearAuthCookies expires both token cookies.
func ClearAuthCookies(w http.ResponseWriter, cfg CookieConfig) {
	for _, name := range []string{AccessTokenCookie, RefreshTokenCookie} {
		c := authCookie(name, "", time.Unix(0, 0), cfg)
		c.MaxAge = -1
		http.SetCookie(w, c)
	}
}

// CookieValue returns the named cookie's value or "".
func CookieValue(r *http.Request, name string) string {
	c, err := r.Cookie(name)
	if err != nil {
		return ""
	}
	return c.Value
}
