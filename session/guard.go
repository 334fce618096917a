package session

import (
	"fmt"
	"net/http"
	"net/url"
	"time"
)

const (
	// DefaultCookieName is the cookie that carries the session token.
	DefaultCookieName = "RJ_session"
)

type (
	// Guard reads and writes the session cookie on behalf of the HTTP
	// layer. It is the single gate between "there is a cookie" and
	// "there is a user id".
	Guard struct {
		codec      *Codec
		cookieName string
		secure     bool
		loginPath  string
	}

	// Unauthorized is returned by RequireUserID when no valid session is
	// attached to the request. It carries the path the user was trying to
	// reach so the caller can send them back there after login.
	Unauthorized struct {
		ReturnTo string
	}
)

func (u Unauthorized) Error() string {
	return fmt.Sprintf("unauthorized, login required to reach %v", u.ReturnTo)
}

// NewGuard builds a Guard around codec. secure controls the Secure cookie
// attribute and should be on whenever the site is served over TLS.
func NewGuard(codec *Codec, secure bool) *Guard {
	return &Guard{
		codec:      codec,
		cookieName: DefaultCookieName,
		secure:     secure,
		loginPath:  "/login",
	}
}

// CurrentUserID extracts the user id of the session attached to r.
// A missing cookie, a forged token and an expired token all yield the
// empty string: an anonymous request, never an error.
func (g *Guard) CurrentUserID(r *http.Request) string {
	cookie, err := r.Cookie(g.cookieName)
	if err != nil || cookie.Value == "" {
		return ""
	}
	userID, err := g.codec.Decode(cookie.Value)
	if err != nil {
		return ""
	}
	return userID
}

// RequireUserID is CurrentUserID for routes that must not run anonymously.
// Without a valid session it fails with Unauthorized carrying the request
// URI, and the caller decides how to redirect.
func (g *Guard) RequireUserID(r *http.Request) (string, error) {
	userID := g.CurrentUserID(r)
	if userID == "" {
		return "", Unauthorized{ReturnTo: r.URL.RequestURI()}
	}
	return userID, nil
}

// LoginURL points at the login page with returnTo preserved as the
// redirectTo query parameter.
func (g *Guard) LoginURL(returnTo string) string {
	v := url.Values{}
	v.Set("redirectTo", returnTo)
	return g.loginPath + "?" + v.Encode()
}

// CreateSession mints a fresh session for userID, attaches it as a cookie
// and redirects to redirectTo.
func (g *Guard) CreateSession(w http.ResponseWriter, r *http.Request, userID, redirectTo string) error {
	token, err := g.codec.Encode(userID)
	if err != nil {
		return fmt.Errorf("unable to encode session token, cause %w", err)
	}
	http.SetCookie(w, g.cookie(token, int(g.codec.MaxAge()/time.Second)))
	http.Redirect(w, r, redirectTo, http.StatusFound)
	return nil
}

// EndSession drops the client-side session by overwriting the cookie with
// an already-expired value and redirects to home. It does not care whether
// a valid session existed, so it is idempotent.
func (g *Guard) EndSession(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, g.cookie("", -1))
	http.Redirect(w, r, "/", http.StatusFound)
}

func (g *Guard) cookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     g.cookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   g.secure,
		SameSite: http.SameSiteLaxMode,
	}
}
