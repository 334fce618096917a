// Package web wires the jokebox pages and form actions into an http.Handler.
//
// The heavy lifting (credentials, sessions, ownership) lives in the vault
// and session packages; this package is the glue that parses forms, decides
// redirects and renders templates.
package web

import (
	"context"
	"net/http"

	"jokebox/session"
	"jokebox/vault"

	"github.com/julienschmidt/httprouter"
)

type (
	Handler struct {
		store *vault.Store
		guard *session.Guard
		names *session.NameCache
		views *viewSet
	}
)

// AsHandler builds the full route table of the site on top of store and
// guard. The returned handler is safe for concurrent use.
func AsHandler(ctx context.Context, store *vault.Store, guard *session.Guard) (http.Handler, error) {
	views, err := parseViews()
	if err != nil {
		return nil, err
	}
	h := &Handler{
		store: store,
		guard: guard,
		names: session.NewNameCache(store.LookupUsername),
		views: views,
	}

	router := httprouter.New()
	router.HandlerFunc("GET", "/", h.home)
	router.HandlerFunc("GET", "/login", h.loginForm)
	router.HandlerFunc("POST", "/login", h.loginSubmit)
	router.HandlerFunc("GET", "/logout", h.logoutRedirect)
	router.HandlerFunc("POST", "/logout", h.logout)
	router.HandlerFunc("GET", "/jokes", h.jokesIndex)
	router.HandlerFunc("POST", "/jokes", h.createJoke)
	// httprouter cannot mix /jokes/new and /jokes/:id, the static
	// segment is carved out inside showJoke instead.
	router.HandlerFunc("GET", "/jokes/:id", h.showJoke)
	router.HandlerFunc("POST", "/jokes/:id/delete", h.deleteJoke)
	return router, nil
}

func jokeID(r *http.Request) string {
	return httprouter.ParamsFromContext(r.Context()).ByName("id")
}

// viewerName resolves the display name of the session user, if any.
// Failures here degrade to an anonymous-looking page, they never block
// a read path.
func (h *Handler) viewerName(r *http.Request) (userID, username string) {
	userID = h.guard.CurrentUserID(r)
	if userID == "" {
		return "", ""
	}
	username, _, _ = h.names.Username(r.Context(), userID)
	return userID, username
}
