package web

import (
	"errors"
	"fmt"
	"net/http"

	"jokebox/session"
	"jokebox/vault"

	"github.com/cespare/xxhash/v2"
)

type (
	homeView struct {
		Username string
	}

	jokesIndexView struct {
		Username string
		Jokes    []vault.JokeRef
		Random   *vault.Joke
	}

	jokeView struct {
		Username string
		Joke     vault.Joke
		IsOwner  bool
	}

	newJokeView struct {
		Username string
		Action   JokeActionData
	}
)

const recentJokes = 5

func (h *Handler) home(w http.ResponseWriter, r *http.Request) {
	_, username := h.viewerName(r)
	h.render(w, r, http.StatusOK, "home.html", homeView{Username: username})
}

func (h *Handler) jokesIndex(w http.ResponseWriter, r *http.Request) {
	_, username := h.viewerName(r)
	refs, err := h.store.ListJokes(r.Context(), recentJokes)
	if err != nil {
		h.unexpected(w, r, err)
		return
	}
	view := jokesIndexView{Username: username, Jokes: refs}
	random, found, err := h.store.RandomJoke(r.Context())
	if err != nil {
		h.unexpected(w, r, err)
		return
	}
	if found {
		view.Random = &random
	}
	h.render(w, r, http.StatusOK, "jokes.html", view)
}

func (h *Handler) showJoke(w http.ResponseWriter, r *http.Request) {
	id := jokeID(r)
	if id == "new" {
		h.newJokeForm(w, r)
		return
	}
	userID, username := h.viewerName(r)
	joke, err := h.store.Joke(r.Context(), id)
	var missing vault.JokeNotFound
	if errors.As(err, &missing) {
		h.errorPage(w, r, http.StatusNotFound, fmt.Sprintf("Huh? What the heck is %q?", id))
		return
	} else if err != nil {
		h.unexpected(w, r, err)
		return
	}
	etag := jokeETag(joke)
	if r.Header.Get("If-None-Match") == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("ETag", etag)
	h.render(w, r, http.StatusOK, "joke.html", jokeView{
		Username: username,
		Joke:     joke,
		IsOwner:  vault.CanMutate(joke.OwnerID, userID),
	})
}

func jokeETag(j vault.Joke) string {
	d := xxhash.New()
	d.WriteString(j.Name)
	d.WriteString("\x00")
	d.WriteString(j.Content)
	return fmt.Sprintf(`"%016x"`, d.Sum64())
}

func (h *Handler) newJokeForm(w http.ResponseWriter, r *http.Request) {
	userID, username := h.viewerName(r)
	if userID == "" {
		h.errorPage(w, r, http.StatusUnauthorized, "You must be logged in to create a joke")
		return
	}
	h.render(w, r, http.StatusOK, "joke_new.html", newJokeView{Username: username})
}

func (h *Handler) createJoke(w http.ResponseWriter, r *http.Request) {
	userID, err := h.guard.RequireUserID(r)
	var unauth session.Unauthorized
	if errors.As(err, &unauth) {
		// send the user back to the form, not to the POST target
		http.Redirect(w, r, h.guard.LoginURL("/jokes/new"), http.StatusFound)
		return
	}
	if err := r.ParseForm(); err != nil {
		h.jokeFailed(w, r, http.StatusBadRequest, JokeActionData{
			FormError: "Form not submitted correctly.",
		})
		return
	}
	name := r.PostFormValue("name")
	content := r.PostFormValue("content")
	fieldErrors := JokeFieldErrors{
		Name:    validateJokeName(name),
		Content: validateJokeContent(content),
	}
	if fieldErrors.Name != "" || fieldErrors.Content != "" {
		h.jokeFailed(w, r, http.StatusBadRequest, JokeActionData{
			FieldErrors: &fieldErrors,
			Fields:      &JokeFields{Name: name, Content: content},
		})
		return
	}
	joke, err := h.store.CreateJoke(r.Context(), userID, name, content)
	if err != nil {
		h.unexpected(w, r, err)
		return
	}
	http.Redirect(w, r, "/jokes/"+joke.ID, http.StatusFound)
}

func (h *Handler) jokeFailed(w http.ResponseWriter, r *http.Request, status int, data JokeActionData) {
	if wantsJSON(r) {
		writeJSON(w, r, status, data)
		return
	}
	_, username := h.viewerName(r)
	h.render(w, r, status, "joke_new.html", newJokeView{Username: username, Action: data})
}

func (h *Handler) deleteJoke(w http.ResponseWriter, r *http.Request) {
	id := jokeID(r)
	userID, err := h.guard.RequireUserID(r)
	var unauth session.Unauthorized
	if errors.As(err, &unauth) {
		http.Redirect(w, r, h.guard.LoginURL("/jokes/"+id), http.StatusFound)
		return
	}
	joke, err := h.store.Joke(r.Context(), id)
	var missing vault.JokeNotFound
	if errors.As(err, &missing) {
		h.errorPage(w, r, http.StatusNotFound, "Can't delete what does not exist")
		return
	} else if err != nil {
		h.unexpected(w, r, err)
		return
	}
	if !vault.CanMutate(joke.OwnerID, userID) {
		h.errorPage(w, r, http.StatusForbidden, "Pssh, nice try. That's not your joke")
		return
	}
	if err := h.store.DeleteJoke(r.Context(), id); err != nil {
		h.unexpected(w, r, err)
		return
	}
	http.Redirect(w, r, "/jokes", http.StatusFound)
}
