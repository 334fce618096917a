package web

import (
	"errors"
	"fmt"
	"net/http"

	"jokebox/vault"
)

type (
	loginView struct {
		Username   string
		RedirectTo string
		Action     LoginActionData
	}
)

func (h *Handler) loginForm(w http.ResponseWriter, r *http.Request) {
	_, username := h.viewerName(r)
	h.render(w, r, http.StatusOK, "login.html", loginView{
		Username:   username,
		RedirectTo: r.URL.Query().Get("redirectTo"),
	})
}

func (h *Handler) loginSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.loginFailed(w, r, "", http.StatusBadRequest, LoginActionData{
			FormError: "Form not submitted correctly.",
		})
		return
	}
	redirectTo := safeRedirect(r.PostFormValue("redirectTo"))
	loginType := r.PostFormValue("loginType")
	username := r.PostFormValue("username")
	password := r.PostFormValue("password")

	fields := &LoginFields{LoginType: loginType, Username: username}
	fieldErrors := LoginFieldErrors{
		Username: validateUsername(username),
		Password: validatePassword(password),
	}
	if fieldErrors.Username != "" || fieldErrors.Password != "" {
		h.loginFailed(w, r, redirectTo, http.StatusBadRequest, LoginActionData{
			FieldErrors: &fieldErrors,
			Fields:      fields,
		})
		return
	}

	switch loginType {
	case "login":
		user, ok, err := h.store.VerifyCredentials(r.Context(), username, password)
		if err != nil {
			h.unexpected(w, r, err)
			return
		}
		if !ok {
			h.loginFailed(w, r, redirectTo, http.StatusBadRequest, LoginActionData{
				FormError: "Username/password combination is incorrect.",
				Fields:    fields,
			})
			return
		}
		h.startSession(w, r, user.ID, redirectTo)
	case "register":
		user, err := h.store.Register(r.Context(), username, password)
		var taken vault.UsernameTaken
		if errors.As(err, &taken) {
			h.loginFailed(w, r, redirectTo, http.StatusBadRequest, LoginActionData{
				FormError: fmt.Sprintf("User with username %v already exists", username),
				Fields:    fields,
			})
			return
		} else if err != nil {
			h.unexpected(w, r, err)
			return
		}
		h.startSession(w, r, user.ID, redirectTo)
	default:
		h.loginFailed(w, r, redirectTo, http.StatusBadRequest, LoginActionData{
			FormError: "Login type invalid",
			Fields:    fields,
		})
	}
}

func (h *Handler) startSession(w http.ResponseWriter, r *http.Request, userID, redirectTo string) {
	if err := h.guard.CreateSession(w, r, userID, redirectTo); err != nil {
		h.unexpected(w, r, err)
	}
}

func (h *Handler) loginFailed(w http.ResponseWriter, r *http.Request, redirectTo string, status int, data LoginActionData) {
	if wantsJSON(r) {
		writeJSON(w, r, status, data)
		return
	}
	h.render(w, r, status, "login.html", loginView{
		RedirectTo: redirectTo,
		Action:     data,
	})
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	h.guard.EndSession(w, r)
}

func (h *Handler) logoutRedirect(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/", http.StatusFound)
}
