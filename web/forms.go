package web

import (
	"encoding/json"
	"net/http"
	"strings"

	"jokebox/internal/logutil"
)

type (
	// LoginFields echoes what the user submitted so the form can be
	// re-rendered with their input preserved. The password is never
	// echoed back.
	LoginFields struct {
		LoginType string `json:"loginType"`
		Username  string `json:"username"`
	}

	LoginFieldErrors struct {
		Username string `json:"username,omitempty"`
		Password string `json:"password,omitempty"`
	}

	// LoginActionData is the structured outcome of a failed login or
	// register submission.
	LoginActionData struct {
		FormError   string            `json:"formError,omitempty"`
		FieldErrors *LoginFieldErrors `json:"fieldErrors,omitempty"`
		Fields      *LoginFields      `json:"fields,omitempty"`
	}

	JokeFields struct {
		Name    string `json:"name"`
		Content string `json:"content"`
	}

	JokeFieldErrors struct {
		Name    string `json:"name,omitempty"`
		Content string `json:"content,omitempty"`
	}

	// JokeActionData is the structured outcome of a failed joke
	// submission.
	JokeActionData struct {
		FormError   string           `json:"formError,omitempty"`
		FieldErrors *JokeFieldErrors `json:"fieldErrors,omitempty"`
		Fields      *JokeFields      `json:"fields,omitempty"`
	}
)

func validateUsername(username string) string {
	if len(username) < 3 {
		return "Usernames must be at least 3 characters long"
	}
	return ""
}

func validatePassword(password string) string {
	if len(password) < 6 {
		return "Passwords must be at least 6 characters long"
	}
	return ""
}

func validateJokeName(name string) string {
	if len(name) < 3 {
		return "That joke's name is too short"
	}
	return ""
}

func validateJokeContent(content string) string {
	if len(content) < 10 {
		return "That joke is too short"
	}
	return ""
}

// safeRedirect keeps redirect targets inside the site. Anything that is
// not a local absolute path falls back to the jokes landing page.
func safeRedirect(target string) string {
	if target == "" || !strings.HasPrefix(target, "/") || strings.HasPrefix(target, "//") {
		return "/jokes"
	}
	return target
}

func wantsJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger := logutil.GetOrDefault(r.Context())
		logger.Error().Err(err).Msg("Unable to encode response")
	}
}
