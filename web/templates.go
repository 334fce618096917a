package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"jokebox/internal/logutil"
)

//go:embed templates/*.html
var templateFS embed.FS

type (
	viewSet struct {
		views map[string]*template.Template
	}

	// errorView backs the shared error page (401/403/404/500).
	errorView struct {
		Username  string
		Status    int
		Message   string
		LoginLink bool
	}
)

var viewNames = []string{
	"home.html",
	"login.html",
	"jokes.html",
	"joke.html",
	"joke_new.html",
	"error.html",
}

func parseViews() (*viewSet, error) {
	vs := &viewSet{views: make(map[string]*template.Template)}
	for _, name := range viewNames {
		t, err := template.ParseFS(templateFS, "templates/layout.html", "templates/"+name)
		if err != nil {
			return nil, fmt.Errorf("unable to parse view %v, cause %w", name, err)
		}
		vs.views[name] = t
	}
	return vs, nil
}

// render executes the named view into a buffer first so a template error
// never leaks a half-written page to the client.
func (h *Handler) render(w http.ResponseWriter, r *http.Request, status int, view string, data interface{}) {
	t, ok := h.views.views[view]
	if !ok {
		logger := logutil.GetOrDefault(r.Context())
		logger.Error().Str("view", view).Msg("Unknown view")
		http.Error(w, "something went wrong rendering this page", http.StatusInternalServerError)
		return
	}
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", data); err != nil {
		logger := logutil.GetOrDefault(r.Context())
		logger.Error().Err(err).Str("view", view).Msg("Unable to render view")
		http.Error(w, "something went wrong rendering this page", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	w.Write(buf.Bytes())
}

func (h *Handler) errorPage(w http.ResponseWriter, r *http.Request, status int, message string) {
	_, username := h.viewerName(r)
	h.render(w, r, status, "error.html", errorView{
		Username:  username,
		Status:    status,
		Message:   message,
		LoginLink: status == http.StatusUnauthorized,
	})
}

// unexpected is the generic boundary for infrastructure failures: log the
// cause, show nothing about it to the user.
func (h *Handler) unexpected(w http.ResponseWriter, r *http.Request, err error) {
	logger := logutil.GetOrDefault(r.Context())
	logger.Error().Err(err).Msg("Unexpected error")
	h.errorPage(w, r, http.StatusInternalServerError, "Something unexpected went wrong. Sorry about that.")
}
