package handler

import (
	"errors"
	"html/template"
	"net/http"
	"net/url"

	userdomain "cashbook-go/internal/domain/user"
)

// The two pages the auth redirect flow needs. Everything else is served by
// the JSON API; rendering a real frontend is not this server's job.

var loginPageTemplate = template.Must(template.New("login").Parse(`<!doctype html>
<html>
<head><title>Sign in</title></head>
<body>
<h1>Sign in</h1>
{{if .Failed}}<p>Invalid email or password.</p>{{end}}
<form method="post" action="/auth/login{{if .Callback}}?callback_url={{.Callback}}{{end}}">
<label>Email <input type="email" name="email" required></label>
<label>Password <input type="password" name="password" required></label>
<button type="submit">Sign in</button>
</form>
</body>
</html>
`))

type loginPageData struct {
	Failed   bool
	Callback string
}

func (h *Handlers) LoginPage(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_ = loginPageTemplate.Execute(w, loginPageData{
		Failed:   r.URL.Query().Get("error") != "",
		Callback: url.QueryEscape(sanitizeCallback(r.URL.Query().Get("callback_url"))),
	})
}

// LoginSubmit handles the HTML form flow: on success it sets the session
// cookie and sends the browser back to where the gate intercepted it.
func (h *Handlers) LoginSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid form body")
		return
	}

	callback := sanitizeCallback(r.URL.Query().Get("callback_url"))

	found, err := h.Users.Authenticate(r.Context(), r.PostFormValue("email"), r.PostFormValue("password"))
	if err != nil {
		if errors.Is(err, userdomain.ErrInvalidCredentials) {
			retry := "/auth/login?error=1"
			if callback != "" {
				retry += "&callback_url=" + url.QueryEscape(callback)
			}
			http.Redirect(w, r, retry, http.StatusSeeOther)
			return
		}
		h.log.InternalError("auth.login_form: authenticate failed", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	token, expires, err := h.Sessions.IssueToken(found.ID)
	if err != nil {
		h.log.InternalError("auth.login_form: issue token failed", err, "user_id", found.ID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}
	h.Sessions.SetCookie(w, token, expires)

	if callback == "" {
		callback = "/app"
	}
	http.Redirect(w, r, callback, http.StatusSeeOther)
}

var appShellTemplate = template.Must(template.New("app").Parse(`<!doctype html>
<html>
<head><title>Cashbook</title></head>
<body>
<h1>Cashbook</h1>
<p>Signed in. The ledger API lives under /api/spaces.</p>
</body>
</html>
`))

func (h *Handlers) AppShell(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_ = appShellTemplate.Execute(w, nil)
}
