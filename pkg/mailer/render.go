package mailer

import (
	"bytes"
	"fmt"
	htmpl "html/template"
	texttpl "text/template"
)

type pair struct {
	text *texttpl.Template
	html *htmpl.Template
}

const layout = `<!doctype html><html><body style="font-family:sans-serif">%s</body></html>`

var bodies = map[string]string{
	UserCreated:     `Hello {{.Username}}, an account was created for you on {{.TimeAt}}.`,
	PasswordChanged: `Hello {{.Username}}, the password of your account was changed on {{.TimeAt}}. If this was not you, contact an administrator.`,
	UserDeleted:     `Hello {{.Username}}, your account was removed on {{.TimeAt}}.`,
}

var templates = func() map[string]pair {
	out := make(map[string]pair, len(bodies))
	for name, body := range bodies {
		out[name] = pair{
			text: texttpl.Must(texttpl.New(name).Parse(body)),
			html: htmpl.Must(htmpl.New(name).Parse(fmt.Sprintf(layout, "<p>"+body+"</p>"))),
		}
	}
	return out
}()

// Render renders the text and HTML bodies of an account template.
func Render(name string, data map[string]any) (string, string, error) {
	t, ok := templates[name]
	if !ok {
		return "", "", fmt.Errorf("unknown template %q", name)
	}
	var text, html bytes.Buffer
	if err := t.text.Execute(&text, data); err != nil {
		return "", "", err
	}
	if err := t.html.Execute(&html, data); err != nil {
		return "", "", err
	}
	return text.String(), html.String(), nil
}
