// Package view renders the server's HTML pages and Datastar fragments.
package view

import (
	"context"
	"embed"
	"encoding/json"
	"html/template"
	"io"
	"strings"
	"time"

	"github.com/a-h/templ"
	"github.com/msomdec/college-chatbot/internal/domain"
	"github.com/msomdec/college-chatbot/internal/validate"
)

//go:embed templates/*.html
var templateFS embed.FS

var funcs = template.FuncMap{
	"fieldError": func(errs map[string]string, name string) fieldErrorView {
		return fieldErrorView{Name: name, Message: errs[name]}
	},
	"percent": func(n, of int) int {
		if of == 0 {
			return 0
		}
		return n * 100 / of
	},
	"inc":  func(i int) int { return i + 1 },
	"join": strings.Join,
	"clock": func(t time.Time) string {
		return t.UTC().Format("15:04:05 UTC")
	},
	"stamp": func(t time.Time) string {
		return t.UTC().Format("Jan 2, 2006 15:04 UTC")
	},
	"signupSignals": func(f domain.SignupForm) (string, error) {
		b, err := json.Marshal(map[string]string{
			string(validate.FieldFullName):    f.FullName,
			string(validate.FieldWorkEmail):   f.WorkEmail,
			string(validate.FieldPassword):    "",
			string(validate.FieldCollegeURL):  f.CollegeURL,
			string(validate.FieldPhoneNumber): f.PhoneNumber,
		})
		return string(b), err
	},
}

var (
	pages     = map[string]*template.Template{}
	fragments = template.Must(template.New("fragments").Funcs(funcs).ParseFS(templateFS, "templates/partials.html"))
)

func init() {
	for _, name := range []string{"home", "chatbot", "signup", "verify", "login", "dashboard", "notfound"} {
		pages[name] = template.Must(template.New(name).Funcs(funcs).ParseFS(templateFS,
			"templates/layout.html",
			"templates/partials.html",
			"templates/"+name+".html",
		))
	}
}

func page(name string, data any) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return pages[name].ExecuteTemplate(w, "layout", data)
	})
}

func fragment(name string, data any) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return fragments.ExecuteTemplate(w, name, data)
	})
}

type fieldErrorView struct {
	Name    string
	Message string
}

// Notice is a banner shown above a form. Kind is "good", "bad" or empty.
type Notice struct {
	Kind string
	Text string
}

func errorMap(errs validate.Errors) map[string]string {
	out := make(map[string]string, len(errs))
	for k, v := range errs {
		out[string(k)] = v
	}
	return out
}

// NotFoundPage renders the 404 page for path.
func NotFoundPage(path string) templ.Component {
	return page("notfound", path)
}
