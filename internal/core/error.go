package core

import (
	"errors"
	"html/template"
	"io"
	"net/http"
)

// ErrorPage is the HTML response for a page that could not be produced. Detail
// and Messages are only shown in development.
type ErrorPage struct {
	Status   int
	Title    string
	Detail   string
	Messages []BuildMessage
	IsDev    bool
}

func NewErrorPage(status int, err error, isDev bool) ErrorPage {
	page := ErrorPage{
		Status: status,
		Title:  http.StatusText(status),
		IsDev:  isDev,
	}
	if err == nil {
		return page
	}

	var buildErr *BuildError
	if errors.As(err, &buildErr) {
		page.Title = "Failed to compile"
		page.Messages = buildErr.Messages
		return page
	}
	page.Detail = err.Error()
	return page
}

func (p ErrorPage) Render(w io.Writer) error {
	return errorTemplate.Execute(w, p)
}

var errorTemplate = template.Must(template.New("error").Parse(`<!doctype html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>{{.Status}} {{.Title}}</title>
<style>
body { font-family: system-ui, sans-serif; max-width: 800px; margin: 50px auto; padding: 0 20px; }
h1 { color: #e74c3c; }
pre { background: #f8f9fa; padding: 15px; border-radius: 5px; overflow-x: auto; white-space: pre-wrap; }
.loc { color: #7f8c8d; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
{{- if .IsDev}}
{{- range .Messages}}
<pre>{{if .File}}<span class="loc">{{.File}}:{{.Line}}:{{.Column}}</span>
{{end}}{{.Text}}</pre>
{{- end}}
{{- with .Detail}}
<pre>{{.}}</pre>
{{- end}}
{{- else}}
<p>Something went wrong while rendering this page.</p>
{{- end}}
</body>
</html>`))
