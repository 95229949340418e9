package view

import (
	"html/template"
	"io"
)

var pages = template.Must(template.New("base").Parse(tmplBase + tmplJobSpec + tmplJobRun))

type htmlData struct {
	Title   string
	Refresh bool
	Page    Page
	Details Details
}

// RenderHTML writes the job spec page as a complete HTML document. The
// fetching placeholder asks the browser to reload until the spec arrives.
func RenderHTML(w io.Writer, page Page) error {
	return pages.ExecuteTemplate(w, "jobspec", htmlData{
		Title:   "Job Spec Detail",
		Refresh: page.Fetching,
		Page:    page,
	})
}

// RenderDetailsHTML writes the job run details as a complete HTML document
func RenderDetailsHTML(w io.Writer, d Details) error {
	return pages.ExecuteTemplate(w, "jobrun", htmlData{
		Title:   "Job Run Detail",
		Details: d,
	})
}

const tmplBase = `
{{define "head"}}<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
{{if .Refresh}}<meta http-equiv="refresh" content="1">{{end}}
<title>{{.Title}}</title>
<style>
body{font-family:monospace,sans-serif;background:#0d1117;color:#c9d1d9;font-size:13px;margin:16px}
a{color:#58a6ff;text-decoration:none}
h1{font-size:18px;color:#f0f6fc}
h2{font-size:13px;color:#8b949e;text-transform:uppercase;margin:16px 0 8px}
.row{display:flex;border-bottom:1px solid #30363d;padding:6px 0}
.row.bottom{border-bottom:none}
.key{width:33%;font-weight:600}
.value{flex:1}
.err{color:#f87171}
.dim{color:#8b949e}
pre{background:#161b22;padding:12px;border-radius:6px}
table{border-collapse:collapse}
td,th{padding:4px 10px;text-align:left;border-bottom:1px solid #21262d}
</style>
</head>
<body>
<h1>{{.Title}}</h1>
{{end}}

{{define "foot"}}</body>
</html>
{{end}}

{{define "rows"}}{{range .}}<div class="row"><div class="key">{{.Key}}</div><div class="value{{if eq .Key "Error"}} err{{end}}">{{if .Link}}<a href="{{.Link}}">{{.Value}}</a>{{else}}{{.Value}}{{end}}</div></div>
{{end}}{{end}}
`

const tmplJobSpec = `
{{define "jobspec"}}{{template "head" .}}
{{- with .Page}}
{{- if .Fetching}}<div class="fetching">Fetching...</div>
{{- else}}
<section class="summary">
{{template "rows" .Summary}}</section>
<h2>Definition</h2>
<pre class="definition">{{.Definition}}</pre>
<h2>Last Run</h2>
{{if .LatestRuns}}<table class="runs">
<tr><th>ID</th><th>Status</th><th>Created</th><th>Finished</th><th>Error</th></tr>
{{range .LatestRuns}}<tr><td><a href="/job_runs/{{.ID}}">{{.ID}}</a></td><td>{{.Status}}</td><td>{{.CreatedAt}}</td><td>{{.FinishedAt}}</td><td class="err">{{.Error}}</td></tr>
{{end}}</table>
{{else}}<div class="dim">No runs</div>
{{end}}
{{- end}}
{{- end}}
{{template "foot" .}}{{end}}
`

const tmplJobRun = `
{{define "jobrun"}}{{template "head" .}}
{{- with .Details}}
<section class="details">
{{template "rows" .Rows}}<div class="row bottom"><div class="key">Tasks</div><div class="value">
{{if .Tasks}}<table class="tasks">
{{range .Tasks}}<tr><td>{{.Position}}</td><td>{{.Type}}</td><td>{{.Status}}</td><td>{{.Confirmations}}</td><td>{{if .TxURL}}<a href="{{.TxURL}}">{{.TxHash}}</a>{{else}}{{.TxHash}}{{end}}</td><td class="err">{{with .Error}}{{.}}{{end}}</td></tr>
{{end}}</table>
{{else}}<span class="dim">no tasks</span>
{{end}}</div></div>
</section>
{{- end}}
{{template "foot" .}}{{end}}
`
