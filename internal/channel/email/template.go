package email

import "html/template"

type row struct {
	Field  string
	Before string
	After  string
}

type view struct {
	Summary    string
	RuleName   string
	Entity     string
	EntityID   string
	Platform   string
	ChangeType string
	DetectedAt string
	Rows       []row
}

var bodyTmpl = template.Must(template.New("email").Parse(`<!DOCTYPE html>
<html>
<body style="font-family:Arial,Helvetica,sans-serif;color:#1d1c1d">
<h2 style="margin:0 0 8px">{{.ChangeType}}</h2>
<p style="margin:0 0 16px">{{.Summary}}</p>
<table cellpadding="6" cellspacing="0" style="border-collapse:collapse;border:1px solid #ddd">
<thead>
<tr style="background:#f4f4f4"><th align="left">Field</th><th align="left">Before</th><th align="left">After</th></tr>
</thead>
<tbody>
{{- range .Rows}}
<tr><td>{{.Field}}</td><td>{{.Before}}</td><td>{{.After}}</td></tr>
{{- end}}
</tbody>
</table>
<p style="margin-top:16px;color:#616061;font-size:12px">
{{.Entity}} ({{.EntityID}}) on {{.Platform}}, detected {{.DetectedAt}}.{{if .RuleName}} Rule: {{.RuleName}}.{{end}}
</p>
</body>
</html>
`))
