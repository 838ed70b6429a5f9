package pagescrape

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
)

// reportTemplate lays a ScrapeResult out for printing. Tab content starts on a
// new page.
var reportTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"paragraphs": paragraphs,
	"indent":     func(level int) int { return (level - 1) * 12 },
	"size":       func(level int) int { return 22 - 2*level },
}).Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
  body { font-family: Arial, Helvetica, sans-serif; font-size: 12px; color: #111; }
  header { text-align: center; margin-bottom: 24px; }
  header h1 { font-size: 22px; margin: 0 0 6px; }
  header .url, header .desc { margin: 4px 0; color: #444; word-break: break-all; }
  header .desc { word-break: normal; }
  section.heading { break-inside: avoid-page; }
  section.heading p { margin: 4px 0; line-height: 1.4; white-space: pre-wrap; }
  h2.group { font-size: 16px; border-bottom: 1px solid #ccc; padding-bottom: 4px; margin-top: 24px; }
  ul.links li { color: #0033cc; word-break: break-all; margin: 2px 0; }
  .tabs { break-before: page; }
  .tab p { white-space: pre-wrap; line-height: 1.4; }
  .empty { color: #888; font-style: italic; }
</style>
</head>
<body>
<header>
  <h1>{{.Title}}</h1>
  <div class="url">{{.URL}}</div>
  <div class="desc">{{.Description}}</div>
</header>
{{range .Headings}}
<section class="heading" style="margin-left: {{indent .Level}}px">
  <h3 style="font-size: {{size .Level}}px">{{.Text}}</h3>
  {{range paragraphs .Body}}<p>{{.}}</p>{{end}}
</section>
{{end}}
{{if .Links}}
<h2 class="group">Links</h2>
<ul class="links">
{{range .Links}}  <li>{{.Text}} &rarr; {{.URL}}</li>
{{end}}</ul>
{{end}}
{{if .Downloads}}
<h2 class="group">Downloads</h2>
<ul class="links">
{{range .Downloads}}  <li>[{{.Extension}}] {{.Text}} &rarr; {{.URL}}</li>
{{end}}</ul>
{{end}}
{{if .Tabs}}
<div class="tabs">
<h2 class="group">Tabbed Content</h2>
{{range .Tabs}}
<div class="tab">
  <h3>{{.Label}}</h3>
  {{range paragraphs .Text}}<p>{{.}}</p>{{end}}
</div>
{{end}}
</div>
{{end}}
</body>
</html>
`))

// reportView is the template input. Absent metadata is spelled out here rather
// than in the ScrapeResult.
type reportView struct {
	Title       string
	URL         string
	Description string
	*ScrapeResult
}

// RenderHTML returns the printable HTML report for res.
func RenderHTML(res *ScrapeResult) (string, error) {
	view := reportView{
		Title:        valueOr(res.Metadata.Title, "No Title"),
		URL:          res.Metadata.URL,
		Description:  valueOr(res.Metadata.Description, "No Description"),
		ScrapeResult: res,
	}
	var buf bytes.Buffer
	if err := reportTemplate.Execute(&buf, view); err != nil {
		return "", fmt.Errorf("pagescrape: rendering report: %w", err)
	}
	return buf.String(), nil
}

// paragraphs splits a body into its non-empty lines.
func paragraphs(body string) []string {
	var out []string
	for _, line := range strings.Split(body, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}
