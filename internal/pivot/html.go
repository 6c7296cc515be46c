package pivot

import (
	"fmt"
	"html/template"
	"io"
)

var tableTmpl = template.Must(template.New("pivot").Parse(
	`<table border="1">` +
		`<thead><tr>{{range .Columns}}<th>{{.}}</th>{{end}}</tr></thead>` +
		`<tbody>` +
		`{{range .Rows}}<tr>` +
		`<td>{{.Name}}</td><td>{{.Firstname}}</td><td>{{.Subject}}</td><td>{{.Type}}</td><td>{{.Comment}}</td>` +
		`{{range .Loads}}<td>{{.}}</td>{{end}}` +
		`</tr>{{end}}` +
		`</tbody></table>`,
))

// RenderHTML writes t as an HTML table. Cell values are escaped.
func RenderHTML(w io.Writer, t Table) error {
	if err := tableTmpl.Execute(w, t); err != nil {
		return fmt.Errorf("failed to render pivot table: %w", err)
	}
	return nil
}
