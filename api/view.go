package api

import (
	"bytes"
	"html/template"
	"net/http"
	"strconv"

	"github.com/warp/calorie-tracker/tracker"
)

// pageData feeds pageTemplate.
type pageData struct {
	tracker.View

	// Form field values.
	Name     string
	Calories string

	// Flash is an error message shown above the form.
	Flash string
}

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Tracalorie</title>
</head>
<body style="font-family: system-ui; max-width: 800px; margin: 50px auto; padding: 20px;">
<h1>Tracalorie</h1>
{{if .Flash}}<p class="flash" style="color: #b00;">{{.Flash}}</p>{{end}}
<h2>{{if .Editing}}Edit Meal / Food Item{{else}}Add Meal / Food Item{{end}}</h2>
{{if .Editing}}
<form method="post" action="/items/current/update">
  <input id="item-name" name="name" placeholder="Add Item" value="{{.Name}}">
  <input id="item-calories" name="calories" placeholder="Add Calories" value="{{.Calories}}">
  <button class="update-btn" type="submit">Update Meal</button>
  <button class="delete-btn" type="submit" formaction="/items/current/delete">Delete Meal</button>
  <button class="back-btn" type="submit" formaction="/items/current/back">Back</button>
</form>
{{else}}
<form method="post" action="/items">
  <input id="item-name" name="name" placeholder="Add Item" value="{{.Name}}">
  <input id="item-calories" name="calories" placeholder="Add Calories" value="{{.Calories}}">
  <button class="add-btn" type="submit">Add Meal</button>
</form>
{{end}}
<h3 class="total-calories-header">Total Calories: <span class="total-calories">{{.TotalCalories}}</span></h3>
{{if .Items}}
<ul id="item-list" class="collection">
{{range .Items}}  <li class="collection-item" id="item-{{.ID}}">
    <strong>{{.Name}}:</strong> <em>{{.Calories}} Calories</em>
    <form method="post" action="/items/{{.ID}}/edit" style="display: inline;"><button class="edit-item" type="submit">Edit</button></form>
  </li>
{{end}}</ul>
{{end}}
<form method="post" action="/items/clear"><button class="clear-btn" type="submit">Clear All</button></form>
</body>
</html>
`))

// renderPage executes the template into a buffer first so a template error
// never leaves a half-written page.
func renderPage(w http.ResponseWriter, status int, data pageData) error {
	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, data); err != nil {
		return err
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}

func itoa(n int) string { return strconv.Itoa(n) }
