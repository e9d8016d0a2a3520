package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/warp/calorie-tracker/tracker"
)

// =============================================================================
// JSON PRESENTER - reads a JSON body, captures the rendered view
// =============================================================================

// jsonPresenter adapts one API request to tracker.Presenter. The handler
// writes the captured view after the controller returns, so the HTTP status
// can still reflect errors.
type jsonPresenter struct {
	r    *http.Request
	view *tracker.View
}

func newJSONPresenter(r *http.Request) *jsonPresenter {
	return &jsonPresenter{r: r}
}

func (p *jsonPresenter) ItemInput() (tracker.ItemInput, error) {
	var req ItemRequest
	if err := json.NewDecoder(p.r.Body).Decode(&req); err != nil {
		return tracker.ItemInput{}, &tracker.ValidationError{Field: "body", Reason: "invalid JSON: " + err.Error()}
	}
	return req.input(), nil
}

func (p *jsonPresenter) Render(v tracker.View) error {
	p.view = &v
	return nil
}

// state returns the rendered view, or an empty list if nothing was rendered.
func (p *jsonPresenter) state() ListDTO {
	if p.view == nil {
		return toListDTO(tracker.View{})
	}
	return toListDTO(*p.view)
}

// =============================================================================
// HTML PRESENTER - reads form values, renders the page
// =============================================================================

// htmlPresenter reads a submitted form and writes the page on Render.
// With redirectTo set, a successful Render answers 303 See Other instead,
// so a browser refresh does not post the form again.
type htmlPresenter struct {
	w          http.ResponseWriter
	r          *http.Request
	status     int
	flash      string
	redirectTo string
}

func newHTMLPresenter(w http.ResponseWriter, r *http.Request) *htmlPresenter {
	return &htmlPresenter{w: w, r: r, status: http.StatusOK}
}

// newFormActionPresenter is an htmlPresenter that redirects to the page
// after a successful action.
func newFormActionPresenter(w http.ResponseWriter, r *http.Request) *htmlPresenter {
	p := newHTMLPresenter(w, r)
	p.redirectTo = "/"
	return p
}

func (p *htmlPresenter) ItemInput() (tracker.ItemInput, error) {
	if err := p.r.ParseForm(); err != nil {
		return tracker.ItemInput{}, &tracker.ValidationError{Field: "form", Reason: err.Error()}
	}
	return tracker.ItemInput{
		Name:     p.r.PostFormValue("name"),
		Calories: p.r.PostFormValue("calories"),
	}, nil
}

func (p *htmlPresenter) Render(v tracker.View) error {
	if p.redirectTo != "" && p.status == http.StatusOK {
		http.Redirect(p.w, p.r, p.redirectTo, http.StatusSeeOther)
		return nil
	}

	data := pageData{
		View:  v,
		Flash: p.flash,
	}
	// A failed submit keeps what the user typed.
	if p.status != http.StatusOK && p.r.PostForm != nil {
		data.Name = strings.TrimSpace(p.r.PostFormValue("name"))
		data.Calories = strings.TrimSpace(p.r.PostFormValue("calories"))
	} else if v.Current != nil {
		data.Name = v.Current.Name
		data.Calories = itoa(v.Current.Calories)
	}
	return renderPage(p.w, p.status, data)
}

// fail renders v with an error message and status.
func (p *htmlPresenter) fail(status int, msg string, v tracker.View) error {
	p.status = status
	p.flash = msg
	return p.Render(v)
}
