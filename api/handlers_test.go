/*
handlers_test.go - HTTP tests for the JSON API and the HTML form actions

Tests run the full router over an in-memory SQLite store, then reopen a
controller over the same store to check that every change was mirrored.
*/
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/calorie-tracker/store/sqlite"
	"github.com/warp/calorie-tracker/tracker"
)

// =============================================================================
// TEST SETUP
// =============================================================================

type testServer struct {
	t      *testing.T
	router http.Handler
	store  *sqlite.Store
}

func setupTestServer(t *testing.T) *testServer {
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	ctrl, err := tracker.NewController(context.Background(), tracker.NewPersistence(store, ""), log.New(io.Discard, "", 0))
	require.NoError(t, err)

	return &testServer{
		t:      t,
		router: NewRouter(NewHandler(ctrl, store), []string{"http://localhost:5173"}),
		store:  store,
	}
}

func (s *testServer) do(method, path, body string) *httptest.ResponseRecorder {
	s.t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) form(path string, values url.Values) *httptest.ResponseRecorder {
	s.t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

// persisted reads the stored list back through a fresh Persistence.
func (s *testServer) persisted() []tracker.Item {
	s.t.Helper()
	items, err := tracker.NewPersistence(s.store, "").Load(context.Background())
	require.NoError(s.t, err)
	return items
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(bytes.NewReader(rec.Body.Bytes())).Decode(&v), rec.Body.String())
	return v
}

// =============================================================================
// JSON API
// =============================================================================

func TestCreateItem(t *testing.T) {
	s := setupTestServer(t)

	rec := s.do(http.MethodPost, "/api/items", `{"name":"john","calories":"250"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	resp := decode[ItemResponse](t, rec)
	assert.Equal(t, ItemDTO{ID: 0, Name: "John", Calories: 250}, resp.Item)
	assert.Equal(t, 250, resp.State.TotalCalories)
	assert.Len(t, resp.State.Items, 1)

	assert.Equal(t, []tracker.Item{{ID: 0, Name: "John", Calories: 250}}, s.persisted())
}

func TestCreateItem_NumericCalories(t *testing.T) {
	s := setupTestServer(t)

	rec := s.do(http.MethodPost, "/api/items", `{"name":"apple","calories":95}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	resp := decode[ItemResponse](t, rec)
	assert.Equal(t, 95, resp.Item.Calories)
}

func TestCreateItem_Invalid(t *testing.T) {
	s := setupTestServer(t)

	for _, body := range []string{
		`{"name":"","calories":"100"}`,
		`{"name":"apple","calories":"abc"}`,
		`{"name":"apple","calories":-3}`,
		`{"name":"apple"}`,
		`{not json`,
		`{"name":"apple","calories":true}`,
	} {
		rec := s.do(http.MethodPost, "/api/items", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)

		resp := decode[ErrorResponse](t, rec)
		assert.Equal(t, "Invalid input", resp.Error)
	}

	assert.Empty(t, s.persisted())
}

func TestListItemsAndTotal(t *testing.T) {
	s := setupTestServer(t)
	s.do(http.MethodPost, "/api/items", `{"name":"john","calories":"250"}`)
	s.do(http.MethodPost, "/api/items", `{"name":"apple","calories":"95"}`)

	list := decode[ListDTO](t, s.do(http.MethodGet, "/api/items", ""))
	assert.Equal(t, []ItemDTO{
		{ID: 0, Name: "John", Calories: 250},
		{ID: 1, Name: "Apple", Calories: 95},
	}, list.Items)
	assert.Equal(t, 345, list.TotalCalories)
	assert.False(t, list.Editing)

	total := decode[TotalDTO](t, s.do(http.MethodGet, "/api/total", ""))
	assert.Equal(t, TotalDTO{TotalCalories: 345, Count: 2}, total)
}

func TestListItems_EmptyIsArray(t *testing.T) {
	s := setupTestServer(t)

	rec := s.do(http.MethodGet, "/api/items", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"items":[],"total_calories":0,"editing":false}`, rec.Body.String())
}

func TestGetItem(t *testing.T) {
	s := setupTestServer(t)
	s.do(http.MethodPost, "/api/items", `{"name":"john","calories":"250"}`)

	rec := s.do(http.MethodGet, "/api/items/0", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, ItemDTO{ID: 0, Name: "John", Calories: 250}, decode[ItemDTO](t, rec))

	assert.Equal(t, http.StatusNotFound, s.do(http.MethodGet, "/api/items/9", "").Code)
	assert.Equal(t, http.StatusBadRequest, s.do(http.MethodGet, "/api/items/abc", "").Code)
}

func TestEditUpdateFlow(t *testing.T) {
	s := setupTestServer(t)
	s.do(http.MethodPost, "/api/items", `{"name":"eggs","calories":"150"}`)
	s.do(http.MethodPost, "/api/items", `{"name":"toast","calories":"80"}`)

	// No selection yet
	assert.Equal(t, http.StatusNotFound, s.do(http.MethodGet, "/api/items/current", "").Code)
	assert.Equal(t, http.StatusNotFound, s.do(http.MethodPut, "/api/items/current", `{"name":"x","calories":"1"}`).Code)

	// Select
	rec := s.do(http.MethodPost, "/api/items/1/edit", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	edit := decode[ItemResponse](t, rec)
	assert.True(t, edit.State.Editing)
	require.NotNil(t, edit.State.Current)
	assert.Equal(t, 1, edit.State.Current.ID)

	cur := decode[ItemDTO](t, s.do(http.MethodGet, "/api/items/current", ""))
	assert.Equal(t, "Toast", cur.Name)

	// Update
	rec = s.do(http.MethodPut, "/api/items/current", `{"name":"rye toast","calories":"95"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	upd := decode[ItemResponse](t, rec)
	assert.Equal(t, ItemDTO{ID: 1, Name: "Rye Toast", Calories: 95}, upd.Item)
	assert.False(t, upd.State.Editing)
	assert.Equal(t, 245, upd.State.TotalCalories)

	assert.Equal(t, []tracker.Item{
		{ID: 0, Name: "Eggs", Calories: 150},
		{ID: 1, Name: "Rye Toast", Calories: 95},
	}, s.persisted())
}

func TestBackFromEdit(t *testing.T) {
	s := setupTestServer(t)
	s.do(http.MethodPost, "/api/items", `{"name":"eggs","calories":"150"}`)
	s.do(http.MethodPost, "/api/items/0/edit", "")

	rec := s.do(http.MethodPost, "/api/items/current/back", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, decode[ListDTO](t, rec).Editing)

	assert.Equal(t, http.StatusNotFound, s.do(http.MethodGet, "/api/items/current", "").Code)
}

func TestDeleteCurrentItem(t *testing.T) {
	s := setupTestServer(t)
	s.do(http.MethodPost, "/api/items", `{"name":"eggs","calories":"150"}`)
	s.do(http.MethodPost, "/api/items", `{"name":"toast","calories":"80"}`)
	s.do(http.MethodPost, "/api/items/0/edit", "")

	rec := s.do(http.MethodDelete, "/api/items/current", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	resp := decode[ItemResponse](t, rec)
	assert.Equal(t, "Eggs", resp.Item.Name)
	assert.Equal(t, 80, resp.State.TotalCalories)
	assert.False(t, resp.State.Editing)

	assert.Equal(t, []tracker.Item{{ID: 1, Name: "Toast", Calories: 80}}, s.persisted())
	assert.Equal(t, http.StatusNotFound, s.do(http.MethodDelete, "/api/items/current", "").Code)
}

func TestDeleteItemByID(t *testing.T) {
	s := setupTestServer(t)
	s.do(http.MethodPost, "/api/items", `{"name":"john","calories":"250"}`)
	s.do(http.MethodPost, "/api/items", `{"name":"apple","calories":"95"}`)

	rec := s.do(http.MethodDelete, "/api/items/0", "")
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[ItemResponse](t, rec)
	assert.Equal(t, []ItemDTO{{ID: 1, Name: "Apple", Calories: 95}}, resp.State.Items)
	assert.Equal(t, 95, resp.State.TotalCalories)

	assert.Equal(t, http.StatusNotFound, s.do(http.MethodDelete, "/api/items/0", "").Code)
	assert.Equal(t, []tracker.Item{{ID: 1, Name: "Apple", Calories: 95}}, s.persisted())
}

func TestClearItems(t *testing.T) {
	s := setupTestServer(t)
	s.do(http.MethodPost, "/api/items", `{"name":"john","calories":"250"}`)
	s.do(http.MethodPost, "/api/items", `{"name":"apple","calories":"95"}`)

	rec := s.do(http.MethodDelete, "/api/items", "")
	require.Equal(t, http.StatusOK, rec.Code)
	list := decode[ListDTO](t, rec)
	assert.Empty(t, list.Items)
	assert.Equal(t, 0, list.TotalCalories)

	_, ok, err := s.store.Get(context.Background(), tracker.DefaultKey)
	require.NoError(t, err)
	assert.False(t, ok, "clear removes the stored key")

	// Ids restart at 0
	resp := decode[ItemResponse](t, s.do(http.MethodPost, "/api/items", `{"name":"pear","calories":"100"}`))
	assert.Equal(t, 0, resp.Item.ID)
}

func TestHealth(t *testing.T) {
	s := setupTestServer(t)

	rec := s.do(http.MethodGet, "/healthz", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

// =============================================================================
// HTML
// =============================================================================

func TestPage_Empty(t *testing.T) {
	s := setupTestServer(t)

	rec := s.do(http.MethodGet, "/", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	body := rec.Body.String()
	assert.Contains(t, body, `<span class="total-calories">0</span>`)
	assert.NotContains(t, body, `id="item-list"`)
	assert.Contains(t, body, `class="add-btn"`)
}

// assertRedirectsToPage checks a successful form action answers 303 -> /.
func assertRedirectsToPage(t *testing.T, rec *httptest.ResponseRecorder) {
	t.Helper()
	require.Equal(t, http.StatusSeeOther, rec.Code, rec.Body.String())
	assert.Equal(t, "/", rec.Header().Get("Location"))
}

func TestHTMLForms_AddEditUpdateDelete(t *testing.T) {
	s := setupTestServer(t)

	// Add redirects, so a refresh does not post the form again
	assertRedirectsToPage(t, s.form("/items", url.Values{"name": {"john"}, "calories": {"250"}}))
	page := s.do(http.MethodGet, "/", "").Body.String()
	assert.Contains(t, page, `<strong>John:</strong> <em>250 Calories</em>`)
	assert.Contains(t, page, `<span class="total-calories">250</span>`)

	// Edit renders the edit form in place
	rec := s.form("/items/0/edit", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `class="update-btn"`)
	assert.Contains(t, body, `value="John"`)
	assert.Contains(t, body, `value="250"`)

	assertRedirectsToPage(t, s.form("/items/current/update", url.Values{"name": {"john doe"}, "calories": {"300"}}))
	page = s.do(http.MethodGet, "/", "").Body.String()
	assert.Contains(t, page, `<strong>John Doe:</strong> <em>300 Calories</em>`)
	assert.Contains(t, page, `class="add-btn"`)

	s.form("/items/0/edit", nil)
	assertRedirectsToPage(t, s.form("/items/current/delete", nil))
	page = s.do(http.MethodGet, "/", "").Body.String()
	assert.Contains(t, page, `<span class="total-calories">0</span>`)
	assert.Empty(t, s.persisted())
}

func TestHTMLForms_AddOnlyOnceAcrossReload(t *testing.T) {
	s := setupTestServer(t)

	rec := s.form("/items", url.Values{"name": {"eggs"}, "calories": {"150"}})
	assertRedirectsToPage(t, rec)

	// Following the redirect is a GET and adds nothing
	s.do(http.MethodGet, rec.Header().Get("Location"), "")
	s.do(http.MethodGet, rec.Header().Get("Location"), "")

	assert.Len(t, s.persisted(), 1)
}

func TestHTMLForms_InvalidInputKeepsForm(t *testing.T) {
	s := setupTestServer(t)

	rec := s.form("/items", url.Values{"name": {"apple"}, "calories": {"lots"}})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `class="flash"`)
	assert.Contains(t, body, `value="apple"`)
	assert.Contains(t, body, `value="lots"`)
	assert.Empty(t, s.persisted())
}

func TestHTMLForms_BackAndClear(t *testing.T) {
	s := setupTestServer(t)
	s.form("/items", url.Values{"name": {"eggs"}, "calories": {"150"}})
	s.form("/items", url.Values{"name": {"toast"}, "calories": {"80"}})
	s.form("/items/1/edit", nil)

	assertRedirectsToPage(t, s.form("/items/current/back", nil))
	assert.Equal(t, http.StatusNotFound, s.do(http.MethodGet, "/api/items/current", "").Code)

	assertRedirectsToPage(t, s.form("/items/clear", nil))
	assert.NotContains(t, s.do(http.MethodGet, "/", "").Body.String(), `id="item-list"`)
	assert.Empty(t, s.persisted())
}

func TestHTMLForms_InvalidUpdateKeepsEditForm(t *testing.T) {
	s := setupTestServer(t)
	s.form("/items", url.Values{"name": {"eggs"}, "calories": {"150"}})
	s.form("/items/0/edit", nil)

	rec := s.form("/items/current/update", url.Values{"name": {"eggs"}, "calories": {"plenty"}})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `class="update-btn"`)
	assert.Contains(t, body, `value="plenty"`)
	assert.Equal(t, []tracker.Item{{ID: 0, Name: "Eggs", Calories: 150}}, s.persisted())
}

func TestHTMLForms_EditUnknown(t *testing.T) {
	s := setupTestServer(t)

	assert.Equal(t, http.StatusNotFound, s.form("/items/5/edit", nil).Code)
	assert.Equal(t, http.StatusBadRequest, s.form("/items/x/edit", nil).Code)
}

func TestPage_ReloadLeavesEditState(t *testing.T) {
	s := setupTestServer(t)
	s.form("/items", url.Values{"name": {"eggs"}, "calories": {"150"}})
	s.form("/items/0/edit", nil)

	rec := s.do(http.MethodGet, "/", "")

	assert.Contains(t, rec.Body.String(), `class="add-btn"`)
	assert.Equal(t, http.StatusNotFound, s.do(http.MethodGet, "/api/items/current", "").Code)
}
