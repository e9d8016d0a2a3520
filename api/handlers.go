/*
handlers.go - HTTP handlers for the calorie tracker

PURPOSE:
  Exposes the tracker Controller over HTTP. Every handler builds a Presenter
  for its request (JSON or HTML form), hands it to the Controller and writes
  the result.

ENDPOINTS:
  JSON:
    GET    /api/items                 Items, total and edit state
    POST   /api/items                 Add an item
    GET    /api/items/{id}            One item
    DELETE /api/items/{id}            Delete an item by id
    POST   /api/items/{id}/edit       Select an item for editing
    GET    /api/items/current         The selected item
    PUT    /api/items/current         Update the selected item
    DELETE /api/items/current         Delete the selected item
    POST   /api/items/current/back    Leave edit state
    DELETE /api/items                 Clear all items
    GET    /api/total                 Total calories

  HTML:
    GET    /                          The page (fresh load leaves edit state)
    POST   /items                     Add          (303 -> /)
    POST   /items/{id}/edit           Select       (renders the edit form)
    POST   /items/current/update      Update       (303 -> /)
    POST   /items/current/delete      Delete       (303 -> /)
    POST   /items/current/back        Back         (303 -> /)
    POST   /items/clear               Clear all    (303 -> /)

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input
  - 404: Item or selection not found
  - 500: Store errors
  Failed HTML actions re-render the page with the message and the same status.

SEE ALSO:
  - dto.go: Request/response data structures
  - presenter.go: tracker.Presenter adapters
  - server.go: Router setup and middleware
*/
package api

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/warp/calorie-tracker/tracker"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Controller *tracker.Controller

	// Store is pinged by /healthz when it supports it.
	Store tracker.KVStore
}

// NewHandler creates a new handler.
func NewHandler(ctrl *tracker.Controller, store tracker.KVStore) *Handler {
	return &Handler{Controller: ctrl, Store: store}
}

// =============================================================================
// JSON HANDLERS
// =============================================================================

// ListItems returns all items with the total and edit state.
func (h *Handler) ListItems(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, toListDTO(h.Controller.View()))
}

// GetItem returns a single item.
func (h *Handler) GetItem(w http.ResponseWriter, r *http.Request) {
	id, ok := itemIDParam(w, r)
	if !ok {
		return
	}

	item, err := h.Controller.Item(id)
	if err != nil {
		writeTrackerError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toItemDTO(item))
}

// CreateItem adds an item from {"name", "calories"}.
func (h *Handler) CreateItem(w http.ResponseWriter, r *http.Request) {
	p := newJSONPresenter(r)
	item, err := h.Controller.AddSubmit(r.Context(), p)
	if err != nil {
		writeTrackerError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, ItemResponse{Item: toItemDTO(item), State: p.state()})
}

// EditItem selects an item for editing.
func (h *Handler) EditItem(w http.ResponseWriter, r *http.Request) {
	id, ok := itemIDParam(w, r)
	if !ok {
		return
	}

	p := newJSONPresenter(r)
	item, err := h.Controller.EditClick(id, p)
	if err != nil {
		writeTrackerError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ItemResponse{Item: toItemDTO(item), State: p.state()})
}

// GetCurrentItem returns the selected item.
func (h *Handler) GetCurrentItem(w http.ResponseWriter, r *http.Request) {
	v := h.Controller.View()
	if v.Current == nil {
		writeTrackerError(w, tracker.ErrNoCurrentItem)
		return
	}
	writeJSON(w, http.StatusOK, toItemDTO(*v.Current))
}

// UpdateCurrentItem applies {"name", "calories"} to the selected item.
func (h *Handler) UpdateCurrentItem(w http.ResponseWriter, r *http.Request) {
	p := newJSONPresenter(r)
	item, err := h.Controller.UpdateSubmit(r.Context(), p)
	if err != nil {
		writeTrackerError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ItemResponse{Item: toItemDTO(item), State: p.state()})
}

// DeleteCurrentItem deletes the selected item.
func (h *Handler) DeleteCurrentItem(w http.ResponseWriter, r *http.Request) {
	p := newJSONPresenter(r)
	item, err := h.Controller.DeleteSubmit(r.Context(), p)
	if err != nil {
		writeTrackerError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ItemResponse{Item: toItemDTO(item), State: p.state()})
}

// BackFromEdit leaves edit state.
func (h *Handler) BackFromEdit(w http.ResponseWriter, r *http.Request) {
	p := newJSONPresenter(r)
	if err := h.Controller.Back(p); err != nil {
		writeTrackerError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p.state())
}

// DeleteItem deletes an item by id.
func (h *Handler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	id, ok := itemIDParam(w, r)
	if !ok {
		return
	}

	p := newJSONPresenter(r)
	item, err := h.Controller.DeleteItem(r.Context(), id, p)
	if err != nil {
		writeTrackerError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ItemResponse{Item: toItemDTO(item), State: p.state()})
}

// ClearItems deletes every item.
func (h *Handler) ClearItems(w http.ResponseWriter, r *http.Request) {
	p := newJSONPresenter(r)
	if err := h.Controller.ClearAllSubmit(r.Context(), p); err != nil {
		writeTrackerError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p.state())
}

// GetTotal returns the total calories.
func (h *Handler) GetTotal(w http.ResponseWriter, r *http.Request) {
	v := h.Controller.View()
	writeJSON(w, http.StatusOK, TotalDTO{TotalCalories: v.TotalCalories, Count: len(v.Items)})
}

// Health reports whether the store is reachable.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if pinger, ok := h.Store.(interface{ Ping(context.Context) error }); ok {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := pinger.Ping(ctx); err != nil {
			writeError(w, http.StatusServiceUnavailable, "Store unavailable", err)
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// =============================================================================
// HTML HANDLERS
// =============================================================================

// Page renders the page. Like a browser reload, it leaves edit state.
func (h *Handler) Page(w http.ResponseWriter, r *http.Request) {
	if err := h.Controller.Init(newHTMLPresenter(w, r)); err != nil {
		log.Printf("Failed to render page: %v", err)
	}
}

// SubmitAdd handles the add form.
func (h *Handler) SubmitAdd(w http.ResponseWriter, r *http.Request) {
	p := newFormActionPresenter(w, r)
	_, err := h.Controller.AddSubmit(r.Context(), p)
	h.finishHTML(p, err)
}

// SubmitEdit handles the edit button on a list row.
func (h *Handler) SubmitEdit(w http.ResponseWriter, r *http.Request) {
	p := newHTMLPresenter(w, r)
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		h.finishHTML(p, &tracker.ValidationError{Field: "id", Value: chi.URLParam(r, "id"), Reason: "must be an integer"})
		return
	}
	_, err = h.Controller.EditClick(tracker.ItemID(id), p)
	h.finishHTML(p, err)
}

// SubmitUpdate handles the update button.
func (h *Handler) SubmitUpdate(w http.ResponseWriter, r *http.Request) {
	p := newFormActionPresenter(w, r)
	_, err := h.Controller.UpdateSubmit(r.Context(), p)
	h.finishHTML(p, err)
}

// SubmitDelete handles the delete button.
func (h *Handler) SubmitDelete(w http.ResponseWriter, r *http.Request) {
	p := newFormActionPresenter(w, r)
	_, err := h.Controller.DeleteSubmit(r.Context(), p)
	h.finishHTML(p, err)
}

// SubmitBack handles the back button.
func (h *Handler) SubmitBack(w http.ResponseWriter, r *http.Request) {
	p := newFormActionPresenter(w, r)
	h.finishHTML(p, h.Controller.Back(p))
}

// SubmitClear handles the clear-all button.
func (h *Handler) SubmitClear(w http.ResponseWriter, r *http.Request) {
	p := newFormActionPresenter(w, r)
	h.finishHTML(p, h.Controller.ClearAllSubmit(r.Context(), p))
}

// finishHTML re-renders the page with a message when the action failed.
// On success the controller has already rendered (or redirected) through p.
func (h *Handler) finishHTML(p *htmlPresenter, err error) {
	if err == nil {
		return
	}
	status, msg := statusFor(err)
	if status == http.StatusInternalServerError {
		log.Printf("Request failed: %v", err)
	}
	if rerr := p.fail(status, msg+": "+err.Error(), h.Controller.View()); rerr != nil {
		log.Printf("Failed to render page: %v", rerr)
	}
}

// =============================================================================
// HELPERS
// =============================================================================

func itemIDParam(w http.ResponseWriter, r *http.Request) (tracker.ItemID, bool) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.Atoi(raw)
	if err != nil || id < 0 {
		writeError(w, http.StatusBadRequest, "Invalid item id", &tracker.ValidationError{Field: "id", Value: raw, Reason: "must be a non-negative integer"})
		return 0, false
	}
	return tracker.ItemID(id), true
}

func statusFor(err error) (int, string) {
	switch {
	case tracker.IsClientError(err):
		return http.StatusBadRequest, "Invalid input"
	case tracker.IsNotFound(err):
		return http.StatusNotFound, "Not found"
	default:
		return http.StatusInternalServerError, "Internal error"
	}
}

func writeTrackerError(w http.ResponseWriter, err error) {
	status, msg := statusFor(err)
	if status == http.StatusInternalServerError {
		log.Printf("Request failed: %v", err)
	}
	writeError(w, status, msg, err)
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
