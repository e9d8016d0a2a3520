/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication, decoupled from the
  tracker's internal types.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients
  - *Response: Response wrappers

CALORIES ON INPUT:
  Clients may send calories as a JSON number (250) or string ("250").
  Either way the raw text goes to tracker.NormalizeInput for validation.
*/
package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/warp/calorie-tracker/tracker"
)

// =============================================================================
// REQUEST TYPES
// =============================================================================

// ItemRequest is the body of create and update calls.
type ItemRequest struct {
	Name     string      `json:"name"`
	Calories rawCalories `json:"calories"`
}

// rawCalories keeps the calorie field as text, whether it arrived as a
// JSON number or a JSON string.
type rawCalories string

func (c *rawCalories) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*c = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*c = rawCalories(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("calories must be a number or a string: %w", err)
	}
	*c = rawCalories(strings.TrimSpace(n.String()))
	return nil
}

func (r ItemRequest) input() tracker.ItemInput {
	return tracker.ItemInput{Name: r.Name, Calories: string(r.Calories)}
}

// =============================================================================
// RESPONSE TYPES
// =============================================================================

// ItemDTO represents an item in API responses.
type ItemDTO struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Calories int    `json:"calories"`
}

// ListDTO is the full rendered state: what the page shows.
type ListDTO struct {
	Items         []ItemDTO `json:"items"`
	TotalCalories int       `json:"total_calories"`
	Editing       bool      `json:"editing"`
	Current       *ItemDTO  `json:"current,omitempty"`
}

// ItemResponse is returned by calls that act on one item.
type ItemResponse struct {
	Item  ItemDTO `json:"item"`
	State ListDTO `json:"state"`
}

// TotalDTO is the body of GET /api/total.
type TotalDTO struct {
	TotalCalories int `json:"total_calories"`
	Count         int `json:"count"`
}

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}

func toItemDTO(item tracker.Item) ItemDTO {
	return ItemDTO{ID: int(item.ID), Name: item.Name, Calories: item.Calories}
}

func toListDTO(v tracker.View) ListDTO {
	dto := ListDTO{
		Items:         make([]ItemDTO, len(v.Items)),
		TotalCalories: v.TotalCalories,
		Editing:       v.Editing(),
	}
	for i, item := range v.Items {
		dto.Items[i] = toItemDTO(item)
	}
	if v.Current != nil {
		cur := toItemDTO(*v.Current)
		dto.Current = &cur
	}
	return dto
}
