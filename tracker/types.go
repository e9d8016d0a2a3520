/*
Package tracker provides the calorie tracking core.

PURPOSE:
  This package holds the item model, the in-memory Ledger that owns ids and
  the running total, the Persistence adapter that mirrors every change into a
  key-value store, and the Controller that ties them to a Presenter.

KEY CONCEPTS IN THIS FILE (types.go):
  - Item: A named food entry with a calorie count
  - ItemID: Ledger-assigned identifier (never chosen by callers)
  - ItemInput: Raw, unvalidated form values read from a Presenter
  - View: Everything a Presenter needs to draw the list

DESIGN PRINCIPLES:
  1. Single source of truth: the total is always derived from the items
  2. Explicit wiring: no package-level state, everything is constructed
  3. Validate before mutating: bad input never reaches the Ledger
  4. Mirror every mutation: the store survives restarts, the Ledger does not

USAGE:
  ledger := tracker.NewLedger(nil)
  item, err := ledger.AddItem("John", "250")
  total := ledger.TotalCalories() // 250

SEE ALSO:
  - ledger.go: In-memory item list and selection
  - persistence.go: Key-value mirror of the item list
  - controller.go: Orchestration of user actions
*/
package tracker

import "fmt"

// =============================================================================
// ITEM - A single calorie entry
// =============================================================================

// ItemID identifies an item within a ledger. Assigned by the Ledger.
type ItemID int

func (id ItemID) String() string { return fmt.Sprintf("%d", int(id)) }

// Item is one entry in the calorie list.
// The JSON layout is the persisted record format: {"id", "name", "calories"}.
type Item struct {
	ID       ItemID `json:"id"`
	Name     string `json:"name"`
	Calories int    `json:"calories"`
}

// =============================================================================
// INPUT / VIEW - Presenter boundary values
// =============================================================================

// ItemInput is what a Presenter reads from the user. Both fields are raw
// strings and may be blank.
type ItemInput struct {
	Name     string `json:"name"`
	Calories string `json:"calories"`
}

// View is what a Presenter renders.
type View struct {
	Items         []Item
	TotalCalories int

	// Current is the selected item while editing, nil otherwise.
	Current *Item
}

// Editing reports whether the view is in edit state.
func (v View) Editing() bool { return v.Current != nil }
