/*
controller.go - Orchestration of user actions

PURPOSE:
  The Controller is the single entry point for user actions. Each action
  follows the same path:

    Presenter.ItemInput() -> NormalizeInput -> Ledger mutation
      -> Persistence mirror -> Presenter.Render(View)

  If the mirror write fails the Ledger is rolled back, so memory and store
  never drift apart and the user sees no change.

CONCURRENCY:
  The model is single-threaded: one action at a time. HTTP handlers run
  concurrently, so the Controller holds its mutex for the whole action.

FAILURES:
  - Validation errors: declined, nothing changes, error returned
  - Not found: no-op, error returned so the Presenter can say so
  - Store errors: ledger rolled back, error returned
*/
package tracker

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
)

// Presenter is the view boundary: it reads raw input and draws the list.
type Presenter interface {
	// ItemInput returns the raw form values. An error means the input could
	// not be read at all (e.g. a malformed request body).
	ItemInput() (ItemInput, error)

	// Render draws the items, the total and the edit state.
	Render(View) error
}

// Controller ties a Ledger to its Persistence and serializes user actions.
type Controller struct {
	mu          sync.Mutex
	ledger      *Ledger
	persistence *Persistence
	logger      *log.Logger
}

// NewController loads the persisted items and seeds a Ledger with them.
// Corrupt stored data is logged and treated as an empty list.
func NewController(ctx context.Context, p *Persistence, logger *log.Logger) (*Controller, error) {
	if logger == nil {
		logger = log.Default()
	}

	items, err := p.Load(ctx)
	if err != nil {
		if !errors.Is(err, ErrDeserialization) {
			return nil, fmt.Errorf("loading items: %w", err)
		}
		logger.Printf("Warning: ignoring unreadable stored items: %v", err)
		items = nil
	}

	return &Controller{
		ledger:      NewLedger(items),
		persistence: p,
		logger:      logger,
	}, nil
}

// =============================================================================
// READ
// =============================================================================

// View returns a snapshot of the current state.
func (c *Controller) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewLocked()
}

// Item looks up a single item.
func (c *Controller) Item(id ItemID) (Item, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	item, ok := c.ledger.FindByID(id)
	if !ok {
		return Item{}, &NotFoundError{ID: id}
	}
	return item, nil
}

// Init leaves edit state and renders the list, as on a fresh page load.
func (c *Controller) Init(p Presenter) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.ledger.ClearCurrent()
	return p.Render(c.viewLocked())
}

// =============================================================================
// WRITE
// =============================================================================

// AddSubmit creates an item from the presenter's input.
func (c *Controller) AddSubmit(ctx context.Context, p Presenter) (Item, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	name, calories, err := c.readInput(p)
	if err != nil {
		return Item{}, err
	}

	snap := c.snapshot()
	item, err := c.ledger.AddItem(name, fmt.Sprint(calories))
	if err != nil {
		return Item{}, err
	}
	if err := c.persistence.Append(ctx, item); err != nil {
		c.restore(snap)
		return Item{}, c.storeFailed("add", err)
	}

	return item, p.Render(c.viewLocked())
}

// EditClick selects an item and renders the edit state.
func (c *Controller) EditClick(id ItemID, p Presenter) (Item, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.ledger.SetCurrent(id); err != nil {
		return Item{}, err
	}
	item, _ := c.ledger.Current()
	return item, p.Render(c.viewLocked())
}

// UpdateSubmit applies the presenter's input to the selected item and leaves
// edit state.
func (c *Controller) UpdateSubmit(ctx context.Context, p Presenter) (Item, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.ledger.Current(); !ok {
		return Item{}, ErrNoCurrentItem
	}
	name, calories, err := c.readInput(p)
	if err != nil {
		return Item{}, err
	}

	snap := c.snapshot()
	item, err := c.ledger.UpdateItem(name, fmt.Sprint(calories))
	if err != nil {
		return Item{}, err
	}
	if err := c.persistence.Replace(ctx, item); err != nil {
		c.restore(snap)
		return Item{}, c.storeFailed("update", err)
	}

	c.ledger.ClearCurrent()
	return item, p.Render(c.viewLocked())
}

// DeleteSubmit removes the selected item and leaves edit state.
func (c *Controller) DeleteSubmit(ctx context.Context, p Presenter) (Item, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	item, ok := c.ledger.Current()
	if !ok {
		return Item{}, ErrNoCurrentItem
	}
	if err := c.deleteLocked(ctx, item.ID); err != nil {
		return Item{}, err
	}
	c.ledger.ClearCurrent()
	return item, p.Render(c.viewLocked())
}

// DeleteItem removes an item by id without going through the selection.
func (c *Controller) DeleteItem(ctx context.Context, id ItemID, p Presenter) (Item, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	item, ok := c.ledger.FindByID(id)
	if !ok {
		return Item{}, &NotFoundError{ID: id}
	}
	if err := c.deleteLocked(ctx, id); err != nil {
		return Item{}, err
	}
	return item, p.Render(c.viewLocked())
}

// ClearAllSubmit empties the list and deletes the stored collection.
func (c *Controller) ClearAllSubmit(ctx context.Context, p Presenter) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	snap := c.snapshot()
	c.ledger.ClearAll()
	if err := c.persistence.Clear(ctx); err != nil {
		c.restore(snap)
		return c.storeFailed("clear", err)
	}
	return p.Render(c.viewLocked())
}

// Back leaves edit state without changing anything.
func (c *Controller) Back(p Presenter) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.ledger.ClearCurrent()
	return p.Render(c.viewLocked())
}

// =============================================================================
// HELPERS
// =============================================================================

func (c *Controller) readInput(p Presenter) (string, int, error) {
	in, err := p.ItemInput()
	if err != nil {
		return "", 0, err
	}
	return NormalizeInput(in)
}

func (c *Controller) deleteLocked(ctx context.Context, id ItemID) error {
	snap := c.snapshot()
	c.ledger.DeleteItem(id)
	if err := c.persistence.Remove(ctx, id); err != nil {
		c.restore(snap)
		return c.storeFailed("delete", err)
	}
	return nil
}

func (c *Controller) viewLocked() View {
	v := View{
		Items:         c.ledger.Items(),
		TotalCalories: c.ledger.TotalCalories(),
	}
	if item, ok := c.ledger.Current(); ok {
		v.Current = &item
	}
	return v
}

func (c *Controller) storeFailed(op string, err error) error {
	c.logger.Printf("Error: %s not persisted, rolled back: %v", op, err)
	return fmt.Errorf("%s item: %w", op, err)
}

type ledgerSnapshot struct {
	items   []Item
	current *ItemID
}

func (c *Controller) snapshot() ledgerSnapshot {
	s := ledgerSnapshot{items: c.ledger.Items()}
	if c.ledger.current != nil {
		id := *c.ledger.current
		s.current = &id
	}
	return s
}

func (c *Controller) restore(s ledgerSnapshot) {
	c.ledger.items = s.items
	c.ledger.current = s.current
	c.ledger.TotalCalories()
}
