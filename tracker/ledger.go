/*
ledger.go - In-memory item list

PURPOSE:
  The Ledger is the authoritative in-memory list of items for the running
  process. It assigns ids, tracks the item selected for editing, and derives
  the calorie total. It is seeded from Persistence at startup; every mutation
  is mirrored back by the Controller.

INVARIANTS:
  1. UNIQUE IDS: No two items share an id
  2. LEDGER-ASSIGNED: Ids come from the Ledger, never from callers
  3. NO REFILL: New id = max(existing) + 1, or 0 when empty
  4. DERIVED TOTAL: TotalCalories() == sum(items[*].Calories), always
  5. SELECTION BY ID: The current item is stored as an id and resolved on use

EXAMPLE FLOW:
  1. AddItem("John", "250")      -> {0 John 250}
  2. AddItem("Apple", "95")      -> {1 Apple 95}
  3. DeleteItem(0)
  4. AddItem("Pear", "100")      -> {2 Pear 100}
  5. TotalCalories()             -> 195

SEE ALSO:
  - persistence.go: Durable copy of the same list
  - controller.go: Keeps Ledger and Persistence in step
*/
package tracker

// =============================================================================
// LEDGER
// =============================================================================

// Ledger holds items, the current selection and the cached total.
// A Ledger is not safe for concurrent use; the Controller serializes access.
type Ledger struct {
	items         []Item
	current       *ItemID
	totalCalories int
}

// NewLedger creates a ledger seeded with items (typically from Persistence.Load).
// The seed is copied.
func NewLedger(seed []Item) *Ledger {
	l := &Ledger{items: append([]Item(nil), seed...)}
	l.TotalCalories()
	return l
}

// Items returns the items in insertion order.
func (l *Ledger) Items() []Item {
	out := make([]Item, len(l.items))
	copy(out, l.items)
	return out
}

// Len returns the number of items.
func (l *Ledger) Len() int { return len(l.items) }

// FindByID returns the item with the given id.
func (l *Ledger) FindByID(id ItemID) (Item, bool) {
	if i := l.indexOf(id); i >= 0 {
		return l.items[i], true
	}
	return Item{}, false
}

// AddItem validates rawCalories, assigns the next id and appends the item.
// On invalid input the ledger is unchanged.
func (l *Ledger) AddItem(name, rawCalories string) (Item, error) {
	calories, err := ParseCalories(rawCalories)
	if err != nil {
		return Item{}, err
	}

	item := Item{ID: l.nextID(), Name: name, Calories: calories}
	l.items = append(l.items, item)
	return item, nil
}

// UpdateItem sets name and calories on the current item. The id never changes.
func (l *Ledger) UpdateItem(name, rawCalories string) (Item, error) {
	if l.current == nil {
		return Item{}, ErrNoCurrentItem
	}
	i := l.indexOf(*l.current)
	if i < 0 {
		return Item{}, &NotFoundError{ID: *l.current}
	}

	calories, err := ParseCalories(rawCalories)
	if err != nil {
		return Item{}, err
	}

	l.items[i].Name = name
	l.items[i].Calories = calories
	return l.items[i], nil
}

// DeleteItem removes the item with the given id. Deleting an absent id is a
// no-op and returns false. Deleting the current item clears the selection.
func (l *Ledger) DeleteItem(id ItemID) bool {
	i := l.indexOf(id)
	if i < 0 {
		return false
	}
	l.items = append(l.items[:i], l.items[i+1:]...)
	if l.current != nil && *l.current == id {
		l.current = nil
	}
	return true
}

// ClearAll empties the list and the selection.
func (l *Ledger) ClearAll() {
	l.items = nil
	l.current = nil
}

// =============================================================================
// SELECTION - single slot, overwritten on each call
// =============================================================================

// SetCurrent selects the item with the given id for editing.
func (l *Ledger) SetCurrent(id ItemID) error {
	if l.indexOf(id) < 0 {
		return &NotFoundError{ID: id}
	}
	l.current = &id
	return nil
}

// ClearCurrent drops the selection.
func (l *Ledger) ClearCurrent() {
	l.current = nil
}

// Current resolves the selection. It reports false when nothing is selected
// or the selected item has since disappeared.
func (l *Ledger) Current() (Item, bool) {
	if l.current == nil {
		return Item{}, false
	}
	return l.FindByID(*l.current)
}

// =============================================================================
// TOTAL
// =============================================================================

// TotalCalories recomputes the sum over the current items.
func (l *Ledger) TotalCalories() int {
	total := 0
	for _, item := range l.items {
		total += item.Calories
	}
	l.totalCalories = total
	return total
}

func (l *Ledger) indexOf(id ItemID) int {
	for i, item := range l.items {
		if item.ID == id {
			return i
		}
	}
	return -1
}

func (l *Ledger) nextID() ItemID {
	if len(l.items) == 0 {
		return 0
	}
	highest := l.items[0].ID
	for _, item := range l.items[1:] {
		if item.ID > highest {
			highest = item.ID
		}
	}
	return highest + 1
}
