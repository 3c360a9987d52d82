package battle

import "github.com/samdwyer/pokehub/internal/gamedata"

// Item is a healing consumable and how many are left.
type Item struct {
	Name     string
	Heal     int
	Quantity int
}

// Inventory holds the player's items. Quantities carry over between battles
// and only Reset restores them.
type Inventory struct {
	defs  []gamedata.ItemDef
	items []Item
}

// NewInventory creates a full inventory from item definitions.
func NewInventory(defs []gamedata.ItemDef) *Inventory {
	inv := &Inventory{defs: defs}
	inv.Reset()
	return inv
}

// Reset restores every item to its starting quantity.
func (inv *Inventory) Reset() {
	inv.items = make([]Item, len(inv.defs))
	for i, def := range inv.defs {
		inv.items[i] = Item{Name: def.Name, Heal: def.Heal, Quantity: def.Quantity}
	}
}

// Get returns the item at index, or nil when out of range.
func (inv *Inventory) Get(index int) *Item {
	if index < 0 || index >= len(inv.items) {
		return nil
	}
	return &inv.items[index]
}

// Consume uses one unit of the item at index. It returns false when the item
// does not exist or none are left.
func (inv *Inventory) Consume(index int) bool {
	item := inv.Get(index)
	if item == nil || item.Quantity <= 0 {
		return false
	}
	item.Quantity--
	return true
}

// List returns a copy of the items.
func (inv *Inventory) List() []Item {
	return append([]Item(nil), inv.items...)
}
