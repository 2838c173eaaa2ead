package character

import (
	"github.com/cory-johannsen/emporium/internal/game/item"
)

// Inventory is an ordered collection of item stacks keyed by name and quality.
type Inventory []item.Stack

// Count returns the total quantity held for the named item across qualities.
func (inv Inventory) Count(name string) int {
	total := 0
	for _, st := range inv {
		if st.Name == name {
			total += st.Quantity
		}
	}
	return total
}

// Find returns the stack for the exact (name, quality) pair, or nil.
func (inv Inventory) Find(name string, quality item.Quality) *item.Stack {
	for i := range inv {
		if inv[i].Name == name && inv[i].Quality == quality {
			return &inv[i]
		}
	}
	return nil
}

// FindAny returns the first non-empty stack for the named item, or nil.
func (inv Inventory) FindAny(name string) *item.Stack {
	for i := range inv {
		if inv[i].Name == name && inv[i].Quantity > 0 {
			return &inv[i]
		}
	}
	return nil
}

// Add merges qty units of (name, quality) into the inventory, creating a
// new stack when no matching one exists.
//
// Precondition: qty > 0.
func (inv *Inventory) Add(name string, quality item.Quality, qty int) {
	if qty <= 0 {
		return
	}
	if st := inv.Find(name, quality); st != nil {
		st.Quantity += qty
		return
	}
	*inv = append(*inv, item.Stack{Name: name, Quality: quality, Quantity: qty})
}

// Remove takes qty units of the named item, preferring lower-quality stacks
// first, and drops empty stacks. Returns false without mutating when the
// inventory holds fewer than qty units.
func (inv *Inventory) Remove(name string, qty int) bool {
	if qty <= 0 {
		return true
	}
	if inv.Count(name) < qty {
		return false
	}
	remaining := qty
	out := (*inv)[:0]
	for _, st := range *inv {
		if remaining > 0 && st.Name == name {
			take := st.Quantity
			if take > remaining {
				take = remaining
			}
			st.Quantity -= take
			remaining -= take
		}
		if st.Quantity > 0 {
			out = append(out, st)
		}
	}
	*inv = out
	return true
}

// RemoveExact takes qty units from the exact (name, quality) stack.
// Returns false without mutating when the stack holds fewer than qty units.
func (inv *Inventory) RemoveExact(name string, quality item.Quality, qty int) bool {
	st := inv.Find(name, quality)
	if st == nil || st.Quantity < qty {
		return false
	}
	st.Quantity -= qty
	if st.Quantity == 0 {
		out := (*inv)[:0]
		for _, s := range *inv {
			if s.Quantity > 0 {
				out = append(out, s)
			}
		}
		*inv = out
	}
	return true
}
