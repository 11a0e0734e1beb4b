// Package mapping holds the table that binds canonical inputs to physical
// signatures, its on-disk format and the per-device profile store.
package mapping

import (
	"github.com/Alia5/padmap/input"
)

// Element identifies one physical control regardless of the reading that
// discriminates it.
type Element struct {
	Kind  input.Kind
	Index int32
}

// captureOrder is the category order inputs are offered in when a capture
// session is asked to map everything.
var captureOrder = []input.Kind{input.Hat, input.Button, input.Shoulder, input.Trigger, input.Thumb, input.Stick}

// Table maps every canonical input to a physical signature. The reverse
// index and the per-category sub-lists are derived from the forward table and
// rebuilt after every mutation; they are never edited directly.
type Table struct {
	forward [input.Count]input.Signature

	reverse    map[input.Signature]input.Input
	byElement  map[Element][]input.Input
	byCategory map[input.Kind][]input.Input
}

// NewTable returns a table with every entry Unset.
func NewTable() *Table {
	t := &Table{}
	t.rebuild()
	return t
}

// Get returns the signature bound to in.
func (t *Table) Get(in input.Input) input.Signature {
	if !in.Valid() {
		return input.Signature{}
	}
	return t.forward[in]
}

// Set binds in to sig.
func (t *Table) Set(in input.Input, sig input.Signature) {
	if !in.Valid() {
		return
	}
	t.forward[in] = sig
	t.rebuild()
}

// Clear resets in to Unset.
func (t *Table) Clear(in input.Input) { t.Set(in, input.Signature{}) }

// Lookup returns the canonical input bound to sig.
func (t *Table) Lookup(sig input.Signature) (input.Input, bool) {
	in, ok := t.reverse[sig]
	return in, ok
}

// Bound returns the canonical inputs driven by the physical element
// (kind, index), in canonical order.
func (t *Table) Bound(kind input.Kind, index int32) []input.Input {
	return t.byElement[Element{Kind: kind, Index: index}]
}

// ByCategory returns the mapped canonical inputs of the given category.
func (t *Table) ByCategory(k input.Kind) []input.Input { return t.byCategory[k] }

// Sticks, Triggers, Thumbs, Shoulders, DPad and Generic return the mapped
// inputs of each category.
func (t *Table) Sticks() []input.Input    { return t.byCategory[input.Stick] }
func (t *Table) Triggers() []input.Input  { return t.byCategory[input.Trigger] }
func (t *Table) Thumbs() []input.Input    { return t.byCategory[input.Thumb] }
func (t *Table) Shoulders() []input.Input { return t.byCategory[input.Shoulder] }
func (t *Table) DPad() []input.Input      { return t.byCategory[input.Hat] }
func (t *Table) Generic() []input.Input   { return t.byCategory[input.Button] }

// Mapped returns how many inputs are bound to a physical signature.
func (t *Table) Mapped() int { return len(t.reverse) }

// Unmapped returns the inputs still Unset, in capture order.
func (t *Table) Unmapped() []input.Input {
	var out []input.Input
	for _, in := range CaptureOrder() {
		if !t.forward[in].IsSet() {
			out = append(out, in)
		}
	}
	return out
}

// Clone returns an independent copy of t.
func (t *Table) Clone() *Table {
	c := &Table{forward: t.forward}
	c.rebuild()
	return c
}

// Equal reports whether both tables hold the same forward entries.
func (t *Table) Equal(o *Table) bool {
	if t == nil || o == nil {
		return t == o
	}
	return t.forward == o.forward
}

// Entries returns a copy of the forward table.
func (t *Table) Entries() [input.Count]input.Signature { return t.forward }

// CaptureOrder returns every canonical input grouped by category in the
// order a full capture walks them.
func CaptureOrder() []input.Input {
	out := make([]input.Input, 0, input.Count)
	for _, k := range captureOrder {
		for _, in := range input.All() {
			if input.Category(in) == k {
				out = append(out, in)
			}
		}
	}
	return out
}

func (t *Table) rebuild() {
	t.reverse = make(map[input.Signature]input.Input, input.Count)
	t.byElement = make(map[Element][]input.Input)
	t.byCategory = make(map[input.Kind][]input.Input)
	for i, sig := range t.forward {
		if !sig.IsSet() {
			continue
		}
		in := input.Input(i)
		if _, dup := t.reverse[sig]; !dup {
			t.reverse[sig] = in
		}
		el := Element{Kind: sig.Kind, Index: sig.Index}
		t.byElement[el] = append(t.byElement[el], in)
		cat := input.Category(in)
		t.byCategory[cat] = append(t.byCategory[cat], in)
	}
}
