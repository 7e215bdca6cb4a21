package adm

// XMLValue is one entry in an object's value bag: either an XML attribute
// (IsAttribute true, a bare name/value pair) or a sub-element (a name, its
// text content, and its own attribute map). The value bag is the single
// mechanism used to preserve ADM extensions the typed model does not know
// about (spec §3.3, §9 "Value bag vs. typed fields").
type XMLValue struct {
	Name        string
	Value       string
	IsAttribute bool
	Attrs       map[string]string
}

// ValueBag is an ordered list of XMLValue entries belonging to one ADM
// object; Add appends, and Take, TakeAll and Remove delete entries.
type ValueBag struct {
	values []XMLValue
}

// Add appends an entry to the bag, preserving insertion order.
func (b *ValueBag) Add(v XMLValue) {
	b.values = append(b.values, v)
}

// All returns the bag's entries in insertion order. The returned slice must
// not be mutated by callers.
func (b *ValueBag) All() []XMLValue {
	return b.values
}

// Len reports the number of entries currently in the bag.
func (b *ValueBag) Len() int {
	return len(b.values)
}

// Take removes and returns the first entry matching name, following the
// "consume named entries" contract of SetValues (spec §3.3). The second
// return value is false if no such entry exists.
func (b *ValueBag) Take(name string) (XMLValue, bool) {
	for i, v := range b.values {
		if v.Name == name {
			b.values = append(b.values[:i], b.values[i+1:]...)
			return v, true
		}
	}
	return XMLValue{}, false
}

// TakeAll removes and returns every entry matching name, in order.
func (b *ValueBag) TakeAll(name string) []XMLValue {
	var out []XMLValue
	kept := b.values[:0:0]
	for _, v := range b.values {
		if v.Name == name {
			out = append(out, v)
			continue
		}
		kept = append(kept, v)
	}
	b.values = kept
	return out
}

// Remove deletes entry at index i from the bag.
func (b *ValueBag) Remove(i int) {
	b.values = append(b.values[:i], b.values[i+1:]...)
}
