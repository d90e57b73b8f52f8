package natives

import (
	"fmt"
	"strings"
)

// Array is the host value behind script arrays. Items are script values.
type Array struct {
	items []any
}

func NewArray(items ...any) *Array {
	return &Array{items: append([]any(nil), items...)}
}

// Items returns the backing slice.
func (a *Array) Items() []any { return a.items }

func (a *Array) Push(value any) { a.items = append(a.items, value) }

// Pop removes and returns the last item, or null when empty.
func (a *Array) Pop() any {
	if len(a.items) == 0 {
		return nil
	}
	last := a.items[len(a.items)-1]
	a.items = a.items[:len(a.items)-1]
	return last
}

func (a *Array) Get(index float64) (any, error) {
	i, err := a.index(index)
	if err != nil {
		return nil, err
	}
	return a.items[i], nil
}

func (a *Array) Set(index float64, value any) error {
	i := int(index)
	if i == len(a.items) {
		a.items = append(a.items, value)
		return nil
	}
	i, err := a.index(index)
	if err != nil {
		return err
	}
	a.items[i] = value
	return nil
}

func (a *Array) index(index float64) (int, error) {
	i := int(index)
	if float64(i) != index || i < 0 || i >= len(a.items) {
		return 0, fmt.Errorf("index %v out of range for array of length %d", index, len(a.items))
	}
	return i, nil
}

func (a *Array) Length() float64 { return float64(len(a.items)) }

func (a *Array) Iterator() *ArrayIterator { return &ArrayIterator{array: a} }

func (a *Array) IndexOf(value any) float64 {
	for i, item := range a.items {
		if Equal(item, value) {
			return float64(i)
		}
	}
	return -1
}

func (a *Array) Contains(value any) bool { return a.IndexOf(value) >= 0 }

func (a *Array) Join(separator string) string {
	parts := make([]string, len(a.items))
	for i, item := range a.items {
		parts[i] = Stringify(item)
	}
	return strings.Join(parts, separator)
}

func (a *Array) Map(f Func) (*Array, error) {
	out := make([]any, len(a.items))
	for i, item := range a.items {
		v, err := f(item)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return &Array{items: out}, nil
}

func (a *Array) Filter(f Func) (*Array, error) {
	var out []any
	for _, item := range a.items {
		keep, err := f(item)
		if err != nil {
			return nil, err
		}
		if b, ok := keep.(bool); ok && b {
			out = append(out, item)
		}
	}
	return &Array{items: out}, nil
}

func (a *Array) ForEach(f Func) error {
	for _, item := range a.items {
		if _, err := f(item); err != nil {
			return err
		}
	}
	return nil
}

func (a *Array) String() string { return "[" + a.Join(", ") + "]" }

// ArrayIterator walks an Array through the iteration protocol.
type ArrayIterator struct {
	array *Array
	pos   int
}

func (it *ArrayIterator) Rewind()       { it.pos = 0 }
func (it *ArrayIterator) HasNext() bool { return it.pos < len(it.array.items) }
func (it *ArrayIterator) Next()         { it.pos++ }

func (it *ArrayIterator) Current() (any, error) {
	if !it.HasNext() {
		return nil, fmt.Errorf("iterator exhausted at position %d", it.pos)
	}
	return it.array.items[it.pos], nil
}
