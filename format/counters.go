// Copyright 2018 Dan Jacques. All rights reserved.
// Use of this source code is governed under the MIT License
// that can be found in the LICENSE file.

package format

// CounterSet holds a record's integer counter values, ordered by its
// (version, module) schema.
//
// The zero CounterSet is empty: it has no names and rejects every
// lookup.
type CounterSet struct {
	schema *CounterSchema
	values []int64
}

// Len returns the number of counters in the set.
func (cs *CounterSet) Len() int { return len(cs.values) }

// Names returns the counter names in on-disk order. The returned slice
// is shared schema data and must not be modified.
func (cs *CounterSet) Names() []string {
	if cs.schema == nil {
		return nil
	}
	return cs.schema.Ints
}

// Get returns the named counter's value. The second return is false for
// names outside the record's schema; a zero value with ok set is a real
// counter that is zero.
func (cs *CounterSet) Get(name string) (int64, bool) {
	if cs.schema == nil {
		return 0, false
	}
	i, ok := cs.schema.intIndex[name]
	if !ok {
		return 0, false
	}
	return cs.values[i], true
}

// Each calls fn for every counter, in on-disk order.
func (cs *CounterSet) Each(fn func(name string, value int64)) {
	for i, v := range cs.values {
		fn(cs.schema.Ints[i], v)
	}
}

// FCounterSet is the floating-point mirror of CounterSet.
type FCounterSet struct {
	schema *CounterSchema
	values []float64
}

// Len returns the number of counters in the set.
func (fs *FCounterSet) Len() int { return len(fs.values) }

// Names returns the counter names in on-disk order. The returned slice
// is shared schema data and must not be modified.
func (fs *FCounterSet) Names() []string {
	if fs.schema == nil {
		return nil
	}
	return fs.schema.Floats
}

// Get returns the named counter's value. The second return is false for
// names outside the record's schema.
func (fs *FCounterSet) Get(name string) (float64, bool) {
	if fs.schema == nil {
		return 0, false
	}
	i, ok := fs.schema.floatIndex[name]
	if !ok {
		return 0, false
	}
	return fs.values[i], true
}

// Each calls fn for every counter, in on-disk order.
func (fs *FCounterSet) Each(fn func(name string, value float64)) {
	for i, v := range fs.values {
		fn(fs.schema.Floats[i], v)
	}
}
