// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package ptrvec

import "math"

// initialSize is the capacity of the first allocation.
const initialSize = 8

// Vector is a growable list of pointers that is always terminated by a nil
// entry.
//
// The zero value is an empty vector ready to use.
type Vector[T any] struct {
	// entries has the length of the allocated capacity. Entries at index
	// length and above are nil.
	entries   []*T
	length    int
	finalized bool
}

// New returns a new empty [Vector].
func New[T any]() *Vector[T] {
	return &Vector[T]{}
}

// Len returns the number of live entries, not counting the terminator.
func (v *Vector[T]) Len() int {
	return v.length
}

// Append adds the given pointer to the end of the vector.
//
// It panics with [ErrFinalized] if the vector has been finalized already and
// with [ErrOverflow] if the capacity cannot grow any further.
func (v *Vector[T]) Append(value *T) {
	if v.finalized {
		panic(ErrFinalized)
	}

	if v.length > math.MaxInt-2 {
		panic(ErrOverflow)
	}

	v.ensure(v.length + 2)
	v.entries[v.length] = value
	v.length++
	v.entries[v.length] = nil
}

// View returns the live entries followed by the nil terminator.
//
// The returned slice shares storage with the vector. It is valid only until the
// next call of a mutating method.
func (v *Vector[T]) View() []*T {
	if v.entries == nil {
		return []*T{nil}
	}

	return v.entries[: v.length+1 : v.length+1]
}

// Finalize returns an exactly sized, nil terminated copy of the entries and
// releases the storage of the vector.
//
// The vector must not be appended to afterwards.
func (v *Vector[T]) Finalize() []*T {
	out := make([]*T, v.length+1)
	copy(out, v.entries[:v.length])

	v.Discard()
	v.finalized = true

	return out
}

// Discard releases the storage of the vector without producing any output.
func (v *Vector[T]) Discard() {
	clear(v.entries)
	v.entries = nil
	v.length = 0
}

// ForceSize sets the number of live entries to exactly n.
//
// Shrinking drops trailing entries. Growing pads with nil entries. In both
// cases the vector is terminated again.
func (v *Vector[T]) ForceSize(n int) {
	if n < 0 {
		n = 0
	}

	if n == math.MaxInt {
		panic(ErrOverflow)
	}

	v.ensure(n + 1)

	if n < v.length {
		clear(v.entries[n:v.length])
	}

	v.length = n
	v.entries[n] = nil
}

// capacity returns the number of allocated entries.
func (v *Vector[T]) capacity() int {
	return len(v.entries)
}

// ensure makes sure at least size entries are allocated.
func (v *Vector[T]) ensure(size int) {
	newSize := growCapacity(len(v.entries), size)
	if newSize == len(v.entries) {
		return
	}

	entries := make([]*T, newSize)
	copy(entries, v.entries)
	v.entries = entries
}

// growCapacity returns the capacity to allocate for holding at least requested
// entries if current entries are allocated.
//
// Growth is 150% of the current capacity or, if that is not enough, 150% of
// the requested size. It panics with [ErrOverflow] if the new capacity wraps.
func growCapacity(current, requested int) int {
	if requested <= current {
		return current
	}

	if current == 0 && requested <= initialSize {
		return initialSize
	}

	newSize := current + current/2
	if newSize < requested {
		newSize = requested + requested/2
	}

	if newSize < current || newSize < requested {
		panic(ErrOverflow)
	}

	return newSize
}
