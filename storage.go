package observable

import (
	"github.com/bits-and-blooms/bitset"
	"github.com/kestrelab/observable/internal/utils"
)

const (
	sliceShrinkDivider       = 2
	minShrinkableSliceLength = 10 * sliceShrinkDivider
)

// Storage is the contract the observation layer requires from an ordered
// container: current length, indexed read, range read, and a single primitive
// that replaces a contiguous range with a new sequence of values and returns
// the removed range. The mutation funnel is built on that primitive alone.
type Storage[T any] interface {
	Len() int

	// At should panic if the index is out of bounds.
	At(i int) T

	// Slice returns a copy of the [start, end) range.
	Slice(start, end int) []T

	// Splice replaces the deleteCount-element range starting at start with
	// values, returning the removed elements.
	Splice(start, deleteCount int, values ...T) []T
}

var (
	_ = []Storage[int]{(*SliceStorage[int])(nil)}
	_ = []Storage[bool]{(*BoolStorage)(nil)}
)

// SliceStorage implements Storage on a plain slice. It is the storage behind
// NewList.
type SliceStorage[T any] struct {
	elements []T
}

func NewSliceStorage[T any](elements ...T) *SliceStorage[T] {
	return &SliceStorage[T]{elements: elements}
}

func (s *SliceStorage[T]) Len() int {
	return len(s.elements)
}

func (s *SliceStorage[T]) At(i int) T {
	return s.elements[i]
}

func (s *SliceStorage[T]) Slice(start, end int) []T {
	sliceCopy := make([]T, end-start)
	copy(sliceCopy, s.elements[start:end])

	return sliceCopy
}

func (s *SliceStorage[T]) Splice(start, deleteCount int, values ...T) []T {
	length := len(s.elements)
	if start < 0 || start > length {
		panic(ErrInsertionIndexOutOfRange)
	}
	if deleteCount < 0 || start+deleteCount > length {
		panic(ErrIndexOutOfRange)
	}

	removed := make([]T, deleteCount)
	copy(removed, s.elements[start:start+deleteCount])

	diff := len(values) - deleteCount

	switch {
	case diff == 0:
		copy(s.elements[start:], values)
	case diff < 0:
		copy(s.elements[start:], values)
		copy(s.elements[start+len(values):], s.elements[start+deleteCount:])

		var zero T
		for i := length + diff; i < length; i++ {
			s.elements[i] = zero
		}
		s.elements = s.elements[:length+diff]
		s.elements = utils.ShrinkSliceIfWastedCapacity(s.elements, minShrinkableSliceLength, sliceShrinkDivider)
	default:
		if cap(s.elements)-length < diff {
			grown := make([]T, length+diff)
			copy(grown, s.elements)
			s.elements = grown
		} else {
			s.elements = s.elements[:length+diff]
		}

		copy(s.elements[start+len(values):], s.elements[start+deleteCount:length])
		copy(s.elements[start:], values)
	}

	return removed
}

// BoolStorage implements Storage[bool] on a packed bitset, one bit per
// element.
type BoolStorage struct {
	bits   *bitset.BitSet
	length int
}

func NewBoolStorage(elements ...bool) *BoolStorage {
	bits := bitset.New(uint(len(elements)))
	for i, boolean := range elements {
		if boolean {
			bits.Set(uint(i))
		}
	}
	return &BoolStorage{bits: bits, length: len(elements)}
}

func (s *BoolStorage) Len() int {
	return s.length
}

func (s *BoolStorage) At(i int) bool {
	if i < 0 || i >= s.length {
		panic(ErrIndexOutOfRange)
	}
	return s.bits.Test(uint(i))
}

func (s *BoolStorage) Slice(start, end int) []bool {
	sliceCopy := make([]bool, end-start)
	for i := start; i < end; i++ {
		sliceCopy[i-start] = s.At(i)
	}
	return sliceCopy
}

func (s *BoolStorage) Splice(start, deleteCount int, values ...bool) []bool {
	if start < 0 || start > s.length {
		panic(ErrInsertionIndexOutOfRange)
	}
	if deleteCount < 0 || start+deleteCount > s.length {
		panic(ErrIndexOutOfRange)
	}

	removed := s.Slice(start, start+deleteCount)

	for i := 0; i < deleteCount; i++ {
		s.bits.DeleteAt(uint(start))
	}
	for i := len(values) - 1; i >= 0; i-- {
		s.bits.InsertAt(uint(start))
		s.bits.SetTo(uint(start), values[i])
	}
	s.length += len(values) - deleteCount

	return removed
}
