package utils

func CopySlice[T any](s []T) []T {
	sliceCopy := make([]T, len(s))
	copy(sliceCopy, s)

	return sliceCopy
}

func Reverse[T any](slice []T) {
	length := len(slice)

	for i, j := 0, length-1; i < j; i, j = i+1, j-1 {
		slice[i], slice[j] = slice[j], slice[i]
	}
}

// ShrinkSliceIfWastedCapacity reallocates slice to its exact length when it is
// at least minShrinkableLength long and wastes at least (divider-1)/divider of
// its capacity.
func ShrinkSliceIfWastedCapacity[T any](slice []T, minShrinkableLength int, divider int) []T {
	if len(slice) >= minShrinkableLength && cap(slice)/len(slice) >= divider {
		shrunk := make([]T, len(slice))
		copy(shrunk, slice)
		return shrunk
	}
	return slice
}
