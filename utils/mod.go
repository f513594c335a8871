package utils

func FindIndex[T comparable](slice []T, item T) int {
	for i, v := range slice {
		if v == item {
			return i
		}
	}
	return -1
}

func Contains[T comparable](slice []T, item T) bool {
	return FindIndex(slice, item) >= 0
}

// ArgMax returns the index of the first item with the largest key, or -1 for an empty slice.
func ArgMax[T any](slice []T, key func(T) float64) int {
	best := -1
	var bestKey float64
	for i, v := range slice {
		if k := key(v); best < 0 || k > bestKey {
			best = i
			bestKey = k
		}
	}
	return best
}
