package geometry

import "fmt"

// GridIter returns the indices from start to end-1 sampled every step. The
// first and last index are always present so a downsampled grid still closes
// on both edges.
func GridIter(start, end, step int) []int {
	n := end - start
	if n <= 1 {
		return []int{start}
	}
	if step <= 0 {
		step = 1
	}
	if step >= n {
		return []int{start, end - 1}
	}
	out := make([]int, 0, n/step+2)
	out = append(out, start)
	for i := start + step; i < end-1; i += step {
		out = append(out, i)
	}
	return append(out, end-1)
}

// ValidStep reports whether step samples a range of n indices evenly, i.e.
// GridIter(0, n, step) has uniform spacing.
func ValidStep(n, step int) bool {
	return step <= 1 || step >= n-1 || (n-1)%step == 0
}

// GridIterChecked is GridIter with an up-front ValidStep check.
func GridIterChecked(start, end, step int) ([]int, error) {
	if !ValidStep(end-start, step) {
		return nil, fmt.Errorf("%w: step %d does not evenly sample [%d,%d)", ErrConfig, step, start, end)
	}
	return GridIter(start, end, step), nil
}

// IsPow2 reports whether n is a positive power of two.
func IsPow2(n int) bool {
	return n > 0 && n&(n-1) == 0
}

// Modulo is a % b folded into [0, b).
func Modulo(a, b int) int {
	return (a%b + b) % b
}
