package geometry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGridIter(t *testing.T) {
	cases := []struct {
		start, end, step int
		want             []int
	}{
		{0, 11, 2, []int{0, 2, 4, 6, 8, 10}},
		{0, 10, 20, []int{0, 9}},
		{0, 5, 2, []int{0, 2, 4}},
		{0, 7, 3, []int{0, 3, 6}},
		{0, 1, 16, []int{0}},
		{0, 2, 16, []int{0, 1}},
		{4, 9, 1, []int{4, 5, 6, 7, 8}},
		{0, 10, 4, []int{0, 4, 8, 9}},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, GridIter(tc.start, tc.end, tc.step), "GridIter(%d, %d, %d)", tc.start, tc.end, tc.step)
	}
}

func TestGridIterKeepsEndpoints(t *testing.T) {
	for start := 0; start < 4; start++ {
		for end := start + 1; end < start+40; end++ {
			for step := 1; step < 50; step++ {
				got := GridIter(start, end, step)
				require.NotEmpty(t, got)
				assert.Equal(t, start, got[0])
				assert.Equal(t, end-1, got[len(got)-1])
			}
		}
	}
}

func TestValidStep(t *testing.T) {
	assert.True(t, ValidStep(10, 3))
	assert.True(t, ValidStep(10, 1))
	assert.True(t, ValidStep(10, 9))
	assert.False(t, ValidStep(10, 2))
	assert.False(t, ValidStep(10, 8))
}

func TestGridIterChecked(t *testing.T) {
	got, err := GridIterChecked(0, 9, 4)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 4, 8}, got)

	_, err = GridIterChecked(0, 10, 2)
	assert.ErrorIs(t, err, ErrConfig)
}

func TestIsPow2(t *testing.T) {
	for _, n := range []int{1, 2, 4, 64, 1 << 20} {
		assert.True(t, IsPow2(n), "%d", n)
	}
	for _, n := range []int{0, -2, 3, 6, 100} {
		assert.False(t, IsPow2(n), "%d", n)
	}
}

func TestModulo(t *testing.T) {
	assert.Equal(t, 2, Modulo(-1, 3))
	assert.Equal(t, 0, Modulo(-3, 3))
	assert.Equal(t, 1, Modulo(7, 3))
}
