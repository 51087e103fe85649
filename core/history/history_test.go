package history

import (
	"fmt"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
)

func ExampleRing_All() {
	ring := NewRing(3)
	for _, line := range []string{"ls", "pwd", "echo hi", "date"} {
		ring.Record(line)
	}

	for line := range ring.All() {
		fmt.Println(line)
	}

	// Output: date
	// echo hi
	// pwd
}

func collect(r *Ring) []string {
	return slices.Collect(r.All())
}

func TestRingOrder(t *testing.T) {
	cases := map[string]struct {
		recorded int
		expected []string
	}{
		"empty":   {0, nil},
		"one":     {1, []string{"c1"}},
		"partial": {4, []string{"c4", "c3", "c2", "c1"}},
		"full":    {10, []string{"c10", "c9", "c8", "c7", "c6", "c5", "c4", "c3", "c2", "c1"}},
		"wrapped": {11, []string{"c11", "c10", "c9", "c8", "c7", "c6", "c5", "c4", "c3", "c2"}},
		"twice":   {23, []string{"c23", "c22", "c21", "c20", "c19", "c18", "c17", "c16", "c15", "c14"}},
	}

	for tn, tc := range cases {
		t.Run(tn, func(t *testing.T) {
			ring := NewRing(DefaultSize)
			for i := 1; i <= tc.recorded; i++ {
				ring.Record(fmt.Sprintf("c%d", i))
			}

			assert.Equal(t, tc.expected, collect(ring))
			assert.Equal(t, len(tc.expected), ring.Len())
		})
	}
}

func TestRingAllIsRestartable(t *testing.T) {
	ring := NewRing(2)
	ring.Record("a")
	ring.Record("b")

	seq := ring.All()
	assert.Equal(t, []string{"b", "a"}, slices.Collect(seq))
	assert.Equal(t, []string{"b", "a"}, slices.Collect(seq))

	ring.Record("c")
	assert.Equal(t, []string{"c", "b"}, slices.Collect(seq))
}

func TestRingAllStopsEarly(t *testing.T) {
	ring := NewRing(5)
	for _, line := range []string{"a", "b", "c"} {
		ring.Record(line)
	}

	var seen []string
	for line := range ring.All() {
		seen = append(seen, line)
		if len(seen) == 2 {
			break
		}
	}

	assert.Equal(t, []string{"c", "b"}, seen)
}

func TestNewRingDefaultCapacity(t *testing.T) {
	assert.Equal(t, DefaultSize, NewRing(0).Cap())
	assert.Equal(t, DefaultSize, NewRing(-4).Cap())
	assert.Equal(t, 3, NewRing(3).Cap())
}
