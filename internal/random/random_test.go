package random_test

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantum-quiz/backend/internal/random"
)

func TestShuffle_PreservesElements(t *testing.T) {
	src := random.NewSeededSource(1)
	in := []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}

	out := random.Shuffle(src, in)

	require.Len(t, out, len(in))
	sorted := append([]int(nil), out...)
	sort.Ints(sorted)
	assert.Equal(t, in, sorted, "shuffle must be a permutation")
}

func TestShuffle_DoesNotMutateInput(t *testing.T) {
	src := random.NewSeededSource(2)
	in := []string{"a", "b", "c", "d"}
	orig := append([]string(nil), in...)

	random.Shuffle(src, in)

	assert.Equal(t, orig, in)
}

func TestShuffle_DeterministicWithSeed(t *testing.T) {
	in := []int{1, 2, 3, 4, 5, 6, 7, 8}

	a := random.Shuffle(random.NewSeededSource(42), in)
	b := random.Shuffle(random.NewSeededSource(42), in)

	assert.Equal(t, a, b)
}

func TestShuffle_EmptyAndSingle(t *testing.T) {
	src := random.NewSeededSource(3)

	assert.Empty(t, random.Shuffle(src, []int{}))
	assert.Equal(t, []int{7}, random.Shuffle(src, []int{7}))
}

func TestSource_Float64Range(t *testing.T) {
	src := random.NewSeededSource(4)
	for i := 0; i < 1000; i++ {
		v := src.Float64()
		assert.GreaterOrEqual(t, v, 0.0)
		assert.Less(t, v, 1.0)
	}
}
