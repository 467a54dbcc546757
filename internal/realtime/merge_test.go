// internal/realtime/merge_test.go

package realtime

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMergePrependsPushedNewestFirst(t *testing.T) {
	existing := []int{5, 4, 3}
	pushed := []int{6, 7} // 7 arrived last, so it is newest

	merged := Merge(existing, pushed)
	assert.Equal(t, []int{7, 6, 5, 4, 3}, merged)
}

func TestMergeDoesNotDeduplicate(t *testing.T) {
	// A row fetched over REST and then pushed again shows up twice.
	// That is the contract: delivery is at-least-once for the client.
	existing := []int{5, 4, 3}
	pushed := []int{5}

	merged := Merge(existing, pushed)
	assert.Equal(t, []int{5, 5, 4, 3}, merged)
}

func TestMergeEmptyInputs(t *testing.T) {
	assert.Equal(t, []int{1, 2}, Merge([]int{1, 2}, nil))
	assert.Equal(t, []int{1, 2}, Merge(nil, []int{2, 1}))
	assert.Empty(t, Merge[int](nil, nil))
}

func TestMergeDoesNotMutateInputs(t *testing.T) {
	existing := []string{"b", "a"}
	pushed := []string{"c"}

	_ = Merge(existing, pushed)

	assert.Equal(t, []string{"b", "a"}, existing)
	assert.Equal(t, []string{"c"}, pushed)
}
