package parallel

import (
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParallelize(t *testing.T) {
	tests := []struct {
		name  string
		items int
	}{
		{name: "zero items", items: 0},
		{name: "single item", items: 1},
		{name: "fewer items than cores", items: 3},
		{name: "many items", items: 10000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			visited := make([]int32, tt.items)
			Parallelize(tt.items, func(start, end int) {
				for i := start; i < end; i++ {
					atomic.AddInt32(&visited[i], 1)
				}
			})
			for i, v := range visited {
				assert.Equal(t, int32(1), v, "item %d visited %d times", i, v)
			}
		})
	}
}

func TestParallelizeWithThreshold(t *testing.T) {
	// At or below the threshold the loop runs as a single sequential range.
	var calls int32
	ParallelizeWithThreshold(10, 10, func(start, end int) {
		atomic.AddInt32(&calls, 1)
		assert.Equal(t, 0, start)
		assert.Equal(t, 10, end)
	})
	assert.Equal(t, int32(1), calls)

	// Above the threshold every item is still covered exactly once.
	visited := make([]int32, 5000)
	ParallelizeWithThreshold(len(visited), 1000, func(start, end int) {
		for i := start; i < end; i++ {
			atomic.AddInt32(&visited[i], 1)
		}
	})
	for i, v := range visited {
		assert.Equal(t, int32(1), v, "item %d visited %d times", i, v)
	}
}
