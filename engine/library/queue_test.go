package library

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQueueIsFIFOAcrossResizes(t *testing.T) {
	q := NewQueue[int](2)
	for i := 0; i < 3; i++ {
		q.Push(i)
	}
	v, ok := q.Pop()
	assert.True(t, ok)
	assert.Equal(t, 0, v)
	for i := 3; i < 10; i++ {
		q.Push(i)
	}
	assert.Equal(t, 9, q.Len())
	for want := 1; want < 10; want++ {
		v, ok := q.Pop()
		assert.True(t, ok)
		assert.Equal(t, want, v)
	}
	_, ok = q.Pop()
	assert.False(t, ok)
	assert.Equal(t, 0, q.Len())
}

func TestQueueZeroSize(t *testing.T) {
	q := NewQueue[string](0)
	q.Push("a")
	q.Push("b")
	v, _ := q.Pop()
	assert.Equal(t, "a", v)
}
