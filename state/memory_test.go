package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMemory_With_DoesNotMutate(t *testing.T) {
	m := Memory{"a": 0}
	m2 := m.With(Memory{"a": 1, "b": 2})

	v, ok := m.Value("a")
	assert.True(t, ok)
	assert.Equal(t, 0, v, "original memory is untouched")

	v, ok = m2.Value("a")
	assert.True(t, ok)
	assert.Equal(t, 1, v)
	_, ok = m2.Value("b")
	assert.True(t, ok)
}

func TestMemory_Value_Missing(t *testing.T) {
	m := Memory{}
	_, ok := m.Value("nope")
	assert.False(t, ok)
}

func TestMemory_Keys_Sorted(t *testing.T) {
	m := Memory{"m1": 1, "m0": 0, "m10": 1}
	assert.Equal(t, []Addr{"m0", "m1", "m10"}, m.Keys())
}
