package machine

import (
	"errors"
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func TestStack(t *testing.T) {
	var s Stack

	for i := 0; i < StackSize; i++ {
		assert.NoError(t, s.Push(uint16(0x200+2*i)))
	}
	assert.Equal(t, StackSize, s.Depth())

	err := s.Push(0x300)
	assert.True(t, errors.Is(err, ErrStackOverflow))
	assert.Equal(t, StackSize, s.Depth())

	values := s.Values()
	assert.Len(t, values, StackSize)
	assert.Equal(t, uint16(0x200), values[0])

	address, err := s.Pop()
	assert.NoError(t, err)
	assert.Equal(t, uint16(0x21E), address)

	s.Reset()
	assert.Equal(t, 0, s.Depth())
	_, err = s.Pop()
	assert.True(t, errors.Is(err, ErrStackUnderflow))
}
