package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRound2(t *testing.T) {
	assert.Equal(t, 5.9, Round2(5.9000001))
	assert.Equal(t, 7.67, Round2(23.0/3.0))
	assert.Equal(t, 0.0, Round2(0))
	assert.Equal(t, -1.23, Round2(-1.234))
}

func TestNewULID(t *testing.T) {
	a := NewULID()
	b := NewULID()
	assert.Len(t, a, 26)
	assert.NotEqual(t, a, b)
}
