package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewID(t *testing.T) {
	a := NewID()
	b := NewID()

	assert.Len(t, a, 26)
	assert.NotEqual(t, a, b)
	assert.True(t, ValidID(a))
}

func TestValidID(t *testing.T) {
	assert.False(t, ValidID(""))
	assert.False(t, ValidID("42"))
	assert.False(t, ValidID("not-a-ulid-not-a-ulid-xxxx"))
	assert.True(t, ValidID("01ARZ3NDEKTSV4RRFFQ69G5FAV"))
}
