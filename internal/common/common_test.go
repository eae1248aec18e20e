package common

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShortName(t *testing.T) {
	assert.Equal(t, "containers.Dense2D", ShortName("slicetrait/examples/containers", "Dense2D"))
	assert.Equal(t, "int", ShortName("", "int"))
}

func TestSlices(t *testing.T) {
	s := []string{" a", "b "}

	assert.Equal(t, []string{"a", "b"}, Map(s, strings.TrimSpace))
	assert.True(t, IsMultiple(s))
	assert.False(t, IsSingle(s))
	assert.True(t, IsEmpty([]int(nil)))

	first, ok := First(s)
	assert.True(t, ok)
	assert.Equal(t, " a", first)

	_, ok = First([]int{})
	assert.False(t, ok)
}
