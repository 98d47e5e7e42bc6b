package id

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	a, b := New(), New()
	assert.NotEqual(t, a, b)
	assert.True(t, Valid(a))
	assert.Len(t, a, 36)
}

func TestShort(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"0b7c5d0e-9a4f-4c1e-8f5a-2d3e4f5a6b7c", "0b7c5d0e"},
		{"abc", "abc"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Short(tt.input))
	}
}

func TestResolve(t *testing.T) {
	ids := []string{
		"0b7c5d0e-9a4f-4c1e-8f5a-2d3e4f5a6b7c",
		"0b7c9999-9a4f-4c1e-8f5a-2d3e4f5a6b7c",
		"ffff0000-9a4f-4c1e-8f5a-2d3e4f5a6b7c",
	}

	got, err := Resolve("FFFF", ids)
	require.NoError(t, err)
	assert.Equal(t, ids[2], got)

	got, err = Resolve("0b7c5d", ids)
	require.NoError(t, err)
	assert.Equal(t, ids[0], got)
}

func TestResolve_Errors(t *testing.T) {
	ids := []string{"0b7c5d0e-1", "0b7c9999-2"}

	_, err := Resolve("0b7c", ids)
	assert.ErrorIs(t, err, ErrAmbiguous)

	_, err = Resolve("1234", ids)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = Resolve("", ids)
	assert.ErrorIs(t, err, ErrNotFound)
}
