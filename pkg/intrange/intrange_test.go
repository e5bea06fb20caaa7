package intrange

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(n int) *int { return &n }

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want Range
	}{
		{"5..10", Range{Start: ptr(5), End: ptr(10)}},
		{"1..1", Range{Start: ptr(1), End: ptr(1)}},
		{"0..=100", Range{Start: ptr(0), End: ptr(100), EndInclusive: true}},
		{"..=10", Range{End: ptr(10), EndInclusive: true}},
		{"..10", Range{End: ptr(10)}},
		{"5..", Range{Start: ptr(5)}},
		{"..", Range{}},
		{"10", Range{Start: ptr(10), End: ptr(10), EndInclusive: true}},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := Parse(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseErrors(t *testing.T) {
	_, err := Parse("-10..10")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid start value")

	_, err = Parse("10..-10")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid end value")

	_, err = Parse("abc")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid start value")

	_, err = Parse("1..x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid end value")
}

func TestContains(t *testing.T) {
	r, err := Parse("5..10")
	require.NoError(t, err)
	assert.False(t, r.Contains(4))
	assert.True(t, r.Contains(5))
	assert.True(t, r.Contains(9))
	assert.False(t, r.Contains(10))

	r, err = Parse("0..=100")
	require.NoError(t, err)
	assert.True(t, r.Contains(0))
	assert.True(t, r.Contains(100))
	assert.False(t, r.Contains(101))

	r, err = Parse("10")
	require.NoError(t, err)
	assert.True(t, r.Contains(10))
	assert.False(t, r.Contains(9))
	assert.False(t, r.Contains(11))
}

func TestContainsUnbounded(t *testing.T) {
	r, err := Parse("..")
	require.NoError(t, err)
	assert.True(t, r.Contains(0))
	assert.True(t, r.Contains(1<<30))

	r, err = Parse("5..")
	require.NoError(t, err)
	assert.False(t, r.Contains(4))
	assert.True(t, r.Contains(5))
	assert.True(t, r.Contains(1<<30))

	r, err = Parse("..10")
	require.NoError(t, err)
	assert.True(t, r.Contains(1))
	assert.True(t, r.Contains(9))
	assert.False(t, r.Contains(10))

	r, err = Parse("..=10")
	require.NoError(t, err)
	assert.True(t, r.Contains(10))
	assert.False(t, r.Contains(11))
}

func TestString(t *testing.T) {
	for _, s := range []string{"5..10", "0..=100", "..=10", "5..", ".."} {
		r, err := Parse(s)
		require.NoError(t, err)
		assert.Equal(t, s, r.String())
	}
}
