package dbtypes

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStringListRoundTrip(t *testing.T) {
	cases := []StringList{
		{},
		{"solid build quality"},
		{"works great", "a bit loud under load"},
		{`quotes " and \ backslashes`, "unicode: héllo, 世界", "commas, [brackets] {braces}"},
	}

	for _, original := range cases {
		value, err := original.Value()
		require.NoError(t, err)

		var decoded StringList
		require.NoError(t, decoded.Scan(value))
		assert.Equal(t, original, decoded)
	}
}

func TestStringListScanNil(t *testing.T) {
	var list StringList
	require.NoError(t, list.Scan(nil))
	assert.Equal(t, StringList{}, list)
}

func TestStringListScanBytes(t *testing.T) {
	var list StringList
	require.NoError(t, list.Scan([]byte(`["a","b"]`)))
	assert.Equal(t, StringList{"a", "b"}, list)
}

func TestStringListValueNil(t *testing.T) {
	var list StringList
	value, err := list.Value()
	require.NoError(t, err)
	assert.Equal(t, "[]", value)
}

func TestStringListScanRejectsGarbage(t *testing.T) {
	var list StringList
	require.Error(t, list.Scan("not json"))
	require.Error(t, list.Scan(42))
}
