package hd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewChildNumber(t *testing.T) {
	cn, err := NewChildNumber(44, true)
	require.NoError(t, err)
	assert.Equal(t, uint32(44), cn.Index())
	assert.True(t, cn.IsHardened())
	assert.Equal(t, uint32(44)|HardenedBit, cn.Value())
	assert.Equal(t, "44'", cn.String())

	cn, err = NewChildNumber(5, false)
	require.NoError(t, err)
	assert.Equal(t, uint32(5), cn.Value())
	assert.Equal(t, "5", cn.String())

	_, err = NewChildNumber(HardenedBit|1, false)
	require.Error(t, err)
}

func TestChildNumberPackedRoundTrip(t *testing.T) {
	for _, v := range []uint32{0, 5, 0x7FFFFFFF, HardenedBit, HardenedBit | 44, HardenedBit | 0x7FFFFFFF} {
		cn := ChildNumberFromUint32(v)
		assert.Equal(t, v, cn.Value())
		assert.Equal(t, v&HardenedBit != 0, cn.IsHardened())
		assert.Equal(t, v&^HardenedBit, cn.Index())

		rebuilt, err := NewChildNumber(cn.Index(), cn.IsHardened())
		require.NoError(t, err)
		assert.Equal(t, cn, rebuilt)
	}
}

func TestParsePath(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"m/44'/0'/1", "m/44'/0'/1"},
		{"44'/0'/1", "m/44'/0'/1"},
		{"m/44h/0H/1", "m/44'/0'/1"},
		{"m", "m"},
		{"", "m"},
		{"m/0/2147483647'", "m/0/2147483647'"},
	}

	for _, tt := range tests {
		parsed, err := ParsePath(tt.path)
		require.NoError(t, err, tt.path)
		assert.Equal(t, tt.want, FormatPath(parsed), tt.path)
	}
}

func TestParsePathInvalid(t *testing.T) {
	for _, path := range []string{"m/abc", "m/-1", "m/4294967296", "m/2147483648"} {
		_, err := ParsePath(path)
		require.Error(t, err, path)
	}
}
