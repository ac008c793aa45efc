package cobs

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestEncodeDecodeKnownFrames(t *testing.T) {
	cases := [][]byte{
		{},
		{0x01},
		{0x00},
		{0x11, 0x22, 0x00, 0x33},
		bytes.Repeat([]byte{0xAA}, 300), // forces a 0xFF-length run split
	}

	for _, c := range cases {
		encoded := Encode(c)
		assert.NotContains(t, encoded[:len(encoded)-1], byte(0x00), "encoded body must never contain the delimiter")

		decoded, err := Decode(encoded)
		require.NoError(t, err)
		assert.Equal(t, c, decoded)
	}
}

// Round-trip property: decode(encode(x)) == x for any byte slice.
func TestEncodeDecodeRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		data := rapid.SliceOf(rapid.Byte()).Draw(t, "data")

		encoded := Encode(data)
		decoded, err := Decode(encoded)

		require.NoError(t, err)
		assert.Equal(t, data, decoded)
	})
}

func TestDecodeRejectsMissingDelimiter(t *testing.T) {
	_, err := Decode([]byte{0x01, 0x02})
	assert.Error(t, err)
}

func TestEndpointFrameRoundTrip(t *testing.T) {
	f := EndpointFrame{Endpoint: 7, Payload: []byte{0x10, 0x00, 0x20}}
	decoded, err := DecodeEndpointFrame(f.Encode())
	require.NoError(t, err)
	assert.Equal(t, f, decoded)
}
