package chunks_test

import (
	"github.com/dargueta/modunpack/chunks"
	c "github.com/dargueta/modunpack/utilities/compression"
)

// lzwChunk decodes to "AB" when two bytes are requested, and is exactly one
// aligned unit long.
var lzwChunk = []byte{0x41, 0x84, 0x04, 0x04}

// nibbleChunk decodes to 05 10 13 1a with 0xfe as the escape byte.
var nibbleChunk = []byte{0x05, 0xfe, 0x10, 0x00, 0x02, 0x37}

// buildImage returns an image holding an LZW chunk, a 32-bit big-endian header
// field, a nibble-delta chunk, and a trailing marker byte, along with a manifest
// describing the two chunks.
func buildImage() ([]byte, []chunks.Chunk) {
	image := make([]byte, 0, 15)
	image = append(image, lzwChunk...)
	image = append(image, 0xde, 0xad, 0xbe, 0xef)
	image = append(image, nibbleChunk...)
	image = append(image, 0xaa)

	manifest := []chunks.Chunk{
		{
			Name:             "patterns",
			Method:           c.MethodLZW,
			Offset:           0,
			CompressedLength: 4,
			DecompressedSize: 2,
		},
		{
			Name:             "sample",
			Method:           c.MethodNibbleDelta,
			Offset:           8,
			CompressedLength: 6,
			DecompressedSize: 4,
			EscapeByte:       0xfe,
		},
	}
	return image, manifest
}
