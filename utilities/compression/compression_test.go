package compression_test

import (
	"bytes"
	"testing"

	mtesting "github.com/dargueta/modunpack/testing"
	c "github.com/dargueta/modunpack/utilities/compression"
	"github.com/noxer/bytewriter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGzipRoundTrip(t *testing.T) {
	testData := []struct {
		Name string
		Data []byte
	}{
		{"homogenous", bytes.Repeat([]byte{100}, 9174)},
		{"empty", []byte{}},
		{"heterogenous", mtesting.CreateRandomInput(119, t)},
	}

	for _, data := range testData {
		t.Run(
			data.Name,
			func(t *testing.T) {
				compressedBuffer := make([]byte, 10240)
				writer := bytewriter.New(compressedBuffer)

				n, err := c.WriteGzipped(data.Data, writer)
				require.NoError(t, err, "unexpected error while compressing")
				assert.EqualValues(t, len(data.Data), n)

				decompressed, err := c.ReadGzipped(bytes.NewReader(compressedBuffer))
				require.NoError(t, err, "unexpected error while decompressing")
				assert.True(t, bytes.Equal(data.Data, decompressed), "decompressed data is wrong")
			},
		)
	}
}
