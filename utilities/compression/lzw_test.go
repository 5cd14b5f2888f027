package compression_test

import (
	"bytes"
	"testing"

	"github.com/dargueta/modunpack"
	mtesting "github.com/dargueta/modunpack/testing"
	c "github.com/dargueta/modunpack/utilities/compression"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func packLZWCodes(codes ...int) []byte {
	writer := mtesting.NewLZWCodeWriter()
	for _, code := range codes {
		writer.WriteCode(code)
	}
	return writer.Bytes()
}

func TestDecompressLZW__Basic(t *testing.T) {
	result, err := c.DecompressLZW([]byte{0x41, 0x84, 0x04, 0x04}, 0, 2)
	require.NoError(t, err)
	assert.Equal(t, []byte("AB"), result.Data)
	assert.Equal(t, 4, result.Consumed, "consumed must be rounded up to 4 bytes")
	assert.Equal(t, modunpack.OutcomeSuccess, result.Outcome)
}

type LZWTestCase struct {
	Name           string
	Codes          []int
	OutputSize     int
	ExpectedOutput []byte
	ExpectedResult modunpack.Outcome
}

func TestDecompressLZW__Codes(t *testing.T) {
	tests := []LZWTestCase{
		{"literals", []int{'x', 'y', 'z'}, 3, []byte("xyz"), modunpack.OutcomeSuccess},
		{"dictionary entry", []int{'A', 'B', 258}, 4, []byte("ABAB"), modunpack.OutcomeSuccess},
		{"self reference", []int{'A', 258}, 3, []byte("AAA"), modunpack.OutcomeSuccess},
		{"truncated string", []int{'A', 'B', 258}, 3, []byte("ABA"), modunpack.OutcomeSuccess},
		{"end code", []int{'A', 257, 'B'}, 3, []byte("A"), modunpack.OutcomePartial},
		{"code past next index", []int{'A', 'B', 300, 'C'}, 4, []byte("AB"), modunpack.OutcomePartial},
		{
			// 258 resolved to "AB" before the reset. Afterwards the dictionary
			// starts over, so the same code is a self reference to "C".
			"reset",
			[]int{'A', 'B', 256, 'C', 258},
			6,
			[]byte("ABCCC"),
			modunpack.OutcomePartial,
		},
		{"reset first", []int{256, 'Q'}, 1, []byte("Q"), modunpack.OutcomeSuccess},
		{"zero output", []int{'A'}, 0, []byte{}, modunpack.OutcomeSuccess},
	}

	for _, test := range tests {
		t.Run(
			test.Name,
			func(t *testing.T) {
				result, err := c.DecompressLZW(packLZWCodes(test.Codes...), 0, test.OutputSize)
				require.NoError(t, err)
				assert.Equal(t, test.ExpectedOutput, result.Data, "output is wrong")
				assert.Equal(t, test.ExpectedResult, result.Outcome, "outcome is wrong")
				assert.Zero(t, result.Consumed%c.LZWAlignment, "consumed isn't aligned")
			},
		)
	}
}

func TestDecompressLZW__ResetRestoresWidth(t *testing.T) {
	// 255 codes push the next index to 512, so codes become 10 bits wide. The
	// reset must bring the width back to 9 for the code after it.
	codes := make([]int, 0, 258)
	expected := make([]byte, 0, 256)
	for i := 0; i < 255; i++ {
		codes = append(codes, i)
		expected = append(expected, byte(i))
	}
	codes = append(codes, 256, 'A', 257)
	expected = append(expected, 'A')

	writer := mtesting.NewLZWCodeWriter()
	for i, code := range codes {
		if i == 255 {
			require.EqualValues(t, 10, writer.Width(), "test writer didn't widen codes")
		}
		if i == 256 {
			require.EqualValues(t, 9, writer.Width(), "test writer didn't reset width")
		}
		writer.WriteCode(code)
	}

	result, err := c.DecompressLZW(writer.Bytes(), 0, 1000)
	require.NoError(t, err)
	assert.Equal(t, expected, result.Data)
	assert.Equal(t, modunpack.OutcomePartial, result.Outcome)
}

func TestDecompressLZW__Offset(t *testing.T) {
	packed := packLZWCodes('A', 'B', 258)
	input := append([]byte{0xde, 0xad, 0xbe}, packed...)

	result, err := c.DecompressLZW(input, 3, 4)
	require.NoError(t, err)
	assert.Equal(t, []byte("ABAB"), result.Data)
	// 27 bits is 4 bytes, measured from the offset rather than the beginning of
	// the input.
	assert.Equal(t, 4, result.Consumed)
}

func TestDecompressLZW__RoundTrip(t *testing.T) {
	randomData := mtesting.CreateRandomInput(16384, t)
	tests := []struct {
		Name string
		Data []byte
	}{
		{"homogenous", bytes.Repeat([]byte{100}, 9174)},
		{"text", bytes.Repeat([]byte("all work and no play makes jack a dull boy "), 200)},
		{"single byte", []byte{7}},
		// Enough random data to fill the table, forcing at least one reset.
		{"heterogenous", randomData},
	}

	for _, test := range tests {
		t.Run(
			test.Name,
			func(t *testing.T) {
				compressed := mtesting.EncodeLZW(test.Data)
				t.Logf("compressed %d -> %d", len(test.Data), len(compressed))

				result, err := c.DecompressLZW(compressed, 0, len(test.Data))
				require.NoError(t, err)
				assert.Equal(t, modunpack.OutcomeSuccess, result.Outcome)
				assert.True(t, bytes.Equal(test.Data, result.Data), "decompressed data is wrong")
				assert.LessOrEqual(t, result.Consumed, modunpack.AlignUp(len(compressed), 4))
			},
		)
	}
}

func TestDecompressLZW__Empty(t *testing.T) {
	result, err := c.DecompressLZW([]byte{}, 0, 16)
	require.NoError(t, err)
	assert.Empty(t, result.Data)
	assert.Equal(t, 0, result.Consumed)
	assert.Equal(t, modunpack.OutcomePartial, result.Outcome)
}

func TestDecompressLZW__InvalidArguments(t *testing.T) {
	_, err := c.DecompressLZW([]byte{1, 2, 3}, 0, -1)
	assert.ErrorIs(t, err, modunpack.ErrInvalidArgument)

	_, err = c.DecompressLZW([]byte{1, 2, 3}, 4, 10)
	assert.ErrorIs(t, err, modunpack.ErrInvalidArgument)

	_, err = c.DecompressLZW([]byte{1, 2, 3}, -1, 10)
	assert.ErrorIs(t, err, modunpack.ErrInvalidArgument)
}

func TestDecompressLZW__Truncated(t *testing.T) {
	original := mtesting.CreateRandomInput(200, t)
	compressed := mtesting.EncodeLZW(original)

	mtesting.AssertTruncationSafe(
		t,
		func(input []byte, requested int) (modunpack.Result, error) {
			return c.DecompressLZW(input, 0, requested)
		},
		compressed,
		len(original),
	)
}

func TestDecompressLZW__Garbage(t *testing.T) {
	mtesting.AssertTruncationSafe(
		t,
		func(input []byte, requested int) (modunpack.Result, error) {
			return c.DecompressLZW(input, 0, requested)
		},
		mtesting.CreateRandomInput(64, t),
		4096,
	)
}
