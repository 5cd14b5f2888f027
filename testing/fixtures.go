package testing

import (
	"crypto/rand"
	"fmt"
	"testing"

	"github.com/dargueta/modunpack"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// DecodeFunc decodes a chunk starting at the beginning of `input`, producing at
// most `requested` bytes.
type DecodeFunc func(input []byte, requested int) (modunpack.Result, error)

// CreateRandomInput returns `size` random bytes. It is guaranteed to either
// return a valid slice or fail the test and abort.
func CreateRandomInput(size int, t *testing.T) []byte {
	data := make([]byte, size)
	_, err := rand.Read(data)
	require.NoErrorf(t, err, "failed to generate %d random bytes", size)
	return data
}

// AssertTruncationSafe runs `decode` on every prefix of `input`, from empty to
// the full slice, and checks that each call terminates without panicking,
// produces no more than `requested` bytes, and never claims to have consumed
// more than the 4-byte aligned length of the prefix.
//
// The prefixes are copied into slices with no spare capacity so that a read
// past the end panics instead of silently reading the rest of `input`.
func AssertTruncationSafe(t *testing.T, decode DecodeFunc, input []byte, requested int) {
	for cut := 0; cut <= len(input); cut++ {
		truncated := make([]byte, cut)
		copy(truncated, input[:cut])

		t.Run(
			fmt.Sprintf("cut_%d", cut),
			func(t *testing.T) {
				var result modunpack.Result
				var err error
				require.NotPanics(t, func() { result, err = decode(truncated, requested) })

				if err != nil {
					assert.Empty(t, result.Data, "failed decode must not produce data")
					return
				}
				assert.LessOrEqual(t, len(result.Data), requested, "decoder overran output")
				assert.GreaterOrEqual(t, result.Consumed, 0)
				assert.LessOrEqual(
					t,
					result.Consumed,
					modunpack.AlignUp(cut, 4)+4,
					"consumed count is past the end of the input",
				)
				if len(result.Data) < requested {
					assert.Equal(t, modunpack.OutcomePartial, result.Outcome)
				}
			},
		)
	}
}
