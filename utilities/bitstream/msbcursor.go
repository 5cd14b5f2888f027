package bitstream

import (
	"bytes"

	"github.com/dargueta/modunpack"
	"github.com/icza/bitio"
)

// MSBCursor reads bits most significant first, one at a time.
type MSBCursor struct {
	start  int
	source *bytes.Reader
	bits   *bitio.Reader
}

// NewMSBCursor creates a cursor that starts reading at the top bit of
// data[offset]. An offset outside the slice gives a cursor that is already
// exhausted.
func NewMSBCursor(data []byte, offset int) *MSBCursor {
	if offset < 0 || offset > len(data) {
		offset = len(data)
	}

	// bytes.Reader is an io.ByteReader so bitio uses it directly without adding
	// its own buffering; that keeps Position() exact.
	source := bytes.NewReader(data[offset:])
	return &MSBCursor{
		start:  offset,
		source: source,
		bits:   bitio.NewReader(source),
	}
}

// ReadBit returns the next bit of the stream, 0 or 1.
func (c *MSBCursor) ReadBit() (uint8, error) {
	bit, err := c.bits.ReadBool()
	if err != nil {
		return 0, modunpack.ErrExhausted
	}
	if bit {
		return 1, nil
	}
	return 0, nil
}

// ReadBits reads `n` bits, accumulating them high bit first. It's equivalent to
// `n` calls to [MSBCursor.ReadBit]. `n` must not be greater than 32.
func (c *MSBCursor) ReadBits(n uint8) (uint32, error) {
	if n > 32 {
		return 0, modunpack.ErrInvalidArgument.WithMessage("can't read more than 32 bits at once")
	}

	result := uint32(0)
	for i := uint8(0); i < n; i++ {
		bit, err := c.ReadBit()
		if err != nil {
			return 0, err
		}
		result = (result << 1) | uint32(bit)
	}
	return result, nil
}

// Position returns the index of the next byte that hasn't been touched yet.
// A byte that has only had some of its bits read counts as consumed.
func (c *MSBCursor) Position() int {
	return c.start + int(c.source.Size()) - c.source.Len()
}
