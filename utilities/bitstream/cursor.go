package bitstream

import (
	"fmt"

	"github.com/dargueta/modunpack"
)

// MaxCursorReadBits is the widest single read supported by [Cursor.ReadBits].
// The accumulator is 32 bits wide and may hold up to 7 leftover bits when a
// read begins.
const MaxCursorReadBits = 24

// Cursor is an LSB-first bit reader over a borrowed byte slice.
type Cursor struct {
	data []byte
	// pos is the index of the next byte to be pulled into the accumulator.
	pos int
	// The low `available` bits of buffer hold bits read from data but not yet
	// handed out.
	buffer    uint32
	available uint
}

// NewCursor creates a cursor that starts reading at data[offset]. An offset
// outside the slice gives a cursor that is already exhausted.
func NewCursor(data []byte, offset int) *Cursor {
	if offset < 0 || offset > len(data) {
		offset = len(data)
	}
	return &Cursor{data: data, pos: offset}
}

// ReadBits removes the low `n` bits from the stream and returns them.
//
// If there aren't enough bytes left to satisfy the read, it returns
// [modunpack.ErrExhausted]. The cursor's position still reflects every byte it
// pulled in while trying.
func (c *Cursor) ReadBits(n uint) (uint32, error) {
	if n > MaxCursorReadBits {
		return 0, modunpack.ErrInvalidArgument.WithMessage(
			fmt.Sprintf("can't read %d bits at once, max is %d", n, MaxCursorReadBits))
	}

	for c.available < n {
		if c.pos >= len(c.data) {
			return 0, modunpack.ErrExhausted
		}
		c.buffer |= uint32(c.data[c.pos]) << c.available
		c.pos++
		c.available += 8
	}

	value := c.buffer & (1<<n - 1)
	c.buffer >>= n
	c.available -= n
	return value, nil
}

// Position returns the index of the next byte that hasn't been pulled into the
// accumulator yet. Partially used bytes count as consumed.
func (c *Cursor) Position() int {
	return c.pos
}

// BitsAvailable returns the number of bits held in the accumulator.
func (c *Cursor) BitsAvailable() uint {
	return c.available
}

// Exhausted returns true if there are no more bits to read at all.
func (c *Cursor) Exhausted() bool {
	return c.available == 0 && c.pos >= len(c.data)
}
