package chunks

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/dargueta/modunpack"
	"github.com/dargueta/modunpack/utilities/compression"
	"github.com/xaionaro-go/bytesextra"
)

// Sequence walks through a module image in which compressed chunks are stored
// back to back, interleaved with plain header fields.
//
// Container readers use it to pull out header values with [Sequence.ReadUint32]
// and friends, and to decode each chunk with [Sequence.Next], which leaves the
// position at the start of whatever follows the chunk.
type Sequence struct {
	image  []byte
	stream io.ReadSeeker
}

// NewSequence creates a sequence positioned at the start of `image`. The image
// isn't copied and must not be modified while the sequence is in use.
func NewSequence(image []byte) *Sequence {
	return &Sequence{
		image:  image,
		stream: bytesextra.NewReadWriteSeeker(image),
	}
}

// Offset returns the current position in the image.
func (seq *Sequence) Offset() int {
	position, err := seq.stream.Seek(0, io.SeekCurrent)
	if err != nil {
		// Seeking by 0 from the current position can't fail on an in-memory
		// stream.
		panic(err)
	}
	return int(position)
}

// Remaining returns the number of bytes between the current position and the end
// of the image.
func (seq *Sequence) Remaining() int {
	remaining := len(seq.image) - seq.Offset()
	if remaining < 0 {
		return 0
	}
	return remaining
}

// Seek moves to an absolute offset in the image.
func (seq *Sequence) Seek(offset int) error {
	if offset < 0 || offset > len(seq.image) {
		return modunpack.ErrChunkOutOfBounds.WithMessage(
			fmt.Sprintf("can't seek to %d in %d-byte image", offset, len(seq.image)))
	}
	_, err := seq.stream.Seek(int64(offset), io.SeekStart)
	return err
}

// Skip moves forward `count` bytes. Skipping past the end of the image is an
// error and doesn't move the position.
func (seq *Sequence) Skip(count int) error {
	return seq.Seek(seq.Offset() + count)
}

// ReadBytes reads exactly `count` bytes.
func (seq *Sequence) ReadBytes(count int) ([]byte, error) {
	if count < 0 || count > seq.Remaining() {
		return nil, modunpack.ErrChunkOutOfBounds.WithMessage(
			fmt.Sprintf(
				"can't read %d bytes at offset %d, only %d left",
				count,
				seq.Offset(),
				seq.Remaining(),
			)).AtOffset(seq.Offset())
	}

	buffer := make([]byte, count)
	_, err := io.ReadFull(seq.stream, buffer)
	if err != nil {
		return nil, err
	}
	return buffer, nil
}

// ReadUint8 reads a single byte.
func (seq *Sequence) ReadUint8() (uint8, error) {
	data, err := seq.ReadBytes(1)
	if err != nil {
		return 0, err
	}
	return data[0], nil
}

// ReadUint16 reads a 16-bit integer with the given byte order.
func (seq *Sequence) ReadUint16(order binary.ByteOrder) (uint16, error) {
	data, err := seq.ReadBytes(2)
	if err != nil {
		return 0, err
	}
	return order.Uint16(data), nil
}

// ReadUint32 reads a 32-bit integer with the given byte order.
func (seq *Sequence) ReadUint32(order binary.ByteOrder) (uint32, error) {
	data, err := seq.ReadBytes(4)
	if err != nil {
		return 0, err
	}
	return order.Uint32(data), nil
}

// Next decodes the chunk at the current position and moves past it.
//
// `declaredLength` is the packed size recorded by the container, or 0 if it
// doesn't record one. When it's nonzero the decoder isn't allowed to look past
// it. Afterwards the position advances by the decoder's Consumed count for
// methods whose chunks are padded (see [compression.Method.Aligned]), or by
// `declaredLength` for the rest. Either way the position never goes past the end
// of the image.
//
// A decoding error leaves the position unchanged.
func (seq *Sequence) Next(
	method compression.Method, params modunpack.Params, declaredLength int,
) (modunpack.Result, error) {
	start := seq.Offset()

	if declaredLength < 0 {
		return modunpack.Result{}, modunpack.ErrInvalidArgument.WithMessage(
			fmt.Sprintf("declared length must be non-negative, got %d", declaredLength))
	}
	if declaredLength > seq.Remaining() {
		return modunpack.Result{}, modunpack.ErrChunkOutOfBounds.WithMessage(
			fmt.Sprintf(
				"%d-byte chunk at offset %d extends past end of %d-byte image",
				declaredLength,
				start,
				len(seq.image),
			)).AtOffset(start)
	}

	input := seq.image
	if declaredLength > 0 {
		input = seq.image[:start+declaredLength]
	}

	result, err := compression.Decompress(method, input, start, params)
	if err != nil {
		return result, err
	}

	advance := declaredLength
	if method.Aligned() || declaredLength == 0 {
		advance = result.Consumed
	}
	if advance > seq.Remaining() {
		advance = seq.Remaining()
	}

	return result, seq.Skip(advance)
}
