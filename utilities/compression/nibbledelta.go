package compression

import (
	"bytes"
	"io"
)

// NibbleDeltaReader expands escape-coded runs of 4-bit deltas.
//
// Bytes other than the escape byte are copied through unchanged. The escape
// byte is followed by a seed byte, which is also copied through, and a
// big-endian 16-bit count. After that come count/2 rounded up bytes, each
// holding two signed 4-bit deltas, high nibble first. Each delta is added to
// the previous output byte to produce the next one.
type NibbleDeltaReader struct {
	stream      io.ByteReader
	escapeByte  byte
	accumulator byte
	// pendingDeltas is the number of deltas left in the current run.
	pendingDeltas int
	// lowNibble holds the second delta of a packed byte whose first delta has
	// already been returned. Only valid if hasLowNibble is set.
	lowNibble    byte
	hasLowNibble bool
	bytesRead    int
}

// NewNibbleDeltaReader returns a reader that unpacks data from `stream`.
func NewNibbleDeltaReader(stream io.ByteReader, escapeByte byte) *NibbleDeltaReader {
	return &NibbleDeltaReader{stream: stream, escapeByte: escapeByte}
}

// signExtendNibble converts a 4-bit two's complement value to a byte delta, so
// 0x8 becomes -8 and 0xf becomes -1.
func signExtendNibble(nibble byte) byte {
	return byte(int8(nibble<<4) >> 4)
}

func (reader *NibbleDeltaReader) readByte() (byte, error) {
	b, err := reader.stream.ReadByte()
	if err != nil {
		return 0, err
	}
	reader.bytesRead++
	return b, nil
}

// ReadByte returns the next unpacked byte. It returns io.EOF when the packed
// stream runs out, including in the middle of an escape sequence.
func (reader *NibbleDeltaReader) ReadByte() (byte, error) {
	for {
		if reader.hasLowNibble {
			reader.hasLowNibble = false
			return reader.applyDelta(reader.lowNibble), nil
		}

		if reader.pendingDeltas > 0 {
			packed, err := reader.readByte()
			if err != nil {
				reader.pendingDeltas = 0
				return 0, err
			}
			if reader.pendingDeltas > 1 {
				reader.lowNibble = packed & 0x0f
				reader.hasLowNibble = true
			}
			return reader.applyDelta(packed >> 4), nil
		}

		nextByte, err := reader.readByte()
		if err != nil {
			return 0, err
		}

		if nextByte != reader.escapeByte {
			reader.accumulator = nextByte
			return nextByte, nil
		}

		seed, err := reader.readByte()
		if err != nil {
			return 0, err
		}
		reader.accumulator = seed

		countHigh, errHigh := reader.readByte()
		countLow, errLow := byte(0), errHigh
		if errHigh == nil {
			countLow, errLow = reader.readByte()
		}
		if errLow == nil {
			reader.pendingDeltas = int(countHigh)<<8 | int(countLow)
		}

		// The seed is output even if the count is missing; the next call will
		// report EOF.
		return seed, nil
	}
}

func (reader *NibbleDeltaReader) applyDelta(nibble byte) byte {
	reader.pendingDeltas--
	reader.accumulator += signExtendNibble(nibble)
	return reader.accumulator
}

// Read implements [io.Reader].
func (reader *NibbleDeltaReader) Read(p []byte) (int, error) {
	numBytesRead := 0
	for numBytesRead < len(p) {
		b, err := reader.ReadByte()
		if err != nil {
			return numBytesRead, err
		}
		p[numBytesRead] = b
		numBytesRead++
	}
	return numBytesRead, nil
}

// BytesRead returns the number of packed bytes pulled from the underlying
// stream so far.
func (reader *NibbleDeltaReader) BytesRead() int {
	return reader.bytesRead
}

// UnpackNibbleDelta expands `packed` into at most `outputSize` bytes. Decoding
// stops early if `packed` runs out.
func UnpackNibbleDelta(packed []byte, outputSize int, escapeByte byte) []byte {
	output, _ := unpackNibbleDelta(packed, outputSize, escapeByte)
	return output
}

func unpackNibbleDelta(packed []byte, outputSize int, escapeByte byte) ([]byte, int) {
	if outputSize <= 0 {
		return []byte{}, 0
	}

	// No packed byte can produce more than two output bytes.
	capacity := outputSize
	if maxPossible := 2 * len(packed); capacity > maxPossible {
		capacity = maxPossible
	}

	reader := NewNibbleDeltaReader(bytes.NewReader(packed), escapeByte)
	output := make([]byte, 0, capacity)
	for len(output) < outputSize {
		b, err := reader.ReadByte()
		if err != nil {
			break
		}
		output = append(output, b)
	}
	return output, reader.BytesRead()
}
