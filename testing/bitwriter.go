package testing

// LSBWriter packs bit fields least significant bit first. It produces exactly
// what bitstream.Cursor expects to read.
type LSBWriter struct {
	data      []byte
	buffer    uint64
	bitsInBuf uint
}

// WriteBits appends the low `n` bits of `value`.
func (w *LSBWriter) WriteBits(value uint32, n uint) {
	w.buffer |= uint64(value&(1<<n-1)) << w.bitsInBuf
	w.bitsInBuf += n
	for w.bitsInBuf >= 8 {
		w.data = append(w.data, byte(w.buffer))
		w.buffer >>= 8
		w.bitsInBuf -= 8
	}
}

// WriteByte appends all 8 bits of `b`.
func (w *LSBWriter) WriteByte(b byte) error {
	w.WriteBits(uint32(b), 8)
	return nil
}

// Bytes returns everything written so far, with the last partial byte padded
// with zero bits.
func (w *LSBWriter) Bytes() []byte {
	out := make([]byte, len(w.data), len(w.data)+1)
	copy(out, w.data)
	if w.bitsInBuf > 0 {
		out = append(out, byte(w.buffer))
	}
	return out
}

// MSBWriter packs bits most significant bit first, the counterpart of
// bitstream.MSBCursor.
type MSBWriter struct {
	data      []byte
	current   byte
	bitsInCur uint
}

// WriteBit appends a single bit. Any nonzero value is treated as 1.
func (w *MSBWriter) WriteBit(bit uint8) {
	w.current <<= 1
	if bit != 0 {
		w.current |= 1
	}
	w.bitsInCur++
	if w.bitsInCur == 8 {
		w.data = append(w.data, w.current)
		w.current = 0
		w.bitsInCur = 0
	}
}

// WriteBits appends the low `n` bits of `value`, high bit first.
func (w *MSBWriter) WriteBits(value uint32, n uint) {
	for i := int(n) - 1; i >= 0; i-- {
		w.WriteBit(uint8((value >> uint(i)) & 1))
	}
}

// Bytes returns everything written so far, with the last partial byte padded
// with zero bits.
func (w *MSBWriter) Bytes() []byte {
	out := make([]byte, len(w.data), len(w.data)+1)
	copy(out, w.data)
	if w.bitsInCur > 0 {
		out = append(out, w.current<<(8-w.bitsInCur))
	}
	return out
}
